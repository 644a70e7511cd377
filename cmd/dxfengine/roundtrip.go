package main

import (
	"github.com/spf13/cobra"

	"github.com/zooyer/dxfengine/core"
)

func newRoundtripCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "roundtrip IN OUT",
		Short: "加载后重新写出，OUT 以 .gz 或 .dxfz 结尾时压缩",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ctx    = cmd.Context()
				cfg    = configFromContext(ctx)
				logger = loggerFromContext(ctx)
			)

			doc, err := openDocument(ctx, args[0])
			if err != nil {
				return err
			}

			target, err := cfg.Version()
			if err != nil {
				return err
			}
			if version != "" {
				if target, err = core.ParseVersion(version); err != nil {
					return err
				}
			}
			if target != "" && target != doc.Version() {
				logger.Info("convert version", "from", doc.Version(), "to", target)
				doc.SetVersion(target)
			}

			p := newProgress(logger)
			if err = doc.SaveFile(args[1], cfg.Save.Lock); err != nil {
				return err
			}
			p.done("saved " + args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "输出版本，例如 R2000 或 AC1009")
	return cmd
}
