package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zooyer/dxfengine"
	"github.com/zooyer/dxfengine/config"
)

const defaultConfig = "dxfengine.toml"

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "dxfengine",
		Short:        "检查、列出和重写 DXF 文件",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			if verbose {
				level = log.DebugLevel
			}

			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "TOML 配置文件")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newTablesCmd())
	root.AddCommand(newAttribsCmd())
	root.AddCommand(newRoundtripCmd())

	return root
}

// openDocument 按配置加载文件
func openDocument(ctx context.Context, filename string) (*dxf.Document, error) {
	var (
		cfg    = configFromContext(ctx)
		logger = loggerFromContext(ctx)
		p      = newProgress(logger)
	)
	doc, err := dxf.Open(filename, &dxf.Options{
		Logger:        logger,
		FilterOutside: cfg.Load.FilterOutside,
	})
	if err != nil {
		return nil, err
	}
	p.done("loaded " + filename)
	return doc, nil
}
