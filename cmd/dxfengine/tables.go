package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zooyer/dxfengine"
	"github.com/zooyer/dxfengine/tables"
)

type tableInfo struct {
	Name       string   `yaml:"name"`
	Collection string   `yaml:"collection"`
	Handle     string   `yaml:"handle"`
	Count      int      `yaml:"count"`
	Entries    []string `yaml:"entries,omitempty"`
}

func collectTables(doc *dxf.Document) []tableInfo {
	var infos []tableInfo
	for _, t := range doc.Tables.Tables() {
		info := tableInfo{
			Name:       t.Name(),
			Collection: tables.CollectionName(t.Name()),
			Handle:     t.Head().Handle(),
			Count:      t.Len(),
		}
		for _, e := range t.Entries() {
			info.Entries = append(info.Entries, e.Name())
		}
		infos = append(infos, info)
	}
	return infos
}

func newTablesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables FILE",
		Short: "列出符号表和表项",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			infos := collectTables(doc)
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err = enc.Encode(infos); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				for _, info := range infos {
					fmt.Fprintf(out, "%-12s %-4s %d\n", info.Name, info.Handle, info.Count)
					for _, name := range info.Entries {
						fmt.Fprintf(out, "    %s\n", name)
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (text|yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "输出格式: text|yaml")
	return cmd
}
