package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zooyer/dxfengine"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "加载文件并输出概要",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd, doc)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, doc *dxf.Document) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "版本: %s (%s)\n", doc.Version(), doc.Header.String("$ACADVER", ""))
	fmt.Fprintf(out, "代码页: %s\n", doc.Header.String("$DWGCODEPAGE", dxf.DefaultCodepage))
	fmt.Fprintf(out, "头变量: %d\n", doc.Header.Len())
	fmt.Fprintf(out, "句柄: %d (下一个 %s)\n", doc.DB.Len(), doc.DB.NextHandle())
	fmt.Fprintf(out, "块: %d, 实体: %d, 对象: %d\n", len(doc.Blocks), len(doc.Entities), len(doc.Objects))

	// 按实体类型统计
	var (
		counts = make(map[string]int)
		types  []string
	)
	for _, e := range doc.Entities {
		if counts[e.Type()] == 0 {
			types = append(types, e.Type())
		}
		counts[e.Type()]++
	}
	sort.Strings(types)
	for _, typ := range types {
		fmt.Fprintf(out, "  %-12s %d\n", typ, counts[typ])
	}
}
