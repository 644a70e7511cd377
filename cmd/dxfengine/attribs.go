package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zooyer/golib/xmath"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/dxfengine"
	"github.com/zooyer/dxfengine/entities"
)

// findInserts 模型空间中带属性的块引用，按 X 坐标从左到右排序，
// X 相差不超过 epsilon 的从上到下
func findInserts(doc *dxf.Document, block string, epsilon float64) []*entities.Insert {
	var inserts []*entities.Insert
	for _, e := range doc.Modelspace() {
		ins, ok := e.(*entities.Insert)
		if !ok || len(ins.Attributes) == 0 {
			continue
		}
		if block != "" && !strings.EqualFold(ins.BlockName, block) {
			continue
		}
		inserts = append(inserts, ins)
	}
	sort.SliceStable(inserts, func(i, j int) bool {
		a, b := inserts[i].InsertionPoint, inserts[j].InsertionPoint
		if xmath.Equal(a.X, b.X, epsilon) {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
	return inserts
}

// attribTags 所有出现过的属性标记，保持第一次出现的顺序
func attribTags(inserts []*entities.Insert) []string {
	var tags []string
	for _, ins := range inserts {
		for _, a := range ins.Attributes {
			if !slices.Contains(tags, a.Tag) {
				tags = append(tags, a.Tag)
			}
		}
	}
	return tags
}

func newAttribsCmd() *cobra.Command {
	var (
		block   string
		format  string
		output  string
		epsilon float64
	)

	cmd := &cobra.Command{
		Use:   "attribs FILE",
		Short: "导出块引用的属性",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var (
				inserts = findInserts(doc, block, epsilon)
				tags    = attribTags(inserts)
				out     bytes.Buffer
			)
			loggerFromContext(cmd.Context()).Debug("found inserts", "count", len(inserts), "block", block)

			switch strings.ToLower(format) {
			case "csv":
				w := csv.NewWriter(&out)
				if err = w.Write(append([]string{"handle", "block"}, tags...)); err != nil {
					return err
				}
				for _, ins := range inserts {
					row := []string{ins.Handle(), ins.BlockName}
					for _, tag := range tags {
						row = append(row, ins.Attr(tag))
					}
					if err = w.Write(row); err != nil {
						return err
					}
				}
				w.Flush()
				if err = w.Error(); err != nil {
					return err
				}
			case "text":
				for i, ins := range inserts {
					fmt.Fprintf(&out, "[%s.%02d] %s (%.2f,%.2f)\n", ins.BlockName, i+1, ins.Handle(),
						ins.InsertionPoint.X, ins.InsertionPoint.Y)
					attrs := ins.Attrs()
					for _, tag := range tags {
						if v, ok := attrs[tag]; ok {
							fmt.Fprintf(&out, "    %s=%s\n", tag, v)
						}
					}
				}
			default:
				return fmt.Errorf("unknown format %q (text|csv)", format)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out.Bytes())
				return err
			}
			// 追加写入，多张图纸可以汇总到同一个文件
			return xos.AppendFile(output, out.Bytes(), 0644)
		},
	}

	cmd.Flags().StringVarP(&block, "block", "b", "", "只导出该块名的引用")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "输出格式: text|csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "追加写入该文件，默认输出到标准输出")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 1e-6, "X 坐标相差不超过该值时按 Y 从上到下排序")
	return cmd
}
