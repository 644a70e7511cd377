// dxfengine 检查、列出和重写 DXF 文件
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
