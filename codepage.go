package dxf

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/zooyer/dxfengine/core"
)

// DefaultCodepage 新建文档的 $DWGCODEPAGE
const DefaultCodepage = "ANSI_1252"

var codepages = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
}

// Codepage $DWGCODEPAGE 对应的编码，未知代码页返回 nil
func Codepage(name string) encoding.Encoding {
	return codepages[strings.ToUpper(strings.TrimSpace(name))]
}

// sniffHeader 在解码之前读出 $ACADVER 和 $DWGCODEPAGE，读到 HEADER 段结束为止
func sniffHeader(data []byte) (version core.Version, codepage string) {
	sc := core.NewScanner(bytes.NewReader(data))
	var name string
	for sc.Next() {
		t := sc.Current()
		switch {
		case t.Is(0, "ENDSEC"):
			return
		case t.Code == core.HeaderVarMarker:
			name = strings.ToUpper(t.Value)
			continue
		case name == "$ACADVER":
			version = core.Version(strings.ToUpper(t.Value))
		case name == "$DWGCODEPAGE":
			codepage = t.Value
		}
		name = ""
		if version != "" && codepage != "" {
			return
		}
	}
	return
}

// detectEncoding R2007 以后的文件总是 UTF-8；之前的版本按 $DWGCODEPAGE 解码，
// 内容本身是合法 UTF-8 时不解码
func detectEncoding(data []byte) encoding.Encoding {
	version, codepage := sniffHeader(data)
	if version >= core.R2007 || utf8.Valid(data) {
		return nil
	}
	return Codepage(codepage)
}
