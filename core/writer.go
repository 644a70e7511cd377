package core

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Version DXF 版本号，即 $ACADVER 的值
type Version string

const (
	R12   Version = "AC1009"
	R2000 Version = "AC1015"
	R2004 Version = "AC1018"
	R2007 Version = "AC1021"
	R2010 Version = "AC1024"
	R2013 Version = "AC1027"
	R2018 Version = "AC1032"

	Latest = R2018
)

var releases = map[string]Version{
	"R12":   R12,
	"R2000": R2000,
	"R2004": R2004,
	"R2007": R2007,
	"R2010": R2010,
	"R2013": R2013,
	"R2018": R2018,
}

// ParseVersion 同时接受 "R2000" 和 "AC1015" 两种写法
func ParseVersion(s string) (Version, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if v, ok := releases[s]; ok {
		return v, nil
	}
	for _, v := range releases {
		if string(v) == s {
			return v, nil
		}
	}
	return "", NewError(ErrCodeValue, "unknown DXF version %q", s)
}

// Modern R2000 及以后的版本，有子类标记和 BLOCK_RECORD 表
func (v Version) Modern() bool {
	return v >= R2000
}

func (v Version) String() string {
	for name, ver := range releases {
		if ver == v {
			return name
		}
	}
	return string(v)
}

// TagWriter 序列化目标
type TagWriter interface {
	WriteTag(code int, value string)
	Version() Version
}

// WriteTags 写出标签，坐标标签会被展开
func WriteTags(w TagWriter, tags ...Tag) {
	for _, t := range tags {
		if t.Dim != 0 {
			for _, e := range t.Expand() {
				w.WriteTag(e.Code, e.Value)
			}
			continue
		}
		w.WriteTag(t.Code, t.Value)
	}
}

// Writer ASCII DXF 输出，错误在 Flush 时返回
type Writer struct {
	w       *bufio.Writer
	version Version
	err     error
}

func NewWriter(w io.Writer, version Version) *Writer {
	return &Writer{w: bufio.NewWriter(w), version: version}
}

func (w *Writer) WriteTag(code int, value string) {
	if w.err != nil {
		return
	}
	// 组码右对齐 3 位，与 AutoCAD 输出一致
	c := strconv.Itoa(code)
	if len(c) < 3 {
		c = strings.Repeat(" ", 3-len(c)) + c
	}
	_, w.err = w.w.WriteString(c + "\n" + value + "\n")
}

func (w *Writer) Version() Version {
	return w.version
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Collector 把输出收集到内存，测试和复制时使用
type Collector struct {
	Tags Tags
	Ver  Version
}

func NewCollector(version Version) *Collector {
	return &Collector{Ver: version}
}

func (c *Collector) WriteTag(code int, value string) {
	c.Tags = append(c.Tags, Tag{Code: code, Value: value})
}

func (c *Collector) Version() Version {
	return c.Ver
}
