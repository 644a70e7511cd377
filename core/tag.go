package core

import (
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对
// 编译后的坐标标签 (10/20/30) 合并为一个 Tag，Dim 为 2 或 3，坐标存放在 Point 中
type Tag struct {
	Code  int
	Value string
	Point Point
	Dim   int
}

// NoneTag 表示"没有标签"
var NoneTag = Tag{Code: -1}

func StrTag(code int, value string) Tag {
	return Tag{Code: code, Value: value}
}

func IntTag(code int, value int) Tag {
	return Tag{Code: code, Value: strconv.Itoa(value)}
}

func FloatTag(code int, value float64) Tag {
	return Tag{Code: code, Value: FormatFloat(value)}
}

// VertexTag 创建一个编译后的坐标标签，dim 只能是 2 或 3
func VertexTag(code int, p Point, dim int) Tag {
	return Tag{Code: code, Point: p, Dim: dim}
}

// FormatFloat DXF 浮点数输出格式
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// AsFloat 将值转换为 float64
func (t Tag) AsFloat() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	return f
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, err := strconv.Atoi(strings.TrimSpace(t.Value))
	if err != nil {
		// 部分软件会把整数写成 "1.0"
		return int(t.AsFloat())
	}
	return i
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// Is 比较组码和值，结构标记不区分大小写
func (t Tag) Is(code int, value string) bool {
	return t.Code == code && t.Dim == 0 && strings.EqualFold(strings.TrimSpace(t.Value), value)
}

func (t Tag) IsVertex() bool {
	return t.Dim != 0
}

// Expand 把坐标标签还原为扁平标签
func (t Tag) Expand() []Tag {
	if t.Dim == 0 {
		return []Tag{t}
	}
	tags := []Tag{FloatTag(t.Code, t.Point.X), FloatTag(t.Code+10, t.Point.Y)}
	if t.Dim == 3 {
		tags = append(tags, FloatTag(t.Code+20, t.Point.Z))
	}
	return tags
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// IsPointCode 判断组码是否为坐标的 X 分量
func IsPointCode(code int) bool {
	return (code >= 10 && code <= 18) || (code >= 110 && code <= 112) || (code >= 210 && code <= 213) ||
		(code >= 1010 && code <= 1013)
}

// Tags 扁平标签序列
type Tags []Tag

// Find 返回第一个组码为 code 的标签下标，没有时返回 -1
func (ts Tags) Find(code int) int {
	for i, t := range ts {
		if t.Code == code {
			return i
		}
	}
	return -1
}

// Value 返回第一个组码为 code 的值
func (ts Tags) Value(code int) (string, bool) {
	if i := ts.Find(code); i >= 0 {
		return ts[i].Value, true
	}
	return "", false
}

// Flatten 展开所有坐标标签
func (ts Tags) Flatten() Tags {
	out := make(Tags, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Expand()...)
	}
	return out
}

func (ts Tags) Clone() Tags {
	if ts == nil {
		return nil
	}
	return append(Tags(nil), ts...)
}

// Records 在每个 (0, X) 标签处切分，每段以结构标签开头。
// 第一个结构标签之前的标签被丢弃
func (ts Tags) Records() []Tags {
	var out []Tags
	start := -1
	for i, t := range ts {
		if t.Code != 0 {
			continue
		}
		if start >= 0 {
			out = append(out, ts[start:i])
		}
		start = i
	}
	if start >= 0 {
		out = append(out, ts[start:])
	}
	return out
}
