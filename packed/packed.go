// Package packed 实体中批量数据的紧凑存储：列表、数值数组、有序字典和顶点缓冲区。
// 每种容器都能与扁平标签序列相互转换。
package packed

import (
	"iter"
	"slices"
	"strconv"

	"github.com/zooyer/dxfengine/core"
)

// Container 打包容器的公共能力
type Container interface {
	Tags() iter.Seq[core.Tag]
	Clone() Container
}

// TagList 同一组码的字符串值，保持插入顺序
type TagList struct {
	Code   int
	Values []string
}

func NewTagList(code int, values ...string) *TagList {
	return &TagList{Code: code, Values: slices.Clone(values)}
}

// TagListFromTags 收集组码为 code 的全部值
func TagListFromTags(tags core.Tags, code int) *TagList {
	l := &TagList{Code: code}
	for _, t := range tags {
		if t.Code == code {
			l.Values = append(l.Values, t.Value)
		}
	}
	return l
}

func (l *TagList) Len() int { return len(l.Values) }

func (l *TagList) Clear() { l.Values = l.Values[:0] }

func (l *TagList) Tags() iter.Seq[core.Tag] {
	return func(yield func(core.Tag) bool) {
		for _, v := range l.Values {
			if !yield(core.StrTag(l.Code, v)) {
				return
			}
		}
	}
}

func (l *TagList) Clone() Container {
	return &TagList{Code: l.Code, Values: slices.Clone(l.Values)}
}

// Number TagArray 支持的元素类型
type Number interface {
	int16 | int32 | int64 | float64
}

// TagArray 固定数值类型的数组
type TagArray[T Number] struct {
	Code   int
	Values []T
}

func NewTagArray[T Number](code int, values ...T) *TagArray[T] {
	return &TagArray[T]{Code: code, Values: slices.Clone(values)}
}

func TagArrayFromTags[T Number](tags core.Tags, code int) *TagArray[T] {
	a := &TagArray[T]{Code: code}
	for _, t := range tags {
		if t.Code == code {
			a.Values = append(a.Values, parseNumber[T](t))
		}
	}
	return a
}

func (a *TagArray[T]) Len() int { return len(a.Values) }

// SetValues 整体替换
func (a *TagArray[T]) SetValues(values []T) {
	a.Values = append(a.Values[:0], values...)
}

func (a *TagArray[T]) Clear() { a.Values = a.Values[:0] }

func (a *TagArray[T]) Tags() iter.Seq[core.Tag] {
	return func(yield func(core.Tag) bool) {
		for _, v := range a.Values {
			if !yield(core.StrTag(a.Code, formatNumber(v))) {
				return
			}
		}
	}
}

func (a *TagArray[T]) Clone() Container {
	return &TagArray[T]{Code: a.Code, Values: slices.Clone(a.Values)}
}

func parseNumber[T Number](t core.Tag) T {
	var zero T
	switch any(zero).(type) {
	case float64:
		return T(t.AsFloat())
	default:
		return T(t.AsInt())
	}
}

func formatNumber[T Number](v T) string {
	switch x := any(v).(type) {
	case float64:
		return core.FormatFloat(x)
	case int16:
		return strconv.Itoa(int(x))
	case int32:
		return strconv.Itoa(int(x))
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return strconv.FormatInt(int64(v), 10)
}
