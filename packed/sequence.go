package packed

import (
	"iter"
	"slices"

	"github.com/zooyer/dxfengine/core"
)

type item struct {
	tag    core.Tag
	packed Container
}

// Sequence 标签序列，其中一段段分散的标签可以被一个打包容器取代
type Sequence struct {
	items []item
}

func NewSequence(tags core.Tags) *Sequence {
	s := &Sequence{items: make([]item, 0, len(tags))}
	for _, t := range tags {
		s.items = append(s.items, item{tag: t})
	}
	return s
}

// Replace 删除所有组码属于 codes 的标签，并把 c 放在第一个被删除标签的位置。
// 没有任何标签被取代时 c 追加到末尾，返回 false。
func (s *Sequence) Replace(codes []int, c Container) bool {
	pos := -1
	items := s.items[:0]
	for _, it := range s.items {
		if it.packed == nil && slices.Contains(codes, it.tag.Code) {
			if pos < 0 {
				pos = len(items)
			}
			continue
		}
		items = append(items, it)
	}
	s.items = items
	if pos < 0 {
		s.items = append(s.items, item{packed: c})
		return false
	}
	s.items = slices.Insert(s.items, pos, item{packed: c})
	return true
}

// Append 追加普通标签
func (s *Sequence) Append(tags ...core.Tag) {
	for _, t := range tags {
		s.items = append(s.items, item{tag: t})
	}
}

// Get 第一个组码为 code 的普通标签
func (s *Sequence) Get(code int) (core.Tag, bool) {
	for _, it := range s.items {
		if it.packed == nil && it.tag.Code == code {
			return it.tag, true
		}
	}
	return core.NoneTag, false
}

// Set 修改第一个组码为 code 的普通标签，不存在时追加
func (s *Sequence) Set(t core.Tag) {
	for i, it := range s.items {
		if it.packed == nil && it.tag.Code == t.Code {
			s.items[i].tag = t
			return
		}
	}
	s.Append(t)
}

// Containers 按出现顺序返回所有容器
func (s *Sequence) Containers() []Container {
	var out []Container
	for _, it := range s.items {
		if it.packed != nil {
			out = append(out, it.packed)
		}
	}
	return out
}

// Tags 展开为扁平标签，坐标标签也会展开
func (s *Sequence) Tags() iter.Seq[core.Tag] {
	return func(yield func(core.Tag) bool) {
		for _, it := range s.items {
			if it.packed != nil {
				for t := range it.packed.Tags() {
					if !yield(t) {
						return
					}
				}
				continue
			}
			for _, t := range it.tag.Expand() {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Clone 深拷贝，容器一并复制。old 到新容器的映射用于重新绑定字段
func (s *Sequence) Clone() (*Sequence, map[Container]Container) {
	mapping := make(map[Container]Container)
	c := &Sequence{items: make([]item, len(s.items))}
	for i, it := range s.items {
		if it.packed != nil {
			cp := it.packed.Clone()
			mapping[it.packed] = cp
			it.packed = cp
		}
		c.items[i] = it
	}
	return c, mapping
}
