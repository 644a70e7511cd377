package packed

import (
	"iter"
	"maps"
	"slices"

	"github.com/zooyer/dxfengine/core"
)

const (
	DictKeyCode   = 3
	DictValueCode = 350 // 软指针
	HardOwnerCode = 360 // 部分 DICTIONARY 用 360 保存值，读入时与 350 等价
)

// TagDict 有序字典，序列化为 (KeyCode,key)(ValueCode,value) 交替出现
type TagDict struct {
	KeyCode     int
	ValueCode   int
	SearchCodes []int // 读入时视为值的组码

	keys   []string
	values map[string]string
}

func NewTagDict() *TagDict {
	return &TagDict{
		KeyCode:     DictKeyCode,
		ValueCode:   DictValueCode,
		SearchCodes: []int{DictValueCode, HardOwnerCode},
		values:      make(map[string]string),
	}
}

// TagDictFromTags 使用默认组码 (3, 350/360) 读入
func TagDictFromTags(tags core.Tags) *TagDict {
	d := NewTagDict()
	d.Load(tags)
	return d
}

// Load 读入键值对，键和值任何一个缺失的残缺项会被丢弃
func (d *TagDict) Load(tags core.Tags) {
	var key, value string
	var hasKey, hasValue bool
	for _, t := range tags {
		switch {
		case t.Code == d.KeyCode:
			key, hasKey = t.Value, true
		case slices.Contains(d.SearchCodes, t.Code):
			value, hasValue = t.Value, true
		default:
			continue
		}
		if hasKey && hasValue {
			d.Set(key, value)
			hasKey, hasValue = false, false
		}
	}
}

func (d *TagDict) Len() int { return len(d.keys) }

func (d *TagDict) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set 已存在的键保持原来的位置
func (d *TagDict) Set(key, value string) {
	if d.values == nil {
		d.values = make(map[string]string)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

func (d *TagDict) Delete(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
	return true
}

func (d *TagDict) Keys() []string {
	return slices.Clone(d.keys)
}

// All 按插入顺序遍历
func (d *TagDict) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range d.keys {
			if !yield(k, d.values[k]) {
				return
			}
		}
	}
}

func (d *TagDict) Clear() {
	d.keys = d.keys[:0]
	clear(d.values)
}

func (d *TagDict) Tags() iter.Seq[core.Tag] {
	return func(yield func(core.Tag) bool) {
		for k, v := range d.All() {
			if !yield(core.StrTag(d.KeyCode, k)) || !yield(core.StrTag(d.ValueCode, v)) {
				return
			}
		}
	}
}

func (d *TagDict) Clone() Container {
	return &TagDict{
		KeyCode:     d.KeyCode,
		ValueCode:   d.ValueCode,
		SearchCodes: slices.Clone(d.SearchCodes),
		keys:        slices.Clone(d.keys),
		values:      maps.Clone(d.values),
	}
}

// Codes 该容器在扁平序列中占用的组码
func (d *TagDict) Codes() []int {
	return append([]int{d.KeyCode}, d.SearchCodes...)
}
