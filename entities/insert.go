package entities

import (
	"strings"

	"github.com/zooyer/dxfengine/core"
)

const InsertType = "INSERT"

// Insert 块引用。带属性时 66=1，后面跟着若干 ATTRIB 和一个 SEQEND，
// 由文档加载时的链接步骤挂到 Attributes 和 Seqend 上
type Insert struct {
	GraphicEntity
	BlockName      string
	InsertionPoint core.Point
	Scale          core.Point
	Rotation       float64
	Attributes     []*Attrib
	Seqend         *SeqEnd
}

func NewInsert(block string) *Insert {
	return &Insert{
		GraphicEntity: newGraphic(InsertType),
		BlockName:     block,
		Scale:         core.Point{X: 1, Y: 1, Z: 1}, // 默认缩放为 1
	}
}

func (i *Insert) Load(tags core.Tags) error {
	return i.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 2:
			i.BlockName = t.AsString()
		case 10:
			pointValue(t, &i.InsertionPoint)
		case 41:
			i.Scale.X = t.AsFloat()
		case 42:
			i.Scale.Y = t.AsFloat()
		case 43:
			i.Scale.Z = t.AsFloat()
		case 50:
			i.Rotation = t.AsFloat()
		case 66:
			// 属性跟随标志由 Attributes 决定
		default:
			return i.loadGraphic(t)
		}
		return true
	})
}

// AddAttrib 追加属性，没有 SEQEND 时同时创建
func (i *Insert) AddAttrib(tag, text string, at core.Point) *Attrib {
	a := NewAttrib()
	a.Tag, a.Text, a.Location = tag, text, at
	a.LayerName = i.LayerName
	i.Attributes = append(i.Attributes, a)
	if i.Seqend == nil {
		i.Seqend = NewSeqEnd()
		i.Seqend.LayerName = i.LayerName
	}
	return a
}

// Attrs 属性标记到属性值，标记重复时后出现的覆盖前面的
func (i *Insert) Attrs() map[string]string {
	attrs := make(map[string]string, len(i.Attributes))
	for _, a := range i.Attributes {
		attrs[a.Tag] = a.Text
	}
	return attrs
}

// Attr 不区分大小写，和 Attrs 一样取最后一个
func (i *Insert) Attr(tag string) string {
	for j := len(i.Attributes) - 1; j >= 0; j-- {
		if a := i.Attributes[j]; strings.EqualFold(a.Tag, tag) {
			return a.Text
		}
	}
	return ""
}

func (i *Insert) SubEntities() []Entity {
	out := make([]Entity, 0, len(i.Attributes)+1)
	for _, a := range i.Attributes {
		out = append(out, a)
	}
	if i.Seqend != nil {
		out = append(out, i.Seqend)
	}
	return out
}

// Export 只写出 INSERT 本身，子实体由调用方按 SubEntities 顺序写出
func (i *Insert) Export(w core.TagWriter) error {
	i.exportGraphic(w)
	writeSubclass(w, "AcDbBlockReference")
	if len(i.Attributes) > 0 {
		writeInt(w, 66, 1)
	}
	writeStr(w, 2, i.BlockName)
	writePoint(w, 10, i.InsertionPoint)
	if i.Scale.X != 1 {
		writeFloat(w, 41, i.Scale.X)
	}
	if i.Scale.Y != 1 {
		writeFloat(w, 42, i.Scale.Y)
	}
	if i.Scale.Z != 1 {
		writeFloat(w, 43, i.Scale.Z)
	}
	if i.Rotation != 0 {
		writeFloat(w, 50, i.Rotation)
	}
	i.exportTail(w)
	return nil
}

// Clone 连同属性一起复制
func (i *Insert) Clone() Entity {
	c := *i
	c.GraphicEntity = i.cloneGraphic()
	c.Attributes = make([]*Attrib, len(i.Attributes))
	for n, a := range i.Attributes {
		c.Attributes[n] = a.Clone().(*Attrib)
	}
	if i.Seqend != nil {
		c.Seqend = i.Seqend.Clone().(*SeqEnd)
	}
	return &c
}

// Destroy 同时销毁子实体
func (i *Insert) Destroy() {
	for _, e := range i.SubEntities() {
		e.Destroy()
	}
	i.Attributes, i.Seqend = nil, nil
	i.GraphicEntity.Destroy()
}
