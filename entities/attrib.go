package entities

import "github.com/zooyer/dxfengine/core"

const (
	AttribType = "ATTRIB"
	SeqEndType = "SEQEND"
)

type Attrib struct {
	GraphicEntity
	Location core.Point
	Tag      string // 属性标签，如 "序号"
	Text     string // 属性值
	Height   float64
	Flags    int
}

func NewAttrib() *Attrib {
	return &Attrib{GraphicEntity: newGraphic(AttribType), Height: 2.5}
}

func (a *Attrib) Load(tags core.Tags) error {
	return a.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 10:
			pointValue(t, &a.Location)
		case 40:
			a.Height = t.AsFloat()
		case 1:
			a.Text = t.AsString()
		case 2:
			a.Tag = t.AsString()
		case 70:
			a.Flags = t.AsInt()
		default:
			return a.loadGraphic(t)
		}
		return true
	})
}

func (a *Attrib) Export(w core.TagWriter) error {
	a.exportGraphic(w)
	writeSubclass(w, "AcDbText")
	writePoint(w, 10, a.Location)
	writeFloat(w, 40, a.Height)
	writeStr(w, 1, a.Text)
	writeSubclass(w, "AcDbAttribute")
	writeStr(w, 2, a.Tag)
	writeInt(w, 70, a.Flags)
	a.exportTail(w)
	return nil
}

func (a *Attrib) Clone() Entity {
	c := *a
	c.GraphicEntity = a.cloneGraphic()
	return &c
}

// SeqEnd 属性序列的结束标记
type SeqEnd struct {
	GraphicEntity
}

func NewSeqEnd() *SeqEnd {
	return &SeqEnd{GraphicEntity: newGraphic(SeqEndType)}
}

func (s *SeqEnd) Load(tags core.Tags) error {
	return s.loadTags(tags, s.loadGraphic)
}

func (s *SeqEnd) Export(w core.TagWriter) error {
	s.exportGraphic(w)
	s.exportTail(w)
	return nil
}

func (s *SeqEnd) Clone() Entity {
	return &SeqEnd{GraphicEntity: s.cloneGraphic()}
}
