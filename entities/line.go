package entities

import "github.com/zooyer/dxfengine/core"

type Line struct {
	GraphicEntity
	Start, End core.Point
	Thickness  float64
}

func NewLine() *Line {
	return &Line{GraphicEntity: newGraphic("LINE")}
}

func (l *Line) Load(tags core.Tags) error {
	return l.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 10:
			pointValue(t, &l.Start)
		case 11:
			pointValue(t, &l.End)
		case 39:
			l.Thickness = t.AsFloat()
		default:
			return l.loadGraphic(t)
		}
		return true
	})
}

func (l *Line) Export(w core.TagWriter) error {
	l.exportGraphic(w)
	writeSubclass(w, "AcDbLine")
	if l.Thickness != 0 {
		writeFloat(w, 39, l.Thickness)
	}
	writePoint(w, 10, l.Start)
	writePoint(w, 11, l.End)
	l.exportTail(w)
	return nil
}

func (l *Line) Clone() Entity {
	c := *l
	c.GraphicEntity = l.cloneGraphic()
	return &c
}
