package entities

import (
	"slices"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/packed"
)

// LWPolylineClosed 组码 70 的闭合标志位
const LWPolylineClosed = 1

// LWVertex 轻量多段线的一个顶点
type LWVertex struct {
	X, Y       float64
	StartWidth float64 // 40
	EndWidth   float64 // 41
	Bulge      float64 // 42
}

// LWPolyline 轻量多段线，坐标存放在二维顶点缓冲区中。
// 凸度和线宽按顶点下标与坐标对齐，只能通过顶点方法修改
type LWPolyline struct {
	GraphicEntity
	Flags      int
	ConstWidth float64
	Elevation  float64

	points      *packed.VertexArray
	bulges      []float64
	startWidths []float64
	endWidths   []float64
}

func NewLWPolyline() *LWPolyline {
	va, _ := packed.NewVertexArray(2, 10)
	return &LWPolyline{GraphicEntity: newGraphic("LWPOLYLINE"), points: va}
}

func (l *LWPolyline) Closed() bool { return l.Flags&LWPolylineClosed != 0 }

// Len 顶点数
func (l *LWPolyline) Len() int { return l.points.Len() }

func (l *LWPolyline) index(i int) (int, error) {
	n := l.points.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, core.NewError(core.ErrCodeIndex, "vertex index %d out of range [0, %d)", i, n)
	}
	return i, nil
}

// Vertex 第 i 个顶点，负数从末尾数
func (l *LWPolyline) Vertex(i int) (LWVertex, error) {
	i, err := l.index(i)
	if err != nil {
		return LWVertex{}, err
	}
	p, _ := l.points.Get(i)
	return LWVertex{
		X:          p[0],
		Y:          p[1],
		StartWidth: l.startWidths[i],
		EndWidth:   l.endWidths[i],
		Bulge:      l.bulges[i],
	}, nil
}

// Vertices 所有顶点的副本
func (l *LWPolyline) Vertices() []LWVertex {
	vertices := make([]LWVertex, 0, l.Len())
	for i := range l.Len() {
		v, _ := l.Vertex(i)
		vertices = append(vertices, v)
	}
	return vertices
}

// AddVertex 追加一个顶点，凸度和线宽为 0
func (l *LWPolyline) AddVertex(x, y float64) {
	l.Append(LWVertex{X: x, Y: y})
}

func (l *LWPolyline) Append(v LWVertex) {
	_ = l.points.Append([]float64{v.X, v.Y})
	l.bulges = append(l.bulges, v.Bulge)
	l.startWidths = append(l.startWidths, v.StartWidth)
	l.endWidths = append(l.endWidths, v.EndWidth)
}

func (l *LWPolyline) SetVertex(i int, v LWVertex) error {
	i, err := l.index(i)
	if err != nil {
		return err
	}
	if err = l.points.Set(i, []float64{v.X, v.Y}); err != nil {
		return err
	}
	l.bulges[i], l.startWidths[i], l.endWidths[i] = v.Bulge, v.StartWidth, v.EndWidth
	return nil
}

// SetBulge 只修改第 i 个顶点的凸度
func (l *LWPolyline) SetBulge(i int, bulge float64) error {
	i, err := l.index(i)
	if err != nil {
		return err
	}
	l.bulges[i] = bulge
	return nil
}

// SetWidths 只修改第 i 个顶点的起止线宽
func (l *LWPolyline) SetWidths(i int, start, end float64) error {
	i, err := l.index(i)
	if err != nil {
		return err
	}
	l.startWidths[i], l.endWidths[i] = start, end
	return nil
}

// InsertVertex 在 pos 之前插入，pos 等于顶点数时追加
func (l *LWPolyline) InsertVertex(pos int, v LWVertex) error {
	if pos < 0 {
		pos += l.Len()
	}
	if err := l.points.Insert(pos, []float64{v.X, v.Y}); err != nil {
		return err
	}
	l.bulges = slices.Insert(l.bulges, pos, v.Bulge)
	l.startWidths = slices.Insert(l.startWidths, pos, v.StartWidth)
	l.endWidths = slices.Insert(l.endWidths, pos, v.EndWidth)
	return nil
}

func (l *LWPolyline) DeleteVertex(i int) error {
	i, err := l.index(i)
	if err != nil {
		return err
	}
	if err = l.points.Delete(i); err != nil {
		return err
	}
	l.bulges = slices.Delete(l.bulges, i, i+1)
	l.startWidths = slices.Delete(l.startWidths, i, i+1)
	l.endWidths = slices.Delete(l.endWidths, i, i+1)
	return nil
}

// ClearVertices 删除所有顶点
func (l *LWPolyline) ClearVertices() {
	l.points.Clear()
	l.bulges, l.startWidths, l.endWidths = nil, nil, nil
}

func (l *LWPolyline) Load(tags core.Tags) error {
	l.ClearVertices()

	// 40/41/42 跟在所属顶点之后
	last := -1
	setAt := func(s []float64, v float64) {
		if last >= 0 {
			s[last] = v
		}
	}
	return l.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 10:
			var p core.Point
			pointValue(t, &p)
			l.AddVertex(p.X, p.Y)
			last = l.Len() - 1
		case 40:
			setAt(l.startWidths, t.AsFloat())
		case 41:
			setAt(l.endWidths, t.AsFloat())
		case 42:
			setAt(l.bulges, t.AsFloat())
		case 90:
			// 顶点数导出时重新计算
		case 70:
			l.Flags = t.AsInt()
		case 43:
			l.ConstWidth = t.AsFloat()
		case 38:
			l.Elevation = t.AsFloat()
		default:
			return l.loadGraphic(t)
		}
		return true
	})
}

func (l *LWPolyline) Export(w core.TagWriter) error {
	l.exportGraphic(w)
	writeSubclass(w, "AcDbPolyline")
	writeInt(w, 90, l.Len())
	writeInt(w, 70, l.Flags)
	if l.ConstWidth != 0 {
		writeFloat(w, 43, l.ConstWidth)
	}
	if l.Elevation != 0 {
		writeFloat(w, 38, l.Elevation)
	}
	for _, v := range l.Vertices() {
		writeFloat(w, 10, v.X)
		writeFloat(w, 20, v.Y)
		if v.StartWidth != 0 || v.EndWidth != 0 {
			writeFloat(w, 40, v.StartWidth)
			writeFloat(w, 41, v.EndWidth)
		}
		if v.Bulge != 0 {
			writeFloat(w, 42, v.Bulge)
		}
	}
	l.exportTail(w)
	return nil
}

func (l *LWPolyline) Clone() Entity {
	c := *l
	c.GraphicEntity = l.cloneGraphic()
	c.points = l.points.Clone().(*packed.VertexArray)
	c.bulges = slices.Clone(l.bulges)
	c.startWidths = slices.Clone(l.startWidths)
	c.endWidths = slices.Clone(l.endWidths)
	return &c
}
