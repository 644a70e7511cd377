package entities

import (
	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/packed"
)

// Spline 样条曲线。AcDbSpline 子类的标签原样保存在 body 中，
// 节点、权重、控制点、拟合点四组数据被打包容器取代
type Spline struct {
	GraphicEntity
	Knots         *packed.TagArray[float64] // 40
	Weights       *packed.TagArray[float64] // 41
	ControlPoints *packed.VertexArray       // 10
	FitPoints     *packed.VertexArray       // 11

	body *packed.Sequence
}

func NewSpline() *Spline {
	s := &Spline{GraphicEntity: newGraphic("SPLINE")}
	s.bind(packed.NewSequence(core.Tags{
		core.IntTag(70, 8),
		core.IntTag(71, 3),
		core.IntTag(72, 0),
		core.IntTag(73, 0),
		core.IntTag(74, 0),
	}))
	return s
}

// bind 把四个打包容器放进 body
func (s *Spline) bind(body *packed.Sequence) {
	s.body = body
	s.Knots = packed.NewTagArray[float64](40)
	s.Weights = packed.NewTagArray[float64](41)
	s.ControlPoints, _ = packed.NewVertexArray(3, 10)
	s.FitPoints, _ = packed.NewVertexArray(3, 11)
	body.Replace([]int{40}, s.Knots)
	body.Replace([]int{41}, s.Weights)
	body.Replace(s.ControlPoints.Codes(), s.ControlPoints)
	body.Replace(s.FitPoints.Codes(), s.FitPoints)
}

func (s *Spline) Degree() int {
	t, _ := s.body.Get(71)
	return t.AsInt()
}

func (s *Spline) SetDegree(d int) { s.body.Set(core.IntTag(71, d)) }

func (s *Spline) Flags() int {
	t, _ := s.body.Get(70)
	return t.AsInt()
}

func (s *Spline) SetFlags(f int) { s.body.Set(core.IntTag(70, f)) }

func (s *Spline) Load(tags core.Tags) error {
	var body core.Tags
	err := s.loadTags(tags, func(t core.Tag) bool {
		if s.loadGraphic(t) {
			return true
		}
		body = append(body, t)
		return true
	})
	if err != nil {
		return err
	}

	seq := packed.NewSequence(body)
	knots := packed.TagArrayFromTags[float64](body, 40)
	weights := packed.TagArrayFromTags[float64](body, 41)
	ctrl, err := packed.VertexArrayFromTags(body, 3, 10)
	if err != nil {
		return err
	}
	fit, err := packed.VertexArrayFromTags(body, 3, 11)
	if err != nil {
		return err
	}
	s.bind(seq)
	s.Knots.SetValues(knots.Values)
	s.Weights.SetValues(weights.Values)
	if err = s.ControlPoints.SetAll(vertices(ctrl)...); err != nil {
		return err
	}
	return s.FitPoints.SetAll(vertices(fit)...)
}

func vertices(va *packed.VertexArray) [][]float64 {
	out := make([][]float64, 0, va.Len())
	for _, p := range va.All() {
		out = append(out, p)
	}
	return out
}

func (s *Spline) Export(w core.TagWriter) error {
	s.body.Set(core.IntTag(72, s.Knots.Len()))
	s.body.Set(core.IntTag(73, s.ControlPoints.Len()))
	s.body.Set(core.IntTag(74, s.FitPoints.Len()))

	s.exportGraphic(w)
	writeSubclass(w, "AcDbSpline")
	for t := range s.body.Tags() {
		w.WriteTag(t.Code, t.Value)
	}
	s.exportTail(w)
	return nil
}

func (s *Spline) Clone() Entity {
	body, mapping := s.body.Clone()
	return &Spline{
		GraphicEntity: s.cloneGraphic(),
		Knots:         mapping[s.Knots].(*packed.TagArray[float64]),
		Weights:       mapping[s.Weights].(*packed.TagArray[float64]),
		ControlPoints: mapping[s.ControlPoints].(*packed.VertexArray),
		FitPoints:     mapping[s.FitPoints].(*packed.VertexArray),
		body:          body,
	}
}
