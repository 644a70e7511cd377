package entities

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zooyer/dxfengine/core"
)

// export 导出后重新编译，便于和 Load 的输入比较
func export(t *testing.T, e Entity, v core.Version) core.Tags {
	t.Helper()
	w := core.NewCollector(v)
	if err := e.Export(w); err != nil {
		t.Fatal(err)
	}
	tags, err := core.Compile(w.Tags)
	if err != nil {
		t.Fatal(err)
	}
	return tags
}

func reload(t *testing.T, e Entity) Entity {
	t.Helper()
	c, err := NewDefaultRegistry().Decode(export(t, e, core.R2000))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("line", func() Entity { return NewLine() }); err != nil {
		t.Fatal(err)
	}
	if err := r.Register("LINE", func() Entity { return NewLine() }); !core.IsCode(err, core.ErrCodeInternal) {
		t.Errorf("duplicate Register error = %v", err)
	}
	if _, ok := r.Create("line").(*Line); !ok {
		t.Error("Create(line) is not a *Line")
	}
	if u, ok := r.Create("CIRCLE").(*Unknown); !ok || u.Type() != "CIRCLE" {
		t.Error("unregistered type should decode as Unknown")
	}
	if _, err := r.Decode(core.Tags{core.StrTag(8, "0")}); !core.IsCode(err, core.ErrCodeStructure) {
		t.Errorf("Decode without (0, TYPE) error = %v", err)
	}
}

func TestLineRoundTrip(t *testing.T) {
	tags := core.Tags{
		core.StrTag(0, "LINE"),
		core.StrTag(5, "2f"),
		core.StrTag(102, "{ACAD_REACTORS"), core.StrTag(330, "1A"), core.StrTag(102, "}"),
		core.StrTag(330, "1F"),
		core.StrTag(100, "AcDbEntity"),
		core.StrTag(8, "Walls"),
		core.StrTag(62, "1"),
		core.StrTag(100, "AcDbLine"),
		core.VertexTag(10, core.Point{X: 1, Y: 2}, 3),
		core.VertexTag(11, core.Point{X: 3, Y: 4}, 3),
		core.StrTag(370, "25"),
		core.StrTag(1001, "APP"), core.StrTag(1000, "data"),
	}
	e, err := NewDefaultRegistry().Decode(tags)
	if err != nil {
		t.Fatal(err)
	}
	l := e.(*Line)
	if l.Handle() != "2F" || l.Owner() != "1F" || l.Layer() != "Walls" || l.Color != 1 {
		t.Errorf("line = %+v", l)
	}
	if len(l.AppData) != 3 || len(l.XData) != 2 || len(l.Extra) != 1 {
		t.Errorf("AppData %d, XData %d, Extra %d", len(l.AppData), len(l.XData), len(l.Extra))
	}

	want := core.Tags{
		core.StrTag(0, "LINE"),
		core.StrTag(5, "2F"),
		core.StrTag(102, "{ACAD_REACTORS"), core.StrTag(330, "1A"), core.StrTag(102, "}"),
		core.StrTag(330, "1F"),
		core.StrTag(100, "AcDbEntity"),
		core.StrTag(8, "Walls"),
		core.StrTag(62, "1"),
		core.StrTag(100, "AcDbLine"),
		core.VertexTag(10, core.Point{X: 1, Y: 2}, 3),
		core.VertexTag(11, core.Point{X: 3, Y: 4}, 3),
		core.StrTag(370, "25"),
		core.StrTag(1001, "APP"), core.StrTag(1000, "data"),
	}
	if diff := cmp.Diff(want, export(t, l, core.R2000)); diff != "" {
		t.Errorf("export (-want +got):\n%s", diff)
	}

	// R12 没有子类标记、应用数据和 owner
	r12 := export(t, l, core.R12)
	for _, tag := range r12 {
		if tag.Code == SubclassMarker || tag.Code == AppDataMarker || tag.Code == OwnerCode {
			t.Errorf("R12 output contains %+v", tag)
		}
	}
}

func TestLWPolyline(t *testing.T) {
	pl := NewLWPolyline()
	pl.AddVertex(0, 0)
	pl.AddVertex(10, 0)
	pl.AddVertex(10, 10)
	_ = pl.SetBulge(1, 0.5)
	_ = pl.SetWidths(-1, 1, 2)
	pl.Flags = LWPolylineClosed

	c := reload(t, pl).(*LWPolyline)
	if !c.Closed() || c.Len() != 3 {
		t.Fatalf("closed %v, %d vertices", c.Closed(), c.Len())
	}
	want := []LWVertex{
		{X: 0, Y: 0},
		{X: 10, Y: 0, Bulge: 0.5},
		{X: 10, Y: 10, StartWidth: 1, EndWidth: 2},
	}
	if diff := cmp.Diff(want, c.Vertices()); diff != "" {
		t.Errorf("vertices (-want +got):\n%s", diff)
	}
	if _, err := c.Vertex(3); !core.IsCode(err, core.ErrCodeIndex) {
		t.Errorf("Vertex(3) error = %v", err)
	}
}

func TestLWPolylineEditVertices(t *testing.T) {
	pl := NewLWPolyline()
	pl.AddVertex(0, 0)
	pl.Append(LWVertex{X: 1, Y: 1, Bulge: 1})
	pl.Append(LWVertex{X: 2, Y: 2, StartWidth: 3, EndWidth: 4})

	// 插入和删除后凸度和线宽仍然跟着原来的顶点
	if err := pl.InsertVertex(1, LWVertex{X: 5, Y: 5, Bulge: -1}); err != nil {
		t.Fatal(err)
	}
	if err := pl.DeleteVertex(0); err != nil {
		t.Fatal(err)
	}
	if err := pl.InsertVertex(-1, LWVertex{X: 6, Y: 6}); err != nil {
		t.Fatal(err)
	}
	if err := pl.SetVertex(-1, LWVertex{X: 7, Y: 7, EndWidth: 9}); err != nil {
		t.Fatal(err)
	}
	if err := pl.InsertVertex(9, LWVertex{}); !core.IsCode(err, core.ErrCodeIndex) {
		t.Errorf("InsertVertex(9) error = %v", err)
	}
	if err := pl.DeleteVertex(-9); !core.IsCode(err, core.ErrCodeIndex) {
		t.Errorf("DeleteVertex(-9) error = %v", err)
	}

	want := []LWVertex{
		{X: 5, Y: 5, Bulge: -1},
		{X: 1, Y: 1, Bulge: 1},
		{X: 6, Y: 6},
		{X: 7, Y: 7, EndWidth: 9},
	}
	if diff := cmp.Diff(want, pl.Vertices()); diff != "" {
		t.Errorf("vertices (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, reload(t, pl).(*LWPolyline).Vertices()); diff != "" {
		t.Errorf("reloaded (-want +got):\n%s", diff)
	}

	pl.ClearVertices()
	pl.AddVertex(8, 8)
	tags := export(t, pl, core.R2000)
	if i := tags.Find(42); i >= 0 {
		t.Errorf("bulge tag after clear: %+v", tags[i])
	}
}

func TestSpline(t *testing.T) {
	tags := core.Tags{
		core.StrTag(0, "SPLINE"),
		core.StrTag(5, "40"),
		core.StrTag(100, "AcDbEntity"),
		core.StrTag(8, "0"),
		core.StrTag(100, "AcDbSpline"),
		core.VertexTag(210, core.Point{Z: 1}, 3),
		core.StrTag(70, "8"),
		core.StrTag(71, "3"),
		core.StrTag(72, "8"),
		core.StrTag(73, "4"),
		core.StrTag(74, "0"),
		core.StrTag(40, "0.0"), core.StrTag(40, "0.0"), core.StrTag(40, "0.0"), core.StrTag(40, "0.0"),
		core.StrTag(40, "1.0"), core.StrTag(40, "1.0"), core.StrTag(40, "1.0"), core.StrTag(40, "1.0"),
		core.VertexTag(10, core.Point{}, 3),
		core.VertexTag(10, core.Point{X: 1, Y: 1}, 3),
		core.VertexTag(10, core.Point{X: 2, Y: -1}, 3),
		core.VertexTag(10, core.Point{X: 3}, 3),
	}
	e, err := NewDefaultRegistry().Decode(tags)
	if err != nil {
		t.Fatal(err)
	}
	s := e.(*Spline)
	if s.Degree() != 3 || s.Knots.Len() != 8 || s.ControlPoints.Len() != 4 {
		t.Fatalf("degree %d, knots %d, control points %d", s.Degree(), s.Knots.Len(), s.ControlPoints.Len())
	}
	if diff := cmp.Diff(tags, export(t, s, core.R2000)); diff != "" {
		t.Errorf("export (-want +got):\n%s", diff)
	}

	// 修改容器后计数随之更新
	c := s.Clone().(*Spline)
	_ = c.FitPoints.Append([]float64{0, 0, 0})
	out := export(t, c, core.R2000)
	if v, _ := out.Value(74); v != "1" {
		t.Errorf("fit point count = %s", v)
	}
	if s.FitPoints.Len() != 0 {
		t.Error("clone shares fit points with original")
	}
}

func TestDictionary(t *testing.T) {
	tags := core.Tags{
		core.StrTag(0, "DICTIONARY"),
		core.StrTag(5, "C"),
		core.StrTag(330, "0"),
		core.StrTag(100, "AcDbDictionary"),
		core.StrTag(281, "1"),
		core.StrTag(3, "ACAD_GROUP"), core.StrTag(350, "D"),
		core.StrTag(3, "ACAD_MATERIAL"), core.StrTag(360, "1E"),
	}
	e, err := NewDefaultRegistry().Decode(tags)
	if err != nil {
		t.Fatal(err)
	}
	d := e.(*Dictionary)
	if h, ok := d.Lookup("ACAD_MATERIAL"); !ok || h != "1E" {
		t.Errorf("Lookup(ACAD_MATERIAL) = %q, %v", h, ok)
	}
	d.Entries.Set("ACAD_LAYOUT", "1A")

	got := reload(t, d).(*Dictionary)
	if diff := cmp.Diff([]string{"ACAD_GROUP", "ACAD_MATERIAL", "ACAD_LAYOUT"}, got.Entries.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestInsertClone(t *testing.T) {
	ins := NewInsert("TKA4")
	ins.SetHandle("10")
	ins.AddAttrib("序号", "1", core.Point{X: 5})
	ins.Attributes[0].SetHandle("11")

	c := ins.Clone().(*Insert)
	if c.Handle() != "" || c.Attributes[0].Handle() != "" || c.Seqend == nil {
		t.Fatalf("clone = %+v", c)
	}
	c.Attributes[0].Text = "2"
	if ins.Attributes[0].Text != "1" {
		t.Error("clone shares attributes with original")
	}
	if len(c.SubEntities()) != 2 {
		t.Errorf("SubEntities() = %d", len(c.SubEntities()))
	}

	ins.Destroy()
	if ins.IsAlive() || len(ins.SubEntities()) != 0 {
		t.Error("Destroy did not release sub entities")
	}
}

func TestTableEntries(t *testing.T) {
	d := NewDimStyle("Standard")
	d.SetHandle("27")
	d.Precision = 2
	out := export(t, d, core.R2000)
	if out.Find(105) < 0 || out.Find(HandleCode) >= 0 {
		t.Errorf("dimstyle handle code: %v", out)
	}
	got := reload(t, d).(*DimStyle)
	if got.Handle() != "27" || got.Precision != 2 || got.Scale != 1 {
		t.Errorf("dimstyle = %+v", got)
	}

	shx := NewTextstyle("")
	shx.Flags = ShapeFileFlag
	shx.Font = "ltypeshp.shx"
	if s := reload(t, shx).(*Textstyle); !s.IsShapeFile() || s.Font != "ltypeshp.shx" {
		t.Errorf("shape file = %+v", s)
	}

	layer := NewLayer("Walls")
	layer.Plot = false
	layer.MaterialHandle = "1C"
	if l := reload(t, layer).(*Layer); l.Plot || l.MaterialHandle != "1C" || l.Name() != "Walls" {
		t.Errorf("layer = %+v", l)
	}
}

func TestUnknown(t *testing.T) {
	tags := core.Tags{
		core.StrTag(0, "CIRCLE"),
		core.StrTag(5, "A"),
		core.StrTag(330, "1F"),
		core.VertexTag(10, core.Point{X: 1}, 3),
		core.StrTag(40, "2.0"),
	}
	e, err := NewDefaultRegistry().Decode(tags)
	if err != nil {
		t.Fatal(err)
	}
	e.SetOwner("20")
	if diff := cmp.Diff(tags[:2], export(t, e, core.R2000)[:2]); diff != "" {
		t.Errorf("head (-want +got):\n%s", diff)
	}
	if e.Owner() != "20" {
		t.Errorf("Owner() = %s", e.Owner())
	}
	c := e.Clone()
	if c.Handle() != "" {
		t.Errorf("clone handle = %s", c.Handle())
	}
	c.SetHandle("B")
	if got := export(t, c, core.R2000); got[1] != core.StrTag(5, "B") {
		t.Errorf("clone tags = %v", got)
	}
}

func TestDimensionMeasuredValue(t *testing.T) {
	d := NewDimension()
	d.Text = `\A1;1500`
	if got := d.MeasuredValue(); got != 1500 {
		t.Errorf("MeasuredValue() = %v", got)
	}
	d.ActualMeasurement = 900
	if got := d.MeasuredValue(); got != 900 {
		t.Errorf("MeasuredValue() = %v", got)
	}
	d.Flags = 32 | 1
	if d.DimType() != 1 {
		t.Errorf("DimType() = %d", d.DimType())
	}
}
