package packed

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zooyer/dxfengine/core"
)

func collect(c Container) core.Tags {
	return slices.Collect(c.Tags())
}

func TestTagDictRoundTrip(t *testing.T) {
	d := NewTagDict()
	d.Set("A", "1")
	d.Set("B", "2")

	want := core.Tags{
		core.StrTag(3, "A"), core.StrTag(350, "1"),
		core.StrTag(3, "B"), core.StrTag(350, "2"),
	}
	got := collect(d)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Tags() (-want +got):\n%s", diff)
	}

	back := TagDictFromTags(got)
	if diff := cmp.Diff(d.Keys(), back.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	for k, v := range d.All() {
		if bv, ok := back.Get(k); !ok || bv != v {
			t.Errorf("Get(%s) = %q, %v; want %q", k, bv, ok, v)
		}
	}
}

func TestTagDictHardOwner(t *testing.T) {
	// 360 和 350 读入同一个位置，值在键之前也可以
	d := TagDictFromTags(core.Tags{
		core.StrTag(3, "A"), core.StrTag(360, "1F"),
		core.StrTag(350, "20"), core.StrTag(3, "B"),
		core.StrTag(3, "dangling"),
	})
	if diff := cmp.Diff([]string{"A", "B"}, d.Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if v, _ := d.Get("A"); v != "1F" {
		t.Errorf("A = %q", v)
	}
	d.Set("A", "2A")
	if !d.Delete("B") || d.Delete("B") {
		t.Error("Delete")
	}
	if diff := cmp.Diff(core.Tags{core.StrTag(3, "A"), core.StrTag(350, "2A")}, collect(d)); diff != "" {
		t.Errorf("Tags() (-want +got):\n%s", diff)
	}

	c := d.Clone().(*TagDict)
	c.Set("C", "3")
	if d.Len() != 1 || c.Len() != 2 {
		t.Errorf("clone is not independent: %d, %d", d.Len(), c.Len())
	}
}

func TestVertexArraySetGet(t *testing.T) {
	va, err := NewVertexArray(3, 10, []float64{0, 0, 0}, []float64{1, 1, 1}, []float64{2, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < va.Len(); i++ {
		p := []float64{float64(i), -1, 5}
		if err = va.Set(i, p); err != nil {
			t.Fatal(err)
		}
		got, err := va.Get(i)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(p, got); diff != "" {
			t.Errorf("Get(%d) (-want +got):\n%s", i, diff)
		}
	}
	last, _ := va.Get(-1)
	if diff := cmp.Diff([]float64{2, -1, 5}, last); diff != "" {
		t.Errorf("Get(-1) (-want +got):\n%s", diff)
	}
}

func TestVertexArrayLength(t *testing.T) {
	va, _ := NewVertexArray(2, 10)
	check := func(step string) {
		t.Helper()
		if va.Len()*va.Size() != len(va.values) {
			t.Fatalf("%s: Len() = %d, buffer = %d", step, va.Len(), len(va.values))
		}
	}

	_ = va.Append([]float64{1, 1})
	check("append")
	_ = va.Extend([]float64{2, 2}, []float64{3, 3})
	check("extend")
	_ = va.Insert(0, []float64{0, 0})
	check("insert")
	_ = va.Insert(va.Len(), []float64{4, 4})
	check("insert at end")
	_ = va.Delete(1)
	check("delete")
	_ = va.DeleteRange(0, 2)
	check("delete range")

	var got [][]float64
	for _, p := range va.All() {
		got = append(got, p)
	}
	if diff := cmp.Diff([][]float64{{3, 3}, {4, 4}}, got); diff != "" {
		t.Errorf("vertices (-want +got):\n%s", diff)
	}
}

func TestVertexArrayErrors(t *testing.T) {
	if _, err := NewVertexArray(4, 10); !core.IsCode(err, core.ErrCodeType) {
		t.Errorf("size 4: %v", err)
	}
	if _, err := NewVertexArray(2, 10, []float64{1, 2, 3}); !core.IsCode(err, core.ErrCodeType) {
		t.Errorf("ragged data: %v", err)
	}

	va, _ := NewVertexArray(2, 10, []float64{1, 2})
	tests := []struct {
		name string
		err  error
		code core.Code
	}{
		{"get out of range", func() error { _, err := va.Get(1); return err }(), core.ErrCodeIndex},
		{"negative out of range", func() error { _, err := va.Get(-2); return err }(), core.ErrCodeIndex},
		{"set wrong arity", va.Set(0, []float64{1}), core.ErrCodeValue},
		{"append wrong arity", va.Append([]float64{1, 2, 3}), core.ErrCodeValue},
		{"insert out of range", va.Insert(5, []float64{1, 2}), core.ErrCodeIndex},
		{"extend wrong arity", va.Extend([]float64{1, 2}, []float64{1}), core.ErrCodeValue},
		{"delete range", va.DeleteRange(1, 0), core.ErrCodeIndex},
	}
	for _, tt := range tests {
		if !core.IsCode(tt.err, tt.code) {
			t.Errorf("%s: got %v, want %s", tt.name, tt.err, tt.code)
		}
	}
	// 失败的操作不改变缓冲区
	if va.Len() != 1 {
		t.Errorf("Len() = %d after failed operations", va.Len())
	}
}

func TestVertexArrayTags(t *testing.T) {
	tags := core.Tags{
		core.VertexTag(10, core.Point{X: 1, Y: 2}, 2),
		core.StrTag(42, "0.5"),
		core.VertexTag(10, core.Point{X: 3, Y: 4}, 2),
	}
	va, err := VertexArrayFromTags(tags, 2, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := core.Tags{
		core.FloatTag(10, 1), core.FloatTag(20, 2),
		core.FloatTag(10, 3), core.FloatTag(20, 4),
	}
	if diff := cmp.Diff(want, collect(va)); diff != "" {
		t.Errorf("Tags() (-want +got):\n%s", diff)
	}
}

func TestTagArray(t *testing.T) {
	tags := core.Tags{core.StrTag(40, "0"), core.StrTag(8, "x"), core.StrTag(40, "1.5")}
	a := TagArrayFromTags[float64](tags, 40)
	if diff := cmp.Diff([]float64{0, 1.5}, a.Values); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
	a.SetValues([]float64{2})
	if diff := cmp.Diff(core.Tags{core.StrTag(40, "2.0")}, collect(a)); diff != "" {
		t.Errorf("Tags() (-want +got):\n%s", diff)
	}

	ints := NewTagArray[int16](70, 1, 2)
	if diff := cmp.Diff(core.Tags{core.StrTag(70, "1"), core.StrTag(70, "2")}, collect(ints)); diff != "" {
		t.Errorf("int16 Tags() (-want +got):\n%s", diff)
	}

	l := TagListFromTags(core.Tags{core.StrTag(1, "a"), core.StrTag(2, "-"), core.StrTag(1, "b")}, 1)
	c := l.Clone().(*TagList)
	c.Values[0] = "z"
	if diff := cmp.Diff([]string{"a", "b"}, l.Values); diff != "" {
		t.Errorf("list (-want +got):\n%s", diff)
	}
}

func TestSequenceReplace(t *testing.T) {
	seq := NewSequence(core.Tags{
		core.StrTag(70, "0"),
		core.StrTag(40, "0"),
		core.StrTag(40, "1"),
		core.StrTag(71, "3"),
		core.StrTag(40, "2"),
	})
	knots := NewTagArray[float64](40, 5, 6)
	if !seq.Replace([]int{40}, knots) {
		t.Fatal("Replace() = false")
	}
	seq.Set(core.IntTag(71, 2))
	want := core.Tags{
		core.StrTag(70, "0"),
		core.StrTag(40, "5.0"), core.StrTag(40, "6.0"),
		core.StrTag(71, "2"),
	}
	if diff := cmp.Diff(want, core.Tags(slices.Collect(seq.Tags()))); diff != "" {
		t.Errorf("Tags() (-want +got):\n%s", diff)
	}

	cp, mapping := seq.Clone()
	mapping[knots].(*TagArray[float64]).SetValues(nil)
	if n := len(slices.Collect(cp.Tags())); n != 2 {
		t.Errorf("clone has %d tags", n)
	}
	if knots.Len() != 2 {
		t.Error("original container modified through clone")
	}

	if seq.Replace([]int{99}, NewTagList(99, "x")) {
		t.Error("Replace() without superseded tags = true")
	}
}
