package entitydb

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
)

func TestAddNoCollision(t *testing.T) {
	db := New(nil)

	// 预先占用计数器接下来会产生的句柄
	pre := entities.NewLine()
	pre.SetHandle("1")
	if h, err := db.Add(pre); err != nil || h != "1" {
		t.Fatalf("Add(pre) = %q, %v", h, err)
	}
	db.Reserve("2")

	seen := map[string]bool{"1": true, "2": true}
	for i := 0; i < 100; i++ {
		h, err := db.Add(entities.NewLine())
		if err != nil {
			t.Fatal(err)
		}
		if seen[h] {
			t.Fatalf("duplicate handle %s at %d", h, i)
		}
		seen[h] = true
	}
	if db.Len() != 101 {
		t.Fatalf("Len() = %d, want 101", db.Len())
	}
}

func TestAddStaleSeed(t *testing.T) {
	db := New(nil)
	for _, h := range []string{"A", "B", "C"} {
		e := entities.NewLine()
		e.SetHandle(h)
		if _, err := db.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Seed("A"); err != nil {
		t.Fatal(err)
	}
	h, err := db.Add(entities.NewLine())
	if err != nil {
		t.Fatal(err)
	}
	if h != "D" {
		t.Errorf("Add() = %s, want D", h)
	}
	if got := db.NextHandle(); got != "E" {
		t.Errorf("NextHandle() = %s, want E", got)
	}
}

func TestAddConflictingHandle(t *testing.T) {
	db := New(nil)
	a, b := entities.NewLine(), entities.NewLine()
	a.SetHandle("20")
	b.SetHandle("20")
	if _, err := db.Add(a); err != nil {
		t.Fatal(err)
	}
	h, err := db.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	if h == "20" || b.Handle() != h {
		t.Errorf("conflicting entity got handle %s (entity says %s)", h, b.Handle())
	}
	if e, _ := db.Get("20"); e != a {
		t.Error("first entity was replaced")
	}

	// 再次添加同一个实体不改变句柄
	if h2, _ := db.Add(a); h2 != "20" {
		t.Errorf("re-add returned %s", h2)
	}
}

func TestAddRejects(t *testing.T) {
	db := New(nil)
	if _, err := db.Add(nil); !core.IsCode(err, core.ErrCodeValue) {
		t.Errorf("Add(nil) error = %v", err)
	}
	e := entities.NewLine()
	e.Destroy()
	if _, err := db.Add(e); !core.IsCode(err, core.ErrCodeValue) {
		t.Errorf("Add(destroyed) error = %v", err)
	}
}

func TestDeleteLinked(t *testing.T) {
	db := New(nil)
	ins := entities.NewInsert("BLK")
	a := ins.AddAttrib("NO", "1", core.Point{})
	seqend := ins.Seqend
	if _, err := db.Add(ins); err != nil {
		t.Fatal(err)
	}
	if db.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", db.Len())
	}
	if !db.ContainsEntity(a) || !db.ContainsEntity(seqend) {
		t.Fatal("sub entities not registered")
	}

	if err := db.Delete(ins); err != nil {
		t.Fatal(err)
	}
	if db.Len() != 0 {
		t.Errorf("Len() = %d after delete", db.Len())
	}
	if ins.IsAlive() || a.IsAlive() || seqend.IsAlive() {
		t.Error("entities still alive after delete")
	}
	if err := db.Delete(ins); !core.IsCode(err, core.ErrCodeNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestDuplicate(t *testing.T) {
	db := New(nil)
	pl := entities.NewLWPolyline()
	pl.AddVertex(0, 0)
	pl.AddVertex(1, 1)
	pl.SetOwner("1F")
	if _, err := db.Add(pl); err != nil {
		t.Fatal(err)
	}

	c, err := db.Duplicate(pl)
	if err != nil {
		t.Fatal(err)
	}
	cp := c.(*entities.LWPolyline)
	if cp.Handle() == pl.Handle() || !db.ContainsEntity(cp) {
		t.Fatalf("copy handle %s, original %s", cp.Handle(), pl.Handle())
	}
	if cp.Owner() != "1F" {
		t.Errorf("owner = %q, want unchanged", cp.Owner())
	}

	// 副本的顶点缓冲区是独立的
	_ = cp.SetVertex(0, entities.LWVertex{X: 9, Y: 9, Bulge: 1})
	got, _ := pl.Vertex(0)
	if diff := cmp.Diff(entities.LWVertex{}, got); diff != "" {
		t.Errorf("original changed (-want +got):\n%s", diff)
	}
}

func TestIterationOrder(t *testing.T) {
	db := New(nil)
	for _, h := range []string{"1A", "2", "FF", "B"} {
		e := entities.NewLine()
		e.SetHandle(h)
		_, _ = db.Add(e)
	}
	if diff := cmp.Diff([]string{"2", "B", "1A", "FF"}, db.Handles()); diff != "" {
		t.Errorf("Handles() (-want +got):\n%s", diff)
	}
	var got []string
	for h, e := range db.All() {
		if e.Handle() != h {
			t.Errorf("All() yielded %s for entity %s", h, e.Handle())
		}
		got = append(got, h)
	}
	if diff := cmp.Diff(db.Handles(), got); diff != "" {
		t.Errorf("All() order (-want +got):\n%s", diff)
	}
}

func TestLookupAndPurge(t *testing.T) {
	db := New(nil)
	e := entities.NewLine()
	h, _ := db.Add(e)
	if _, err := db.Lookup("999"); !core.IsCode(err, core.ErrCodeNotFound) {
		t.Errorf("Lookup(missing) error = %v", err)
	}
	if got, err := db.Lookup(h); err != nil || got != e {
		t.Errorf("Lookup(%s) = %v, %v", h, got, err)
	}
	e.Destroy()
	if n := db.Purge(); n != 1 || db.Contains(h) {
		t.Errorf("Purge() = %d, Contains = %v", n, db.Contains(h))
	}
}
