package tables

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
)

// MultiEntryTable 一个名称对应一组表项，用于 VPORT：同名视口配置共同组成一个多视口布局
type MultiEntryTable[T entities.TableEntry] struct {
	base
	factory func(name string) T
	keys    []string
	groups  map[string][]T
}

type ViewportTable = MultiEntryTable[*entities.VPort]

func NewMultiEntryTable[T entities.TableEntry](head *entities.TableHead, db *entitydb.DB, factory func(name string) T, logger *log.Logger) *MultiEntryTable[T] {
	return &MultiEntryTable[T]{
		base:    newBase(head, db, logger),
		factory: factory,
		groups:  make(map[string][]T),
	}
}

func NewViewportTable(head *entities.TableHead, db *entitydb.DB, logger *log.Logger) *ViewportTable {
	return NewMultiEntryTable(head, db, entities.NewVPort, logger)
}

// prune 丢掉已经销毁的表项，组为空时整组移除
func (t *MultiEntryTable[T]) prune() {
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool {
		g := slices.DeleteFunc(t.groups[k], func(e T) bool { return !e.IsAlive() })
		if len(g) == 0 {
			delete(t.groups, k)
			return true
		}
		t.groups[k] = g
		return false
	})
}

// Len 所有组的表项总数
func (t *MultiEntryTable[T]) Len() int {
	t.prune()
	n := 0
	for _, g := range t.groups {
		n += len(g)
	}
	return n
}

func (t *MultiEntryTable[T]) Has(name string) bool {
	t.prune()
	_, ok := t.groups[key(name)]
	return ok
}

func (t *MultiEntryTable[T]) Items() []T {
	t.prune()
	var out []T
	for _, k := range t.keys {
		out = append(out, t.groups[k]...)
	}
	return out
}

func (t *MultiEntryTable[T]) Entries() []entities.TableEntry {
	items := t.Items()
	out := make([]entities.TableEntry, 0, len(items))
	for _, e := range items {
		out = append(out, e)
	}
	return out
}

func (t *MultiEntryTable[T]) insert(e T) {
	k := key(e.Name())
	if _, ok := t.groups[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.groups[k] = append(t.groups[k], e)
}

// New 同名表项追加到已有的组中，不会因重名失败
func (t *MultiEntryTable[T]) New(name string, setup ...func(T)) (T, error) {
	var zero T
	e := t.factory(name)
	for _, fn := range setup {
		fn(e)
	}
	if err := t.adopt(e); err != nil {
		return zero, err
	}
	t.insert(e)
	return e, nil
}

func (t *MultiEntryTable[T]) Add(entry entities.Entity) error {
	e, ok := entry.(T)
	if !ok {
		return core.NewError(core.ErrCodeType, "invalid %s entry type %s", t.Name(), entry.Type())
	}
	if err := t.adopt(e); err != nil {
		return err
	}
	t.insert(e)
	return nil
}

// GetConfig 返回同名的全部表项
func (t *MultiEntryTable[T]) GetConfig(name string) ([]T, error) {
	t.prune()
	g, ok := t.groups[key(name)]
	if !ok {
		return nil, entryError("%s %q not found", t.Name(), name)
	}
	return slices.Clone(g), nil
}

// Discard 只从表中移除整组，不销毁实体
func (t *MultiEntryTable[T]) Discard(name string) ([]T, bool) {
	t.prune()
	k := key(name)
	g, ok := t.groups[k]
	if ok {
		delete(t.groups, k)
		t.keys = slices.DeleteFunc(t.keys, func(s string) bool { return s == k })
	}
	return g, ok
}

// Remove 删除整组表项
func (t *MultiEntryTable[T]) Remove(name string) error {
	g, ok := t.Discard(name)
	if !ok {
		return entryError("%s %q not found", t.Name(), name)
	}
	for _, e := range g {
		if err := t.destroy(e); err != nil {
			return err
		}
	}
	return nil
}

func (t *MultiEntryTable[T]) DuplicateEntry(name, newName string) (T, error) {
	var zero T
	return zero, core.NewError(core.ErrCodeUnsupported, "%s table does not support duplicating entries", t.Name())
}

func (t *MultiEntryTable[T]) UpdateOwnerHandles() {
	for _, e := range t.Items() {
		e.SetOwner(t.head.Handle())
	}
}

func (t *MultiEntryTable[T]) Export(w core.TagWriter) error {
	return t.export(w, t.Entries())
}

func (t *MultiEntryTable[T]) load(records []entities.Entity) {
	for _, r := range records {
		e, ok := r.(T)
		if !ok {
			t.drop(r, "skip table entry of wrong type")
			continue
		}
		if err := t.adopt(e); err != nil {
			t.drop(r, err.Error())
			continue
		}
		t.insert(e)
	}
}
