// Package tables TABLES 段的符号表：每张表只保存一种表项，按不区分大小写的名称索引，
// 表项实体本身由 entitydb 持有。
package tables

import (
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
)

// SymbolTable 各种符号表的公共能力
type SymbolTable interface {
	// Name DXF 表名，例如 LAYER
	Name() string
	Head() *entities.TableHead
	Len() int
	Has(name string) bool
	Entries() []entities.TableEntry
	Remove(name string) error
	Export(w core.TagWriter) error
	// UpdateOwnerHandles 把所有表项的 owner 改为表头句柄
	UpdateOwnerHandles()

	load(records []entities.Entity)
}

func key(name string) string { return strings.ToLower(name) }

func entryError(format string, args ...any) error {
	return core.NewError(core.ErrCodeTableEntry, format, args...)
}

// base 表头、数据库和日志
type base struct {
	head   *entities.TableHead
	db     *entitydb.DB
	logger *log.Logger
}

func newBase(head *entities.TableHead, db *entitydb.DB, logger *log.Logger) base {
	if logger == nil {
		logger = log.Default()
	}
	return base{head: head, db: db, logger: logger}
}

func (b *base) Name() string { return b.head.Name() }

func (b *base) Head() *entities.TableHead { return b.head }

// adopt 确保实体在数据库中并挂到本表下
func (b *base) adopt(e entities.TableEntry) error {
	if !b.db.ContainsEntity(e) {
		if _, err := b.db.Add(e); err != nil {
			return err
		}
	}
	e.SetOwner(b.head.Handle())
	return nil
}

// drop 加载时被拒绝的记录从数据库中删除，保持表和数据库一致
func (b *base) drop(e entities.Entity, msg string) {
	b.logger.Warn(msg, "table", b.Name(), "type", e.Type(), "handle", e.Handle())
	if b.db.ContainsEntity(e) {
		_ = b.db.Delete(e)
	}
}

// destroy 删除表项实体，不在数据库中的实体直接销毁
func (b *base) destroy(e entities.Entity) error {
	if !b.db.ContainsEntity(e) {
		e.Destroy()
		return nil
	}
	return b.db.Delete(e)
}

// export 写出前更新表项数量和 owner
func (b *base) export(w core.TagWriter, entries []entities.TableEntry) error {
	b.head.Count = len(entries)
	for _, e := range entries {
		e.SetOwner(b.head.Handle())
	}
	if err := b.head.Export(w); err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.Export(w); err != nil {
			return err
		}
	}
	w.WriteTag(0, entities.EndTabType)
	return nil
}

// Table 普通符号表，名称唯一
type Table[T entities.TableEntry] struct {
	base
	factory func(name string) T
	keys    []string
	entries map[string]T
}

func NewTable[T entities.TableEntry](head *entities.TableHead, db *entitydb.DB, factory func(name string) T, logger *log.Logger) *Table[T] {
	return &Table[T]{
		base:    newBase(head, db, logger),
		factory: factory,
		entries: make(map[string]T),
	}
}

// prune 丢掉已经销毁的表项，例如直接通过数据库删除的
func (t *Table[T]) prune() {
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool {
		if t.entries[k].IsAlive() {
			return false
		}
		delete(t.entries, k)
		return true
	})
}

func (t *Table[T]) Len() int {
	t.prune()
	return len(t.entries)
}

func (t *Table[T]) Has(name string) bool {
	t.prune()
	_, ok := t.entries[key(name)]
	return ok
}

// Items 按加入顺序返回表项
func (t *Table[T]) Items() []T {
	t.prune()
	out := make([]T, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.entries[k])
	}
	return out
}

func (t *Table[T]) Entries() []entities.TableEntry {
	out := make([]entities.TableEntry, 0, len(t.keys))
	for _, e := range t.Items() {
		out = append(out, e)
	}
	return out
}

// New 创建表项并注册到数据库，名称已存在时失败
func (t *Table[T]) New(name string, setup ...func(T)) (T, error) {
	var zero T
	if t.Has(name) {
		return zero, entryError("%s %q already exists", t.Name(), name)
	}
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

func (t *Table[T]) insert(e T) {
	k := key(e.Name())
	t.keys = append(t.keys, k)
	t.entries[k] = e
}

// Get 名称不存在时返回 TABLE_ENTRY 错误
func (t *Table[T]) Get(name string) (T, error) {
	t.prune()
	e, ok := t.entries[key(name)]
	if !ok {
		return e, entryError("%s %q not found", t.Name(), name)
	}
	return e, nil
}

// Add 加入外部创建的表项
func (t *Table[T]) Add(entry entities.Entity) error {
	e, ok := entry.(T)
	if !ok {
		return core.NewError(core.ErrCodeType, "invalid %s entry type %s", t.Name(), entry.Type())
	}
	if t.Has(e.Name()) {
		return entryError("%s %q already exists", t.Name(), e.Name())
	}
	if err := t.adopt(e); err != nil {
		return err
	}
	t.insert(e)
	return nil
}

// Discard 只从表中移除，不销毁实体
func (t *Table[T]) Discard(name string) (T, bool) {
	t.prune()
	k := key(name)
	e, ok := t.entries[k]
	if ok {
		delete(t.entries, k)
		t.keys = slices.DeleteFunc(t.keys, func(s string) bool { return s == k })
	}
	return e, ok
}

// Remove 同时从表和数据库中删除
func (t *Table[T]) Remove(name string) error {
	e, ok := t.Discard(name)
	if !ok {
		return entryError("%s %q not found", t.Name(), name)
	}
	return t.destroy(e)
}

// DuplicateEntry 复制表项并以新名称加入
func (t *Table[T]) DuplicateEntry(name, newName string) (T, error) {
	var zero T
	e, err := t.Get(name)
	if err != nil {
		return zero, err
	}
	if t.Has(newName) {
		return zero, entryError("%s %q already exists", t.Name(), newName)
	}
	c, err := t.db.Duplicate(e)
	if err != nil {
		return zero, err
	}
	cp := c.(T)
	cp.SetName(newName)
	cp.SetOwner(t.head.Handle())
	t.insert(cp)
	return cp, nil
}

func (t *Table[T]) UpdateOwnerHandles() {
	for _, e := range t.Items() {
		e.SetOwner(t.head.Handle())
	}
}

func (t *Table[T]) Export(w core.TagWriter) error {
	return t.export(w, t.Entries())
}

func (t *Table[T]) load(records []entities.Entity) {
	for _, r := range records {
		e, ok := r.(T)
		switch {
		case !ok:
			t.drop(r, "skip table entry of wrong type")
		case t.Has(e.Name()):
			t.drop(r, "skip duplicate table entry "+e.Name())
		default:
			if err := t.adopt(e); err != nil {
				t.drop(r, err.Error())
				continue
			}
			t.insert(e)
		}
	}
}
