package tables

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
)

// StyleTable 除了具名文字样式，还保存没有名称的形文件表项，按小写字体文件名索引
type StyleTable struct {
	*Table[*entities.Textstyle]
	shxKeys []string
	shx     map[string]*entities.Textstyle
}

func NewStyleTable(head *entities.TableHead, db *entitydb.DB, logger *log.Logger) *StyleTable {
	return &StyleTable{
		Table: NewTable(head, db, entities.NewTextstyle, logger),
		shx:   make(map[string]*entities.Textstyle),
	}
}

func (t *StyleTable) pruneShx() {
	t.shxKeys = slices.DeleteFunc(t.shxKeys, func(k string) bool {
		if t.shx[k].IsAlive() {
			return false
		}
		delete(t.shx, k)
		return true
	})
}

// Len 包括形文件表项
func (t *StyleTable) Len() int {
	t.pruneShx()
	return t.Table.Len() + len(t.shx)
}

func (t *StyleTable) ShapeFiles() []*entities.Textstyle {
	t.pruneShx()
	out := make([]*entities.Textstyle, 0, len(t.shxKeys))
	for _, k := range t.shxKeys {
		out = append(out, t.shx[k])
	}
	return out
}

func (t *StyleTable) Entries() []entities.TableEntry {
	out := t.Table.Entries()
	for _, s := range t.ShapeFiles() {
		out = append(out, s)
	}
	return out
}

// FindShx 按字体文件名查找形文件表项，不区分大小写
func (t *StyleTable) FindShx(font string) (*entities.Textstyle, bool) {
	t.pruneShx()
	s, ok := t.shx[key(font)]
	return s, ok
}

// GetShx 查找形文件表项，不存在时创建
func (t *StyleTable) GetShx(font string) (*entities.Textstyle, error) {
	if s, ok := t.FindShx(font); ok {
		return s, nil
	}
	s := entities.NewTextstyle("")
	s.Font = font
	s.Flags |= entities.ShapeFileFlag
	if err := t.AddShx(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddShx 同一字体已存在时失败
func (t *StyleTable) AddShx(s *entities.Textstyle) error {
	if !s.IsShapeFile() {
		return core.NewError(core.ErrCodeValue, "style %q is not a shape file entry", s.Name())
	}
	k := key(s.Font)
	if _, ok := t.FindShx(s.Font); ok {
		return entryError("shape file %q already exists", s.Font)
	}
	if err := t.adopt(s); err != nil {
		return err
	}
	t.shxKeys = append(t.shxKeys, k)
	t.shx[k] = s
	return nil
}

// DiscardShx 只从表中移除，不销毁实体
func (t *StyleTable) DiscardShx(font string) (*entities.Textstyle, bool) {
	s, ok := t.FindShx(font)
	if ok {
		k := key(font)
		delete(t.shx, k)
		t.shxKeys = slices.DeleteFunc(t.shxKeys, func(sk string) bool { return sk == k })
	}
	return s, ok
}

// RemoveShx 同时从表和数据库中删除
func (t *StyleTable) RemoveShx(font string) error {
	s, ok := t.DiscardShx(font)
	if !ok {
		return entryError("shape file %q not found", font)
	}
	return t.destroy(s)
}

func (t *StyleTable) UpdateOwnerHandles() {
	for _, e := range t.Entries() {
		e.SetOwner(t.head.Handle())
	}
}

func (t *StyleTable) Export(w core.TagWriter) error {
	return t.export(w, t.Entries())
}

func (t *StyleTable) load(records []entities.Entity) {
	named := make([]entities.Entity, 0, len(records))
	for _, r := range records {
		s, ok := r.(*entities.Textstyle)
		if !ok || !s.IsShapeFile() {
			named = append(named, r)
			continue
		}
		if err := t.AddShx(s); err != nil {
			t.drop(r, err.Error())
		}
	}
	t.Table.load(named)
}
