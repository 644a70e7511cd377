package tables

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
)

// Names 标准表的导出顺序
var Names = []string{
	entities.VPortType,
	entities.LinetypeType,
	entities.LayerType,
	entities.TextstyleType,
	entities.ViewType,
	entities.UCSType,
	entities.AppIDType,
	entities.DimStyleType,
	entities.BlockRecordType,
}

// collectionNames DXF 表名 -> 集合名
var collectionNames = map[string]string{
	entities.LayerType:       "LAYERS",
	entities.LinetypeType:    "LINETYPES",
	entities.AppIDType:       "APPIDS",
	entities.DimStyleType:    "DIMSTYLES",
	entities.TextstyleType:   "STYLES",
	entities.UCSType:         "UCS",
	entities.ViewType:        "VIEWS",
	entities.VPortType:       "VIEWPORTS",
	entities.BlockRecordType: "BLOCK_RECORDS",
}

// CollectionName 例如 LAYER -> LAYERS
func CollectionName(dxfName string) string {
	return collectionNames[strings.ToUpper(dxfName)]
}

// TableName 接受 DXF 表名或集合名，返回 DXF 表名；未知名称返回空串
func TableName(name string) string {
	name = strings.ToUpper(name)
	if _, ok := collectionNames[name]; ok {
		return name
	}
	for dxfName, coll := range collectionNames {
		if coll == name {
			return dxfName
		}
	}
	return ""
}

// Section TABLES 段，恰好包含九张标准表
type Section struct {
	db        *entitydb.DB
	resources Resources
	logger    *log.Logger
	tables    map[string]SymbolTable
}

func NewSection(db *entitydb.DB, resources Resources, logger *log.Logger) *Section {
	if logger == nil {
		logger = log.Default()
	}
	return &Section{
		db:        db,
		resources: resources,
		logger:    logger,
		tables:    make(map[string]SymbolTable),
	}
}

func (s *Section) create(head *entities.TableHead) SymbolTable {
	switch head.Name() {
	case entities.LayerType:
		return NewLayerTable(head, s.db, s.resources, s.logger)
	case entities.TextstyleType:
		return NewStyleTable(head, s.db, s.logger)
	case entities.VPortType:
		return NewViewportTable(head, s.db, s.logger)
	case entities.LinetypeType:
		return NewTable(head, s.db, entities.NewLinetype, s.logger)
	case entities.ViewType:
		return NewTable(head, s.db, entities.NewView, s.logger)
	case entities.UCSType:
		return NewTable(head, s.db, entities.NewUCS, s.logger)
	case entities.AppIDType:
		return NewTable(head, s.db, entities.NewAppID, s.logger)
	case entities.DimStyleType:
		return NewTable(head, s.db, entities.NewDimStyle, s.logger)
	case entities.BlockRecordType:
		return NewTable(head, s.db, entities.NewBlockRecord, s.logger)
	}
	return nil
}

// Load 按 TABLE/ENDTAB 把记录切分成各张表。缺少 ENDTAB 时在下一个 TABLE
// 或列表末尾结束当前表，只记录调试日志
func (s *Section) Load(records []entities.Entity) {
	var (
		head *entities.TableHead
		run  []entities.Entity
	)
	flush := func() {
		if head != nil {
			s.loadTable(head, run)
		}
		head, run = nil, nil
	}

	for _, r := range records {
		switch r.Type() {
		case entities.TableHeadType:
			if head != nil {
				s.logger.Debug("missing ENDTAB, table closed by next TABLE", "table", head.Name())
				flush()
			}
			th, ok := r.(*entities.TableHead)
			if !ok {
				s.discard(r, "invalid table head record")
				continue
			}
			head = th
		case entities.EndTabType:
			if head == nil {
				s.logger.Warn("ENDTAB without TABLE")
				continue
			}
			flush()
		default:
			if head == nil {
				s.discard(r, "table entry outside of a table")
				continue
			}
			run = append(run, r)
		}
	}
	if head != nil {
		s.logger.Debug("missing ENDTAB at end of section", "table", head.Name())
		flush()
	}
}

func (s *Section) loadTable(head *entities.TableHead, records []entities.Entity) {
	name := head.Name()
	if existing, ok := s.tables[name]; ok {
		s.logger.Warn("duplicate table, entries merged", "table", name)
		s.discard(head, "duplicate table head")
		existing.load(records)
		return
	}
	t := s.create(head)
	if t == nil {
		s.discard(head, "unknown table")
		for _, r := range records {
			s.discard(r, "entry of unknown table "+name)
		}
		return
	}
	if !s.db.ContainsEntity(head) {
		if _, err := s.db.Add(head); err != nil {
			s.logger.Warn("register table head", "table", name, "err", err)
		}
	}
	t.load(records)
	s.tables[name] = t
}

func (s *Section) discard(e entities.Entity, msg string) {
	s.logger.Warn(msg, "type", e.Type(), "handle", e.Handle())
	if s.db.ContainsEntity(e) {
		_ = s.db.Delete(e)
	}
}

// CreateMissing 创建缺失的标准表，可重复调用
func (s *Section) CreateMissing() error {
	for _, name := range Names {
		if _, ok := s.tables[name]; ok {
			continue
		}
		head := entities.NewTableHead(name)
		if _, err := s.db.Add(head); err != nil {
			return err
		}
		s.tables[name] = s.create(head)
	}
	return nil
}

// Get 接受 DXF 表名(LAYER)或集合名(LAYERS)
func (s *Section) Get(name string) (SymbolTable, error) {
	if t, ok := s.tables[TableName(name)]; ok {
		return t, nil
	}
	return nil, core.NewError(core.ErrCodeNotFound, "table %q not found", name)
}

// Len 已存在的表的数量
func (s *Section) Len() int { return len(s.tables) }

// Tables 按导出顺序返回已存在的表
func (s *Section) Tables() []SymbolTable {
	var out []SymbolTable
	for _, name := range Names {
		if t, ok := s.tables[name]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (s *Section) Layers() *LayerTable {
	t, _ := s.tables[entities.LayerType].(*LayerTable)
	return t
}

func (s *Section) Linetypes() *Table[*entities.Linetype] {
	t, _ := s.tables[entities.LinetypeType].(*Table[*entities.Linetype])
	return t
}

func (s *Section) Styles() *StyleTable {
	t, _ := s.tables[entities.TextstyleType].(*StyleTable)
	return t
}

func (s *Section) Viewports() *ViewportTable {
	t, _ := s.tables[entities.VPortType].(*ViewportTable)
	return t
}

func (s *Section) Views() *Table[*entities.View] {
	t, _ := s.tables[entities.ViewType].(*Table[*entities.View])
	return t
}

func (s *Section) UCS() *Table[*entities.UCS] {
	t, _ := s.tables[entities.UCSType].(*Table[*entities.UCS])
	return t
}

func (s *Section) AppIDs() *Table[*entities.AppID] {
	t, _ := s.tables[entities.AppIDType].(*Table[*entities.AppID])
	return t
}

func (s *Section) DimStyles() *Table[*entities.DimStyle] {
	t, _ := s.tables[entities.DimStyleType].(*Table[*entities.DimStyle])
	return t
}

func (s *Section) BlockRecords() *Table[*entities.BlockRecord] {
	t, _ := s.tables[entities.BlockRecordType].(*Table[*entities.BlockRecord])
	return t
}

// Export BLOCK_RECORD 只在 R2000 及以后的版本中输出
func (s *Section) Export(w core.TagWriter) error {
	w.WriteTag(0, "SECTION")
	w.WriteTag(2, "TABLES")
	for _, t := range s.Tables() {
		if t.Name() == entities.BlockRecordType && !w.Version().Modern() {
			continue
		}
		if err := t.Export(w); err != nil {
			return err
		}
	}
	w.WriteTag(0, "ENDSEC")
	return nil
}
