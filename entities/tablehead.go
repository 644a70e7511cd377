package entities

import (
	"strings"

	"github.com/zooyer/dxfengine/core"
)

const (
	TableHeadType = "TABLE"
	EndTabType    = "ENDTAB"
)

// TableHead 表头记录 (0,TABLE)(2,NAME)(5,handle)(330,0)(70,count)
type TableHead struct {
	BaseEntity
	TableName string
	Count     int
}

func NewTableHead(name string) *TableHead {
	return &TableHead{
		BaseEntity: BaseEntity{TypeName: TableHeadType, OwnerHandle: "0"},
		TableName:  strings.ToUpper(name),
	}
}

func (h *TableHead) Name() string { return h.TableName }

func (h *TableHead) SetName(name string) { h.TableName = strings.ToUpper(name) }

func (h *TableHead) Load(tags core.Tags) error {
	return h.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 2:
			h.TableName = strings.ToUpper(t.AsString())
		case 70:
			h.Count = t.AsInt()
		case SubclassMarker:
		default:
			return false
		}
		return true
	})
}

func (h *TableHead) Export(w core.TagWriter) error {
	w.WriteTag(0, TableHeadType)
	writeStr(w, 2, h.TableName)
	if h.HandleValue != "" {
		writeStr(w, HandleCode, h.HandleValue)
	}
	if w.Version().Modern() {
		core.WriteTags(w, h.AppData...)
		// 表头没有 owner，固定为 "0"
		writeStr(w, OwnerCode, "0")
	}
	writeSubclass(w, "AcDbSymbolTable")
	writeInt(w, 70, h.Count)
	if h.TableName == DimStyleType {
		writeSubclass(w, "AcDbDimStyleTable")
	}
	h.exportTail(w)
	return nil
}

func (h *TableHead) Clone() Entity {
	return &TableHead{BaseEntity: h.cloneBase(), TableName: h.TableName, Count: h.Count}
}
