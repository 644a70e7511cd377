package entities

import (
	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/packed"
)

// Dictionary OBJECTS 段中的字典对象，条目为 名称 -> 句柄
type Dictionary struct {
	BaseEntity
	HardOwned bool // 280
	Cloning   int  // 281
	Entries   *packed.TagDict

	body *packed.Sequence
}

func NewDictionary() *Dictionary {
	d := &Dictionary{BaseEntity: BaseEntity{TypeName: "DICTIONARY"}, Cloning: 1}
	d.Entries = packed.NewTagDict()
	d.body = packed.NewSequence(nil)
	d.body.Replace(d.Entries.Codes(), d.Entries)
	return d
}

// Lookup 按名称查找条目句柄
func (d *Dictionary) Lookup(name string) (string, bool) {
	return d.Entries.Get(name)
}

func (d *Dictionary) Load(tags core.Tags) error {
	var body core.Tags
	err := d.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 280:
			d.HardOwned = t.AsInt() != 0
		case 281:
			d.Cloning = t.AsInt()
		case SubclassMarker:
		default:
			body = append(body, t)
		}
		return true
	})
	if err != nil {
		return err
	}
	d.Entries = packed.TagDictFromTags(body)
	if d.HardOwned {
		d.Entries.ValueCode = packed.HardOwnerCode
	}
	d.body = packed.NewSequence(body)
	d.body.Replace(d.Entries.Codes(), d.Entries)
	return nil
}

func (d *Dictionary) Export(w core.TagWriter) error {
	d.exportHead(w)
	writeSubclass(w, "AcDbDictionary")
	if d.HardOwned {
		writeInt(w, 280, 1)
	}
	writeInt(w, 281, d.Cloning)
	for t := range d.body.Tags() {
		w.WriteTag(t.Code, t.Value)
	}
	d.exportTail(w)
	return nil
}

func (d *Dictionary) Clone() Entity {
	body, mapping := d.body.Clone()
	return &Dictionary{
		BaseEntity: d.cloneBase(),
		HardOwned:  d.HardOwned,
		Cloning:    d.Cloning,
		Entries:    mapping[d.Entries].(*packed.TagDict),
		body:       body,
	}
}
