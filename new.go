package dxf

import (
	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
)

const (
	ModelSpace = "*Model_Space"
	PaperSpace = "*Paper_Space"
)

// raw 用原始标签构造没有专门实现的记录，例如 BLOCK、MATERIAL
func raw(tags ...core.Tag) *entities.Unknown {
	u := entities.NewUnknown(tags[0].Value)
	_ = u.Load(tags)
	return u
}

// New 创建一个只有默认表项的空文档
func New(version core.Version, opts *Options) (*Document, error) {
	d := newDocument(opts)
	modern := version.Modern()

	h := d.Header
	d.SetVersion(version)
	h.Set("$DWGCODEPAGE", core.StrTag(3, DefaultCodepage))
	h.Set("$INSBASE", core.VertexTag(10, core.Point{}, 3))
	h.Set("$HANDSEED", core.StrTag(5, "1"))
	if modern {
		h.Set("$FINGERPRINTGUID", core.StrTag(2, newGUID()))
		h.Set("$VERSIONGUID", core.StrTag(2, newGUID()))
	}

	if err := d.Tables.CreateMissing(); err != nil {
		return nil, err
	}
	if modern {
		if err := d.setupObjects(); err != nil {
			return nil, err
		}
	}
	if err := d.setupTables(modern); err != nil {
		return nil, err
	}
	return d, nil
}

// setupObjects 根字典以及图层默认引用的材质和打印样式
func (d *Document) setupObjects() error {
	root := entities.NewDictionary()
	root.SetOwner("0")
	if _, err := d.DB.Add(root); err != nil {
		return err
	}
	d.Objects = append(d.Objects, root)

	// 子字典 -> 默认对象
	children := []struct {
		key    string
		dict   *entities.Dictionary
		name   string
		object *entities.Unknown
	}{
		{"ACAD_MATERIAL", entities.NewDictionary(), "Global", raw(
			core.StrTag(0, "MATERIAL"), core.StrTag(330, "0"),
			core.StrTag(100, "AcDbMaterial"), core.StrTag(1, "Global"),
		)},
		{"ACAD_PLOTSTYLENAME", entities.NewDictionary(), "Normal", raw(
			core.StrTag(0, "ACDBPLACEHOLDER"), core.StrTag(330, "0"),
		)},
	}
	children[1].dict.TypeName = "ACDBDICTIONARYWDFLT"

	for _, c := range children {
		if _, err := d.DB.Add(c.dict); err != nil {
			return err
		}
		c.dict.SetOwner(root.Handle())
		root.Entries.Set(c.key, c.dict.Handle())

		if _, err := d.DB.Add(c.object); err != nil {
			return err
		}
		c.object.SetOwner(c.dict.Handle())
		c.dict.Entries.Set(c.name, c.object.Handle())
		d.Objects = append(d.Objects, c.dict, c.object)
	}
	return nil
}

func (d *Document) setupTables(modern bool) error {
	t := d.Tables
	for _, name := range []string{"ByBlock", "ByLayer"} {
		if _, err := t.Linetypes().New(name); err != nil {
			return err
		}
	}
	if _, err := t.Linetypes().New("Continuous", func(lt *entities.Linetype) {
		lt.Description = "Solid line"
	}); err != nil {
		return err
	}
	if _, err := t.Layers().New(entities.DefaultLayerName); err != nil {
		return err
	}
	if _, err := t.Styles().New("Standard", func(s *entities.Textstyle) { s.Font = "txt" }); err != nil {
		return err
	}
	if _, err := t.DimStyles().New("Standard"); err != nil {
		return err
	}
	if _, err := t.AppIDs().New("ACAD"); err != nil {
		return err
	}
	if _, err := t.Viewports().New("*Active"); err != nil {
		return err
	}
	if !modern {
		return nil
	}

	for _, name := range []string{ModelSpace, PaperSpace} {
		br, err := t.BlockRecords().New(name)
		if err != nil {
			return err
		}
		if err = d.newBlock(br); err != nil {
			return err
		}
	}
	return nil
}

// newBlock 为块记录创建空的 BLOCK/ENDBLK
func (d *Document) newBlock(br *entities.BlockRecord) error {
	block := raw(
		core.StrTag(0, "BLOCK"), core.StrTag(330, br.Handle()),
		core.StrTag(100, "AcDbEntity"), core.StrTag(8, entities.DefaultLayerName),
		core.StrTag(100, "AcDbBlockBegin"), core.StrTag(2, br.Name()), core.IntTag(70, 0),
		core.VertexTag(10, core.Point{}, 3), core.StrTag(3, br.Name()), core.StrTag(1, ""),
	)
	endblk := raw(
		core.StrTag(0, "ENDBLK"), core.StrTag(330, br.Handle()),
		core.StrTag(100, "AcDbEntity"), core.StrTag(8, entities.DefaultLayerName),
		core.StrTag(100, "AcDbBlockEnd"),
	)
	for _, e := range []entities.Entity{block, endblk} {
		if _, err := d.DB.Add(e); err != nil {
			return err
		}
		d.Blocks = append(d.Blocks, e)
	}
	return nil
}
