package entities

import (
	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/packed"
)

// 九种符号表表项的类型名
const (
	LayerType       = "LAYER"
	LinetypeType    = "LTYPE"
	TextstyleType   = "STYLE"
	VPortType       = "VPORT"
	ViewType        = "VIEW"
	UCSType         = "UCS"
	AppIDType       = "APPID"
	DimStyleType    = "DIMSTYLE"
	BlockRecordType = "BLOCK_RECORD"
)

// SymbolEntry 表项公共部分：名称 (2) 和标志位 (70)
type SymbolEntry struct {
	BaseEntity
	EntryName string
	Flags     int
}

func newSymbol(typ, name string) SymbolEntry {
	return SymbolEntry{BaseEntity: BaseEntity{TypeName: typ}, EntryName: name}
}

func (s *SymbolEntry) Name() string { return s.EntryName }

func (s *SymbolEntry) SetName(name string) { s.EntryName = name }

func (s *SymbolEntry) loadSymbol(t core.Tag) bool {
	switch t.Code {
	case 2:
		s.EntryName = t.Value
	case 70:
		s.Flags = t.AsInt()
	case SubclassMarker:
	default:
		return false
	}
	return true
}

func (s *SymbolEntry) exportSymbol(w core.TagWriter, subclass string) {
	s.exportHead(w)
	writeSubclass(w, "AcDbSymbolTableRecord")
	writeSubclass(w, subclass)
	writeStr(w, 2, s.EntryName)
	writeInt(w, 70, s.Flags)
}

func (s *SymbolEntry) cloneSymbol() SymbolEntry {
	return SymbolEntry{BaseEntity: s.cloneBase(), EntryName: s.EntryName, Flags: s.Flags}
}

// Layer 图层
type Layer struct {
	SymbolEntry
	Color           int
	Linetype        string
	Plot            bool
	Lineweight      int
	PlotStyleHandle string // 390
	MaterialHandle  string // 347
}

func NewLayer(name string) *Layer {
	return &Layer{
		SymbolEntry: newSymbol(LayerType, name),
		Color:       7,
		Linetype:    "Continuous",
		Plot:        true,
		Lineweight:  -3,
	}
}

func (l *Layer) Load(tags core.Tags) error {
	return l.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 62:
			l.Color = t.AsInt()
		case 6:
			l.Linetype = t.AsString()
		case 290:
			l.Plot = t.AsInt() != 0
		case 370:
			l.Lineweight = t.AsInt()
		case 390:
			l.PlotStyleHandle = t.AsString()
		case 347:
			l.MaterialHandle = t.AsString()
		default:
			return l.loadSymbol(t)
		}
		return true
	})
}

func (l *Layer) Export(w core.TagWriter) error {
	l.exportSymbol(w, "AcDbLayerTableRecord")
	writeInt(w, 62, l.Color)
	writeStr(w, 6, l.Linetype)
	if w.Version().Modern() {
		if !l.Plot {
			writeInt(w, 290, 0)
		}
		writeInt(w, 370, l.Lineweight)
		if l.PlotStyleHandle != "" {
			writeStr(w, 390, l.PlotStyleHandle)
		}
		if l.MaterialHandle != "" {
			writeStr(w, 347, l.MaterialHandle)
		}
	}
	l.exportTail(w)
	return nil
}

func (l *Layer) Clone() Entity {
	c := *l
	c.SymbolEntry = l.cloneSymbol()
	return &c
}

// Linetype 线型。简单线型的图案元素保存在 Elements 中，
// 带文字或形的复杂线型保留原始图案标签
type Linetype struct {
	SymbolEntry
	Description string
	TotalLength float64
	Elements    *packed.TagArray[float64] // 49
	Complex     core.Tags
}

func NewLinetype(name string) *Linetype {
	return &Linetype{
		SymbolEntry: newSymbol(LinetypeType, name),
		Elements:    packed.NewTagArray[float64](49),
	}
}

var linetypePatternCodes = map[int]bool{73: true, 40: true, 49: true, 74: true, 75: true, 340: true, 46: true, 50: true, 44: true, 45: true, 9: true}

func (lt *Linetype) Load(tags core.Tags) error {
	var pattern core.Tags
	complexType := false
	err := lt.loadTags(tags, func(t core.Tag) bool {
		switch {
		case t.Code == 3:
			lt.Description = t.Value
		case t.Code == 72:
			// 对齐方式固定为 65 ('A')
		case linetypePatternCodes[t.Code]:
			pattern = append(pattern, t)
			if t.Code == 74 && t.AsInt() != 0 || t.Code == 9 {
				complexType = true
			}
		default:
			return lt.loadSymbol(t)
		}
		return true
	})
	if err != nil {
		return err
	}
	if complexType {
		lt.Complex = pattern
		return nil
	}
	if v, ok := pattern.Value(40); ok {
		lt.TotalLength = core.Tag{Value: v}.AsFloat()
	}
	lt.Elements = packed.TagArrayFromTags[float64](pattern, 49)
	return nil
}

func (lt *Linetype) Export(w core.TagWriter) error {
	lt.exportSymbol(w, "AcDbLinetypeTableRecord")
	writeStr(w, 3, lt.Description)
	writeInt(w, 72, 65)
	if lt.Complex != nil {
		core.WriteTags(w, lt.Complex...)
	} else {
		writeInt(w, 73, lt.Elements.Len())
		writeFloat(w, 40, lt.TotalLength)
		for _, e := range lt.Elements.Values {
			writeFloat(w, 49, e)
			if w.Version().Modern() {
				writeInt(w, 74, 0)
			}
		}
	}
	lt.exportTail(w)
	return nil
}

func (lt *Linetype) Clone() Entity {
	c := *lt
	c.SymbolEntry = lt.cloneSymbol()
	c.Elements = lt.Elements.Clone().(*packed.TagArray[float64])
	c.Complex = lt.Complex.Clone()
	return &c
}

// Textstyle 文字样式，Flags 第 1 位表示形文件(SHX)，形文件表项没有名称
type Textstyle struct {
	SymbolEntry
	Height      float64
	WidthFactor float64
	Oblique     float64
	Generation  int
	LastHeight  float64
	Font        string
	BigFont     string
}

const ShapeFileFlag = 1

func NewTextstyle(name string) *Textstyle {
	return &Textstyle{
		SymbolEntry: newSymbol(TextstyleType, name),
		WidthFactor: 1,
		LastHeight:  2.5,
		Font:        "txt",
	}
}

func (s *Textstyle) IsShapeFile() bool {
	return s.EntryName == "" && s.Flags&ShapeFileFlag != 0
}

func (s *Textstyle) Load(tags core.Tags) error {
	return s.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 40:
			s.Height = t.AsFloat()
		case 41:
			s.WidthFactor = t.AsFloat()
		case 50:
			s.Oblique = t.AsFloat()
		case 71:
			s.Generation = t.AsInt()
		case 42:
			s.LastHeight = t.AsFloat()
		case 3:
			s.Font = t.Value
		case 4:
			s.BigFont = t.Value
		default:
			return s.loadSymbol(t)
		}
		return true
	})
}

func (s *Textstyle) Export(w core.TagWriter) error {
	s.exportSymbol(w, "AcDbTextStyleTableRecord")
	writeFloat(w, 40, s.Height)
	writeFloat(w, 41, s.WidthFactor)
	writeFloat(w, 50, s.Oblique)
	writeInt(w, 71, s.Generation)
	writeFloat(w, 42, s.LastHeight)
	writeStr(w, 3, s.Font)
	writeStr(w, 4, s.BigFont)
	s.exportTail(w)
	return nil
}

func (s *Textstyle) Clone() Entity {
	c := *s
	c.SymbolEntry = s.cloneSymbol()
	return &c
}

// VPort 模型空间视口配置，同名表项可以有多个
type VPort struct {
	SymbolEntry
	LowerLeft   core.Point // 10
	UpperRight  core.Point // 11
	Center      core.Point // 12
	Height      float64    // 40
	AspectRatio float64    // 41
}

func NewVPort(name string) *VPort {
	return &VPort{
		SymbolEntry: newSymbol(VPortType, name),
		UpperRight:  core.Point{X: 1, Y: 1},
		Height:      1,
		AspectRatio: 1,
	}
}

func (v *VPort) Load(tags core.Tags) error {
	return v.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 10:
			pointValue(t, &v.LowerLeft)
		case 11:
			pointValue(t, &v.UpperRight)
		case 12:
			pointValue(t, &v.Center)
		case 40:
			v.Height = t.AsFloat()
		case 41:
			v.AspectRatio = t.AsFloat()
		default:
			return v.loadSymbol(t)
		}
		return true
	})
}

func (v *VPort) Export(w core.TagWriter) error {
	v.exportSymbol(w, "AcDbViewportTableRecord")
	core.WriteTags(w,
		core.VertexTag(10, v.LowerLeft, 2),
		core.VertexTag(11, v.UpperRight, 2),
		core.VertexTag(12, v.Center, 2),
	)
	writeFloat(w, 40, v.Height)
	writeFloat(w, 41, v.AspectRatio)
	v.exportTail(w)
	return nil
}

func (v *VPort) Clone() Entity {
	c := *v
	c.SymbolEntry = v.cloneSymbol()
	return &c
}

// View 命名视图
type View struct {
	SymbolEntry
	Height    float64    // 40
	Center    core.Point // 10
	Width     float64    // 41
	Direction core.Point // 11
	Target    core.Point // 12
}

func NewView(name string) *View {
	return &View{
		SymbolEntry: newSymbol(ViewType, name),
		Height:      1,
		Width:       1,
		Direction:   core.Point{Z: 1},
	}
}

func (v *View) Load(tags core.Tags) error {
	return v.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 40:
			v.Height = t.AsFloat()
		case 10:
			pointValue(t, &v.Center)
		case 41:
			v.Width = t.AsFloat()
		case 11:
			pointValue(t, &v.Direction)
		case 12:
			pointValue(t, &v.Target)
		default:
			return v.loadSymbol(t)
		}
		return true
	})
}

func (v *View) Export(w core.TagWriter) error {
	v.exportSymbol(w, "AcDbViewTableRecord")
	writeFloat(w, 40, v.Height)
	core.WriteTags(w, core.VertexTag(10, v.Center, 2))
	writeFloat(w, 41, v.Width)
	writePoint(w, 11, v.Direction)
	writePoint(w, 12, v.Target)
	v.exportTail(w)
	return nil
}

func (v *View) Clone() Entity {
	c := *v
	c.SymbolEntry = v.cloneSymbol()
	return &c
}

// UCS 用户坐标系
type UCS struct {
	SymbolEntry
	Origin core.Point // 10
	XAxis  core.Point // 11
	YAxis  core.Point // 12
}

func NewUCS(name string) *UCS {
	return &UCS{
		SymbolEntry: newSymbol(UCSType, name),
		XAxis:       core.Point{X: 1},
		YAxis:       core.Point{Y: 1},
	}
}

func (u *UCS) Load(tags core.Tags) error {
	return u.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 10:
			pointValue(t, &u.Origin)
		case 11:
			pointValue(t, &u.XAxis)
		case 12:
			pointValue(t, &u.YAxis)
		default:
			return u.loadSymbol(t)
		}
		return true
	})
}

func (u *UCS) Export(w core.TagWriter) error {
	u.exportSymbol(w, "AcDbUCSTableRecord")
	writePoint(w, 10, u.Origin)
	writePoint(w, 11, u.XAxis)
	writePoint(w, 12, u.YAxis)
	u.exportTail(w)
	return nil
}

func (u *UCS) Clone() Entity {
	c := *u
	c.SymbolEntry = u.cloneSymbol()
	return &c
}

// AppID 注册的应用程序名，扩展数据 (1001) 引用它
type AppID struct {
	SymbolEntry
}

func NewAppID(name string) *AppID {
	return &AppID{SymbolEntry: newSymbol(AppIDType, name)}
}

func (a *AppID) Load(tags core.Tags) error {
	return a.loadTags(tags, a.loadSymbol)
}

func (a *AppID) Export(w core.TagWriter) error {
	a.exportSymbol(w, "AcDbRegAppTableRecord")
	a.exportTail(w)
	return nil
}

func (a *AppID) Clone() Entity {
	return &AppID{SymbolEntry: a.cloneSymbol()}
}

// DimStyle 标注样式，句柄组码为 105
type DimStyle struct {
	SymbolEntry
	Precision int     // 对应组码 271 DIMDEC，显示的小数位数
	ExLimit   float64 // 对应组码 44 DIMEXE，标注线超出延伸线的长度
	Scale     float64 // 对应组码 40 DIMSCALE，全局比例，影响所有标注特征
}

func NewDimStyle(name string) *DimStyle {
	d := &DimStyle{
		SymbolEntry: newSymbol(DimStyleType, name),
		Precision:   4,
		ExLimit:     0.18,
		Scale:       1.0, // 默认为 1.0，防止乘法归零
	}
	d.handleCode = DimStyleHandle
	return d
}

func (d *DimStyle) Load(tags core.Tags) error {
	return d.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 271:
			d.Precision = t.AsInt()
		case 44:
			d.ExLimit = t.AsFloat()
		case 40:
			d.Scale = t.AsFloat()
		default:
			return d.loadSymbol(t)
		}
		return true
	})
}

func (d *DimStyle) Export(w core.TagWriter) error {
	d.exportSymbol(w, "AcDbDimStyleTableRecord")
	writeFloat(w, 40, d.Scale)
	writeFloat(w, 44, d.ExLimit)
	if w.Version().Modern() {
		writeInt(w, 271, d.Precision)
	}
	d.exportTail(w)
	return nil
}

func (d *DimStyle) Clone() Entity {
	c := *d
	c.SymbolEntry = d.cloneSymbol()
	return &c
}

// BlockRecord 块记录，R2000 以后才有。70 在这里是插入单位而不是标志位
type BlockRecord struct {
	SymbolEntry
	LayoutHandle string // 340
	Units        int    // 70
	Explodable   int    // 280
	Scalable     int    // 281
}

func NewBlockRecord(name string) *BlockRecord {
	return &BlockRecord{
		SymbolEntry: newSymbol(BlockRecordType, name),
		Explodable:  1,
	}
}

func (b *BlockRecord) Load(tags core.Tags) error {
	return b.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 340:
			b.LayoutHandle = t.AsString()
		case 70:
			b.Units = t.AsInt()
		case 280:
			b.Explodable = t.AsInt()
		case 281:
			b.Scalable = t.AsInt()
		default:
			return b.loadSymbol(t)
		}
		return true
	})
}

func (b *BlockRecord) Export(w core.TagWriter) error {
	b.exportHead(w)
	writeSubclass(w, "AcDbSymbolTableRecord")
	writeSubclass(w, "AcDbBlockTableRecord")
	writeStr(w, 2, b.EntryName)
	if b.LayoutHandle != "" {
		writeStr(w, 340, b.LayoutHandle)
	}
	writeInt(w, 70, b.Units)
	writeInt(w, 280, b.Explodable)
	writeInt(w, 281, b.Scalable)
	b.exportTail(w)
	return nil
}

func (b *BlockRecord) Clone() Entity {
	c := *b
	c.SymbolEntry = b.cloneSymbol()
	return &c
}
