package entities

import (
	"strconv"
	"strings"

	"github.com/zooyer/dxfengine/core"
)

const (
	HandleCode       = 5
	DimStyleHandle   = 105 // DIMSTYLE 表项的句柄组码
	OwnerCode        = 330
	SubclassMarker   = 100
	AppDataMarker    = 102
	XDataStartCode   = 1000
	DefaultLayerName = "0"
)

// BaseEntity 存放所有实体通用的属性（Handle, Owner, 扩展数据）
type BaseEntity struct {
	TypeName    string
	HandleValue string
	OwnerHandle string
	AppData     core.Tags // (102,"{APP") ... (102,"}")
	XData       core.Tags // 组码 >= 1000
	Extra       core.Tags // 没有对应字段的标签，原样保留

	handleCode int
	destroyed  bool
}

func (b *BaseEntity) Type() string { return b.TypeName }

func (b *BaseEntity) Handle() string { return b.HandleValue }

func (b *BaseEntity) SetHandle(h string) { b.HandleValue = h }

func (b *BaseEntity) Owner() string { return b.OwnerHandle }

func (b *BaseEntity) SetOwner(h string) { b.OwnerHandle = h }

func (b *BaseEntity) IsAlive() bool { return !b.destroyed }

func (b *BaseEntity) Destroy() { b.destroyed = true }

func (b *BaseEntity) hcode() int {
	if b.handleCode == 0 {
		return HandleCode
	}
	return b.handleCode
}

// cloneBase 复制公共部分，句柄清空，由数据库重新分配
func (b *BaseEntity) cloneBase() BaseEntity {
	return BaseEntity{
		TypeName:    b.TypeName,
		OwnerHandle: b.OwnerHandle,
		AppData:     b.AppData.Clone(),
		XData:       b.XData.Clone(),
		Extra:       b.Extra.Clone(),
		handleCode:  b.handleCode,
	}
}

// loadTags 处理公共组码，其余交给 field；field 返回 false 的标签进入 Extra。
// tags[0] 是 (0, TYPE)。
func (b *BaseEntity) loadTags(tags core.Tags, field func(core.Tag) bool) error {
	if len(tags) == 0 || tags[0].Code != 0 {
		return core.NewError(core.ErrCodeStructure, "entity tags must start with a (0, TYPE) tag")
	}
	if b.TypeName == "" {
		b.TypeName = strings.ToUpper(tags[0].AsString())
	}

	var (
		inAppData bool
		hasOwner  bool
	)
	for _, t := range tags[1:] {
		switch {
		case inAppData:
			b.AppData = append(b.AppData, t)
			if t.Code == AppDataMarker && strings.TrimSpace(t.Value) == "}" {
				inAppData = false
			}
		case t.Code == AppDataMarker && strings.HasPrefix(t.Value, "{"):
			inAppData = true
			b.AppData = append(b.AppData, t)
		case t.Code >= XDataStartCode:
			b.XData = append(b.XData, t)
		case t.Code == b.hcode() && b.HandleValue == "":
			b.HandleValue = strings.ToUpper(t.AsString())
		case t.Code == OwnerCode && !hasOwner:
			b.OwnerHandle, hasOwner = strings.ToUpper(t.AsString()), true
		default:
			if field == nil || !field(t) {
				b.Extra = append(b.Extra, t)
			}
		}
	}
	if inAppData {
		return core.NewError(core.ErrCodeStructure, "%s: unclosed application data group", b.TypeName)
	}
	return nil
}

// exportHead 写出 (0,TYPE)、句柄、应用数据和 owner
func (b *BaseEntity) exportHead(w core.TagWriter) {
	w.WriteTag(0, b.TypeName)
	if b.HandleValue != "" {
		w.WriteTag(b.hcode(), b.HandleValue)
	}
	if !w.Version().Modern() {
		return
	}
	core.WriteTags(w, b.AppData...)
	if b.OwnerHandle != "" {
		w.WriteTag(OwnerCode, b.OwnerHandle)
	}
}

// exportTail 写出未识别的标签和扩展数据
func (b *BaseEntity) exportTail(w core.TagWriter) {
	core.WriteTags(w, b.Extra...)
	core.WriteTags(w, b.XData...)
}

func writeSubclass(w core.TagWriter, name string) {
	if w.Version().Modern() {
		w.WriteTag(SubclassMarker, name)
	}
}

func writeStr(w core.TagWriter, code int, s string) {
	w.WriteTag(code, s)
}

func writeInt(w core.TagWriter, code, v int) {
	w.WriteTag(code, strconv.Itoa(v))
}

func writeFloat(w core.TagWriter, code int, v float64) {
	w.WriteTag(code, core.FormatFloat(v))
}

func writePoint(w core.TagWriter, code int, p core.Point) {
	core.WriteTags(w, core.VertexTag(code, p, 3))
}

// pointValue 读取坐标标签，兼容未编译的单分量标签
func pointValue(t core.Tag, p *core.Point) {
	if t.IsVertex() {
		*p = t.Point
		return
	}
	p.X = t.AsFloat()
}

// GraphicEntity 图形实体的公共属性
type GraphicEntity struct {
	BaseEntity
	LayerName string
	Linetype  string // 空表示 BYLAYER，不输出
	Color     int    // 256 = BYLAYER，不输出
}

func newGraphic(typ string) GraphicEntity {
	return GraphicEntity{
		BaseEntity: BaseEntity{TypeName: typ},
		LayerName:  DefaultLayerName,
		Color:      256,
	}
}

func (g *GraphicEntity) Layer() string { return g.LayerName }

func (g *GraphicEntity) loadGraphic(t core.Tag) bool {
	switch t.Code {
	case 8:
		g.LayerName = t.AsString()
	case 6:
		g.Linetype = t.AsString()
	case 62:
		g.Color = t.AsInt()
	case SubclassMarker:
		// 子类标记导出时重新生成
	default:
		return false
	}
	return true
}

func (g *GraphicEntity) exportGraphic(w core.TagWriter) {
	g.exportHead(w)
	writeSubclass(w, "AcDbEntity")
	writeStr(w, 8, g.LayerName)
	if g.Linetype != "" {
		writeStr(w, 6, g.Linetype)
	}
	if g.Color != 256 {
		writeInt(w, 62, g.Color)
	}
}

func (g *GraphicEntity) cloneGraphic() GraphicEntity {
	return GraphicEntity{
		BaseEntity: g.cloneBase(),
		LayerName:  g.LayerName,
		Linetype:   g.Linetype,
		Color:      g.Color,
	}
}
