package tables

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
)

const (
	DefaultMaterial  = "Global"
	DefaultPlotStyle = "Normal"
)

// Resources 查找文档 OBJECTS 段中的公共资源句柄，找不到返回空串
type Resources interface {
	MaterialHandle(name string) string
	PlotStyleHandle(name string) string
}

// LayerTable 新建图层时自动填充默认材质和打印样式
type LayerTable struct {
	*Table[*entities.Layer]
	resources Resources
}

func NewLayerTable(head *entities.TableHead, db *entitydb.DB, resources Resources, logger *log.Logger) *LayerTable {
	return &LayerTable{
		Table:     NewTable(head, db, entities.NewLayer, logger),
		resources: resources,
	}
}

func (t *LayerTable) New(name string, setup ...func(*entities.Layer)) (*entities.Layer, error) {
	return t.Table.New(name, append(slices.Clone(setup), t.fillDefaults)...)
}

func (t *LayerTable) fillDefaults(l *entities.Layer) {
	if t.resources == nil {
		return
	}
	if l.MaterialHandle == "" {
		l.MaterialHandle = t.resources.MaterialHandle(DefaultMaterial)
	}
	if l.PlotStyleHandle == "" {
		l.PlotStyleHandle = t.resources.PlotStyleHandle(DefaultPlotStyle)
	}
}

// CreateReferencedLayers 为图形实体引用但不存在的图层创建表项，返回新建的图层名
func (t *LayerTable) CreateReferencedLayers(ents []entities.Entity) []string {
	var created []string
	for _, e := range ents {
		g, ok := e.(entities.Graphic)
		if !ok || g.Layer() == "" || t.Has(g.Layer()) {
			continue
		}
		if _, err := t.New(g.Layer()); err != nil {
			t.logger.Warn("create referenced layer", "layer", g.Layer(), "err", err)
			continue
		}
		created = append(created, g.Layer())
	}
	return created
}
