package entities

import (
	"strings"

	"github.com/zooyer/dxfengine/core"
)

// Entity 是一切 DXF 记录的接口
type Entity interface {
	Type() string
	Handle() string
	SetHandle(h string)
	Owner() string
	SetOwner(h string)
	// Load 从编译后的标签读入，tags[0] 为 (0, TYPE)
	Load(tags core.Tags) error
	Export(w core.TagWriter) error
	// Clone 深拷贝，副本没有句柄
	Clone() Entity
	// Destroy 释放对子实体的引用，之后 IsAlive 返回 false
	Destroy()
	IsAlive() bool
}

// TableEntry 符号表表项
type TableEntry interface {
	Entity
	Name() string
	SetName(name string)
}

// Linked 拥有子实体的实体，例如带属性的 INSERT
type Linked interface {
	Entity
	SubEntities() []Entity
}

// Graphic 图形实体
type Graphic interface {
	Entity
	Layer() string
}

// EntityFactory 定义了如何创建一个空实体
type EntityFactory func() Entity

// Registry 实体类型到构造函数的映射，每个文档持有自己的实例
type Registry struct {
	factories map[string]EntityFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EntityFactory)}
}

// Register 重复注册同一类型返回错误
func (r *Registry) Register(typeName string, factory EntityFactory) error {
	typeName = strings.ToUpper(typeName)
	if _, ok := r.factories[typeName]; ok {
		return core.NewError(core.ErrCodeInternal, "entity type %s already registered", typeName)
	}
	r.factories[typeName] = factory
	return nil
}

// MustRegister 只在构造注册表时使用
func (r *Registry) MustRegister(typeName string, factory EntityFactory) {
	if err := r.Register(typeName, factory); err != nil {
		panic(err)
	}
}

func (r *Registry) Has(typeName string) bool {
	_, ok := r.factories[strings.ToUpper(typeName)]
	return ok
}

// Create 根据实体名称生产对应的结构体，未注册的类型返回 Unknown
func (r *Registry) Create(typeName string) Entity {
	typeName = strings.ToUpper(typeName)
	if factory, ok := r.factories[typeName]; ok {
		return factory()
	}
	return NewUnknown(typeName)
}

// Decode 创建实体并读入标签
func (r *Registry) Decode(tags core.Tags) (Entity, error) {
	if len(tags) == 0 || tags[0].Code != 0 {
		return nil, core.NewError(core.ErrCodeStructure, "entity tags must start with a (0, TYPE) tag")
	}
	e := r.Create(tags[0].AsString())
	if err := e.Load(tags); err != nil {
		return nil, err
	}
	return e, nil
}

// NewDefaultRegistry 注册本包实现的全部实体类型
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(TableHeadType, func() Entity { return NewTableHead("") })

	r.MustRegister(LayerType, func() Entity { return NewLayer("") })
	r.MustRegister(LinetypeType, func() Entity { return NewLinetype("") })
	r.MustRegister(TextstyleType, func() Entity { return NewTextstyle("") })
	r.MustRegister(VPortType, func() Entity { return NewVPort("") })
	r.MustRegister(ViewType, func() Entity { return NewView("") })
	r.MustRegister(UCSType, func() Entity { return NewUCS("") })
	r.MustRegister(AppIDType, func() Entity { return NewAppID("") })
	r.MustRegister(DimStyleType, func() Entity { return NewDimStyle("") })
	r.MustRegister(BlockRecordType, func() Entity { return NewBlockRecord("") })

	r.MustRegister("LINE", func() Entity { return NewLine() })
	r.MustRegister("LWPOLYLINE", func() Entity { return NewLWPolyline() })
	r.MustRegister("SPLINE", func() Entity { return NewSpline() })
	r.MustRegister(InsertType, func() Entity { return NewInsert("") })
	r.MustRegister(AttribType, func() Entity { return NewAttrib() })
	r.MustRegister(SeqEndType, func() Entity { return NewSeqEnd() })
	r.MustRegister("DIMENSION", func() Entity { return NewDimension() })
	r.MustRegister("DICTIONARY", func() Entity { return NewDictionary() })
	r.MustRegister("ACDBDICTIONARYWDFLT", func() Entity {
		d := NewDictionary()
		d.TypeName = "ACDBDICTIONARYWDFLT"
		return d
	})
	return r
}
