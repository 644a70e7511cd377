// Package dxf 读取、修改和写出 DXF 文档。
//
// 加载流程：Scanner 分词 -> Validator 检查段结构 -> Compiler 合并坐标 ->
// 按段解码为实体 -> 注册到实体数据库 -> 组装符号表 -> 链接 INSERT 的属性。
package dxf

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
	"github.com/zooyer/dxfengine/entitydb"
	"github.com/zooyer/dxfengine/tables"
)

// Options 加载选项，零值可用
type Options struct {
	Logger *log.Logger
	// FilterOutside 丢弃段外的标签
	FilterOutside bool
	// Registry 为空时使用 entities.NewDefaultRegistry
	Registry *entities.Registry
	// Encoding 强制使用的编码，为空时根据 $DWGCODEPAGE 判断
	Encoding encoding.Encoding
}

func (o *Options) logger() *log.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o *Options) registry() *entities.Registry {
	if o == nil || o.Registry == nil {
		return entities.NewDefaultRegistry()
	}
	return o.Registry
}

// Section 原样保留的段，例如 CLASSES、THUMBNAILIMAGE
type Section struct {
	Name string
	Tags core.Tags
}

func (s *Section) Export(w core.TagWriter) {
	w.WriteTag(0, "SECTION")
	w.WriteTag(2, s.Name)
	core.WriteTags(w, s.Tags...)
	w.WriteTag(0, "ENDSEC")
}

type Document struct {
	Header   *Header
	DB       *entitydb.DB
	Tables   *tables.Section
	Classes  *Section
	Blocks   []entities.Entity
	Entities []entities.Entity
	Objects  []entities.Entity
	// Extra 其他段按文件中的顺序保留
	Extra []*Section

	registry *entities.Registry
	logger   *log.Logger
}

func newDocument(opts *Options) *Document {
	d := &Document{
		Header:   NewHeader(),
		registry: opts.registry(),
		logger:   opts.logger(),
	}
	d.DB = entitydb.New(d.logger)
	d.Tables = tables.NewSection(d.DB, d, d.logger)
	return d
}

func (d *Document) Logger() *log.Logger { return d.logger }

func (d *Document) Version() core.Version { return d.Header.Version() }

func isGzip(filename string, r *bufio.Reader) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz", ".dxfz":
		return true
	}
	magic, err := r.Peek(2)
	return err == nil && magic[0] == 0x1f && magic[1] == 0x8b
}

func Open(filename string, opts *Options) (doc *Document, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	var reader io.Reader = bufio.NewReader(file)
	if isGzip(filename, reader.(*bufio.Reader)) {
		zr, err := gzip.NewReader(reader)
		if err != nil {
			return nil, core.WrapError(core.ErrCodeStructure, err, "open %s", filename)
		}
		defer zr.Close()
		reader = zr
	}

	return Load(reader, opts)
}

// Load 任何致命错误都会丢弃整个文档，不会留下只加载了一半的数据库
func Load(reader io.Reader, opts *Options) (*Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	enc := detectEncoding(data)
	if opts != nil && opts.Encoding != nil {
		enc = opts.Encoding
	}

	var (
		logger   = opts.logger()
		scanner  = core.NewDecodingScanner(bytes.NewReader(data), enc)
		filter   = opts != nil && opts.FilterOutside
		compiler = core.NewCompiler(core.NewValidator(scanner, filter, logger))
	)
	tags, err := core.Collect(compiler)
	if err != nil {
		return nil, err
	}

	doc := newDocument(opts)
	if err = doc.load(splitSections(tags)); err != nil {
		return nil, err
	}
	return doc, nil
}

// splitSections 输入已经通过 Validator，每段以 (0,SECTION) 开始、(0,ENDSEC) 结束
func splitSections(tags core.Tags) []*Section {
	var (
		sections []*Section
		current  *Section
	)
	for i := 0; i < len(tags); i++ {
		t := tags[i]
		switch {
		case t.Code == core.CommentCode:
		case t.Is(0, "SECTION"):
			current = &Section{}
			if i+1 < len(tags) && tags[i+1].Code == 2 {
				current.Name = strings.ToUpper(tags[i+1].Value)
				i++
			}
		case t.Is(0, "ENDSEC"):
			if current != nil {
				sections = append(sections, current)
			}
			current = nil
		case current != nil:
			current.Tags = append(current.Tags, t)
		}
	}
	return sections
}

// rawSection 不解码、原样保留的段
func rawSection(name string) bool {
	switch name {
	case "HEADER", "CLASSES", "TABLES", "BLOCKS", "ENTITIES", "OBJECTS":
		return false
	}
	return true
}

func (d *Document) load(sections []*Section) error {
	// 原样保留的段里的句柄不能再分配给新实体，
	// 先于所有实体登记，不管这些段出现在什么位置
	for _, s := range sections {
		if !rawSection(s.Name) {
			continue
		}
		for _, t := range s.Tags {
			if t.Code == entities.HandleCode {
				d.DB.Reserve(t.AsString())
			}
		}
	}

	for _, s := range sections {
		switch s.Name {
		case "HEADER":
			h, err := loadHeader(s.Tags)
			if err != nil {
				return err
			}
			d.Header = h
		case "CLASSES":
			d.Classes = s
		case "TABLES":
			records, err := d.decode(s.Tags)
			if err != nil {
				return err
			}
			for _, r := range records {
				if r.Type() == entities.EndTabType {
					continue
				}
				if _, err = d.DB.Add(r); err != nil {
					return err
				}
			}
			d.Tables.Load(records)
		case "BLOCKS", "ENTITIES", "OBJECTS":
			records, err := d.decode(s.Tags)
			if err != nil {
				return err
			}
			records = d.link(records)
			for _, r := range records {
				if _, err = d.DB.Add(r); err != nil {
					return err
				}
			}
			switch s.Name {
			case "BLOCKS":
				d.Blocks = records
			case "ENTITIES":
				d.Entities = records
			default:
				d.Objects = records
			}
		default:
			d.logger.Debug("keep section as raw tags", "section", s.Name)
			d.Extra = append(d.Extra, s)
		}
	}

	if err := d.Tables.CreateMissing(); err != nil {
		return err
	}
	if seed, ok := d.Header.Get("$HANDSEED"); ok {
		if err := d.DB.Seed(seed.AsString()); err != nil {
			d.logger.Warn("invalid $HANDSEED", "value", seed.Value)
		}
	}
	return nil
}

func (d *Document) decode(tags core.Tags) ([]entities.Entity, error) {
	records := tags.Records()
	out := make([]entities.Entity, 0, len(records))
	for _, rec := range records {
		e, err := d.registry.Decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// link 把 INSERT 后面紧跟的 ATTRIB 和 SEQEND 挂到 INSERT 上，返回顶层实体
func (d *Document) link(records []entities.Entity) []entities.Entity {
	out := make([]entities.Entity, 0, len(records))
	var insert *entities.Insert
	for _, r := range records {
		switch e := r.(type) {
		case *entities.Attrib:
			if insert != nil {
				insert.Attributes = append(insert.Attributes, e)
				continue
			}
			d.logger.Warn("ATTRIB without INSERT", "handle", e.Handle())
		case *entities.SeqEnd:
			if insert != nil {
				insert.Seqend = e
				insert = nil
				continue
			}
		case *entities.Insert:
			insert = e
			out = append(out, r)
			continue
		default:
			if insert != nil && len(insert.Attributes) > 0 && insert.Seqend == nil {
				d.logger.Warn("missing SEQEND after ATTRIB", "insert", insert.Handle())
			}
		}
		insert = nil
		out = append(out, r)
	}
	return out
}

// rootDictionary OBJECTS 段的第一个对象
func (d *Document) rootDictionary() *entities.Dictionary {
	if len(d.Objects) == 0 {
		return nil
	}
	root, _ := d.Objects[0].(*entities.Dictionary)
	return root
}

// resource 在根字典的 collection 子字典中查找 name
func (d *Document) resource(collection, name string) string {
	root := d.rootDictionary()
	if root == nil {
		return ""
	}
	h, ok := root.Lookup(collection)
	if !ok {
		return ""
	}
	e, ok := d.DB.Get(h)
	if !ok {
		return ""
	}
	dict, ok := e.(*entities.Dictionary)
	if !ok {
		return ""
	}
	h, _ = dict.Lookup(name)
	return h
}

func (d *Document) MaterialHandle(name string) string {
	return d.resource("ACAD_MATERIAL", name)
}

func (d *Document) PlotStyleHandle(name string) string {
	return d.resource("ACAD_PLOTSTYLENAME", name)
}

// DimensionValue 标注显示的数值：文字覆盖了测量值时取文字中的数字，
// 否则按标注样式的精度舍入
func (d *Document) DimensionValue(dim *entities.Dimension) float64 {
	if !strings.Contains(dim.Text, "<>") {
		if v, ok := dim.TextValue(); ok {
			return v
		}
	}
	precision := 0
	if style, err := d.Tables.DimStyles().Get(dim.StyleName); err == nil {
		precision = style.Precision
	}
	p := math.Pow(10, float64(precision))
	return math.Round(dim.MeasuredValue()*p) / p
}

// Modelspace 模型空间中的实体
func (d *Document) Modelspace() []entities.Entity { return d.Entities }

// AddEntity 把实体注册到数据库并加入 ENTITIES 段，owner 为 *Model_Space 块记录
func (d *Document) AddEntity(e entities.Entity) (string, error) {
	h, err := d.DB.Add(e)
	if err != nil {
		return "", err
	}
	if br := d.Tables.BlockRecords(); br != nil {
		if ms, err := br.Get("*Model_Space"); err == nil {
			e.SetOwner(ms.Handle())
		}
	}
	d.Entities = append(d.Entities, e)
	return h, nil
}

// DeleteEntity 从 ENTITIES 段和数据库中删除
func (d *Document) DeleteEntity(e entities.Entity) error {
	for i, x := range d.Entities {
		if x == e {
			d.Entities = append(d.Entities[:i], d.Entities[i+1:]...)
			break
		}
	}
	return d.DB.Delete(e)
}
