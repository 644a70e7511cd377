package dxf

import (
	"slices"
	"strings"

	"github.com/zooyer/dxfengine/core"
)

// Header HEADER 段的变量，保持文件中的顺序
type Header struct {
	names  []string
	values map[string]core.Tag
}

func NewHeader() *Header {
	return &Header{values: make(map[string]core.Tag)}
}

// loadHeader 标签必须已经通过 HeaderValidator
func loadHeader(tags core.Tags) (*Header, error) {
	v := core.NewHeaderValidator(core.NewSliceSource(tags))
	h := NewHeader()
	var name string
	for v.Next() {
		t := v.Current()
		if name == "" {
			name = t.Value
			continue
		}
		h.Set(name, t)
		name = ""
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return h, nil
}

func normName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	return name
}

func (h *Header) Get(name string) (core.Tag, bool) {
	t, ok := h.values[normName(name)]
	return t, ok
}

// String 变量不存在时返回 def
func (h *Header) String(name, def string) string {
	if t, ok := h.Get(name); ok {
		return t.AsString()
	}
	return def
}

func (h *Header) Set(name string, value core.Tag) {
	name = normName(name)
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

func (h *Header) Has(name string) bool {
	_, ok := h.values[normName(name)]
	return ok
}

func (h *Header) Delete(name string) bool {
	name = normName(name)
	if _, ok := h.values[name]; !ok {
		return false
	}
	delete(h.values, name)
	h.names = slices.DeleteFunc(h.names, func(n string) bool { return n == name })
	return true
}

// Names 按加入顺序
func (h *Header) Names() []string { return slices.Clone(h.names) }

func (h *Header) Len() int { return len(h.names) }

// Version $ACADVER，缺失时为 R12。R13/R14 等没有常量的版本号原样返回
func (h *Header) Version() core.Version {
	raw := h.String("$ACADVER", string(core.R12))
	v, err := core.ParseVersion(raw)
	if err != nil {
		if strings.HasPrefix(strings.ToUpper(raw), "AC") {
			return core.Version(strings.ToUpper(raw))
		}
		return core.R12
	}
	return v
}

func (h *Header) Export(w core.TagWriter) {
	w.WriteTag(0, "SECTION")
	w.WriteTag(2, "HEADER")
	for _, name := range h.names {
		w.WriteTag(core.HeaderVarMarker, name)
		core.WriteTags(w, h.values[name])
	}
	w.WriteTag(0, "ENDSEC")
}
