package entities

import (
	"slices"
	"strings"

	"github.com/zooyer/dxfengine/core"
)

// Unknown 未实现的实体类型，完整保留原始标签，原样写回
type Unknown struct {
	tags      core.Tags
	destroyed bool
}

func NewUnknown(typeName string) *Unknown {
	return &Unknown{tags: core.Tags{core.StrTag(0, typeName)}}
}

func (u *Unknown) Type() string { return strings.ToUpper(u.tags[0].AsString()) }

// Tags 原始标签(编译后)
func (u *Unknown) Tags() core.Tags { return u.tags }

func (u *Unknown) Load(tags core.Tags) error {
	if len(tags) == 0 || tags[0].Code != 0 {
		return core.NewError(core.ErrCodeStructure, "entity tags must start with a (0, TYPE) tag")
	}
	u.tags = tags.Clone()
	return nil
}

// find 跳过 102 应用数据组查找组码
func (u *Unknown) find(code int) int {
	inAppData := false
	for i, t := range u.tags {
		if i == 0 {
			continue
		}
		if t.Code == AppDataMarker {
			inAppData = strings.HasPrefix(t.Value, "{")
			continue
		}
		if !inAppData && t.Code == code {
			return i
		}
	}
	return -1
}

func (u *Unknown) handleIndex() int {
	if i := u.find(HandleCode); i >= 0 {
		return i
	}
	return u.find(DimStyleHandle)
}

func (u *Unknown) Handle() string {
	if i := u.handleIndex(); i >= 0 {
		return strings.ToUpper(u.tags[i].AsString())
	}
	return ""
}

func (u *Unknown) SetHandle(h string) {
	i := u.handleIndex()
	switch {
	case i >= 0 && h == "":
		u.tags = slices.Delete(u.tags, i, i+1)
	case i >= 0:
		u.tags[i].Value = h
	case h != "":
		u.tags = slices.Insert(u.tags, 1, core.StrTag(HandleCode, h))
	}
}

func (u *Unknown) Owner() string {
	if i := u.find(OwnerCode); i >= 0 {
		return strings.ToUpper(u.tags[i].AsString())
	}
	return ""
}

// SetOwner 没有 owner 标签的实体(例如 R12)不做修改
func (u *Unknown) SetOwner(h string) {
	if i := u.find(OwnerCode); i >= 0 {
		u.tags[i].Value = h
	}
}

func (u *Unknown) Export(w core.TagWriter) error {
	core.WriteTags(w, u.tags...)
	return nil
}

func (u *Unknown) Clone() Entity {
	c := &Unknown{tags: u.tags.Clone()}
	c.SetHandle("")
	return c
}

func (u *Unknown) Destroy() { u.destroyed = true }

func (u *Unknown) IsAlive() bool { return !u.destroyed }
