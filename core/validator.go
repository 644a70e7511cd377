package core

import (
	"strings"

	"github.com/charmbracelet/log"
)

const CommentCode = 999

type sectionState int

const (
	outsideSection sectionState = iota
	insideSection
)

// Validator 检查顶层结构：
//
//	(0,SECTION) ... (0,ENDSEC) 不可嵌套，最后必须有且只有一个 (0,EOF)
//
// 注释 (999) 任何位置都放行。段外的标签只警告一次，filter 为 true 时丢弃。
// 结构错误在 Next 返回 false 后由 Err 给出。
type Validator struct {
	src    TagSource
	filter bool
	logger *log.Logger

	state   sectionState
	eof     bool // 已读到 (0,EOF)
	warned  bool
	done    bool
	current Tag
	pos     int
	err     error
}

func NewValidator(src TagSource, filter bool, logger *log.Logger) *Validator {
	if logger == nil {
		logger = log.Default()
	}
	return &Validator{src: src, filter: filter, logger: logger}
}

func (v *Validator) Next() bool {
	for {
		if v.done || v.err != nil {
			return false
		}
		if !v.src.Next() {
			v.done = true
			if v.src.Err() == nil {
				v.finish()
			}
			return false
		}

		tag := v.src.Current()
		v.pos++
		if tag.Code == CommentCode {
			v.current = tag
			return true
		}

		if tag.Code == 0 {
			switch strings.ToUpper(strings.TrimSpace(tag.Value)) {
			case "SECTION":
				if v.state == insideSection {
					v.err = StructureError(v.pos, "missing ENDSEC before SECTION")
					return false
				}
				v.state = insideSection
				v.current = tag
				return true
			case "ENDSEC":
				if v.state != insideSection {
					v.err = StructureError(v.pos, "ENDSEC outside of a section")
					return false
				}
				v.state = outsideSection
				v.current = tag
				return true
			case "EOF":
				if v.state == insideSection {
					v.err = StructureError(v.pos, "EOF inside of a section, missing ENDSEC")
					return false
				}
				// EOF 之后的内容全部忽略
				v.eof, v.done = true, true
				v.current = tag
				return true
			}
		}

		if v.state == outsideSection {
			if !v.warned {
				v.warned = true
				v.logger.Warn("found tags outside of a section", "pos", v.pos, "code", tag.Code, "value", tag.Value)
			}
			if v.filter {
				continue
			}
		}
		v.current = tag
		return true
	}
}

func (v *Validator) finish() {
	switch {
	case v.state == insideSection:
		v.err = StructureError(v.pos, "premature end of file, missing ENDSEC")
	case !v.eof:
		v.err = StructureError(v.pos, "missing EOF tag")
	}
}

func (v *Validator) Current() Tag {
	return v.current
}

func (v *Validator) Err() error {
	if v.err != nil {
		return v.err
	}
	return v.src.Err()
}

// HeaderVarMarker 头变量名组码
const HeaderVarMarker = 9

// HeaderValidator 检查 HEADER 段内容：(9,"$NAME") 与值标签严格交替。
// 不要传入 (0,SECTION) (2,HEADER) (0,ENDSEC)。坐标值需先经过 Compiler 合并。
type HeaderValidator struct {
	src      TagSource
	wantName bool
	current  Tag
	pos      int
	err      error
}

func NewHeaderValidator(src TagSource) *HeaderValidator {
	return &HeaderValidator{src: src, wantName: true}
}

func (h *HeaderValidator) Next() bool {
	if h.err != nil {
		return false
	}
	if !h.src.Next() {
		if h.src.Err() == nil && !h.wantName {
			h.err = StructureError(h.pos, "missing value for header variable %q", h.current.Value)
		}
		return false
	}

	tag := h.src.Current()
	h.pos++
	if h.wantName {
		if tag.Code != HeaderVarMarker {
			h.err = StructureError(h.pos, "invalid header variable tag (%d, %s)", tag.Code, tag.Value)
			return false
		}
		if !strings.HasPrefix(tag.Value, "$") {
			h.err = &Error{Code: ErrCodeValue, Message: "invalid header variable name \"" + tag.Value + "\", missing leading \"$\"", Pos: h.pos}
			return false
		}
	}
	h.wantName = !h.wantName
	h.current = tag
	return true
}

func (h *HeaderValidator) Current() Tag {
	return h.current
}

func (h *HeaderValidator) Err() error {
	if h.err != nil {
		return h.err
	}
	return h.src.Err()
}
