package core

import (
	"errors"
	"fmt"
)

// Code 错误类别
type Code string

const (
	ErrCodeStructure   Code = "STRUCTURE"   // 文件结构错误，加载中止
	ErrCodeValue       Code = "VALUE"       // 非法值，例如缺少 "$" 的头变量名
	ErrCodeTableEntry  Code = "TABLE_ENTRY" // 表项重名或不存在
	ErrCodeIndex       Code = "INDEX"
	ErrCodeType        Code = "TYPE"
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL"
)

// Error 带错误码的错误，Pos 为出错标签在流中的序号(从 1 开始，0 表示未知)
type Error struct {
	Code    Code
	Message string
	Pos     int
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Pos > 0 {
		msg += fmt.Sprintf(" (at tag %d)", e.Pos)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func StructureError(pos int, format string, args ...any) *Error {
	return &Error{Code: ErrCodeStructure, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// IsCode 沿错误链查找指定错误码
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode 返回错误码，非 *Error 返回空串
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
