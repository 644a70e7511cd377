package core

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

// TagSource 拉取式标签流，用法同 bufio.Scanner：
//
//	for src.Next() {
//		tag := src.Current()
//	}
//	if err := src.Err(); err != nil { ... }
type TagSource interface {
	Next() bool
	Current() Tag
	Err() error
}

// Scanner ASCII DXF 分词器
type Scanner struct {
	reader  *bufio.Reader
	LastTag Tag
	pos     int
	err     error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// NewDecodingScanner 读取非 UTF-8 编码(例如 ANSI_1252)的文件
func NewDecodingScanner(r io.Reader, enc encoding.Encoding) *Scanner {
	if enc == nil {
		return NewScanner(r)
	}
	return NewScanner(enc.NewDecoder().Reader(r))
}

func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	// 1. 读取 Code 行
	codeLine, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(codeLine) == "") {
		if err != io.EOF {
			s.err = err
		}
		return false
	}

	codeStr := strings.TrimSpace(strings.TrimPrefix(codeLine, "\ufeff"))
	if codeStr == "" { // 跳过空行
		return s.Next()
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.err = WrapError(ErrCodeStructure, err, "invalid group code %q at tag %d", codeStr, s.pos+1)
		return false
	}

	// 2. 读取 Value 行，最后一行可以没有换行符
	valueLine, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || valueLine == "") {
		// Value 行如果 EOF 也是不完整的
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		s.err = err
		return false
	}

	// 去掉行尾的换行符，但保留 Value 开头的空格（DXF 规范要求）
	value := strings.TrimRight(valueLine, "\r\n")

	s.pos++
	s.LastTag = Tag{Code: code, Value: value}
	return true
}

func (s *Scanner) Current() Tag {
	return s.LastTag
}

// Pos 已读取的标签数
func (s *Scanner) Pos() int {
	return s.pos
}

func (s *Scanner) Err() error {
	return s.err
}

// SliceSource 在内存标签序列上实现 TagSource
type SliceSource struct {
	tags Tags
	pos  int
}

func NewSliceSource(tags Tags) *SliceSource {
	return &SliceSource{tags: tags}
}

func (s *SliceSource) Next() bool {
	if s.pos >= len(s.tags) {
		return false
	}
	s.pos++
	return true
}

func (s *SliceSource) Current() Tag {
	if s.pos == 0 || s.pos > len(s.tags) {
		return NoneTag
	}
	return s.tags[s.pos-1]
}

func (s *SliceSource) Err() error {
	return nil
}

// Collect 读取剩余的全部标签
func Collect(src TagSource) (Tags, error) {
	var tags Tags
	for src.Next() {
		tags = append(tags, src.Current())
	}
	return tags, src.Err()
}
