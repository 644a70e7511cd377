package entitydb

import (
	"strconv"
	"strings"

	"github.com/zooyer/dxfengine/core"
)

// HandleGenerator 产生候选句柄，不保证空闲，由 DB 检查
type HandleGenerator interface {
	Next() string
}

// Counter 十六进制递增计数器
type Counter struct {
	next uint64
}

func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next 返回当前值并递增
func (c *Counter) Next() string {
	h := FormatHandle(c.next)
	c.next++
	return h
}

// Reset 从 seed 开始计数，例如 $HANDSEED
func (c *Counter) Reset(seed string) error {
	n, err := ParseHandle(seed)
	if err != nil {
		return err
	}
	c.next = max(n, 1)
	return nil
}

func ParseHandle(h string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(h), 16, 64)
	if err != nil {
		return 0, core.WrapError(core.ErrCodeValue, err, "invalid handle %q", h)
	}
	return n, nil
}

func FormatHandle(n uint64) string {
	return strings.ToUpper(strconv.FormatUint(n, 16))
}

// compareHandles 按数值比较，非十六进制句柄排在后面按字符串比较
func compareHandles(a, b string) int {
	na, errA := strconv.ParseUint(a, 16, 64)
	nb, errB := strconv.ParseUint(b, 16, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
