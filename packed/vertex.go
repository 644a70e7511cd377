package packed

import (
	"iter"
	"slices"

	"github.com/zooyer/dxfengine/core"
)

// VertexArray 顶点缓冲区，所有顶点的分量连续存放在一个 float64 切片中，
// 顶点维度 Size 只能是 2 或 3。不变量：len(values) % Size == 0
type VertexArray struct {
	Code   int // X 分量的组码，Y 为 Code+10，Z 为 Code+20
	size   int
	values []float64
}

// NewVertexArray 每个点的分量个数必须等于 size
func NewVertexArray(size, code int, points ...[]float64) (*VertexArray, error) {
	if size != 2 && size != 3 {
		return nil, core.NewError(core.ErrCodeType, "invalid vertex size %d, expected 2 or 3", size)
	}
	va := &VertexArray{Code: code, size: size, values: make([]float64, 0, len(points)*size)}
	for i, p := range points {
		if len(p) != size {
			return nil, core.NewError(core.ErrCodeType, "invalid data shape at vertex %d, expected %d components, got %d", i, size, len(p))
		}
		va.values = append(va.values, p...)
	}
	return va, nil
}

// VertexArrayFromTags 收集编译后组码为 code 的坐标标签，未编译的分量标签会被忽略
func VertexArrayFromTags(tags core.Tags, size, code int) (*VertexArray, error) {
	va, err := NewVertexArray(size, code)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.Code != code || !t.IsVertex() {
			continue
		}
		if err = va.Append(pointOf(t, size)); err != nil {
			return nil, err
		}
	}
	return va, nil
}

func pointOf(t core.Tag, size int) []float64 {
	if size == 2 {
		return []float64{t.Point.X, t.Point.Y}
	}
	return []float64{t.Point.X, t.Point.Y, t.Point.Z}
}

func (va *VertexArray) Size() int { return va.size }

// Len 顶点个数
func (va *VertexArray) Len() int { return len(va.values) / va.size }

func (va *VertexArray) index(i int) (int, error) {
	n := va.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, core.NewError(core.ErrCodeIndex, "vertex index %d out of range [0, %d)", i, n)
	}
	return i, nil
}

func (va *VertexArray) check(p []float64) error {
	if len(p) != va.size {
		return core.NewError(core.ErrCodeValue, "point requires exact %d components, got %d", va.size, len(p))
	}
	return nil
}

// Get 支持负数下标，返回副本
func (va *VertexArray) Get(i int) ([]float64, error) {
	i, err := va.index(i)
	if err != nil {
		return nil, err
	}
	return slices.Clone(va.values[i*va.size : (i+1)*va.size]), nil
}

func (va *VertexArray) Set(i int, p []float64) error {
	i, err := va.index(i)
	if err != nil {
		return err
	}
	if err = va.check(p); err != nil {
		return err
	}
	copy(va.values[i*va.size:], p)
	return nil
}

// Insert 在顶点 pos 之前插入，pos == Len() 时追加到末尾
func (va *VertexArray) Insert(pos int, p []float64) error {
	if err := va.check(p); err != nil {
		return err
	}
	if pos < 0 {
		pos += va.Len()
	}
	if pos < 0 || pos > va.Len() {
		return core.NewError(core.ErrCodeIndex, "insert position %d out of range [0, %d]", pos, va.Len())
	}
	va.values = slices.Insert(va.values, pos*va.size, p...)
	return nil
}

func (va *VertexArray) Delete(i int) error {
	i, err := va.index(i)
	if err != nil {
		return err
	}
	va.values = slices.Delete(va.values, i*va.size, (i+1)*va.size)
	return nil
}

// DeleteRange 删除 [start, stop) 区间的顶点
func (va *VertexArray) DeleteRange(start, stop int) error {
	if start < 0 || stop > va.Len() || start > stop {
		return core.NewError(core.ErrCodeIndex, "invalid vertex range [%d, %d) for length %d", start, stop, va.Len())
	}
	va.values = slices.Delete(va.values, start*va.size, stop*va.size)
	return nil
}

func (va *VertexArray) Append(p []float64) error {
	if err := va.check(p); err != nil {
		return err
	}
	va.values = append(va.values, p...)
	return nil
}

// Extend 任何一个点维度不对都不会修改缓冲区
func (va *VertexArray) Extend(points ...[]float64) error {
	for _, p := range points {
		if err := va.check(p); err != nil {
			return err
		}
	}
	for _, p := range points {
		va.values = append(va.values, p...)
	}
	return nil
}

// SetAll 替换全部顶点
func (va *VertexArray) SetAll(points ...[]float64) error {
	for _, p := range points {
		if err := va.check(p); err != nil {
			return err
		}
	}
	va.values = va.values[:0]
	for _, p := range points {
		va.values = append(va.values, p...)
	}
	return nil
}

func (va *VertexArray) Clear() {
	va.values = va.values[:0]
}

// All 遍历顶点，产出的切片是副本
func (va *VertexArray) All() iter.Seq2[int, []float64] {
	return func(yield func(int, []float64) bool) {
		for i := 0; i < va.Len(); i++ {
			if !yield(i, slices.Clone(va.values[i*va.size:(i+1)*va.size])) {
				return
			}
		}
	}
}

// Tags 输出扁平的 (Code,x)(Code+10,y)[(Code+20,z)] 标签
func (va *VertexArray) Tags() iter.Seq[core.Tag] {
	return func(yield func(core.Tag) bool) {
		for _, p := range va.All() {
			for axis, c := range p {
				if !yield(core.FloatTag(va.Code+axis*10, c)) {
					return
				}
			}
		}
	}
}

func (va *VertexArray) Clone() Container {
	return &VertexArray{Code: va.Code, size: va.size, values: slices.Clone(va.values)}
}

// Codes 该容器在扁平序列中占用的组码
func (va *VertexArray) Codes() []int {
	codes := []int{va.Code, va.Code + 10}
	if va.size == 3 {
		codes = append(codes, va.Code+20)
	}
	return codes
}
