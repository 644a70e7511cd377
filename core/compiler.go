package core

// Compiler 把 (10,x)(20,y)[(30,z)] 合并成一个坐标标签，其余标签原样输出
type Compiler struct {
	src     TagSource
	current Tag
	pending Tag
	hasNext bool
	err     error
}

func NewCompiler(src TagSource) *Compiler {
	return &Compiler{src: src}
}

func (c *Compiler) pull() (Tag, bool) {
	if c.hasNext {
		c.hasNext = false
		return c.pending, true
	}
	if !c.src.Next() {
		return NoneTag, false
	}
	return c.src.Current(), true
}

func (c *Compiler) push(t Tag) {
	c.pending, c.hasNext = t, true
}

func (c *Compiler) Next() bool {
	if c.err != nil {
		return false
	}
	tag, ok := c.pull()
	if !ok {
		return false
	}
	if !IsPointCode(tag.Code) || tag.Dim != 0 {
		c.current = tag
		return true
	}

	x := tag
	y, ok := c.pull()
	if !ok && c.src.Err() != nil {
		return false
	}
	if !ok || y.Code != x.Code+10 {
		c.err = StructureError(0, "missing y-axis for point code %d", x.Code)
		return false
	}
	p := Point{X: x.AsFloat(), Y: y.AsFloat()}
	dim := 2
	if z, ok := c.pull(); ok {
		if z.Code == x.Code+20 {
			p.Z, dim = z.AsFloat(), 3
		} else {
			c.push(z)
		}
	}
	c.current = VertexTag(x.Code, p, dim)
	return true
}

func (c *Compiler) Current() Tag {
	return c.current
}

func (c *Compiler) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.src.Err()
}

// Compile 编译内存中的标签序列
func Compile(tags Tags) (Tags, error) {
	return Collect(NewCompiler(NewSliceSource(tags)))
}
