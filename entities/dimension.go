package entities

import (
	"regexp"
	"strconv"

	"github.com/zooyer/dxfengine/core"
)

type Dimension struct {
	GraphicEntity
	BlockName         string     // 组码 2 (匿名块 *D)
	Flags             int        // 组码 70，低 3 位是标注类型
	StyleName         string     // 组码 3 (标注样式名称，关联 DIMSTYLE 表)
	ActualMeasurement float64    // 组码 42
	Text              string     // 组码 1
	Angle             float64    // 组码 50
	DefPoint          core.Point // 组码 10 (标注线起点)
	TextMidPoint      core.Point // 组码 11 (中间的点)
	MeasureStart      core.Point // 组码 13 (被测量的起点)
	MeasureEnd        core.Point // 组码 14 (被测量的终点)
}

func NewDimension() *Dimension {
	return &Dimension{GraphicEntity: newGraphic("DIMENSION"), StyleName: "Standard"}
}

// DimType 标注类型：0 线性，1 对齐，2 角度，3 直径，4 半径，5 三点角度，6 坐标
func (d *Dimension) DimType() int { return d.Flags & 0x07 }

func (d *Dimension) Load(tags core.Tags) error {
	return d.loadTags(tags, func(t core.Tag) bool {
		switch t.Code {
		case 2:
			d.BlockName = t.AsString()
		case 3:
			d.StyleName = t.AsString()
		case 1:
			d.Text = t.AsString()
		case 42:
			d.ActualMeasurement = t.AsFloat()
		case 50:
			d.Angle = t.AsFloat()
		case 70:
			d.Flags = t.AsInt()
		case 10:
			pointValue(t, &d.DefPoint)
		case 11:
			pointValue(t, &d.TextMidPoint)
		case 13:
			pointValue(t, &d.MeasureStart)
		case 14:
			pointValue(t, &d.MeasureEnd)
		default:
			return d.loadGraphic(t)
		}
		return true
	})
}

func (d *Dimension) Export(w core.TagWriter) error {
	d.exportGraphic(w)
	writeSubclass(w, "AcDbDimension")
	writeStr(w, 2, d.BlockName)
	writePoint(w, 10, d.DefPoint)
	writePoint(w, 11, d.TextMidPoint)
	writeInt(w, 70, d.Flags)
	if d.Text != "" {
		writeStr(w, 1, d.Text)
	}
	if d.ActualMeasurement != 0 {
		writeFloat(w, 42, d.ActualMeasurement)
	}
	writeStr(w, 3, d.StyleName)
	if d.DimType() <= 1 {
		writeSubclass(w, "AcDbAlignedDimension")
	}
	writePoint(w, 13, d.MeasureStart)
	writePoint(w, 14, d.MeasureEnd)
	if d.Angle != 0 {
		writeFloat(w, 50, d.Angle)
	}
	if d.DimType() == 0 {
		writeSubclass(w, "AcDbRotatedDimension")
	}
	d.exportTail(w)
	return nil
}

func (d *Dimension) Clone() Entity {
	c := *d
	c.GraphicEntity = d.cloneGraphic()
	return &c
}

var (
	reFormat = regexp.MustCompile(`\\[A-Z].*?;`)
	reNumber = regexp.MustCompile(`[0-9.]+`)
)

// MeasuredValue 测量值，42 缺失时从标注文字中提取
func (d *Dimension) MeasuredValue() float64 {
	if d.ActualMeasurement <= 0 {
		if v, ok := d.TextValue(); ok {
			return v
		}
	}
	return d.ActualMeasurement
}

// TextValue 去掉格式代码后标注文字中的第一个数字
func (d *Dimension) TextValue() (float64, bool) {
	if d.Text == "" {
		return 0, false
	}
	match := reNumber.FindString(reFormat.ReplaceAllString(d.Text, ""))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	return v, err == nil
}
