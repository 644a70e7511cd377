package dxf

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/zooyer/dxfengine/core"
	"github.com/zooyer/dxfengine/entities"
)

// newGUID AutoCAD 格式的 GUID：{XXXXXXXX-XXXX-...}
func newGUID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

func exportEntities(w core.TagWriter, list []entities.Entity) error {
	for _, e := range list {
		if !e.IsAlive() {
			continue
		}
		if err := e.Export(w); err != nil {
			return err
		}
		if linked, ok := e.(entities.Linked); ok {
			for _, sub := range linked.SubEntities() {
				if err := sub.Export(w); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func exportSection(w core.TagWriter, name string, list []entities.Entity) error {
	w.WriteTag(0, "SECTION")
	w.WriteTag(2, name)
	if err := exportEntities(w, list); err != nil {
		return err
	}
	w.WriteTag(0, "ENDSEC")
	return nil
}

// Export 把整个文档写入 w，写之前更新 $HANDSEED 和 $VERSIONGUID
func (d *Document) Export(w core.TagWriter) error {
	d.Header.Set("$HANDSEED", core.StrTag(5, d.DB.NextHandle()))
	modern := w.Version().Modern()
	if modern {
		d.Header.Set("$VERSIONGUID", core.StrTag(2, newGUID()))
	}

	d.Header.Export(w)
	if modern && d.Classes != nil {
		d.Classes.Export(w)
	}
	if err := d.Tables.Export(w); err != nil {
		return err
	}
	if err := exportSection(w, "BLOCKS", d.Blocks); err != nil {
		return err
	}
	if err := exportSection(w, "ENTITIES", d.Entities); err != nil {
		return err
	}
	if modern {
		if err := exportSection(w, "OBJECTS", d.Objects); err != nil {
			return err
		}
	}
	for _, s := range d.Extra {
		s.Export(w)
	}
	w.WriteTag(0, "EOF")
	return nil
}

// Write 以 $ACADVER 的版本写出文本 DXF；R2007 以前按 $DWGCODEPAGE 编码，
// 无法编码的字符被替换
func (d *Document) Write(out io.Writer) error {
	var (
		version = d.Version()
		tw      *transform.Writer
	)
	if version < core.R2007 {
		if enc := Codepage(d.Header.String("$DWGCODEPAGE", DefaultCodepage)); enc != nil {
			tw = transform.NewWriter(out, encoding.ReplaceUnsupported(enc.NewEncoder()))
			out = tw
		}
	}

	w := core.NewWriter(out, version)
	if err := d.Export(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}

// Save 写入文件，写入期间持有 <filename>.lock 文件锁
func (d *Document) Save(filename string) error {
	return d.SaveFile(filename, true)
}

// SaveFile 扩展名为 .gz 或 .dxfz 时压缩
func (d *Document) SaveFile(filename string, lock bool) (err error) {
	if lock {
		fl := flock.New(filename + ".lock")
		if err = fl.Lock(); err != nil {
			return core.WrapError(core.ErrCodeInternal, err, "lock %s", filename)
		}
		defer func() {
			_ = fl.Unlock()
			_ = os.Remove(fl.Path())
		}()
	}

	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz", ".dxfz":
		zw := gzip.NewWriter(file)
		if err = d.Write(zw); err != nil {
			return
		}
		return zw.Close()
	}
	return d.Write(file)
}

// SetVersion 修改 $ACADVER，下次写出时生效
func (d *Document) SetVersion(v core.Version) {
	d.Header.Set("$ACADVER", core.StrTag(1, string(v)))
}
