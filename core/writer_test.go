package core

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompiler(t *testing.T) {
	tags := Tags{
		StrTag(0, "LINE"),
		StrTag(10, "1"), StrTag(20, "2"), StrTag(30, "3"),
		StrTag(11, "4"), StrTag(21, "5"),
		StrTag(40, "1.5"),
	}
	got, err := Compile(tags)
	if err != nil {
		t.Fatal(err)
	}
	want := Tags{
		StrTag(0, "LINE"),
		VertexTag(10, Point{1, 2, 3}, 3),
		VertexTag(11, Point{4, 5, 0}, 2),
		StrTag(40, "1.5"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("编译结果不符 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Tags{
		StrTag(0, "LINE"),
		FloatTag(10, 1), FloatTag(20, 2), FloatTag(30, 3),
		FloatTag(11, 4), FloatTag(21, 5),
		StrTag(40, "1.5"),
	}, got.Flatten()); diff != "" {
		t.Errorf("Flatten (-want +got):\n%s", diff)
	}
}

func TestCompiler_MissingY(t *testing.T) {
	for _, tags := range []Tags{
		{StrTag(10, "1"), StrTag(30, "3")},
		{StrTag(10, "1")},
	} {
		if _, err := Compile(tags); !IsCode(err, ErrCodeStructure) {
			t.Errorf("%v: 期望结构错误, 得到 %v", tags, err)
		}
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, R2000)
	WriteTags(w, StrTag(0, "LINE"), VertexTag(10, Point{1, 2, 0}, 2), IntTag(1071, 7))
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "  0\nLINE\n 10\n1.0\n 20\n2.0\n1071\n7\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("输出不符 (-want +got):\n%s", diff)
	}
	if w.Version() != R2000 {
		t.Errorf("Version() = %s", w.Version())
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in     string
		want   Version
		modern bool
	}{
		{"R12", R12, false},
		{"ac1015", R2000, true},
		{" R2018 ", R2018, true},
	}
	for _, tt := range tests {
		v, err := ParseVersion(tt.in)
		if err != nil || v != tt.want || v.Modern() != tt.modern {
			t.Errorf("ParseVersion(%q) = %s, %v", tt.in, v, err)
		}
	}
	if _, err := ParseVersion("R99"); !IsCode(err, ErrCodeValue) {
		t.Errorf("未知版本应该返回 VALUE 错误: %v", err)
	}
	if R2000.String() != "R2000" {
		t.Errorf("String() = %s", R2000.String())
	}
}
