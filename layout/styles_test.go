package layout

import (
	"testing"

	"github.com/grahamwills/sheet/definition"
)

func TestParseAlignment(t *testing.T) {
	cases := map[string]Alignment{
		"L": AlignLeft, "left": AlignLeft,
		"c": AlignCenter, "Center": AlignCenter,
		"R": AlignRight, "right": AlignRight,
		"J": AlignJustify, "JUSTIFY": AlignJustify,
	}
	for in, want := range cases {
		got, ok := ParseAlignment(in)
		if !ok || got != want {
			t.Fatalf("ParseAlignment(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseAlignment("top"); ok {
		t.Fatalf("top 不是合法的对齐方式")
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want *Color
	}{
		{"navy", &Color{0, 0, 128}},
		{"Light Grey", &Color{211, 211, 211}},
		{"#f00", &Color{255, 0, 0}},
		{"#102030", &Color{16, 32, 48}},
		{"#10203040", &Color{16, 32, 48}},
		{"0xF4F4FF", &Color{244, 244, 255}},
		{"none", nil},
		{"", nil},
		{"#12", nil},
		{"#zzzzzz", nil},
		{"notacolor", nil},
	}
	for _, tc := range cases {
		got := ParseColor(tc.in)
		if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseFont(t *testing.T) {
	cases := []struct {
		in            string
		family, style string
	}{
		{"Helvetica", "Helvetica", FontRegular},
		{"Helvetica-Bold", "Helvetica", FontBold},
		{"Helvetica-Oblique", "Helvetica", FontItalic},
		{"Courier-BoldOblique", "Courier", FontBoldItalic},
		{"Times-Roman", "Times", FontRegular},
		{"Times-BoldItalic", "Times", FontBoldItalic},
		{"28 Days Later", "28 Days Later", FontRegular},
		{"Post No Bills-Bold", "Post No Bills", FontBold},
		{"Mrs. Monster-Wide", "Mrs. Monster-Wide", FontRegular},
	}
	for _, tc := range cases {
		f := ParseFont(tc.in)
		if f.Family != tc.family || f.Style != tc.style || f.Name != tc.in {
			t.Fatalf("ParseFont(%q) = %+v", tc.in, f)
		}
	}
}

func TestBuildStyles(t *testing.T) {
	styles, err := BuildStyles([]definition.StyleSpec{
		{Name: "norm", Font: "Times-Roman", Size: 10, Color: "bogus", Align: "J", Suffix: ":"},
		{Name: "bold", Font: "Courier-Bold", Size: 12, Color: "#800000", Align: "C"},
	})
	if err != nil {
		t.Fatal(err)
	}
	norm := styles["norm"]
	if norm.Leading != 12 || norm.Align != AlignJustify || norm.Suffix != ":" {
		t.Fatalf("norm 样式错误: %+v", norm)
	}
	if norm.Color != (Color{}) {
		t.Fatalf("无法解析的文字颜色应回退为黑色: %+v", norm.Color)
	}
	if styles["bold"].Color != (Color{R: 128}) {
		t.Fatalf("bold 颜色错误: %+v", styles["bold"].Color)
	}
	title := TitleStyle(styles)
	if title.Size != 7 || title.Font.Family != "Courier" || title.Font.Style != FontBold {
		t.Fatalf("标题样式应沿用 bold 的字体: %+v", title)
	}
	if def := TitleStyle(nil); def.Font.Family != "Helvetica" || def.Font.Style != FontBold {
		t.Fatalf("默认标题字体应为 Helvetica-Bold: %+v", def.Font)
	}
}
