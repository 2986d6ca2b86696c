package canvasrenderer

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/grahamwills/sheet/definition"
	"github.com/grahamwills/sheet/layout"
)

var body = layout.FontResource{Name: "Helvetica", Family: "Helvetica", Style: layout.FontRegular}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := NewRenderer()
	lines, err := r.LayoutLines("hello world again", 40, body, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
	for _, ln := range lines {
		if strings.HasPrefix(ln.Content, " ") || strings.HasSuffix(ln.Content, " ") {
			t.Fatalf("行首尾不应保留空白: %q", ln.Content)
		}
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	r := NewRenderer()
	lines, err := r.LayoutLines("foo\n\nbar", 300, body, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

// TestGreedyWrapWidthLimit 验证每行宽度不超过限制（pt）。
func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer()
	limit := 80.0
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lines, err := r.LayoutLines(content, limit, body, 12)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected the long word to be split, got %d lines", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

func TestTextWidthInPoints(t *testing.T) {
	r := NewRenderer()
	w10, err := r.TextWidth("Strength", body, 10)
	if err != nil {
		t.Fatal(err)
	}
	w20, _ := r.TextWidth("Strength", body, 20)
	if w10 <= 0 || math.Abs(w20-2*w10) > 1e-6 {
		t.Fatalf("宽度应与字号成正比: %g / %g", w10, w20)
	}
	// 8 个字符在 10pt 下的宽度应在几十 pt 的量级
	if w10 < 20 || w10 > 80 {
		t.Fatalf("宽度单位应为 pt，实际 %g", w10)
	}
}

func TestUnknownFamilyFallsBackToDefault(t *testing.T) {
	r := NewRenderer()
	if err := r.Prepare([]layout.FontResource{{Name: "Roboto", Family: "Roboto"}}); err != nil {
		t.Fatalf("缺少自定义字体不应失败: %v", err)
	}
	want, _ := r.TextWidth("Armor Class", body, 10)
	got, err := r.TextWidth("Armor Class", layout.FontResource{Family: "Roboto"}, 10)
	if err != nil || got != want {
		t.Fatalf("应回退到 Helvetica: %g vs %g (%v)", got, want, err)
	}
}

func TestFontDirAndVariantFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Roboto-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRendererWithOptions(Options{FontDir: dir})
	regular, err := r.TextWidth("Initiative", layout.FontResource{Family: "Roboto", Style: layout.FontRegular}, 10)
	if err != nil {
		t.Fatal(err)
	}
	bold, _ := r.TextWidth("Initiative", layout.FontResource{Family: "Roboto", Style: layout.FontBoldItalic}, 10)
	if bold != regular {
		t.Fatalf("缺少粗斜体时应回退到常规体: %g vs %g", bold, regular)
	}

	names := map[string]bool{}
	for _, c := range r.Fonts().Choices() {
		names[c.Name] = true
	}
	if !names["Roboto"] || names["Roboto-Bold"] {
		t.Fatalf("字体清单应只包含存在的 Roboto 变体: %v", names)
	}
}

func sampleDefinition() *definition.Definition {
	def := &definition.Definition{
		Name: "Ayla",
		Styles: []definition.StyleSpec{
			{Name: "norm", Font: "Times-Roman", Size: 9},
			{Name: "key", Font: "Helvetica-Bold", Size: 9},
			{Name: "bold", Font: "Helvetica-Bold", Size: 7, Align: "center"},
		},
		Sections: []definition.SectionSpec{
			{Location: definition.LocationTop, Title: "Character", BorderColor: "navy", FillColor: "#eef", Content: "Name=Ayla\nClass=Ranger"},
			{Location: definition.LocationCol1, Title: "Abilities", BorderColor: "black", Columns: 2, Content: "STR=16\nDEX=14\nCON=12"},
			{Location: definition.LocationCol2, Title: "Saves", BorderColor: "black", Content: "[X][O][ ]\nDeath [X][2][O]\nNotes=[ ]"},
			{Location: definition.LocationBottom, FillColor: "lightgrey", Content: "Ayla has spent years tracking beasts through the northern forests."},
		},
	}
	def.ApplyDefaults()
	return def
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()
	l, err := layout.Build(sampleDefinition(), layout.BuildOptions{Typesetter: r, Workers: 4})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	data, err := r.Render(l)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestRenderReportsOverflow(t *testing.T) {
	def := sampleDefinition()
	def.Layout.Height = "1in"
	def.Layout.Margin = "0.25in"
	r := NewRenderer()
	l, err := layout.Build(def, layout.BuildOptions{Typesetter: r})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	_, err = r.Render(l)
	if !layout.IsOverflow(err) {
		t.Fatalf("应报告内容超出页面: %v", err)
	}
	var cfg *layout.ConfigError
	if !errors.As(err, &cfg) || cfg.Field != "layout.height" {
		t.Fatalf("应为 layout.height 配置错误: %v", err)
	}
}

func TestRenderRejectsEmptyLayout(t *testing.T) {
	if _, err := NewRenderer().Render(nil); err == nil {
		t.Fatalf("空布局应报错")
	}
}
