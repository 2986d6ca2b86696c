package layout

import (
	"fmt"
	"image"
	"math"
)

// Node 是可测量、可绘制的排版单元。变体集合是封闭的：
// *Paragraph、*CheckboxRow、*TextField、*Image 与 *Table，渲染器按类型分派。
//
// Measure 会把测量结果写回节点本身，因此同一棵树不能在多个候选之间共享，
// 每个候选都必须构建自己的树。
type Node interface {
	Measure(ts Typesetter, width float64) (Size, error)
	Size() Size
	flowNode()
}

const (
	checkboxScale = 0.9
	checkboxPad   = 6.0
	fieldExtra    = 4.0
)

func checkWidth(kind string, width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return fmt.Errorf("%s: 可用宽度 %v 无效", kind, width)
	}
	return nil
}

// Paragraph 是一段按宽度折行的文本。
type Paragraph struct {
	Text  string     `json:"text"`
	Style Style      `json:"style"`
	Lines []TextLine `json:"lines,omitempty"`
	Avail float64    `json:"avail"`
	size  Size
}

func NewParagraph(text string, style Style) *Paragraph {
	return &Paragraph{Text: text, Style: style}
}

func (p *Paragraph) Measure(ts Typesetter, width float64) (Size, error) {
	if err := checkWidth("paragraph", width); err != nil {
		return Size{}, err
	}
	p.Avail = width
	p.Lines = nil
	p.size = Size{}
	if p.Text == "" {
		return p.size, nil
	}
	lines, err := ts.LayoutLines(p.Text, width, p.Style.Font, p.Style.Size)
	if err != nil {
		return Size{}, fmt.Errorf("排版文本 %q 失败: %w", p.Text, err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{}}
	}
	w := 0.0
	for _, l := range lines {
		w = math.Max(w, l.Width)
	}
	p.Lines = lines
	p.size = Size{Width: math.Min(w, width), Height: float64(len(lines)) * p.Style.Leading}
	return p.size, nil
}

func (p *Paragraph) Size() Size { return p.size }

// Wrapped 报告最近一次测量是否折成了多行。
func (p *Paragraph) Wrapped() bool { return len(p.Lines) > 1 }

func (*Paragraph) flowNode() {}

// CheckboxRow 是一排固定尺寸的复选框。
type CheckboxRow struct {
	Tokens  []string `json:"tokens"`
	Style   Style    `json:"style"`
	BoxSize float64  `json:"boxSize"`
	Pad     float64  `json:"pad"`
	Natural float64  `json:"natural"`
	Fits    bool     `json:"fits"`
	size    Size
}

func NewCheckboxRow(tokens []string, style Style) *CheckboxRow {
	return &CheckboxRow{Tokens: tokens, Style: style, BoxSize: style.Size * checkboxScale, Pad: checkboxPad}
}

func (c *CheckboxRow) Measure(_ Typesetter, width float64) (Size, error) {
	if err := checkWidth("checkbox", width); err != nil {
		return Size{}, err
	}
	n := float64(len(c.Tokens))
	c.Natural = c.BoxSize*n + c.Pad*math.Max(n-1, 0)
	c.Fits = c.Natural < width
	c.size = Size{Width: c.Natural, Height: c.BoxSize}
	return c.size, nil
}

func (c *CheckboxRow) Size() Size { return c.size }

// Flagged 报告第 i 个复选框是否为高亮框（X 与 O 之外的字符）。
func (c *CheckboxRow) Flagged(i int) bool {
	t := c.Tokens[i]
	return t != "X" && t != "O"
}

func (*CheckboxRow) flowNode() {}

// TextField 是占满可用宽度的单行填写框。
type TextField struct {
	Style Style `json:"style"`
	size  Size
}

func NewTextField(style Style) *TextField { return &TextField{Style: style} }

func (f *TextField) Measure(_ Typesetter, width float64) (Size, error) {
	if err := checkWidth("field", width); err != nil {
		return Size{}, err
	}
	f.size = Size{Width: width, Height: f.Style.Size + fieldExtra}
	return f.size, nil
}

func (f *TextField) Size() Size { return f.size }

func (*TextField) flowNode() {}

// Image 按可用宽度等比缩小图片，但从不放大。原始像素按 pt 计。
type Image struct {
	Source image.Image `json:"-"`
	Native Size        `json:"native"`
	Scale  float64     `json:"scale"`
	size   Size
}

func NewImage(src image.Image) *Image {
	b := src.Bounds()
	return &Image{Source: src, Native: Size{Width: float64(b.Dx()), Height: float64(b.Dy())}}
}

func (i *Image) Measure(_ Typesetter, width float64) (Size, error) {
	if err := checkWidth("image", width); err != nil {
		return Size{}, err
	}
	if i.Native.Width <= 0 || i.Native.Height <= 0 {
		return Size{}, fmt.Errorf("image: 图片尺寸为空")
	}
	i.Scale = math.Min(1, width/i.Native.Width)
	i.size = Size{Width: i.Native.Width * i.Scale, Height: i.Native.Height * i.Scale}
	return i.size, nil
}

func (i *Image) Size() Size { return i.size }

func (*Image) flowNode() {}
