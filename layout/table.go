package layout

import (
	"fmt"
	"math"
)

// SpanRest 让单元格一直跨到行尾，用于顶部与底部区域。
const SpanRest = -1

// Cell 是表格中的一个单元格。Span 为 0 时占一列。
type Cell struct {
	Node Node `json:"node"`
	Span int  `json:"span,omitempty"`
}

func (c Cell) span(remaining int) int {
	switch {
	case c.Span == SpanRest:
		return max(remaining, 1)
	case c.Span <= 1:
		return 1
	default:
		return max(min(c.Span, remaining), 1)
	}
}

// Table 是由 Node 组成的网格，本身也是 Node。每个 Table 独占其单元格。
//
// Pad 作用于每个单元格；RowGap 额外加在第二行起的顶部，ColGap 额外加在第二列起的左侧。
// ColWidths 为 nil 时平均分配宽度。
type Table struct {
	Rows      [][]Cell  `json:"rows"`
	ColWidths []float64 `json:"colWidths,omitempty"`
	Pad       Insets    `json:"pad"`
	RowGap    float64   `json:"rowGap,omitempty"`
	ColGap    float64   `json:"colGap,omitempty"`
	Frame     *Frame    `json:"frame,omitempty"`

	// 测量结果
	Widths  []float64 `json:"widths,omitempty"`
	Heights []float64 `json:"heights,omitempty"`
	size    Size
}

// TabSide 指明盒子标签贴在哪条竖边上。
type TabSide int

const (
	TabLeft TabSide = iota
	TabRight
)

func (s TabSide) String() string {
	if s == TabRight {
		return "right"
	}
	return "left"
}

// MarshalText 让调试 JSON 输出可读的方向。
func (s TabSide) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Frame 是带侧标签的边框装饰。只有描边时才画标签；只有填充时画一个填充矩形。
type Frame struct {
	Title      string  `json:"title,omitempty"`
	TitleStyle Style   `json:"titleStyle"`
	Tab        TabSide `json:"tab"`
	Stroke     *Color  `json:"stroke,omitempty"`
	Fill       *Color  `json:"fill,omitempty"`

	// 测量后的标签字号与占用长度，字号为 0 时不画标签
	LabelSize   float64 `json:"labelSize,omitempty"`
	LabelLength float64 `json:"labelLength,omitempty"`
}

// HasTab 报告是否绘制侧标签。
func (f *Frame) HasTab() bool { return f != nil && f.Title != "" && f.Stroke != nil }

// Inset 是标签一侧为标签留出的宽度。
func (f *Frame) Inset() float64 {
	if !f.HasTab() {
		return 0
	}
	return f.TitleStyle.Size / 2
}

// measureLabel 计算标签长度，边长不足时按比例缩小字号。
func (f *Frame) measureLabel(ts Typesetter, height float64) error {
	f.LabelSize, f.LabelLength = 0, 0
	if !f.HasTab() {
		return nil
	}
	size := f.TitleStyle.Size
	e := size / 2
	w, err := ts.TextWidth(f.Title, f.TitleStyle.Font, size)
	if err != nil {
		return fmt.Errorf("测量标题 %q 失败: %w", f.Title, err)
	}
	length := w + size/2
	avail := height - 2*e
	if avail <= 0 {
		return nil
	}
	if length > avail {
		size *= avail / length
		length = avail
	}
	f.LabelSize, f.LabelLength = size, length
	return nil
}

// ColumnCount 返回表格的列数。
func (t *Table) ColumnCount() int {
	if len(t.ColWidths) > 0 {
		return len(t.ColWidths)
	}
	n := 1
	for _, row := range t.Rows {
		cols := 0
		for _, c := range row {
			if c.Span > 1 {
				cols += c.Span
			} else {
				cols++
			}
		}
		n = max(n, cols)
	}
	return n
}

// CellPad 返回第 r 行第 c 列单元格的实际内边距。
func (t *Table) CellPad(r, c int) Insets {
	p := t.Pad
	if r > 0 {
		p.Top += t.RowGap
	}
	if c > 0 {
		p.Left += t.ColGap
	}
	return p
}

func (t *Table) Measure(ts Typesetter, width float64) (Size, error) {
	if err := checkWidth("table", width); err != nil {
		return Size{}, err
	}
	inner := width - t.Frame.Inset()
	if err := checkWidth("table", inner); err != nil {
		return Size{}, err
	}
	ncols := t.ColumnCount()
	widths := make([]float64, ncols)
	if len(t.ColWidths) > 0 {
		copy(widths, t.ColWidths)
	} else {
		for i := range widths {
			widths[i] = inner / float64(ncols)
		}
	}
	t.Widths = widths
	t.Heights = make([]float64, len(t.Rows))
	total := 0.0
	for r, row := range t.Rows {
		col, rowH := 0, 0.0
		for _, cell := range row {
			if col >= ncols {
				return Size{}, fmt.Errorf("table: 第 %d 行超出 %d 列", r, ncols)
			}
			span := cell.span(ncols - col)
			cw := 0.0
			for _, w := range widths[col : col+span] {
				cw += w
			}
			pad := t.CellPad(r, col)
			h := pad.Top + pad.Bottom
			if cell.Node != nil {
				sz, err := cell.Node.Measure(ts, cw-pad.Left-pad.Right)
				if err != nil {
					return Size{}, err
				}
				h += sz.Height
			}
			rowH = math.Max(rowH, h)
			col += span
		}
		t.Heights[r] = rowH
		total += rowH
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return Size{}, fmt.Errorf("table: 高度 %v 无效", total)
	}
	t.size = Size{Width: width, Height: total}
	if t.Frame != nil {
		if err := t.Frame.measureLabel(ts, total); err != nil {
			return Size{}, err
		}
	}
	return t.size, nil
}

func (t *Table) Size() Size { return t.size }

func (*Table) flowNode() {}
