package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/grahamwills/sheet/layout"
	"github.com/grahamwills/sheet/renderer"
)

const (
	frameLineWidth = 0.5 // pt
	boxLineWidth   = 0.5
	fieldLineWidth = 0.5
	labelPosition  = 4.0 / 5.0 // 标签基线相对字号的位置
	capHeight      = 0.7       // 大写字母高度相对字号的近似比例
)

var (
	checkedColor = layout.Color{B: 128}                 // navy
	flaggedColor = layout.Color{R: 255}                 // red
	fieldFill    = layout.Color{R: 244, G: 244, B: 255} // #F4F4FF
	fieldBorder  = layout.Color{R: 211, G: 211, B: 211} // lightgrey
)

// Renderer draws layouts via github.com/tdewolff/canvas and doubles as the
// typesetter used while searching for a layout.
type Renderer struct {
	fonts  *FontResolver
	logger *log.Logger

	// canvas 字体面的测量不保证并发安全，候选并发测量时串行化
	measureMu sync.Mutex
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
	_ layout.Preparer   = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	FontDir     string // 自定义字体文件目录
	SystemFonts bool   // 是否在系统字体目录中查找自定义字体
	Logger      *log.Logger
}

// NewRenderer creates a renderer that only uses the built-in fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with a font directory and logger.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		fonts:  NewFontResolver(FontOptions{Dir: opts.FontDir, SystemFonts: opts.SystemFonts, Logger: logger}),
		logger: logger,
	}
}

// Fonts 返回渲染器使用的字体解析器。
func (r *Renderer) Fonts() *FontResolver { return r.fonts }

// Prepare 实现 layout.Preparer，在搜索开始前加载全部字体。
func (r *Renderer) Prepare(list []layout.FontResource) error {
	return r.fonts.Prepare(list)
}

// Render renders the layout into a single-page PDF byte slice.
func (r *Renderer) Render(l *layout.Layout) ([]byte, error) {
	if l == nil || l.Root == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if err := l.CheckFits(); err != nil {
		return nil, err
	}

	width, height := toMm(l.Page.Width), toMm(l.Page.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	r.applyMeta(writer, l.Meta)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	d := &drawer{fonts: r.fonts, ctx: ctx, pageHeight: height}
	if err := d.node(l.Root, l.Page.Margin, l.Page.Margin); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	r.logger.Debug("渲染完成", "bytes", buf.Len(), "build", l.BuildID)
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawer 按布局树绘制一页。布局坐标为 pt，绘制时转换为 mm。
type drawer struct {
	fonts      *FontResolver
	ctx        *canvas.Context
	pageHeight float64 // mm
}

// node 在左上角 (x, y) 处绘制已测量的节点。
func (d *drawer) node(n layout.Node, x, y float64) error {
	switch n := n.(type) {
	case *layout.Table:
		return d.table(n, x, y)
	case *layout.Paragraph:
		return d.paragraph(n, x, y)
	case *layout.CheckboxRow:
		return d.checkboxes(n, x, y)
	case *layout.TextField:
		d.field(n, x, y)
		return nil
	case *layout.Image:
		d.image(n, x, y)
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("无法绘制节点类型 %T", n)
	}
}

func (d *drawer) table(t *layout.Table, x, y float64) error {
	if t.Frame != nil {
		if err := d.frame(t.Frame, x, y, t.Size()); err != nil {
			return err
		}
	}
	left := x
	if t.Frame.HasTab() && t.Frame.Tab == layout.TabLeft {
		left += t.Frame.Inset()
	}
	ncols := len(t.Widths)
	cy := y
	for r, row := range t.Rows {
		col := 0
		cx := left
		for _, cell := range row {
			if col >= ncols {
				break
			}
			span := cellSpan(cell, ncols-col)
			cw := 0.0
			for _, w := range t.Widths[col : col+span] {
				cw += w
			}
			pad := t.CellPad(r, col)
			if err := d.node(cell.Node, cx+pad.Left, cy+pad.Top); err != nil {
				return err
			}
			cx += cw
			col += span
		}
		cy += t.Heights[r]
	}
	return nil
}

func cellSpan(c layout.Cell, remaining int) int {
	switch {
	case c.Span == layout.SpanRest:
		return max(remaining, 1)
	case c.Span <= 1:
		return 1
	default:
		return max(min(c.Span, remaining), 1)
	}
}

func (d *drawer) paragraph(p *layout.Paragraph, x, y float64) error {
	if len(p.Lines) == 0 {
		return nil
	}
	face, err := d.fonts.Face(p.Style.Font, p.Style.Size, p.Style.Color)
	if err != nil {
		return err
	}

	// 处理水平对齐：left（默认，两端对齐同样左对齐绘制）/center/right。
	var textAlign canvas.TextAlign
	var anchorX float64
	switch p.Style.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = x + p.Avail/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = x + p.Avail
	default:
		textAlign = canvas.Left
		anchorX = x
	}

	ascent := face.Metrics().Ascent
	// 行距多出字号的部分平均分到行的上下
	offset := toMm((p.Style.Leading - p.Style.Size) / 2)
	for i, line := range p.Lines {
		if line.Content == "" {
			continue
		}
		top := toMm(y + float64(i)*p.Style.Leading)
		d.ctx.DrawText(toMm(anchorX), top+offset+ascent, canvas.NewTextLine(face, line.Content, textAlign))
	}
	return nil
}

func (d *drawer) checkboxes(c *layout.CheckboxRow, x, y float64) error {
	size := toMm(c.BoxSize)
	for i, token := range c.Tokens {
		bx := toMm(x + float64(i)*(c.BoxSize+c.Pad))
		by := toMm(y)
		col := checkedColor
		if c.Flagged(i) {
			col = flaggedColor
		}
		d.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		d.ctx.SetStrokeColor(colorFromLayout(col))
		d.ctx.SetStrokeWidth(toMm(boxLineWidth))
		d.ctx.DrawPath(bx, by, canvas.Rectangle(size, size))

		switch {
		case token == "X":
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(size, size)
			p.MoveTo(size, 0)
			p.LineTo(0, size)
			d.ctx.DrawPath(bx, by, p)
		case c.Flagged(i):
			// 高亮框在框内写出字符
			fs := c.BoxSize/2 + 1
			face, err := d.fonts.Face(c.Style.Font, fs, col)
			if err != nil {
				return err
			}
			baseline := by + (size+toMm(fs)*capHeight)/2
			d.ctx.DrawText(bx+size/2, baseline, canvas.NewTextLine(face, token, canvas.Center))
		}
	}
	return nil
}

func (d *drawer) field(f *layout.TextField, x, y float64) {
	sz := f.Size()
	d.ctx.SetFillColor(colorFromLayout(fieldFill))
	d.ctx.SetStrokeColor(colorFromLayout(fieldBorder))
	d.ctx.SetStrokeWidth(toMm(fieldLineWidth))
	d.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(sz.Width), toMm(sz.Height-1)))
}

func (d *drawer) image(img *layout.Image, x, y float64) {
	if img.Source == nil {
		return
	}
	width := toMm(img.Size().Width)
	if width <= 0 {
		return
	}
	dpmm := img.Native.Width / width
	d.ctx.DrawImage(toMm(x), toMm(y), img.Source, canvas.DPMM(dpmm))
}

// frame 绘制盒子的填充与边框。有标题和描边时边框在标签一侧留出缺口，标签旋转后写在缺口处。
func (d *drawer) frame(f *layout.Frame, x, y float64, size layout.Size) error {
	w, h := size.Width, size.Height
	if w <= 0 || h <= 0 {
		return nil
	}
	if !f.HasTab() {
		d.ctx.SetFillColor(optionalColor(f.Fill))
		d.ctx.SetStrokeColor(optionalColor(f.Stroke))
		d.ctx.SetStrokeWidth(toMm(frameLineWidth))
		d.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
		return nil
	}

	e := f.TitleStyle.Size / 2
	if f.Fill != nil {
		d.ctx.SetFillColor(colorFromLayout(*f.Fill))
		d.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		d.ctx.DrawPath(toMm(x), toMm(y), tabOutline(w, h, e, 0, f.Tab, true))
	}
	d.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	d.ctx.SetStrokeColor(colorFromLayout(*f.Stroke))
	d.ctx.SetStrokeWidth(toMm(frameLineWidth))
	d.ctx.DrawPath(toMm(x), toMm(y), tabOutline(w, h, e, f.LabelLength, f.Tab, false))

	if f.LabelSize <= 0 {
		return nil
	}
	face, err := d.fonts.Face(f.TitleStyle.Font, f.LabelSize, *f.Stroke)
	if err != nil {
		return err
	}
	off := f.LabelSize*labelPosition - e
	ax, ay, rot := x+off, y+h/2, 90.0
	if f.Tab == layout.TabRight {
		ax, rot = x+w-off, -90
	}
	px, py := toMm(ax), toMm(ay)
	d.ctx.Push()
	// 视图变换作用于 y 轴向上的页面坐标
	d.ctx.ComposeView(canvas.Identity.RotateAbout(rot, px, d.pageHeight-py))
	d.ctx.DrawText(px, py, canvas.NewTextLine(face, f.Title, canvas.Center))
	d.ctx.Pop()
	return nil
}

// tabOutline 生成带圆角的盒子轮廓（mm，y 轴向下）。标签在左侧时左上、左下为圆角，
// 左边中部留出长 gap 的缺口；标签在右侧时整体旋转 180°。closed 为 true 时生成用于填充的闭合路径。
func tabOutline(w, h, e, gap float64, side layout.TabSide, closed bool) *canvas.Path {
	pt := func(px, py float64) (float64, float64) {
		if side == layout.TabRight {
			px, py = w-px, h-py
		}
		return toMm(px), toMm(py)
	}
	p := &canvas.Path{}
	p.MoveTo(pt(0, (h+gap)/2))
	p.LineTo(pt(0, h-e))
	cx, cy := pt(0, h)
	ex, ey := pt(1.5*e, h)
	p.QuadTo(cx, cy, ex, ey)
	p.LineTo(pt(w, h))
	p.LineTo(pt(w, 0))
	p.LineTo(pt(1.5*e, 0))
	cx, cy = pt(0, 0)
	ex, ey = pt(0, e)
	p.QuadTo(cx, cy, ex, ey)
	p.LineTo(pt(0, math.Max((h-gap)/2, e)))
	if closed {
		p.Close()
	}
	return p
}

func optionalColor(c *layout.Color) color.Color {
	if c == nil {
		return color.RGBA{0, 0, 0, 0}
	}
	return colorFromLayout(*c)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
