package layout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/grahamwills/sheet/binding"
	"github.com/grahamwills/sheet/definition"
	"github.com/grahamwills/sheet/dsl"
)

// Item 是解析后的一个内容单元。Item 只读，可在并发候选之间共享；
// 每次需要节点时由 node 生成新的实例。
type Item struct {
	Kind  dsl.FragmentKind `json:"kind"`
	Text  string           `json:"text,omitempty"`
	Boxes []string         `json:"boxes,omitempty"`
	Style Style            `json:"style"`
	Blank bool             `json:"blank,omitempty"` // 键值网格中补位的空单元格
}

func (it Item) node() Node {
	switch {
	case it.Blank:
		return NewParagraph("", it.Style)
	case it.Kind == dsl.FragmentCheckboxes:
		return NewCheckboxRow(it.Boxes, it.Style)
	case it.Kind == dsl.FragmentField:
		return NewTextField(it.Style)
	default:
		return NewParagraph(it.Text, it.Style)
	}
}

// Part 是绑定了样式并解析完内容的段落，构建一次，布局期间只读。
type Part struct {
	Title       string              `json:"title,omitempty"`
	Location    definition.Location `json:"location"`
	Order       int                 `json:"order"`
	Columns     int                 `json:"columns"`
	Fill        *Color              `json:"fill,omitempty"`
	Stroke      *Color              `json:"stroke,omitempty"`
	TextStyle   Style               `json:"textStyle"`
	TitleStyle  Style               `json:"titleStyle"`
	LineSpacing float64             `json:"lineSpacing"`
	Image       image.Image         `json:"-"`
	Paired      bool                `json:"paired"`
	Rows        [][]Item            `json:"rows"`
}

// partEnv 汇集构建 Part 需要的共享只读资源。
type partEnv struct {
	styles  map[string]Style
	title   Style
	grammar *dsl.Grammar
	data    any
	logger  *log.Logger
}

// newPart 解析一个段落。图片无法解码时记录警告并退化为空段落。
func newPart(index int, spec definition.SectionSpec, env partEnv) (*Part, error) {
	loc, _ := definition.ParseLocation(string(spec.Location))
	p := &Part{
		Title:       spec.Title,
		Location:    loc,
		Order:       spec.Order,
		Columns:     max(spec.Columns, 1),
		Fill:        ParseColor(spec.FillColor),
		Stroke:      ParseColor(spec.BorderColor),
		TextStyle:   env.styles[spec.TextStyle],
		TitleStyle:  env.title,
		LineSpacing: spec.LineSpacing,
	}
	if env.data != nil {
		p.Title = binding.Interpolate(p.Title, env.data)
	}
	if len(spec.ImageData) > 0 {
		img, format, err := image.Decode(bytes.NewReader(spec.ImageData))
		if err != nil {
			env.logger.Warn("图片无法解码，段落留空", "section", index, "title", spec.Title, "err", err)
			return p, nil
		}
		env.logger.Debug("图片已解码", "section", index, "format", format, "size", img.Bounds().Size())
		p.Image = img
		return p, nil
	}

	content := spec.Content
	if env.data != nil {
		content = binding.Interpolate(content, env.data)
	}
	var lines [][]Item
	for _, line := range env.grammar.ParseContent(content) {
		if line.Kind != dsl.LinePair {
			lines = append(lines, []Item{fragmentItem(line.Fragments[0], p.TextStyle)})
			continue
		}
		key, ok := env.styles[spec.KeyStyle]
		if !ok {
			return nil, configErrorf(fmt.Sprintf("sections[%d].key_style", index), "样式 %s 未定义", spec.KeyStyle)
		}
		lines = append(lines, []Item{fragmentItem(line.Fragments[0], key), fragmentItem(line.Fragments[1], p.TextStyle)})
	}

	var flat []Item
	width := p.Columns
	for _, l := range lines {
		if len(l) > 1 {
			p.Paired = true
		}
	}
	if p.Paired {
		width *= 2
		for _, l := range lines {
			if len(l) == 1 {
				flat = append(flat, Item{Blank: true, Style: p.TextStyle})
			}
			flat = append(flat, l...)
		}
	} else {
		for _, l := range lines {
			flat = append(flat, l[0])
		}
	}
	for i := 0; i < len(flat); i += width {
		p.Rows = append(p.Rows, flat[i:min(i+width, len(flat))])
	}
	return p, nil
}

// fragmentItem 把一个片段绑定到样式；普通文本追加样式声明的后缀。
func fragmentItem(f dsl.Fragment, style Style) Item {
	it := Item{Kind: f.Kind, Boxes: f.Boxes, Style: style}
	if f.Kind == dsl.FragmentText {
		it.Text = f.Text + style.Suffix
	}
	return it
}

func (p *Part) frame(tab TabSide) *Frame {
	if p.Stroke == nil && p.Fill == nil {
		return nil
	}
	return &Frame{Title: p.Title, TitleStyle: p.TitleStyle, Tab: tab, Stroke: p.Stroke, Fill: p.Fill}
}

// grid 为当前段落生成一棵新的表格树。
func (p *Part) grid(tab TabSide, colWidths []float64) *Table {
	rows := make([][]Cell, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = make([]Cell, len(r))
		for j, it := range r {
			rows[i][j] = Cell{Node: it.node()}
		}
	}
	cols := p.Columns
	if p.Paired {
		cols *= 2
	}
	if len(rows) > 0 && len(rows[0]) < cols {
		// 不足一整行时补空单元格，保证列数与声明一致
		rows[0] = append(rows[0], make([]Cell, cols-len(rows[0]))...)
	}
	return &Table{
		Rows:      rows,
		ColWidths: colWidths,
		Pad:       UniformInsets(p.LineSpacing),
		Frame:     p.frame(tab),
	}
}

// Flow 为给定宽度生成段落的排版树。键值网格会搜索键列宽度：从 step 开始按 step 递增，
// 平均分配作为基准先行评估，只有严格更优的候选才会替换它。
func (p *Part) Flow(ts Typesetter, width float64, tab TabSide, step float64) (Node, error) {
	if p.Image != nil {
		return &Table{Rows: [][]Cell{{{Node: NewImage(p.Image)}}}, Frame: p.frame(tab)}, nil
	}
	if len(p.Rows) == 0 {
		return NewParagraph("", p.TextStyle), nil
	}
	best := p.grid(tab, nil)
	if !p.Paired {
		return best, nil
	}
	if _, err := best.Measure(ts, width); err != nil {
		return nil, err
	}
	bestScore := ScoreTree(best, 0)
	pairW := (width - best.Frame.Inset()) / float64(p.Columns)
	for i := 1; ; i++ {
		k := float64(i) * step
		if k > pairW-step {
			break
		}
		t := p.grid(tab, pairWidths(k, pairW, p.Columns))
		if _, err := t.Measure(ts, width); err != nil {
			continue
		}
		if sc := ScoreTree(t, k/pairW-0.5); sc.Less(bestScore) {
			best, bestScore = t, sc
		}
	}
	return best, nil
}

func pairWidths(key, pair float64, columns int) []float64 {
	out := make([]float64, 0, columns*2)
	for range columns {
		out = append(out, key, pair-key)
	}
	return out
}
