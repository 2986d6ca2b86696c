package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/grahamwills/sheet/definition"
	"github.com/grahamwills/sheet/dsl"
)

// 两个中间列时外层搜索的左列宽度比例，0.50 作为基准单独先评估。
var splitFractions = []float64{0.20, 0.25, 0.30, 0.35, 0.40, 0.45, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80}

const baselineSplit = 0.5

// Build 根据角色卡定义生成版面：解析样式与段落，然后在候选分割中搜索得分最低的布局。
// 返回的错误要么是配置错误（可用 errors.Is(err, ErrConfig) 识别），要么是排版后端的初始化错误。
func Build(def *definition.Definition, opts BuildOptions) (*Layout, error) {
	if def == nil {
		return nil, fmt.Errorf("定义为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}

	page, styles, err := resolve(def)
	if err != nil {
		return nil, err
	}
	title := TitleStyle(styles)

	buildID := uuid.NewString()
	logger := opts.logger().With("build", buildID[:8])

	if p, ok := opts.Typesetter.(Preparer); ok {
		if err := p.Prepare(collectFonts(styles, title)); err != nil {
			return nil, fmt.Errorf("加载字体失败: %w", err)
		}
	}

	env := partEnv{
		styles:  styles,
		title:   title,
		grammar: dsl.NewGrammar(opts.Separator),
		data:    opts.Data,
		logger:  logger,
	}
	e := &engine{
		ts:     opts.Typesetter,
		page:   page,
		step:   opts.innerStep(),
		logger: logger,
	}
	for i, spec := range def.Sections {
		p, err := newPart(i, spec, env)
		if err != nil {
			return nil, err
		}
		e.add(p)
	}
	e.sort()

	cands := e.candidates()
	results := make([]trial, len(cands))
	g := new(errgroup.Group)
	g.SetLimit(opts.workers())
	for i, c := range cands {
		g.Go(func() error {
			results[i] = e.run(c)
			return nil
		})
	}
	_ = g.Wait()

	best := 0
	for i := range results {
		r := results[i]
		if r.err != nil {
			logger.Debug("候选测量失败", "split", r.split, "err", r.err)
		} else {
			logger.Debug("候选", "split", r.split, "score", r.score.Value(), "wrapped", r.score.Wrapped, "overflow", r.score.Overflow, "height", r.score.Height)
		}
		if i > 0 && r.score.Less(results[best].score) {
			best = i
		}
	}
	chosen := results[best]
	if chosen.score.Failed {
		return nil, &ConfigError{Field: "sections", Err: fmt.Errorf("没有可用的候选布局: %w", chosen.err)}
	}
	logger.Info("选定布局", "split", chosen.split, "score", chosen.score.Value(), "height", chosen.score.Height, "candidates", len(results))

	out := &Layout{
		BuildID: buildID,
		Page:    page,
		Meta:    DocumentMeta{Title: def.Name, Creator: "sheet", Keywords: []string{"build:" + buildID}},
		Split:   chosen.split,
		Width:   chosen.root.Size().Width,
		Height:  chosen.root.Size().Height,
		Score:   chosen.score,
		Root:    chosen.root,
	}
	if opts.Debug.Candidates {
		for _, r := range results {
			out.Candidates = append(out.Candidates, CandidateReport{Split: r.split, Score: r.score, Value: r.score.Value()})
		}
	}
	return out, nil
}

// CheckFits 检查版面高度是否超出页面可用高度。
func (l *Layout) CheckFits() error {
	avail := l.Page.ContentHeight()
	if l.Height > avail+heightEpsilon {
		return &ConfigError{Field: "layout.height", Err: fmt.Errorf("%w: 内容高 %.1fpt，可用 %.1fpt", ErrOverflow, l.Height, avail)}
	}
	return nil
}

func collectFonts(styles map[string]Style, title Style) []FontResource {
	seen := map[FontResource]bool{title.Font: true}
	out := []FontResource{title.Font}
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		f := styles[name].Font
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// engine 持有一次构建中所有候选共享的只读数据。
type engine struct {
	ts     Typesetter
	page   PageGeometry
	step   float64
	logger *log.Logger

	top    []*Part
	middle [3][]*Part
	bottom []*Part
}

func (e *engine) add(p *Part) {
	switch p.Location {
	case definition.LocationCol1:
		e.middle[0] = append(e.middle[0], p)
	case definition.LocationCol2:
		e.middle[1] = append(e.middle[1], p)
	case definition.LocationCol3:
		e.middle[2] = append(e.middle[2], p)
	case definition.LocationBottom:
		e.bottom = append(e.bottom, p)
	default:
		e.top = append(e.top, p)
	}
}

// sort 按 order 稳定排序，order 相同的保持输入顺序。
func (e *engine) sort() {
	byOrder := func(a, b *Part) int { return a.Order - b.Order }
	slices.SortStableFunc(e.top, byOrder)
	slices.SortStableFunc(e.bottom, byOrder)
	for i := range e.middle {
		slices.SortStableFunc(e.middle[i], byOrder)
	}
}

// columns 返回非空的中间列，顺序从左到右。
func (e *engine) columns() [][]*Part {
	var out [][]*Part
	for _, m := range e.middle {
		if len(m) > 0 {
			out = append(out, m)
		}
	}
	return out
}

type candidate struct {
	split      float64
	divergence float64
	widths     []float64 // 外层表格的列宽，含列间距
}

type trial struct {
	split float64
	root  *Table
	score Score
	err   error
}

// candidates 生成外层候选：两列时先评估 0.50 基准再依次评估其余比例，三列时平均分配。
func (e *engine) candidates() []candidate {
	total := e.page.ContentWidth()
	switch n := len(e.columns()); n {
	case 2:
		out := []candidate{{split: baselineSplit, widths: []float64{total * baselineSplit, total * (1 - baselineSplit)}}}
		for _, s := range splitFractions {
			out = append(out, candidate{split: s, divergence: s - baselineSplit, widths: []float64{total * s, total * (1 - s)}})
		}
		return out
	case 3:
		w := total / 3
		return []candidate{{split: 1.0 / 3, widths: []float64{w, w, w}}}
	default:
		return []candidate{{split: 1, widths: []float64{total}}}
	}
}

// run 为一个候选构建独立的排版树并打分。测量中的错误与 panic 都只会让该候选失败。
func (e *engine) run(c candidate) (t trial) {
	t.split = c.split
	defer func() {
		if r := recover(); r != nil {
			t.root, t.score, t.err = nil, FailedScore(), fmt.Errorf("候选 %.2f 测量时发生 panic: %v", c.split, r)
		}
	}()
	root, err := e.outer(c.widths)
	if err == nil {
		_, err = root.Measure(e.ts, e.page.ContentWidth())
	}
	if err != nil {
		t.score, t.err = FailedScore(), err
		return t
	}
	t.root, t.score = root, ScoreTree(root, c.divergence)
	return t
}

// outer 组装整页表格：顶部区域、中间一到三列、底部区域。
func (e *engine) outer(widths []float64) (*Table, error) {
	total := e.page.ContentWidth()
	pad := e.page.Padding
	t := &Table{ColWidths: widths, RowGap: pad, ColGap: pad}

	if e.top != nil {
		inner, err := e.inner(e.top, total, TabRight)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, []Cell{{Node: inner, Span: SpanRest}})
	}
	if cols := e.columns(); len(cols) > 0 {
		row := make([]Cell, len(cols))
		for i, parts := range cols {
			w := widths[i]
			if i > 0 {
				w -= pad
			}
			tab := TabRight
			if i == 0 || i < len(cols)-1 {
				tab = TabLeft
			}
			inner, err := e.inner(parts, w, tab)
			if err != nil {
				return nil, err
			}
			row[i] = Cell{Node: inner}
		}
		t.Rows = append(t.Rows, row)
	}
	if e.bottom != nil {
		inner, err := e.inner(e.bottom, total, TabRight)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, []Cell{{Node: inner, Span: SpanRest}})
	}
	return t, nil
}

// inner 把同一区域的段落纵向堆叠，段落之间留 padding。
func (e *engine) inner(parts []*Part, width float64, tab TabSide) (*Table, error) {
	t := &Table{RowGap: e.page.Padding}
	for _, p := range parts {
		n, err := p.Flow(e.ts, width, tab, e.step)
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, []Cell{{Node: n}})
	}
	return t, nil
}

// IsOverflow 报告错误是否由内容超出页面引起。
func IsOverflow(err error) bool { return errors.Is(err, ErrOverflow) }
