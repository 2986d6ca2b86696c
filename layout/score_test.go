package layout

import (
	"testing"
)

func TestScoreOrdering(t *testing.T) {
	cases := []struct {
		name          string
		better, worse Score
	}{
		{"overflow beats any wrapping", Score{Wrapped: 1000, Height: 700}, Score{Overflow: 1, Height: 100}},
		{"wrapping beats height", Score{Height: 10000}, Score{Wrapped: 1, Height: 10}},
		{"height beats divergence", Score{Height: 100, Divergence: 0.3}, Score{Height: 101}},
		{"divergence breaks ties", Score{Height: 100, Divergence: -0.05}, Score{Height: 100, Divergence: 0.1}},
		{"failure is worst", Score{Overflow: 50, Wrapped: 50, Height: 1e6}, FailedScore()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.better.Less(tc.worse) {
				t.Fatalf("%+v 应优于 %+v", tc.better, tc.worse)
			}
			if tc.worse.Less(tc.better) {
				t.Fatalf("%+v 不应优于 %+v", tc.worse, tc.better)
			}
		})
	}
	same := Score{Height: 10, Divergence: 0.1}
	mirror := Score{Height: 10, Divergence: -0.1}
	if same.Less(mirror) || mirror.Less(same) {
		t.Fatalf("对称偏离应视为相等")
	}
}

func TestScoreValueWeights(t *testing.T) {
	s := Score{Overflow: 1, Wrapped: 2, Height: 300, Divergence: 0.1}
	want := 100 + 2 + 3 + 0.01/1000
	if got := s.Value(); got-want > 1e-12 || want-got > 1e-12 {
		t.Fatalf("Value = %g, want %g", got, want)
	}
}

func TestScoreTreeCountsLeaves(t *testing.T) {
	ts := stubTypesetter{}
	style := Style{Size: 10, Leading: 12}
	wrapped := NewParagraph("alpha beta gamma delta", style)
	single := NewParagraph("ok", style)
	boxes := NewCheckboxRow([]string{"X", "O", "O", "O", "O"}, style)
	field := NewTextField(style)
	root := &Table{Rows: [][]Cell{
		{{Node: wrapped}, {Node: single}},
		{{Node: boxes}, {Node: field}},
		{{Node: &Table{Rows: [][]Cell{{{Node: NewParagraph("nested text that wraps", style)}}}}, Span: SpanRest}},
	}}
	if _, err := root.Measure(ts, 80); err != nil {
		t.Fatal(err)
	}
	s := ScoreTree(root, 0.2)
	if s.Wrapped != 2 {
		t.Fatalf("应有 2 段折行，实际 %d", s.Wrapped)
	}
	if s.Overflow != 1 {
		t.Fatalf("40pt 宽放不下 5 个复选框，应计 1 次溢出，实际 %d", s.Overflow)
	}
	if s.Height != root.Size().Height || s.Divergence != 0.2 {
		t.Fatalf("高度或偏离未记录: %+v", s)
	}
}

func TestCheckboxFitIsStrict(t *testing.T) {
	row := NewCheckboxRow([]string{"X", "!"}, Style{Size: 10})
	// 2 × 9 + 6 = 24
	if _, err := row.Measure(nil, 24); err != nil {
		t.Fatal(err)
	}
	if row.Fits {
		t.Fatalf("恰好等宽时视为放不下")
	}
	if _, err := row.Measure(nil, 24.5); err != nil || !row.Fits {
		t.Fatalf("24.5pt 应放得下")
	}
	if row.Flagged(0) || !row.Flagged(1) {
		t.Fatalf("只有非 X/O 的字符需要高亮")
	}
}

func TestTextFieldFillsWidth(t *testing.T) {
	f := NewTextField(Style{Size: 11})
	sz, err := f.Measure(nil, 123)
	if err != nil || sz.Width != 123 || sz.Height != 15 {
		t.Fatalf("填写框尺寸 %+v, err %v", sz, err)
	}
}

func TestDegenerateWidthFails(t *testing.T) {
	for _, w := range []float64{0, -5} {
		if _, err := NewParagraph("x", Style{Size: 10, Leading: 12}).Measure(stubTypesetter{}, w); err == nil {
			t.Fatalf("宽度 %g 应报错", w)
		}
	}
	tbl := &Table{Pad: UniformInsets(30), Rows: [][]Cell{{{Node: NewTextField(Style{Size: 10})}}}}
	if _, err := tbl.Measure(stubTypesetter{}, 50); err == nil {
		t.Fatalf("内边距吃光宽度时应报错")
	}
}

func TestFrameLabelScaling(t *testing.T) {
	ts := stubTypesetter{}
	title := Style{Size: 7}
	stroke := &Color{}
	mk := func(fieldSize float64) *Table {
		return &Table{
			Pad:   UniformInsets(2),
			Rows:  [][]Cell{{{Node: NewTextField(Style{Size: fieldSize})}}},
			Frame: &Frame{Title: "Abilities", TitleStyle: title, Stroke: stroke},
		}
	}
	// 标签自然长度 9×3.5 + 3.5 = 35
	tall := mk(40) // 高 48，可用 41
	if _, err := tall.Measure(ts, 200); err != nil {
		t.Fatal(err)
	}
	if tall.Frame.LabelSize != 7 || tall.Frame.LabelLength != 35 {
		t.Fatalf("空间充足时不缩放: %+v", tall.Frame)
	}
	if w := tall.Rows[0][0].Node.Size().Width; w != 200-3.5-4 {
		t.Fatalf("标签一侧应留出 3.5pt: %g", w)
	}
	short := mk(22) // 高 30，可用 23
	if _, err := short.Measure(ts, 200); err != nil {
		t.Fatal(err)
	}
	if got := short.Frame.LabelSize; got < 4.59 || got > 4.61 || short.Frame.LabelLength != 23 {
		t.Fatalf("标签应按 23/35 缩小: %+v", short.Frame)
	}
	plain := &Table{Rows: [][]Cell{{{Node: NewTextField(title)}}}, Frame: &Frame{Title: "x", Fill: stroke}}
	if _, err := plain.Measure(ts, 100); err != nil {
		t.Fatal(err)
	}
	if plain.Frame.HasTab() || plain.Frame.LabelSize != 0 {
		t.Fatalf("只有填充色时不画标签")
	}
}
