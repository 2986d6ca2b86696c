package dsl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Separator 选择键值行的分隔符语法。两种写法都出现在历史数据里，由调用方选择。
type Separator int

const (
	SeparatorEquals Separator = iota // key=value
	SeparatorArrow                   // key->value
)

// String 返回分隔符本身。
func (s Separator) String() string {
	if s == SeparatorArrow {
		return "->"
	}
	return "="
}

// ParseSeparator 接受 "=", "equals", "->", "arrow"。
func ParseSeparator(v string) (Separator, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "=", "equals", "eq":
		return SeparatorEquals, nil
	case "->", "arrow":
		return SeparatorArrow, nil
	default:
		return SeparatorEquals, fmt.Errorf("未知的键值分隔符 %q", v)
	}
}

// CheckboxRow 是整行的复选框：一个或多个 [c] 紧密相连，别无他物。
type CheckboxRow struct {
	Boxes []BoxToken `parser:"@Box+"`
}

// TextField 是 `[` 可选空白 `]` 构成的填写框。
type TextField struct {
	Raw string `parser:"@Field"`
}

// Pair 是 key<sep>value 行，值一侧不允许再出现分隔符。
type Pair struct {
	Key   string `parser:"@(Text | Box | Field)+"`
	Value string `parser:"Sep @(Text | Box | Field)+"`
}

// BoxToken 捕获 [c] 中间的字符。
type BoxToken string

// Capture implements participle.Capture.
func (b *BoxToken) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("复选框需要一个字符")
	}
	raw := values[0]
	*b = BoxToken(strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]"))
	return nil
}

// Grammar 持有某个分隔符变体下各层级的解析器。构建后只读，可在多个 goroutine 间共享。
type Grammar struct {
	sep       Separator
	checkbox  *participle.Parser[CheckboxRow]
	textField *participle.Parser[TextField]
	pair      *participle.Parser[Pair]
}

// NewGrammar 为指定分隔符构建内容语法。
func NewGrammar(sep Separator) *Grammar {
	def := lineLexer(sep)
	return &Grammar{
		sep:       sep,
		checkbox:  participle.MustBuild[CheckboxRow](participle.Lexer(def)),
		textField: participle.MustBuild[TextField](participle.Lexer(def)),
		pair:      participle.MustBuild[Pair](participle.Lexer(def)),
	}
}

// Separator 返回该语法使用的分隔符。
func (g *Grammar) Separator() Separator { return g.sep }

// lineLexer 规则按顺序尝试：Field 必须先于 Box，这样 "[ ]" 永远是填写框。
// Text 兜底吃掉其余字符，因此词法阶段不会失败。
func lineLexer(sep Separator) *lexer.StatefulDefinition {
	text := `[^=\[]+|\[`
	if sep == SeparatorArrow {
		text = `[^\[-]+|[\[-]`
	}
	return lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Field", Pattern: `\[\s*\]`},
		{Name: "Box", Pattern: `\[\S\]`},
		{Name: "Sep", Pattern: regexp.QuoteMeta(sep.String())},
		{Name: "Text", Pattern: text},
	})
}

// LineKind 标记一行的分类结果。
type LineKind int

const (
	LineText LineKind = iota
	LineCheckboxes
	LineField
	LinePair
)

// FragmentKind 标记一行中单个单元的类型。
type FragmentKind int

const (
	FragmentText FragmentKind = iota
	FragmentCheckboxes
	FragmentField
)

// Fragment 是分类后的一个单元：一段文本、一排复选框或一个填写框。
type Fragment struct {
	Kind  FragmentKind `json:"kind"`
	Text  string       `json:"text,omitempty"`
	Boxes []string     `json:"boxes,omitempty"`
}

// Line 是一行内容的分类结果。LinePair 时 Fragments 依次为键与值，其余情况只有一个元素。
type Line struct {
	Kind      LineKind   `json:"kind"`
	Fragments []Fragment `json:"fragments"`
}

// ParseLine 依次尝试复选框、填写框、键值对，最后退化为普通文本。
// 任何一层解析失败都只会落到下一层，不会返回错误。
func (g *Grammar) ParseLine(raw string) Line {
	txt := strings.TrimSpace(strings.ReplaceAll(raw, "\r", ""))
	if frag, ok := g.special(txt); ok {
		kind := LineCheckboxes
		if frag.Kind == FragmentField {
			kind = LineField
		}
		return Line{Kind: kind, Fragments: []Fragment{frag}}
	}
	if p, err := g.pair.ParseString("", txt); err == nil {
		key := unquote(strings.TrimSpace(p.Key))
		value := unquote(strings.TrimSpace(p.Value))
		if key != "" && value != "" {
			return Line{Kind: LinePair, Fragments: []Fragment{g.fragment(key), g.fragment(value)}}
		}
	}
	return Line{Kind: LineText, Fragments: []Fragment{{Kind: FragmentText, Text: txt}}}
}

// ParseContent 把整段内容按行拆分并分类，空行被跳过。
func (g *Grammar) ParseContent(content string) []Line {
	var out []Line
	for _, raw := range strings.Split(content, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out = append(out, g.ParseLine(raw))
	}
	return out
}

// fragment 对键或值的一侧再做一次分类。
func (g *Grammar) fragment(txt string) Fragment {
	if frag, ok := g.special(txt); ok {
		return frag
	}
	return Fragment{Kind: FragmentText, Text: txt}
}

func (g *Grammar) special(txt string) (Fragment, bool) {
	if txt == "" {
		return Fragment{}, false
	}
	if row, err := g.checkbox.ParseString("", txt); err == nil && len(row.Boxes) > 0 {
		boxes := make([]string, len(row.Boxes))
		for i, b := range row.Boxes {
			boxes[i] = string(b)
		}
		return Fragment{Kind: FragmentCheckboxes, Boxes: boxes}, true
	}
	if _, err := g.textField.ParseString("", txt); err == nil {
		return Fragment{Kind: FragmentField}, true
	}
	return Fragment{}, false
}

// unquote 去掉包裹整个字符串的一对相同引号（' 或 "）。
func unquote(txt string) string {
	if len(txt) >= 2 && txt[0] == txt[len(txt)-1] && (txt[0] == '\'' || txt[0] == '"') {
		return txt[1 : len(txt)-1]
	}
	return txt
}
