package layout

// 该文件定义样式、资源与布局结果，供布局计算、渲染与调试 JSON 共用。
// 布局内部统一使用 pt 作为长度单位，坐标原点在左上角。

// Layout 是一次构建选出的最佳版面。
type Layout struct {
	BuildID    string            `json:"buildId"`
	Page       PageGeometry      `json:"page"`
	Meta       DocumentMeta      `json:"meta"`
	Split      float64           `json:"split"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Score      Score             `json:"score"`
	Candidates []CandidateReport `json:"candidates,omitempty"`
	Root       *Table            `json:"root"`
}

// CandidateReport 记录搜索中每个候选分割的得分，便于调试。
type CandidateReport struct {
	Split float64 `json:"split"`
	Score Score   `json:"score"`
	Value float64 `json:"value"`
}

// PageGeometry 记录页面尺寸、统一边距与段落间距（pt）。
type PageGeometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margin  float64 `json:"margin"`
	Padding float64 `json:"padding"`
}

// ContentWidth 返回去掉左右边距后的可用宽度。
func (p PageGeometry) ContentWidth() float64 { return p.Width - 2*p.Margin }

// ContentHeight 返回去掉上下边距后的可用高度。
func (p PageGeometry) ContentHeight() float64 { return p.Height - 2*p.Margin }

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// FontResource 描述一个字体：字族名加字形变体。字族到字体程序的解析由渲染器负责。
type FontResource struct {
	Name   string `json:"name"`   // 原始写法，例如 "Helvetica-Bold"
	Family string `json:"family"` // 字族，例如 "Helvetica"
	Style  string `json:"style"`  // regular / bold / italic / bolditalic
}

// 字形变体。
const (
	FontRegular    = "regular"
	FontBold       = "bold"
	FontItalic     = "italic"
	FontBoldItalic = "bolditalic"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Alignment 是段落的水平对齐方式。
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Style 是解析后可直接用于排版的文本样式，构建后只读。
type Style struct {
	Name    string       `json:"name"`
	Font    FontResource `json:"font"`
	Size    float64      `json:"size"`
	Color   Color        `json:"color"`
	Align   Alignment    `json:"align"`
	Leading float64      `json:"leading"`
	Suffix  string       `json:"suffix,omitempty"`
}

// TextLine 表示排版后的一行文本内容及其宽度（pt）。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// Size 是测量结果。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Insets 是单元格四边的内边距。
type Insets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformInsets 四边相同的内边距。
func UniformInsets(v float64) Insets { return Insets{Top: v, Right: v, Bottom: v, Left: v} }
