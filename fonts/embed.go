// Package fonts 提供内置字体数据与可选字体清单。
//
// 内置三个字族：Helvetica（Go 无衬线字体）、Courier（Go Mono）与 Times（Latin Modern Roman），
// 其余字族为自定义字体，需要在字体目录中提供 <Resource>-<Variant>.ttf 文件。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// 字形变体，同时也是自定义字体文件名的后缀。
const (
	Regular    = "Regular"
	Bold       = "Bold"
	Italic     = "Italic"
	BoldItalic = "BoldItalic"
)

// Variants 按加载顺序列出全部变体。
var Variants = []string{Regular, Bold, Italic, BoldItalic}

// DefaultFamily 是找不到字族时的回退字族。
const DefaultFamily = "Helvetica"

// Family 描述一个可选字族。
type Family struct {
	Name     string // 定义中书写的字族名
	Resource string // 自定义字体的文件名前缀
	Builtin  bool
	// 变体在 PDF 标准字体中的写法，例如 Helvetica 的斜体写作 Oblique
	italicName  string
	regularName string
}

var builtin = map[string]map[string][]byte{
	"Helvetica": {Regular: goregular.TTF, Bold: gobold.TTF, Italic: goitalic.TTF, BoldItalic: gobolditalic.TTF},
	"Courier":   {Regular: gomono.TTF, Bold: gomonobold.TTF, Italic: gomonoitalic.TTF, BoldItalic: gomonobolditalic.TTF},
	"Times":     {Regular: lmroman10regular.TTF, Bold: lmroman10bold.TTF, Italic: lmroman10italic.TTF, BoldItalic: lmroman10bolditalic.TTF},
}

var families = []Family{
	{Name: "Helvetica", Builtin: true, italicName: "Oblique"},
	{Name: "Courier", Builtin: true, italicName: "Oblique"},
	{Name: "Times", Builtin: true, italicName: "Italic", regularName: "Roman"},
	{Name: "Droid", Resource: "DroidSerif"},
	{Name: "Parisienne", Resource: "Parisienne"},
	{Name: "Post No Bills", Resource: "PostNoBills"},
	{Name: "Roboto", Resource: "Roboto"},
	{Name: "Western", Resource: "Carnevalee Freakshow"},
	{Name: "Love You", Resource: "I Love What You Do"},
	{Name: "Typewriter", Resource: "SpecialElite"},
	{Name: "Star Jedi", Resource: "Starjedi"},
	{Name: "28 Days Later", Resource: "28 Days Later"},
	{Name: "Caviar Dreams", Resource: "CaviarDreams"},
	{Name: "Motion Picture", Resource: "MotionPicture"},
	{Name: "Adventure", Resource: "Adventure"},
	{Name: "Mrs. Monster", Resource: "mrsmonster"},
}

// Families 返回全部已知字族。
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

// Lookup 按名称查找字族，不区分大小写。
func Lookup(name string) (Family, bool) {
	for _, f := range families {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, true
		}
	}
	return Family{}, false
}

// Load 返回内置字族某个变体的字体数据。
func Load(family, variant string) ([]byte, error) {
	vs, ok := builtin[family]
	if !ok {
		return nil, fmt.Errorf("字族 %s 不是内置字体", family)
	}
	data, ok := vs[variant]
	if !ok {
		return nil, fmt.Errorf("内置字族 %s 没有 %s 变体", family, variant)
	}
	return data, nil
}

// FileName 返回自定义字族某个变体的字体文件名。
func (f Family) FileName(variant string) string {
	return f.Resource + "-" + variant + ".ttf"
}

// FontName 返回该变体在定义中的写法，例如 Helvetica-BoldOblique、Times-Roman。
func (f Family) FontName(variant string) string {
	italic := f.italicName
	if italic == "" {
		italic = Italic
	}
	switch variant {
	case Bold:
		return f.Name + "-Bold"
	case Italic:
		return f.Name + "-" + italic
	case BoldItalic:
		return f.Name + "-Bold" + italic
	default:
		if f.regularName != "" {
			return f.Name + "-" + f.regularName
		}
		return f.Name
	}
}

// Choice 是一个可选字体及其可读名称。
type Choice struct {
	Name  string
	Label string
}

// Choices 列出内置字体的全部变体，以及 available 报告为存在的自定义字体变体，按名称排序。
func Choices(available func(f Family, variant string) bool) []Choice {
	var out []Choice
	for _, f := range families {
		for _, v := range Variants {
			if !f.Builtin && (available == nil || !available(f, v)) {
				continue
			}
			name := f.FontName(v)
			out = append(out, Choice{Name: name, Label: Readable(name)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Readable 把字体名转换为界面上展示的名称，例如 "Helvetica-BoldOblique" → "Helvetica • Bold Italic"。
func Readable(name string) string {
	r := strings.NewReplacer(
		"-Regular", "",
		"-BoldOblique", " • Bold Italic",
		"-BoldItalic", " • Bold Italic",
		"-Oblique", " • Italic",
		"-Italic", " • Italic",
		"-Bold", " • Bold",
		"Times-Roman", "Times",
	)
	return r.Replace(name)
}
