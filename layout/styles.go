package layout

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/grahamwills/sheet/definition"
)

const (
	leadingFactor = 1.2
	titleFontSize = 7.0
	titleFontName = "Helvetica-Bold"
	boldStyleName = "bold"
)

// BuildStyles 把输入样式解析为可直接排版的样式表。名称唯一由调用方保证，重名时后者覆盖前者。
func BuildStyles(specs []definition.StyleSpec) (map[string]Style, error) {
	out := make(map[string]Style, len(specs))
	for i, spec := range specs {
		field := fmt.Sprintf("styles[%d]", i)
		if spec.Size <= 0 {
			return nil, configErrorf(field+".size", "字号必须为正数，实际为 %d", spec.Size)
		}
		align, ok := ParseAlignment(spec.Align)
		if !ok {
			return nil, &ConfigError{Field: field + ".align", Err: &UnknownAlignmentError{Style: spec.Name, Value: spec.Align}}
		}
		color := Color{}
		if c := ParseColor(spec.Color); c != nil {
			color = *c
		}
		size := float64(spec.Size)
		out[spec.Name] = Style{
			Name:    spec.Name,
			Font:    ParseFont(spec.Font),
			Size:    size,
			Color:   color,
			Align:   align,
			Leading: size * leadingFactor,
			Suffix:  spec.Suffix,
		}
	}
	return out, nil
}

// TitleStyle 返回盒子侧标签使用的样式；若样式表中有名为 bold 的样式，则沿用其字体。
func TitleStyle(styles map[string]Style) Style {
	font := ParseFont(titleFontName)
	if b, ok := styles[boldStyleName]; ok {
		font = b.Font
	}
	return Style{
		Name:    "title",
		Font:    font,
		Size:    titleFontSize,
		Align:   AlignLeft,
		Leading: titleFontSize * leadingFactor,
	}
}

// ParseAlignment 接受完整名称或单字母代码，不区分大小写。
func ParseAlignment(v string) (Alignment, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "l", "left":
		return AlignLeft, true
	case "c", "center", "centre":
		return AlignCenter, true
	case "r", "right":
		return AlignRight, true
	case "j", "justify":
		return AlignJustify, true
	default:
		return "", false
	}
}

// ParseFont 解析 "Family-Variant" 形式的字体名，例如 Helvetica-BoldOblique、Times-Roman。
// 无法识别的后缀视为字族名的一部分。
func ParseFont(name string) FontResource {
	name = strings.TrimSpace(name)
	res := FontResource{Name: name, Family: name, Style: FontRegular}
	idx := strings.LastIndex(name, "-")
	if idx <= 0 {
		return res
	}
	suffix := strings.ToLower(name[idx+1:])
	var style string
	switch suffix {
	case "roman", "regular":
		style = FontRegular
	case "bold":
		style = FontBold
	case "italic", "oblique":
		style = FontItalic
	case "bolditalic", "boldoblique":
		style = FontBoldItalic
	default:
		return res
	}
	res.Family = strings.TrimSpace(name[:idx])
	res.Style = style
	return res
}

// ParseColor 解析颜色名或十六进制写法（#rgb、#rrggbb、#rrggbbaa、0xrrggbb）。
// 无法解析或为 "none" 时返回 nil，表示不填充也不描边。
func ParseColor(value string) *Color {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "" || v == "none":
		return nil
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "0x"):
		return parseHex(v[2:])
	}
	if c, ok := colornames.Map[strings.ReplaceAll(v, " ", "")]; ok {
		return &Color{R: int(c.R), G: int(c.G), B: int(c.B)}
	}
	return nil
}

func parseHex(v string) *Color {
	if _, err := strconv.ParseUint(v, 16, 64); err != nil {
		return nil
	}
	switch len(v) {
	case 3:
		return &Color{R: hexByte(v[0:1] + v[0:1]), G: hexByte(v[1:2] + v[1:2]), B: hexByte(v[2:3] + v[2:3])}
	case 6, 8:
		return &Color{R: hexByte(v[0:2]), G: hexByte(v[2:4]), B: hexByte(v[4:6])}
	default:
		return nil
	}
}

func hexByte(s string) int {
	v, _ := strconv.ParseUint(s, 16, 8)
	return int(v)
}
