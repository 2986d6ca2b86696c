package layout

import (
	"fmt"
	"math"

	"github.com/grahamwills/sheet/definition"
)

const maxColumns = 5

// Validate 检查定义的页面几何、样式与段落配置，不做排版。
func Validate(def *definition.Definition) error {
	if def == nil {
		return fmt.Errorf("定义为空")
	}
	_, _, err := resolve(def)
	return err
}

func resolve(def *definition.Definition) (PageGeometry, map[string]Style, error) {
	page, err := ResolvePage(def.Layout)
	if err != nil {
		return PageGeometry{}, nil, err
	}
	styles, err := BuildStyles(def.Styles)
	if err != nil {
		return PageGeometry{}, nil, err
	}
	if err := validateSections(def.Sections, styles); err != nil {
		return PageGeometry{}, nil, err
	}
	return page, styles, nil
}

// ResolvePage 校验页面几何并换算为 pt。宽高与边距缺省单位为英寸，间距缺省单位为 pt。
func ResolvePage(spec definition.PageSpec) (PageGeometry, error) {
	width, err := resolveDimension("layout.width", spec.Width, UnitIN)
	if err != nil {
		return PageGeometry{}, err
	}
	height, err := resolveDimension("layout.height", spec.Height, UnitIN)
	if err != nil {
		return PageGeometry{}, err
	}
	margin, err := resolveDimension("layout.margin", spec.Margin, UnitIN)
	if err != nil {
		return PageGeometry{}, err
	}
	padding, err := resolveDimension("layout.padding", spec.Padding, UnitPT)
	if err != nil {
		return PageGeometry{}, err
	}
	if margin >= math.Min(width, height)/2 {
		return PageGeometry{}, configErrorf("layout.margin", "边距 %.1fpt 必须小于页面短边的一半（%.1fpt）", margin, math.Min(width, height)/2)
	}
	return PageGeometry{Width: width, Height: height, Margin: margin, Padding: padding}, nil
}

func resolveDimension(field string, d definition.Dimension, def Unit) (float64, error) {
	l, ok := ParseRawLengthStr(string(d))
	if !ok {
		return 0, configErrorf(field, "长度 %q 无法解析", string(d))
	}
	v := l.WithDefault(def).ToPT()
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, configErrorf(field, "长度必须为正数，实际为 %q", string(d))
	}
	return v, nil
}

// validateSections 检查段落的位置、列数与文本样式引用。
// 键样式只在出现键值行时才被引用，由 NewPart 检查。
func validateSections(sections []definition.SectionSpec, styles map[string]Style) error {
	for i, s := range sections {
		field := fmt.Sprintf("sections[%d]", i)
		if _, ok := definition.ParseLocation(string(s.Location)); !ok {
			return configErrorf(field+".location", "未知的位置 %q", s.Location)
		}
		if s.Columns < 1 || s.Columns > maxColumns {
			return configErrorf(field+".columns", "列数必须在 1 到 %d 之间，实际为 %d", maxColumns, s.Columns)
		}
		if len(s.ImageData) > 0 {
			continue
		}
		if _, ok := styles[s.TextStyle]; !ok {
			return configErrorf(field+".text_style", "样式 %s 未定义", s.TextStyle)
		}
	}
	return nil
}
