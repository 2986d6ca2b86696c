package definition

import "strings"

// 默认值与原始记录模型保持一致。
const (
	DefaultWidth       = "8.5"
	DefaultHeight      = "11"
	DefaultMargin      = "0.5"
	DefaultPadding     = "6"
	DefaultFont        = "Helvetica"
	DefaultSize        = 11
	DefaultColor       = "black"
	DefaultAlign       = "L"
	DefaultTextStyle   = "norm"
	DefaultKeyStyle    = "key"
	DefaultLineSpacing = 2.0
)

// ApplyDefaults 为缺省字段填入默认值。显式给出的值（包括非法值）保持不变，
// 由布局阶段统一校验。
func (d *Definition) ApplyDefaults() {
	if d.Layout.Width.IsZero() {
		d.Layout.Width = DefaultWidth
	}
	if d.Layout.Height.IsZero() {
		d.Layout.Height = DefaultHeight
	}
	if d.Layout.Margin.IsZero() {
		d.Layout.Margin = DefaultMargin
	}
	if d.Layout.Padding.IsZero() {
		d.Layout.Padding = DefaultPadding
	}
	for i := range d.Styles {
		s := &d.Styles[i]
		if s.Font == "" {
			s.Font = DefaultFont
		}
		if s.Size == 0 {
			s.Size = DefaultSize
		}
		if s.Color == "" {
			s.Color = DefaultColor
		}
		if s.Align == "" {
			s.Align = DefaultAlign
		}
	}
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.Location == "" {
			s.Location = LocationTop
		} else if loc, ok := ParseLocation(string(s.Location)); ok {
			s.Location = loc
		}
		if s.Columns == 0 {
			s.Columns = 1
		}
		if strings.TrimSpace(s.TextStyle) == "" {
			s.TextStyle = DefaultTextStyle
		}
		if strings.TrimSpace(s.KeyStyle) == "" {
			s.KeyStyle = DefaultKeyStyle
		}
		if s.LineSpacing == 0 {
			s.LineSpacing = DefaultLineSpacing
		}
	}
}
