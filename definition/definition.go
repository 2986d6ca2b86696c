// Package definition 描述一张角色卡的输入定义：页面几何、文本样式与内容段落。
// 定义由外部的记录管理服务产出，这里只负责解码与补全默认值，校验交给 layout。
package definition

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Location 表示段落所在的页面区域。
type Location string

const (
	LocationTop    Location = "top"
	LocationCol1   Location = "column-1"
	LocationCol2   Location = "column-2"
	LocationCol3   Location = "column-3"
	LocationBottom Location = "bottom"
)

// Middle 列出三个中间列，顺序即从左到右的排版顺序。
var Middle = []Location{LocationCol1, LocationCol2, LocationCol3}

// ParseLocation 接受规范名称以及原始存储中的单字符代码（T/1/2/3/B）。
func ParseLocation(v string) (Location, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "top", "t":
		return LocationTop, true
	case "column-1", "col1", "1":
		return LocationCol1, true
	case "column-2", "col2", "2":
		return LocationCol2, true
	case "column-3", "col3", "3":
		return LocationCol3, true
	case "bottom", "b":
		return LocationBottom, true
	default:
		return "", false
	}
}

// Definition 是一次渲染的完整输入。
type Definition struct {
	Name     string        `json:"name,omitempty" toml:"name"`
	Layout   PageSpec      `json:"layout" toml:"layout"`
	Styles   []StyleSpec   `json:"styles" toml:"styles"`
	Sections []SectionSpec `json:"sections" toml:"sections"`
}

// PageSpec 页面尺寸。Width/Height/Margin 缺省单位为英寸，Padding 缺省单位为 pt。
type PageSpec struct {
	Width   Dimension `json:"width" toml:"width"`
	Height  Dimension `json:"height" toml:"height"`
	Margin  Dimension `json:"margin" toml:"margin"`
	Padding Dimension `json:"padding" toml:"padding"`
}

// StyleSpec 是一个命名文本样式。
type StyleSpec struct {
	Name   string `json:"name" toml:"name"`
	Font   string `json:"font" toml:"font"`
	Size   int    `json:"size" toml:"size"`
	Color  string `json:"color" toml:"color"`
	Align  string `json:"align" toml:"align"`
	Suffix string `json:"suffix,omitempty" toml:"suffix"`
}

// SectionSpec 是一个带位置的内容段落。
type SectionSpec struct {
	Title       string   `json:"title,omitempty" toml:"title"`
	Location    Location `json:"location" toml:"location"`
	Order       int      `json:"order" toml:"order"`
	Columns     int      `json:"columns" toml:"columns"`
	FillColor   string   `json:"fill_color,omitempty" toml:"fill_color"`
	BorderColor string   `json:"border_color,omitempty" toml:"border_color"`
	TextStyle   string   `json:"text_style" toml:"text_style"`
	KeyStyle    string   `json:"key_style" toml:"key_style"`
	LineSpacing float64  `json:"line_spacing" toml:"line_spacing"`
	Content     string   `json:"content" toml:"content"`
	// Image 为图片文件路径（相对定义文件所在目录），ImageData 为已读入的图片字节。
	Image     string `json:"image,omitempty" toml:"image"`
	ImageData []byte `json:"image_data,omitempty" toml:"-"`
}

// Dimension 保留作者书写的原始长度，例如 8.5、"216mm"、"6pt"。
// 单位换算延迟到布局阶段，由字段各自的缺省单位决定。
type Dimension string

// IsZero 判断是否未设置。
func (d Dimension) IsZero() bool { return strings.TrimSpace(string(d)) == "" }

// UnmarshalJSON 同时接受数字与字符串。
func (d *Dimension) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*d = Dimension(strings.TrimSpace(str))
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("长度 %s 无法解析: %w", s, err)
	}
	*d = Dimension(s)
	return nil
}

// UnmarshalTOML 实现 toml.Unmarshaler。
func (d *Dimension) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		*d = Dimension(strings.TrimSpace(val))
	case int64:
		*d = Dimension(strconv.FormatInt(val, 10))
	case float64:
		*d = Dimension(strconv.FormatFloat(val, 'f', -1, 64))
	default:
		return fmt.Errorf("长度类型 %T 不受支持", v)
	}
	return nil
}

// MarshalJSON 原样输出字符串形式。
func (d Dimension) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}
