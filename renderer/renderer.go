package renderer

import "github.com/grahamwills/sheet/layout"

// ContentType 是渲染结果的 MIME 类型。
const ContentType = "application/pdf"

// Renderer 将布局结果输出为最终文件。
// Render 返回生成的二进制数据（PDF 字节切片）以及可能的错误；
// 内容超出页面高度时返回可用 layout.IsOverflow 判断的错误。
type Renderer interface {
	Render(l *layout.Layout) ([]byte, error)
}
