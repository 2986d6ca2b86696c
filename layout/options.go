package layout

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/grahamwills/sheet/dsl"
)

// DefaultInnerStep 是段内键列宽度搜索的步长（pt）。
const DefaultInnerStep = 10.0

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Logger     *log.Logger
	Workers    int           // 候选并发数，<=0 时串行
	InnerStep  float64       // 段内搜索步长，<=0 时使用 DefaultInnerStep
	Separator  dsl.Separator // 键值行分隔符
	Data       any           // 非空时对内容做 ${path} 插值
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Candidates bool // 在结果中保留每个外层候选的得分
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行，并测量单行宽度。
// 实现必须可被多个候选并发调用。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64) ([]TextLine, error)
	TextWidth(content string, font FontResource, fontSize float64) (float64, error)
}

// Preparer 由需要预加载字体的排版后端实现，在搜索开始前调用一次。
type Preparer interface {
	Prepare(fonts []FontResource) error
}

func (o BuildOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

func (o BuildOptions) workers() int {
	if o.Workers <= 0 {
		return 1
	}
	return o.Workers
}

func (o BuildOptions) innerStep() float64 {
	if o.InnerStep <= 0 {
		return DefaultInnerStep
	}
	return o.InnerStep
}
