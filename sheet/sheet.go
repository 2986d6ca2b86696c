// Package sheet 串联定义解析、版面搜索与 PDF 渲染，是命令行与其他调用方的入口。
package sheet

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/grahamwills/sheet/definition"
	"github.com/grahamwills/sheet/dsl"
	"github.com/grahamwills/sheet/layout"
	"github.com/grahamwills/sheet/renderer"
	canvasrenderer "github.com/grahamwills/sheet/renderer/canvas"
)

// ContentType 是 Build 输出的 MIME 类型。
const ContentType = renderer.ContentType

// Options 配置一次构建。
type Options struct {
	Logger      *log.Logger
	Workers     int           // 候选并发数，<=0 时串行
	Separator   dsl.Separator // 键值行分隔符，缺省为 "="
	InnerStep   float64       // 段内键列宽度搜索步长（pt）
	FontDir     string        // 自定义字体目录
	SystemFonts bool          // 是否在系统字体目录中查找自定义字体
	Data        any           // 非空时对标题与内容做 ${path} 插值
	DebugPath   string        // 非空时把选中的版面与候选得分写成 JSON
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Backend 同时负责排版测量与最终渲染。
type Backend interface {
	renderer.Renderer
	layout.Typesetter
}

// NewBackend 按选项创建默认的 canvas 渲染后端。
func NewBackend(opts Options) *canvasrenderer.Renderer {
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		FontDir:     opts.FontDir,
		SystemFonts: opts.SystemFonts,
		Logger:      opts.logger(),
	})
}

// Build 为定义选出最佳版面并渲染为 PDF。
func Build(def *definition.Definition, opts Options) ([]byte, error) {
	return BuildWith(NewBackend(opts), def, opts)
}

// BuildFile 读取定义文件（JSON 或 TOML）并渲染为 PDF。
func BuildFile(path string, opts Options) ([]byte, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	return Build(def, opts)
}

// BuildWith 使用指定后端完成构建。
func BuildWith(backend Backend, def *definition.Definition, opts Options) ([]byte, error) {
	if backend == nil {
		return nil, fmt.Errorf("渲染后端不能为空")
	}
	logger := opts.logger()
	start := time.Now()

	l, err := layout.Build(def, layout.BuildOptions{
		Typesetter: backend,
		Logger:     logger,
		Workers:    opts.Workers,
		InnerStep:  opts.InnerStep,
		Separator:  opts.Separator,
		Data:       opts.Data,
		Debug:      layout.DebugOptions{Candidates: opts.DebugPath != ""},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	if opts.DebugPath != "" {
		if err := layout.WriteDebugJSON(l, opts.DebugPath); err != nil {
			return nil, err
		}
		logger.Debug("已写出调试版面", "path", opts.DebugPath)
	}

	data, err := backend.Render(l)
	if err != nil {
		return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	logger.Info("生成完成", "build", l.BuildID[:8], "split", l.Split, "height", l.Height, "elapsed", time.Since(start).Round(time.Millisecond))
	return data, nil
}
