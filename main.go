package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/grahamwills/sheet/definition"
	"github.com/grahamwills/sheet/dsl"
	"github.com/grahamwills/sheet/layout"
	canvasrenderer "github.com/grahamwills/sheet/renderer/canvas"
	"github.com/grahamwills/sheet/sheet"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger 创建带时间戳的日志，格式如 "14:32:01.45"。
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type cli struct {
	stdout  io.Writer
	verbose bool
	logger  *log.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout}
	root := &cobra.Command{
		Use:          "sheet",
		Short:        "sheet 将角色卡定义排版为单页 PDF",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			c.logger = newLogger(stderr, level)
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(c.newBuildCmd())
	root.AddCommand(c.newValidateCmd())
	root.AddCommand(c.newFontsCmd())
	return root
}

type buildFlags struct {
	input       string
	output      string
	debug       string
	separator   string
	workers     int
	innerStep   float64
	fontDir     string
	systemFonts bool
	data        string
}

func (c *cli) newBuildCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "计算版面并生成 PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.build(f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "定义文件路径（.json 或 .toml）")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "PDF 输出路径，缺省为与输入同名的 .pdf")
	cmd.Flags().StringVar(&f.debug, "debug", "", "版面调试 JSON 输出路径")
	cmd.Flags().StringVar(&f.separator, "separator", "=", "键值分隔符：= 或 ->")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "并发评估的候选数")
	cmd.Flags().Float64Var(&f.innerStep, "inner-step", layout.DefaultInnerStep, "段内键列宽度搜索步长（pt）")
	cmd.Flags().StringVar(&f.fontDir, "font-dir", "", "自定义字体目录")
	cmd.Flags().BoolVar(&f.systemFonts, "system-fonts", false, "在系统字体目录中查找自定义字体")
	cmd.Flags().StringVar(&f.data, "data", "", "绑定到内容的 JSON 数据，或以 @ 开头的 JSON 文件路径")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (c *cli) build(f buildFlags) error {
	sep, err := dsl.ParseSeparator(f.separator)
	if err != nil {
		return err
	}
	data, err := readData(f.data)
	if err != nil {
		return err
	}
	output := f.output
	if output == "" {
		output = strings.TrimSuffix(f.input, filepath.Ext(f.input)) + ".pdf"
	}

	pdfBytes, err := sheet.BuildFile(f.input, sheet.Options{
		Logger:      c.logger,
		Workers:     f.workers,
		Separator:   sep,
		InnerStep:   f.innerStep,
		FontDir:     f.fontDir,
		SystemFonts: f.systemFonts,
		Data:        data,
		DebugPath:   f.debug,
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	fmt.Fprintf(c.stdout, "已生成 PDF：%s\n", output)
	return nil
}

// readData 解析 --data：内联 JSON，或 @path 指向的 JSON 文件。
func readData(v string) (any, error) {
	if v == "" {
		return nil, nil
	}
	raw := []byte(v)
	if path, ok := strings.CutPrefix(v, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取数据文件 %s 失败: %w", path, err)
		}
		raw = b
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func (c *cli) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "只校验定义文件，不生成 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition.Load(args[0])
			if err != nil {
				return err
			}
			if err := layout.Validate(def); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s: 定义有效（%d 个样式，%d 个段落）\n", args[0], len(def.Styles), len(def.Sections))
			return nil
		},
	}
}

func (c *cli) newFontsCmd() *cobra.Command {
	var fontDir string
	var systemFonts bool
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "列出可用字体",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := canvasrenderer.NewFontResolver(canvasrenderer.FontOptions{Dir: fontDir, SystemFonts: systemFonts, Logger: c.logger})
			for _, choice := range resolver.Choices() {
				fmt.Fprintf(c.stdout, "%-28s %s\n", choice.Name, choice.Label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fontDir, "font-dir", "", "自定义字体目录")
	cmd.Flags().BoolVar(&systemFonts, "system-fonts", false, "在系统字体目录中查找自定义字体")
	return cmd
}
