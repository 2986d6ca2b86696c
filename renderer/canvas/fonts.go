package canvasrenderer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"github.com/tdewolff/canvas"

	"github.com/grahamwills/sheet/fonts"
	"github.com/grahamwills/sheet/layout"
)

// FontResolver 把 layout.FontResource 解析为 canvas 字族。
//
// 内置字族直接使用内嵌数据；自定义字族在字体目录中查找 <Resource>-<Variant>.ttf，
// 开启 SystemFonts 时再到系统字体目录中查找。缺少的变体按 粗斜体→粗体→常规 回退，
// 整个字族不可用时回退到 Helvetica。
type FontResolver struct {
	dir    string
	system bool
	logger *log.Logger

	mu       sync.Mutex
	families map[string]*loadedFamily // 以小写字族名为键；nil 表示不可用
}

type loadedFamily struct {
	family *canvas.FontFamily
	have   map[string]bool
}

// FontOptions 配置字体查找位置。
type FontOptions struct {
	Dir         string
	SystemFonts bool
	Logger      *log.Logger
}

func NewFontResolver(opts FontOptions) *FontResolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FontResolver{
		dir:      opts.Dir,
		system:   opts.SystemFonts,
		logger:   logger,
		families: map[string]*loadedFamily{},
	}
}

// Prepare 预加载默认字族与 list 中的全部字族。默认字族加载失败是致命错误，
// 其他字族失败时记录警告并在使用时回退。
func (f *FontResolver) Prepare(list []layout.FontResource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.familyLocked(fonts.DefaultFamily) == nil {
		return fmt.Errorf("加载默认字体 %s 失败", fonts.DefaultFamily)
	}
	for _, res := range list {
		if f.familyLocked(res.Family) == nil {
			f.logger.Warn("字体不可用，使用默认字体", "font", res.Name, "fallback", fonts.DefaultFamily)
		}
	}
	return nil
}

// Face 返回指定字体、字号（pt）与颜色的字体面。
func (f *FontResolver) Face(res layout.FontResource, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lf := f.familyLocked(res.Family)
	if lf == nil {
		lf = f.familyLocked(fonts.DefaultFamily)
		if lf == nil {
			return nil, fmt.Errorf("加载默认字体 %s 失败", fonts.DefaultFamily)
		}
	}
	variant := lf.variant(variantOf(res.Style))
	return lf.family.Face(sizePt, colorFromLayout(col), canvasStyle(variant), canvas.FontNormal), nil
}

// Choices 列出当前可用的字体选项。
func (f *FontResolver) Choices() []fonts.Choice {
	return fonts.Choices(func(fam fonts.Family, variant string) bool {
		_, ok := f.locate(fam.FileName(variant))
		return ok
	})
}

func (f *FontResolver) familyLocked(name string) *loadedFamily {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fonts.DefaultFamily
	}
	key := strings.ToLower(name)
	if lf, ok := f.families[key]; ok {
		return lf
	}
	lf := f.load(name)
	f.families[key] = lf
	return lf
}

func (f *FontResolver) load(name string) *loadedFamily {
	fam, known := fonts.Lookup(name)
	if !known {
		fam = fonts.Family{Name: name, Resource: name}
	}
	lf := &loadedFamily{family: canvas.NewFontFamily(fam.Name), have: map[string]bool{}}
	for _, v := range fonts.Variants {
		data, err := f.variantData(fam, v)
		if err != nil {
			f.logger.Debug("跳过字体变体", "family", fam.Name, "variant", v, "err", err)
			continue
		}
		if err := lf.family.LoadFont(data, 0, canvasStyle(v)); err != nil {
			f.logger.Warn("解析字体失败", "family", fam.Name, "variant", v, "err", err)
			continue
		}
		lf.have[v] = true
	}
	if !lf.have[fonts.Regular] {
		return nil
	}
	return lf
}

func (f *FontResolver) variantData(fam fonts.Family, variant string) ([]byte, error) {
	if fam.Builtin {
		return fonts.Load(fam.Name, variant)
	}
	path, ok := f.locate(fam.FileName(variant))
	if !ok {
		return nil, fmt.Errorf("找不到字体文件 %s", fam.FileName(variant))
	}
	return os.ReadFile(path)
}

func (f *FontResolver) locate(file string) (string, bool) {
	if f.dir != "" {
		path := filepath.Join(f.dir, file)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}
	}
	if f.system {
		if path, err := findfont.Find(file); err == nil && filepath.Base(path) == file {
			return path, true
		}
	}
	return "", false
}

// variant 返回已加载的最接近变体。
func (lf *loadedFamily) variant(want string) string {
	for _, v := range variantFallbacks[want] {
		if lf.have[v] {
			return v
		}
	}
	return fonts.Regular
}

var variantFallbacks = map[string][]string{
	fonts.Regular:    {fonts.Regular},
	fonts.Bold:       {fonts.Bold, fonts.Regular},
	fonts.Italic:     {fonts.Italic, fonts.Regular},
	fonts.BoldItalic: {fonts.BoldItalic, fonts.Bold, fonts.Regular},
}

func variantOf(style string) string {
	switch style {
	case layout.FontBold:
		return fonts.Bold
	case layout.FontItalic:
		return fonts.Italic
	case layout.FontBoldItalic:
		return fonts.BoldItalic
	default:
		return fonts.Regular
	}
}

func canvasStyle(variant string) canvas.FontStyle {
	switch variant {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Italic:
		return canvas.FontRegular | canvas.FontItalic
	case fonts.BoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}
