package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/grahamwills/sheet/layout"
)

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：width、fontSize 与返回的行宽均为 pt，与字体系统交互时在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize float64) ([]layout.TextLine, error) {
	r.measureMu.Lock()
	defer r.measureMu.Unlock()
	face, err := r.fonts.Face(font, fontSize, layout.Color{})
	if err != nil {
		return nil, err
	}
	lines := greedyWrapTokens(content, width, face)
	if len(lines) == 0 {
		lines = []layout.TextLine{{}}
	}
	return lines, nil
}

// TextWidth 实现 layout.Typesetter 接口，返回单行文本的宽度（pt）。
func (r *Renderer) TextWidth(content string, font layout.FontResource, fontSize float64) (float64, error) {
	r.measureMu.Lock()
	defer r.measureMu.Unlock()
	face, err := r.fonts.Face(font, fontSize, layout.Color{})
	if err != nil {
		return 0, err
	}
	return textWidth(face, content), nil
}

// textWidth 返回以 pt 计的文本宽度；canvas 的 TextWidth 返回 mm。
func textWidth(face *canvas.FontFace, s string) float64 {
	return toPt(face.TextWidth(s))
}

// greedyWrapTokens 优先在空白处折行，单词超过限制时在词内拆分。
// 行首空白被丢弃，行尾空白不计入行宽。
func greedyWrapTokens(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		lineStr := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		currentWidth = 0
		if lineStr == "" {
			if force {
				lines = append(lines, layout.TextLine{})
			}
			return
		}
		lines = append(lines, layout.TextLine{Content: lineStr, Width: textWidth(face, lineStr)})
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += textWidth(face, token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		if isBlank(token) {
			if builder.Len() > 0 {
				appendToken(token)
			}
			continue
		}

		tokenWidth := textWidth(face, token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := textWidth(face, chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
		}
	}

	emit(len(lines) == 0 || strings.HasSuffix(content, "\n"))
	return lines
}

func isBlank(token string) bool {
	return strings.TrimFunc(token, unicode.IsSpace) == ""
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if textWidth(face, builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
