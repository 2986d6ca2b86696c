package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Format 是定义文件的编码格式。
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath 根据扩展名推断格式，未知扩展名按 JSON 处理。
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Load 读取定义文件，补全默认值，并把相对路径的段落图片读入内存。
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取定义文件 %s: %w", path, err)
	}
	def, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("解析定义文件 %s 失败: %w", path, err)
	}
	if err := def.loadImages(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return def, nil
}

// Decode 按指定格式解码定义并补全默认值。
func Decode(r io.Reader, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&def); err != nil {
			return nil, err
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&def); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("未知的定义格式 %q", format)
	}
	def.ApplyDefaults()
	return &def, nil
}

func (d *Definition) loadImages(baseDir string) error {
	for i := range d.Sections {
		s := &d.Sections[i]
		if s.Image == "" || len(s.ImageData) > 0 {
			continue
		}
		path := s.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("读取段落 %q 的图片 %s 失败: %w", s.Title, s.Image, err)
		}
		s.ImageData = data
	}
	return nil
}
