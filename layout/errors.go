package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig 标记所有会中止构建的配置错误。
	ErrConfig = errors.New("配置错误")
	// ErrOverflow 表示内容高度超出页面可用高度。
	ErrOverflow = errors.New("内容超出页面高度")
)

// ConfigError 指明出错的输入字段。
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap 返回底层原因；原因不是配置类错误时仍可用 errors.Is(err, ErrConfig) 识别。
func (e *ConfigError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfig}
	}
	if errors.Is(e.Err, ErrConfig) {
		return []error{e.Err}
	}
	return []error{e.Err, ErrConfig}
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// UnknownAlignmentError 表示样式的对齐方式不在 left/center/right/justify 之中。
type UnknownAlignmentError struct {
	Style string
	Value string
}

func (e *UnknownAlignmentError) Error() string {
	return fmt.Sprintf("样式 %s 的对齐方式 %q 无法识别", e.Style, e.Value)
}

func (e *UnknownAlignmentError) Unwrap() error { return ErrConfig }
