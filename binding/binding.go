package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// ${path|fallback} 在路径不存在时使用 fallback；没有 fallback 时保留原占位符。
// data 可以是 map、切片或结构体（按 json 标签或字段名匹配）的任意嵌套。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		expr := groups[1]
		fallback, hasFallback := "", false
		if i := strings.IndexByte(expr, '|'); i != -1 {
			fallback, hasFallback = expr[i+1:], true
			expr = expr[:i]
		}
		path := strings.TrimSpace(expr)
		if path != "" {
			if val, ok := Resolve(data, path); ok {
				return fmt.Sprint(val)
			}
		}
		if hasFallback {
			return fallback
		}
		return match
	})
}

// Resolve 按 a.b[0].c 形式的路径取值。
func Resolve(data any, path string) (any, bool) {
	current := reflect.ValueOf(data)
	for _, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendField(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendIndex(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	current = indirect(current)
	if !current.IsValid() {
		return nil, false
	}
	return current.Interface(), true
}

func parseSegment(segment string) (string, []string) {
	name := strings.TrimSpace(segment)
	indexes := []string{}
	if i := strings.Index(name, "["); i != -1 {
		rest := name[i:]
		name = name[:i]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func descendField(current reflect.Value, key string) (reflect.Value, bool) {
	v := indirect(current)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		return val, val.IsValid()
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if tag == key || (tag == "" && strings.EqualFold(f.Name, key)) {
				return v.Field(i), true
			}
		}
	}
	return reflect.Value{}, false
}

func descendIndex(current reflect.Value, idx int) (reflect.Value, bool) {
	v := indirect(current)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true
	default:
		return reflect.Value{}, false
	}
}
