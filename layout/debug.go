package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDebugJSON 将选定的版面（含各候选得分）输出为 JSON，便于调试或可视化。
func WriteDebugJSON(l *Layout, path string) error {
	if l == nil {
		return nil
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化版面失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
