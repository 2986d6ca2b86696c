package layout

import "math"

// 加权得分使用的系数，仅用于日志与调试输出；候选比较使用 Score.Less。
const (
	overflowWeight   = 100.0
	heightWeight     = 1.0 / 100
	divergenceWeight = 1.0 / 1000
	failedValue      = 1e9
	heightEpsilon    = 1e-6
)

// Score 是候选布局的质量，越小越好。字段按优先级从高到低排列：
// 测量失败 > 复选框溢出 > 折行段落数 > 总高度 > 分割偏离。
type Score struct {
	Failed     bool    `json:"failed,omitempty"`
	Overflow   int     `json:"overflow"`
	Wrapped    int     `json:"wrapped"`
	Height     float64 `json:"height"`
	Divergence float64 `json:"divergence"`
}

// FailedScore 是测量失败的候选得分，比任何成功的候选都差。
func FailedScore() Score { return Score{Failed: true} }

// Less 按字段优先级逐项比较。
func (s Score) Less(o Score) bool {
	if s.Failed != o.Failed {
		return !s.Failed
	}
	if s.Overflow != o.Overflow {
		return s.Overflow < o.Overflow
	}
	if s.Wrapped != o.Wrapped {
		return s.Wrapped < o.Wrapped
	}
	if math.Abs(s.Height-o.Height) > heightEpsilon {
		return s.Height < o.Height
	}
	return s.Divergence*s.Divergence < o.Divergence*o.Divergence
}

// Value 返回加权后的标量得分。
func (s Score) Value() float64 {
	if s.Failed {
		return failedValue
	}
	return float64(s.Overflow)*overflowWeight +
		float64(s.Wrapped) +
		s.Height*heightWeight +
		s.Divergence*s.Divergence*divergenceWeight
}

// ScoreTree 统计已测量的树：折行段落与放不下的复选框行计数，高度取根节点高度。
func ScoreTree(root Node, divergence float64) Score {
	s := Score{Height: root.Size().Height, Divergence: divergence}
	var walk func(n Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Paragraph:
			if v.Wrapped() {
				s.Wrapped++
			}
		case *CheckboxRow:
			if !v.Fits {
				s.Overflow++
			}
		case *Table:
			for _, row := range v.Rows {
				for _, c := range row {
					if c.Node != nil {
						walk(c.Node)
					}
				}
			}
		}
	}
	walk(root)
	return s
}
