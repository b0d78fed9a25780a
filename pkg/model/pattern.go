// Package model 定义排班引擎的核心数据模型
package model

// RotationPattern 轮换模式
// Cycle 为二进制序列，1 表示在岗，0 表示轮休；nil 模式表示始终在岗
type RotationPattern struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Cycle       []int  `json:"cycle"`
	Description string `json:"description,omitempty"`
}

// Length 返回周期长度
func (p *RotationPattern) Length() int {
	if p == nil {
		return 0
	}
	return len(p.Cycle)
}

// OnAt 检查周期内某位置是否在岗
func (p *RotationPattern) OnAt(pos int) bool {
	if p == nil || len(p.Cycle) == 0 {
		return true
	}
	return p.Cycle[pos%len(p.Cycle)] == 1
}

// WorkDaysPerCycle 返回一个周期内的在岗天数
func (p *RotationPattern) WorkDaysPerCycle() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, v := range p.Cycle {
		if v == 1 {
			n++
		}
	}
	return n
}
