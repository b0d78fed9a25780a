// Package rotation 计算轮换模式的相位错峰
//
// 每名员工获得一个周期内的相位偏移，使在岗人数在时间上均匀分布
// 而不是全员同步上下。无模式时全员始终在岗。
package rotation

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Engine 轮换引擎，偏移表建立后为纯函数
type Engine struct {
	pattern *model.RotationPattern
	offsets []int
}

// NewEngine 为指定人数分配相位偏移
// offset(i) = floor(i*L/E)，L 为周期长度，E 为员工数
func NewEngine(pattern *model.RotationPattern, employeeCount int) *Engine {
	eng := &Engine{pattern: pattern}
	if pattern.Length() == 0 || employeeCount <= 0 {
		return eng
	}
	eng.offsets = make([]int, employeeCount)
	length := pattern.Length()
	for i := 0; i < employeeCount; i++ {
		eng.offsets[i] = i * length / employeeCount
	}
	return eng
}

// IsOnCycle 检查员工在天序 d 是否在岗
func (e *Engine) IsOnCycle(handle, day int) bool {
	if e.pattern.Length() == 0 {
		return true
	}
	return e.pattern.OnAt(day + e.offsets[handle])
}

// Offset 返回员工的相位偏移
func (e *Engine) Offset(handle int) int {
	if len(e.offsets) == 0 {
		return 0
	}
	return e.offsets[handle]
}

// Offsets 返回完整偏移表
func (e *Engine) Offsets() []int {
	out := make([]int, len(e.offsets))
	copy(out, e.offsets)
	return out
}
