// Package builtin 提供内置槽位约束实现
package builtin

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
)

// MinRestGate 班次间最小休息约束
//
// 前一天班次与候选班次都带起止时刻时，按实际间隔（跨零点感知）
// 与 minHours 比较；任一方无时刻时退回代码规则：前一天为 N 班
// 则当天不得承担 D 班。
type MinRestGate struct {
	*BaseGate
	minHours int
}

// NewMinRestGate 创建班次间最小休息约束
func NewMinRestGate(minHours int) *MinRestGate {
	return &MinRestGate{
		BaseGate: NewBaseGate("班次间最小休息", constraint.TypeMinRest),
		minHours: minHours,
	}
}

// Allows 检查候选班次与前一天班次的间隔
func (g *MinRestGate) Allows(ctx *constraint.Context, handle, day int, shift *model.ShiftDefinition) bool {
	prev, ok := ctx.PreviousDayShift(handle, day)
	if !ok {
		return true
	}

	if prev.HasTimes() && shift.HasTimes() {
		if g.minHours <= 0 {
			return true
		}
		return g.restMinutes(prev, shift) >= g.minHours*60
	}

	// 无时刻信息时退回代码规则：夜班次日不排白班
	if prev.Code == model.NightCode && shift.Code == model.DayCode {
		return false
	}
	return true
}

// restMinutes 计算前一天班次结束到候选班次开始的间隔（分钟）
// 以前一天零点为原点，跨零点班次的结束时刻折算到次日
func (g *MinRestGate) restMinutes(prev, next *model.ShiftDefinition) int {
	prevStart, _ := prev.StartMinutes()
	prevEnd, _ := prev.EndMinutes()
	if prevEnd <= prevStart {
		prevEnd += 24 * 60
	}

	nextStart, _ := next.StartMinutes()
	return (24*60 + nextStart) - prevEnd
}

// ConsecutiveDaysGate 最大连续工作天数约束
// maxDays 为零或负值时不限制
type ConsecutiveDaysGate struct {
	*BaseGate
	maxDays int
}

// NewConsecutiveDaysGate 创建最大连续工作天数约束
func NewConsecutiveDaysGate(maxDays int) *ConsecutiveDaysGate {
	return &ConsecutiveDaysGate{
		BaseGate: NewBaseGate("最大连续工作天数", constraint.TypeMaxConsecutiveDays),
		maxDays:  maxDays,
	}
}

// Allows 检查员工进入当日时的连续工作天数是否仍低于上限
func (g *ConsecutiveDaysGate) Allows(ctx *constraint.Context, handle, _ int, _ *model.ShiftDefinition) bool {
	if g.maxDays <= 0 {
		return true
	}
	return ctx.Consecutive[handle] < g.maxDays
}
