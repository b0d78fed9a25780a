// Package builtin 提供内置槽位约束实现
package builtin

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/rotation"
)

// SlotFreeGate 空槽约束
// 每人每天只承担一个班次，缺勤标记同样占用槽位
type SlotFreeGate struct {
	*BaseGate
}

// NewSlotFreeGate 创建空槽约束
func NewSlotFreeGate() *SlotFreeGate {
	return &SlotFreeGate{
		BaseGate: NewBaseGate("当日空槽", constraint.TypeSlotOccupied),
	}
}

// Allows 检查员工当日是否尚无安排
func (g *SlotFreeGate) Allows(ctx *constraint.Context, handle, day int, _ *model.ShiftDefinition) bool {
	return ctx.Grid.IsEmpty(handle, day)
}

// RotationGate 轮换约束
// 轮休日的员工不参与任何班次分配
type RotationGate struct {
	*BaseGate
	engine *rotation.Engine
}

// NewRotationGate 创建轮换约束
func NewRotationGate(engine *rotation.Engine) *RotationGate {
	return &RotationGate{
		BaseGate: NewBaseGate("轮换在岗", constraint.TypeRotationOffCycle),
		engine:   engine,
	}
}

// Allows 检查员工当日是否在岗
func (g *RotationGate) Allows(_ *constraint.Context, handle, day int, _ *model.ShiftDefinition) bool {
	return g.engine.IsOnCycle(handle, day)
}
