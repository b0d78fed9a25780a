// Package builtin 提供内置槽位约束实现
package builtin

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/rotation"
)

// RegisterDefaultGates 注册默认槽位约束
// 顺序即检查顺序：空槽、轮换、连续天数、休息间隔
func RegisterDefaultGates(manager *constraint.Manager, cons model.Constraints, engine *rotation.Engine) {
	manager.Register(NewSlotFreeGate())
	manager.Register(NewRotationGate(engine))
	manager.Register(NewConsecutiveDaysGate(cons.MaxConsecutiveDays))
	manager.Register(NewMinRestGate(cons.MinRestHours))
}
