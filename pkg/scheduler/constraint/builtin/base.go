// Package builtin 提供内置槽位约束实现
package builtin

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
)

// BaseGate 约束基类
type BaseGate struct {
	name string
	typ  constraint.Type
}

// NewBaseGate 创建基础约束
func NewBaseGate(name string, typ constraint.Type) *BaseGate {
	return &BaseGate{name: name, typ: typ}
}

// Name 返回约束名称
func (g *BaseGate) Name() string { return g.name }

// Type 返回约束类型
func (g *BaseGate) Type() constraint.Type { return g.typ }
