// Package constraint 定义槽位约束接口和管理器
//
// 槽位约束回答一个问题：员工能否在某天承担某个班次。
// 引擎在主排班与补排阶段的每次分配前逐一询问已注册的约束，
// 全部放行才会写入网格。所有约束均为硬约束，工作量的软性
// 平衡由引擎的公平性评分完成，不在约束层表达。
package constraint

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Type 约束类型标识
type Type string

const (
	TypeSlotOccupied       Type = "slot_occupied"        // 当日已有安排或缺勤
	TypeRotationOffCycle   Type = "rotation_off_cycle"   // 轮换模式轮休
	TypeMaxConsecutiveDays Type = "max_consecutive_days" // 连续工作天数达到上限
	TypeMinRest            Type = "min_rest"             // 班次间休息不足
)

// Gate 槽位约束接口
type Gate interface {
	// Name 返回约束名称
	Name() string

	// Type 返回约束类型
	Type() Type

	// Allows 检查员工能否在天序 day 承担班次 shift
	Allows(ctx *Context, handle, day int, shift *model.ShiftDefinition) bool
}

// Context 一次生成过程中的在途状态
// 由引擎创建并随排班推进更新，约束只读不写
type Context struct {
	Roster  model.Roster
	Catalog model.ShiftCatalog
	Grid    model.AssignmentGrid

	// Consecutive 每名员工进入当日时的连续工作天数
	// 引擎在每天的工作班处理完毕后更新
	Consecutive []int
}

// NewContext 创建排班上下文
func NewContext(roster model.Roster, catalog model.ShiftCatalog, grid model.AssignmentGrid) *Context {
	return &Context{
		Roster:      roster,
		Catalog:     catalog,
		Grid:        grid,
		Consecutive: make([]int, len(roster)),
	}
}

// PreviousDayShift 返回员工前一天承担的班次定义
// 首日、空单元格或缺勤标记均返回 false
func (c *Context) PreviousDayShift(handle, day int) (*model.ShiftDefinition, bool) {
	if day <= 0 {
		return nil, false
	}
	code := c.Grid.Cell(handle, day-1)
	if code == "" || model.IsReservedCode(code) {
		return nil, false
	}
	return c.Catalog.ByCode(code)
}

// IsWorkingCell 检查某单元格是否为工作班代码
func (c *Context) IsWorkingCell(handle, day int) bool {
	code := c.Grid.Cell(handle, day)
	if code == "" || model.IsReservedCode(code) {
		return false
	}
	return c.Catalog.IsWorkingCode(code)
}
