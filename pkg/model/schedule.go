// Package model 定义排班引擎的核心数据模型
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// AssignmentGrid 排班网格，行下标为员工 Handle，列下标为周期内天序
// 单元格取值：空串（未排）、班次代码、或缺勤标记 LEAVE/TAD
type AssignmentGrid [][]string

// NewAssignmentGrid 创建空网格
func NewAssignmentGrid(numEmployees, numDays int) AssignmentGrid {
	grid := make(AssignmentGrid, numEmployees)
	for i := range grid {
		grid[i] = make([]string, numDays)
	}
	return grid
}

// Cell 返回单元格内容
func (g AssignmentGrid) Cell(handle, day int) string {
	return g[handle][day]
}

// Set 写入单元格
func (g AssignmentGrid) Set(handle, day int, code string) {
	g[handle][day] = code
}

// IsEmpty 检查单元格是否未排
func (g AssignmentGrid) IsEmpty(handle, day int) bool {
	return g[handle][day] == ""
}

// IsAbsence 检查单元格是否为缺勤标记
func (g AssignmentGrid) IsAbsence(handle, day int) bool {
	return IsReservedCode(g[handle][day])
}

// NumEmployees 返回网格行数
func (g AssignmentGrid) NumEmployees() int {
	return len(g)
}

// NumDays 返回网格列数
func (g AssignmentGrid) NumDays() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone 深拷贝网格
func (g AssignmentGrid) Clone() AssignmentGrid {
	out := make(AssignmentGrid, len(g))
	for i, row := range g {
		out[i] = make([]string, len(row))
		copy(out[i], row)
	}
	return out
}

// FairnessCount 单个员工的工作量计数
type FairnessCount struct {
	TotalAssigned int `json:"total_assigned"`
	NightAssigned int `json:"night_assigned"`
}

// FairnessCounters 全员工作量计数，下标为员工 Handle
// 每次生成重建，不做持久化
type FairnessCounters []FairnessCount

// NewFairnessCounters 创建归零的计数表
func NewFairnessCounters(numEmployees int) FairnessCounters {
	return make(FairnessCounters, numEmployees)
}

// WarningKind 告警类型
type WarningKind string

const (
	WarnCoverageShortfall  WarningKind = "coverage_shortfall"  // 人手不足
	WarnConsecutiveOverrun WarningKind = "consecutive_overrun" // 连续工作超限
	WarnWeeklyHours        WarningKind = "weekly_hours"        // 周工时超限
)

// Warning 排班告警
// Day 为 1 起始的天序，EmployeeHandle 为 -1 时表示与具体员工无关
type Warning struct {
	Kind           WarningKind `json:"kind"`
	Day            int         `json:"day,omitempty"`
	Date           string      `json:"date,omitempty"`
	ShiftCode      string      `json:"shift_code,omitempty"`
	EmployeeHandle int         `json:"employee_handle"`
	EmployeeName   string      `json:"employee_name,omitempty"`
	Actual         int         `json:"actual,omitempty"`
	Required       int         `json:"required,omitempty"`
	Message        string      `json:"message"`
}

// NewShortfallWarning 创建人手不足告警
func NewShortfallWarning(day1 int, date, shiftCode string, actual, required int) Warning {
	return Warning{
		Kind:           WarnCoverageShortfall,
		Day:            day1,
		Date:           date,
		ShiftCode:      shiftCode,
		EmployeeHandle: -1,
		Actual:         actual,
		Required:       required,
		Message: fmt.Sprintf("第 %d 天 %s 班人手不足：已排 %d 人，需求 %d 人",
			day1, shiftCode, actual, required),
	}
}

// NewOverrunWarning 创建连续工作超限告警
func NewOverrunWarning(handle int, name string, runDays, limit int) Warning {
	return Warning{
		Kind:           WarnConsecutiveOverrun,
		EmployeeHandle: handle,
		EmployeeName:   name,
		Actual:         runDays,
		Required:       limit,
		Message: fmt.Sprintf("员工 %s 连续工作 %d 天，超过限制 %d 天",
			name, runDays, limit),
	}
}

// NewWeeklyHoursWarning 创建周工时超限告警
func NewWeeklyHoursWarning(handle int, name string, week int, hours float64, limit int) Warning {
	return Warning{
		Kind:           WarnWeeklyHours,
		EmployeeHandle: handle,
		EmployeeName:   name,
		Day:            week,
		Message: fmt.Sprintf("员工 %s 第 %d 周工时 %.1f 小时，超过限制 %d 小时",
			name, week, hours, limit),
	}
}

// Warnings 有序告警列表
type Warnings []Warning

// Strings 返回告警文本列表
func (ws Warnings) Strings() []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Message
	}
	return out
}

// CountKind 统计指定类型的告警数
func (ws Warnings) CountKind(kind WarningKind) int {
	n := 0
	for _, w := range ws {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// GenerateInput 一次排班生成的完整输入
// 引擎不持有任何跨调用状态，同一输入与种子的输出完全可复现
type GenerateInput struct {
	Period      Period           `json:"period"`
	Preset      CoveragePreset   `json:"preset"`
	Shifts      ShiftCatalog     `json:"shifts"`
	Groups      []EmployeeGroup  `json:"groups"`
	Pattern     *RotationPattern `json:"pattern,omitempty"`
	Constraints Constraints      `json:"constraints"`
	Seed        int64            `json:"seed"`
}

// ScheduleRun 持久化的排班结果
type ScheduleRun struct {
	BaseModel
	DepartmentID uuid.UUID      `json:"department_id" db:"department_id"`
	Name         string         `json:"name" db:"name"`
	StartDate    string         `json:"start_date" db:"start_date"`
	EndDate      string         `json:"end_date" db:"end_date"`
	Preset       CoveragePreset `json:"preset" db:"preset"`
	PatternCode  string         `json:"pattern_code,omitempty" db:"pattern_code"`
	Seed         int64          `json:"seed" db:"seed"`
	Payload      JSONMap        `json:"payload" db:"payload"` // 网格、计数、告警
	FillRate     float64        `json:"fill_rate" db:"fill_rate"`
	WarningCount int            `json:"warning_count" db:"warning_count"`
	Status       string         `json:"status" db:"status"` // draft/published/archived
}

// RosterRecord 持久化的花名册
type RosterRecord struct {
	BaseModel
	DepartmentID uuid.UUID       `json:"department_id" db:"department_id"`
	Name         string          `json:"name" db:"name"`
	Groups       []EmployeeGroup `json:"groups" db:"groups"`
}

// ShiftCatalogRecord 持久化的班次目录
type ShiftCatalogRecord struct {
	BaseModel
	DepartmentID uuid.UUID      `json:"department_id" db:"department_id"`
	Name         string         `json:"name" db:"name"`
	Preset       CoveragePreset `json:"preset" db:"preset"`
	Shifts       ShiftCatalog   `json:"shifts" db:"shifts"`
}
