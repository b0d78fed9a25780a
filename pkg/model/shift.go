// Package model 定义排班引擎的核心数据模型
package model

import (
	"strconv"
	"strings"
)

// ShiftCategory 班次类别
type ShiftCategory string

const (
	CategoryWorking ShiftCategory = "working" // 工作班（参与主排班）
	CategoryBackup  ShiftCategory = "backup"  // 备班（补排阶段）
	CategoryAdmin   ShiftCategory = "admin"   // 行政班（补排阶段，不计入工作量）
)

// 保留的缺勤标记，班次代码不得与其冲突
const (
	MarkerLeave = "LEAVE" // 休假
	MarkerTAD   = "TAD"   // 外派
)

// 休息规则的缺省代码：无时刻信息时按代码识别夜班与白班
const (
	NightCode = "N"
	DayCode   = "D"
)

// IsReservedCode 检查代码是否为保留的缺勤标记
func IsReservedCode(code string) bool {
	return code == MarkerLeave || code == MarkerTAD
}

// ShiftDefinition 班次定义
type ShiftDefinition struct {
	Code             string        `json:"code" db:"code"`
	Name             string        `json:"name" db:"name"`
	StartTime        string        `json:"start_time,omitempty" db:"start_time"` // HH:MM，空表示无时刻
	EndTime          string        `json:"end_time,omitempty" db:"end_time"`     // HH:MM，空表示无时刻
	Category         ShiftCategory `json:"category" db:"category"`
	RequiredCoverage int           `json:"required_coverage" db:"required_coverage"` // 每日需求人数
	Priority         int           `json:"priority" db:"priority"`                   // 越大越先排
	Color            string        `json:"color,omitempty" db:"color"`
}

// HasTimes 检查班次是否带有起止时刻
func (s *ShiftDefinition) HasTimes() bool {
	return s.StartTime != "" && s.EndTime != ""
}

// StartMinutes 返回起始时刻距零点的分钟数
func (s *ShiftDefinition) StartMinutes() (int, bool) {
	return parseClock(s.StartTime)
}

// EndMinutes 返回结束时刻距零点的分钟数
func (s *ShiftDefinition) EndMinutes() (int, bool) {
	return parseClock(s.EndTime)
}

// CrossesMidnight 检查班次是否跨零点
func (s *ShiftDefinition) CrossesMidnight() bool {
	start, ok1 := s.StartMinutes()
	end, ok2 := s.EndMinutes()
	if !ok1 || !ok2 {
		return false
	}
	return end <= start
}

// IsNightShift 检查是否为夜班
// 带时刻的班次按是否跨零点判断，无时刻的按保留代码 N 判断
func (s *ShiftDefinition) IsNightShift() bool {
	if s.HasTimes() {
		return s.CrossesMidnight()
	}
	return s.Code == NightCode
}

// DurationMinutes 返回班次时长（分钟），跨零点班次按次日结束计算
func (s *ShiftDefinition) DurationMinutes() (int, bool) {
	start, ok1 := s.StartMinutes()
	end, ok2 := s.EndMinutes()
	if !ok1 || !ok2 {
		return 0, false
	}
	if end <= start {
		end += 24 * 60
	}
	return end - start, true
}

// CoverageOn 返回指定日的需求人数
// 8x5 模式下工作班周末需求为 0
func (s *ShiftDefinition) CoverageOn(weekend bool, preset CoveragePreset) int {
	if weekend && preset == Preset8x5 && s.Category == CategoryWorking {
		return 0
	}
	return s.RequiredCoverage
}

// ShiftCatalog 班次目录
type ShiftCatalog []ShiftDefinition

// ByCode 按代码查找班次
func (c ShiftCatalog) ByCode(code string) (*ShiftDefinition, bool) {
	for i := range c {
		if c[i].Code == code {
			return &c[i], true
		}
	}
	return nil, false
}

// Working 返回按优先级降序排列的工作班列表，优先级相同时保持目录顺序
func (c ShiftCatalog) Working() []ShiftDefinition {
	var out []ShiftDefinition
	for _, s := range c {
		if s.Category == CategoryWorking {
			out = append(out, s)
		}
	}
	// 稳定插入排序，目录顺序即平局顺序
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority > out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// FirstOfCategory 返回目录中首个指定类别的班次
func (c ShiftCatalog) FirstOfCategory(cat ShiftCategory) (*ShiftDefinition, bool) {
	for i := range c {
		if c[i].Category == cat {
			return &c[i], true
		}
	}
	return nil, false
}

// IsWorkingCode 检查代码是否属于目录中的工作班
func (c ShiftCatalog) IsWorkingCode(code string) bool {
	s, ok := c.ByCode(code)
	return ok && s.Category == CategoryWorking
}

// parseClock 解析 HH:MM 为距零点的分钟数
func parseClock(clock string) (int, bool) {
	if clock == "" {
		return 0, false
	}
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
