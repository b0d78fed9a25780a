// Package audit 对生成完毕的排班网格做事后核查
//
// 核查只读不写：重新统计每日每班的实配人数、扫描每名员工的最长
// 连续工作天数、按自然周累计工时。超限情况以告警形式返回，
// 网格本身永不被改动。
package audit

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/calendar"
)

// DailyFill 某日某班的实配与需求人数
type DailyFill struct {
	Day       int    `json:"day"` // 1 起始
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
	Assigned  int    `json:"assigned"`
	Required  int    `json:"required"`
}

// Auditor 排班审计器
type Auditor struct {
	logger *logger.SchedulerLogger
}

// NewAuditor 创建排班审计器
func NewAuditor() *Auditor {
	return &Auditor{logger: logger.NewSchedulerLogger()}
}

// FillCounts 重新统计每日每个工作班次的实配人数
// 与引擎在分配过程中的计数相互独立，供展示与导出使用
func (a *Auditor) FillCounts(grid model.AssignmentGrid, catalog model.ShiftCatalog, tl *calendar.Timeline, preset model.CoveragePreset) []DailyFill {
	working := catalog.Working()
	var fills []DailyFill

	for d := 0; d < tl.NumDays(); d++ {
		weekend := tl.IsWeekend(d)
		for i := range working {
			shift := &working[i]
			assigned := 0
			for e := 0; e < grid.NumEmployees(); e++ {
				if grid.Cell(e, d) == shift.Code {
					assigned++
				}
			}
			fills = append(fills, DailyFill{
				Day:       d + 1,
				Date:      tl.DateString(d),
				ShiftCode: shift.Code,
				Assigned:  assigned,
				Required:  shift.CoverageOn(weekend, preset),
			})
		}
	}
	return fills
}

// Audit 核查网格并返回超限告警
// 告警顺序固定：先逐员工的连续天数告警，再逐员工逐周的工时告警
func (a *Auditor) Audit(grid model.AssignmentGrid, roster model.Roster, catalog model.ShiftCatalog, cons model.Constraints, tl *calendar.Timeline) model.Warnings {
	warnings := model.Warnings{}
	warnings = append(warnings, a.auditConsecutive(grid, roster, catalog, cons.MaxConsecutiveDays)...)
	warnings = append(warnings, a.auditWeeklyHours(grid, roster, catalog, cons.MaxHoursWeek, tl)...)

	for _, w := range warnings {
		a.logger.AuditFinding(string(w.Kind), w.Message)
	}
	return warnings
}

// auditConsecutive 扫描每名员工的最长连续工作天数
func (a *Auditor) auditConsecutive(grid model.AssignmentGrid, roster model.Roster, catalog model.ShiftCatalog, maxDays int) model.Warnings {
	warnings := model.Warnings{}
	if maxDays <= 0 {
		return warnings
	}

	for e := range roster {
		run, longest := 0, 0
		for d := 0; d < grid.NumDays(); d++ {
			code := grid.Cell(e, d)
			if code != "" && !model.IsReservedCode(code) && catalog.IsWorkingCode(code) {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
		if longest > maxDays {
			warnings = append(warnings,
				model.NewOverrunWarning(e, roster[e].Name, longest, maxDays))
		}
	}
	return warnings
}

// auditWeeklyHours 按自然周累计带时刻班次的工时
// 周序按周期内出现的自然周从 1 起编号，无时刻班次不计入
func (a *Auditor) auditWeeklyHours(grid model.AssignmentGrid, roster model.Roster, catalog model.ShiftCatalog, maxHours int, tl *calendar.Timeline) model.Warnings {
	warnings := model.Warnings{}
	if maxHours <= 0 {
		return warnings
	}

	// 预先确定周期涉及的自然周及其先后顺序
	type weekKey struct{ year, week int }
	dayWeek := make([]weekKey, tl.NumDays())
	var order []weekKey
	seen := make(map[weekKey]int)
	for d := 0; d < tl.NumDays(); d++ {
		y, w := tl.Date(d).ISOWeek()
		k := weekKey{y, w}
		if _, ok := seen[k]; !ok {
			seen[k] = len(order) + 1
			order = append(order, k)
		}
		dayWeek[d] = k
	}

	for e := range roster {
		minutes := make(map[weekKey]int)
		for d := 0; d < grid.NumDays(); d++ {
			code := grid.Cell(e, d)
			if code == "" || model.IsReservedCode(code) {
				continue
			}
			shift, ok := catalog.ByCode(code)
			if !ok {
				continue
			}
			if dur, ok := shift.DurationMinutes(); ok {
				minutes[dayWeek[d]] += dur
			}
		}
		for _, k := range order {
			hours := float64(minutes[k]) / 60
			if hours > float64(maxHours) {
				warnings = append(warnings,
					model.NewWeeklyHoursWarning(e, roster[e].Name, seen[k], hours, maxHours))
			}
		}
	}
	return warnings
}
