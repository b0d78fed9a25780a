// Package validator 提供生成输入的前置校验
//
// 校验分两级：错误阻断生成，提示只说明会被跳过或降级处理的输入项。
// 引擎自身按尽力而为原则运行，这里尽早把明确无法成立的输入拦下来。
package validator

import (
	"fmt"
	"time"

	"github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Result 校验结果
type Result struct {
	Errors *errors.ValidationErrors `json:"errors"`
	Notes  []string                 `json:"notes,omitempty"` // 非阻断提示
}

// OK 检查是否可以进入生成
func (r *Result) OK() bool {
	return !r.Errors.HasErrors()
}

// InputValidator 生成输入校验器
type InputValidator struct{}

// NewInputValidator 创建输入校验器
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// Validate 校验一次生成的完整输入
func (v *InputValidator) Validate(input model.GenerateInput) *Result {
	r := &Result{Errors: &errors.ValidationErrors{}}

	v.checkPeriod(input.Period, r)
	v.checkPreset(input.Preset, input.Shifts, r)
	v.checkShifts(input.Shifts, r)
	v.checkRoster(input.Groups, input.Shifts, r)
	v.checkPattern(input.Pattern, r)
	v.checkConstraints(input.Constraints, r)

	return r
}

// checkPeriod 校验排班周期
func (v *InputValidator) checkPeriod(p model.Period, r *Result) {
	if p.IsMonth() {
		if p.Year < 2000 || p.Year > 2100 {
			r.Errors.Add("period.year", fmt.Sprintf("年份 %d 超出范围 [2000, 2100]", p.Year))
		}
		if p.Month < 1 || p.Month > 12 {
			r.Errors.Add("period.month", fmt.Sprintf("月份 %d 超出范围 [1, 12]", p.Month))
		}
		return
	}

	if _, err := time.ParseInLocation(model.DateLayout, p.StartDate, time.Local); err != nil {
		r.Errors.Add("period.start_date", fmt.Sprintf("起始日期 '%s' 格式错误，应为 YYYY-MM-DD", p.StartDate))
	}
	if p.DurationDays < 1 || p.DurationDays > 366 {
		r.Errors.Add("period.duration_days", fmt.Sprintf("周期天数 %d 超出范围 [1, 366]", p.DurationDays))
	}
}

// checkPreset 校验覆盖模式
func (v *InputValidator) checkPreset(preset model.CoveragePreset, shifts model.ShiftCatalog, r *Result) {
	if !preset.Valid() {
		r.Errors.Add("preset", fmt.Sprintf("覆盖模式 '%s' 不存在", preset))
		return
	}
	if preset == model.PresetCustom && len(shifts) == 0 {
		r.Errors.Add("shifts", "自定义模式必须提供班次目录")
	}
}

// checkShifts 校验班次目录
func (v *InputValidator) checkShifts(shifts model.ShiftCatalog, r *Result) {
	seen := make(map[string]bool)
	for i, s := range shifts {
		field := fmt.Sprintf("shifts[%d]", i)
		if s.Code == "" {
			r.Errors.Add(field+".code", "班次代码不能为空")
			continue
		}
		if model.IsReservedCode(s.Code) {
			r.Errors.Add(field+".code", errors.ReservedCode(s.Code).Message)
		}
		if seen[s.Code] {
			r.Errors.Add(field+".code", errors.DuplicateCode(s.Code).Message)
		}
		seen[s.Code] = true

		switch s.Category {
		case model.CategoryWorking, model.CategoryBackup, model.CategoryAdmin:
		default:
			r.Errors.Add(field+".category", fmt.Sprintf("班次类别 '%s' 不存在", s.Category))
		}

		// 起止时刻要么都有，要么都无
		if (s.StartTime == "") != (s.EndTime == "") {
			r.Errors.Add(field, fmt.Sprintf("班次 '%s' 的起止时刻必须成对出现", s.Code))
		} else if s.HasTimes() {
			if _, ok := s.StartMinutes(); !ok {
				r.Errors.Add(field+".start_time", fmt.Sprintf("时刻 '%s' 格式错误，应为 HH:MM", s.StartTime))
			}
			if _, ok := s.EndMinutes(); !ok {
				r.Errors.Add(field+".end_time", fmt.Sprintf("时刻 '%s' 格式错误，应为 HH:MM", s.EndTime))
			}
		}

		if s.RequiredCoverage < 0 {
			r.Errors.Add(field+".required_coverage", "需求人数不能为负")
		}
		if s.Category == model.CategoryWorking && s.RequiredCoverage == 0 {
			r.Notes = append(r.Notes, fmt.Sprintf("工作班 '%s' 需求人数为 0，不会产生排班", s.Code))
		}
	}
}

// checkRoster 校验花名册
func (v *InputValidator) checkRoster(groups []model.EmployeeGroup, shifts model.ShiftCatalog, r *Result) {
	roster := model.FlattenGroups(groups)
	if len(roster) == 0 {
		r.Errors.Add("groups", errors.ErrEmptyRoster.Message)
		return
	}

	for _, e := range roster {
		for wi, w := range e.Windows {
			field := fmt.Sprintf("groups.%s.windows[%d]", e.Name, wi)
			if !w.IsWellFormed() {
				r.Notes = append(r.Notes, fmt.Sprintf("员工 '%s' 的第 %d 个时间窗缺少日期，将被跳过", e.Name, wi+1))
				continue
			}
			// 固定宽度日期按字典序比较
			if w.StartDate > w.EndDate {
				r.Errors.Add(field, fmt.Sprintf("时间窗起始 %s 晚于结束 %s", w.StartDate, w.EndDate))
			}
			if w.Kind != model.AbsenceLeave && w.Kind != model.AbsenceTAD {
				r.Errors.Add(field+".kind", fmt.Sprintf("缺勤类型 '%s' 不存在", w.Kind))
			}
		}
	}

	// 需求超出人数只提示不阻断，引擎会如实报告缺口
	daily := 0
	for _, s := range shifts {
		if s.Category == model.CategoryWorking {
			daily += s.RequiredCoverage
		}
	}
	if daily > len(roster) {
		r.Notes = append(r.Notes, fmt.Sprintf("每日工作班需求 %d 人超过花名册 %d 人，覆盖缺口不可避免", daily, len(roster)))
	}
}

// checkPattern 校验轮换模式
func (v *InputValidator) checkPattern(p *model.RotationPattern, r *Result) {
	if p == nil {
		return
	}
	if len(p.Cycle) == 0 {
		r.Errors.Add("pattern.cycle", "轮换周期不能为空")
		return
	}
	for i, bit := range p.Cycle {
		if bit != 0 && bit != 1 {
			r.Errors.Add("pattern.cycle", fmt.Sprintf("周期第 %d 位取值 %d，只允许 0 或 1", i, bit))
			return
		}
	}
	if p.WorkDaysPerCycle() == 0 {
		r.Errors.Add("pattern.cycle", "轮换周期不能全为轮休")
	}
}

// checkConstraints 校验约束配置
func (v *InputValidator) checkConstraints(c model.Constraints, r *Result) {
	if c.MinRestHours < 0 || c.MinRestHours > 48 {
		r.Errors.Add("constraints.min_rest_hours", fmt.Sprintf("最小休息小时数 %d 超出范围 [0, 48]", c.MinRestHours))
	}
	if c.MaxConsecutiveDays < 0 {
		r.Errors.Add("constraints.max_consecutive_days", "最大连续工作天数不能为负")
	}
	if c.MaxHoursWeek < 0 {
		r.Errors.Add("constraints.max_hours_week", "每周最大工时不能为负")
	}
	if c.TargetShiftsPerPerson < 0 {
		r.Errors.Add("constraints.target_shifts_per_person", "人均目标班次数不能为负")
	}
}
