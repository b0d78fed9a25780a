// Package relief 提供缺口顶班建议
//
// 在已生成的排班网格上，为覆盖缺口推荐当日空闲的候选人。
// 建议只作参考，不回写网格。
package relief

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Gap 覆盖缺口
type Gap struct {
	Day       int    `json:"day"`
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
	Shortage  int    `json:"shortage"`
}

// Candidate 顶班候选人评分
type Candidate struct {
	Handle     int      `json:"handle"`
	Name       string   `json:"name"`
	Score      float64  `json:"score"` // 越低越优先
	Feasible   bool     `json:"feasible"`
	Violations []string `json:"violations,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Suggestion 单个缺口的顶班建议
type Suggestion struct {
	Gap          Gap         `json:"gap"`
	Feasible     bool        `json:"feasible"`
	Best         *Candidate  `json:"best,omitempty"`
	Alternatives []Candidate `json:"alternatives,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}

// Request 顶班建议请求
type Request struct {
	Grid        model.AssignmentGrid
	Roster      model.Roster
	Catalog     model.ShiftCatalog
	Constraints model.Constraints
	Dates       []string
	MaxResults  int
}

// Engine 顶班建议引擎
type Engine struct {
	log *zerolog.Logger
}

// NewEngine 创建顶班建议引擎
func NewEngine() *Engine {
	return &Engine{log: logger.Get()}
}

// SuggestAll 为网格中的全部缺口生成建议，缺口按日期先后排列
func (e *Engine) SuggestAll(req *Request, preset model.CoveragePreset) []Suggestion {
	gaps := FindGaps(req.Grid, req.Catalog, req.Dates, preset)
	out := make([]Suggestion, 0, len(gaps))
	for _, gap := range gaps {
		out = append(out, *e.Suggest(req, gap))
	}
	return out
}

// Suggest 为单个缺口生成建议
func (e *Engine) Suggest(req *Request, gap Gap) *Suggestion {
	if len(req.Roster) == 0 {
		return &Suggestion{Gap: gap, Reason: "花名册为空"}
	}
	shift, ok := req.Catalog.ByCode(gap.ShiftCode)
	if !ok {
		return &Suggestion{Gap: gap, Reason: fmt.Sprintf("班次 '%s' 不在目录中", gap.ShiftCode)}
	}

	scores := make([]Candidate, 0, len(req.Roster))
	for handle := range req.Roster {
		scores = append(scores, e.evaluate(req, gap, shift, handle))
	}

	// 可行解优先，其余按分数升序，分数相同按 Handle 保持稳定
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Feasible != scores[j].Feasible {
			return scores[i].Feasible
		}
		return scores[i].Score < scores[j].Score
	})

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	if !scores[0].Feasible {
		return &Suggestion{
			Gap:          gap,
			Reason:       "当日无可顶班人选",
			Alternatives: limit(scores, maxResults),
		}
	}

	// 备选保留排序后的完整名单（含不可行者及其违规说明），供人工权衡
	s := &Suggestion{Gap: gap, Feasible: true, Best: &scores[0]}
	if len(scores) > 1 {
		s.Alternatives = limit(scores[1:], maxResults-1)
	}

	e.log.Debug().
		Str("date", gap.Date).
		Str("shift", gap.ShiftCode).
		Str("best", scores[0].Name).
		Float64("score", scores[0].Score).
		Int("alternatives", len(s.Alternatives)).
		Msg("生成顶班建议")

	return s
}

// evaluate 评估单个候选人
func (e *Engine) evaluate(req *Request, gap Gap, shift *model.ShiftDefinition, handle int) Candidate {
	c := Candidate{
		Handle:   handle,
		Name:     req.Roster[handle].Name,
		Feasible: true,
	}

	// 当日已有排班或缺勤
	cell := req.Grid.Cell(handle, gap.Day)
	if cell != "" {
		c.Feasible = false
		if model.IsReservedCode(cell) {
			c.Violations = append(c.Violations, fmt.Sprintf("当日缺勤(%s)", cell))
		} else {
			c.Violations = append(c.Violations, fmt.Sprintf("当日已排班(%s)", cell))
		}
	}

	// 与前一日班次的休息间隔
	if gap.Day > 0 {
		prev := req.Grid.Cell(handle, gap.Day-1)
		if prev != "" && !model.IsReservedCode(prev) {
			if !restSatisfied(req.Catalog, prev, shift, req.Constraints.MinRestHours) {
				c.Feasible = false
				c.Violations = append(c.Violations, fmt.Sprintf("与前日 %s 班休息不足", prev))
			}
		}
	}

	// 顶班后不得超出最大连续工作天数
	if req.Constraints.MaxConsecutiveDays > 0 && shift.Category == model.CategoryWorking {
		run := consecutiveAround(req.Grid, req.Catalog, handle, gap.Day)
		if run > req.Constraints.MaxConsecutiveDays {
			c.Feasible = false
			c.Violations = append(c.Violations, fmt.Sprintf("顶班后连续 %d 天超过上限 %d", run, req.Constraints.MaxConsecutiveDays))
		}
	}

	// 评分取当前工作量，负担轻者优先；夜班缺口对夜班负担加权
	total, nights := workload(req.Grid, req.Catalog, handle)
	c.Score = float64(total)
	if shift.IsNightShift() {
		c.Score += float64(nights) * 2
	}
	if total == 0 {
		c.Reasons = append(c.Reasons, "周期内尚无排班")
	} else if c.Feasible {
		c.Reasons = append(c.Reasons, fmt.Sprintf("当前 %d 班", total))
	}

	// 周末缺口提示
	if date, err := time.ParseInLocation(model.DateLayout, gap.Date, time.Local); err == nil {
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			c.Reasons = append(c.Reasons, "周末顶班")
		}
	}

	return c
}

// FindGaps 扫描网格找出全部覆盖缺口
func FindGaps(grid model.AssignmentGrid, catalog model.ShiftCatalog, dates []string, preset model.CoveragePreset) []Gap {
	var gaps []Gap
	working := catalog.Working()

	for d := 0; d < grid.NumDays() && d < len(dates); d++ {
		weekend := false
		if date, err := time.ParseInLocation(model.DateLayout, dates[d], time.Local); err == nil {
			wd := date.Weekday()
			weekend = wd == time.Saturday || wd == time.Sunday
		}

		filled := make(map[string]int)
		for e := 0; e < grid.NumEmployees(); e++ {
			code := grid.Cell(e, d)
			if code != "" && !model.IsReservedCode(code) {
				filled[code]++
			}
		}

		for _, shift := range working {
			required := shift.CoverageOn(weekend, preset)
			if filled[shift.Code] < required {
				gaps = append(gaps, Gap{
					Day:       d,
					Date:      dates[d],
					ShiftCode: shift.Code,
					Shortage:  required - filled[shift.Code],
				})
			}
		}
	}
	return gaps
}

// workload 统计候选人当前工作量
func workload(grid model.AssignmentGrid, catalog model.ShiftCatalog, handle int) (total, nights int) {
	for d := 0; d < grid.NumDays(); d++ {
		code := grid.Cell(handle, d)
		if code == "" || model.IsReservedCode(code) {
			continue
		}
		shift, ok := catalog.ByCode(code)
		if !ok || shift.Category == model.CategoryAdmin {
			continue
		}
		total++
		if shift.IsNightShift() {
			nights++
		}
	}
	return total, nights
}

// restSatisfied 检查前日班次结束到候选班次开始是否满足最小休息
// 无时刻信息时退化为夜班接白班禁排规则
func restSatisfied(catalog model.ShiftCatalog, prevCode string, next *model.ShiftDefinition, minRestHours int) bool {
	if minRestHours <= 0 {
		return true
	}
	prev, ok := catalog.ByCode(prevCode)
	if !ok {
		return true
	}

	if prev.HasTimes() && next.HasTimes() {
		prevEnd, _ := prev.EndMinutes()
		if prev.CrossesMidnight() {
			prevEnd += 24 * 60
		}
		nextStart, _ := next.StartMinutes()
		// 候选班次在次日
		rest := nextStart + 24*60 - prevEnd
		return rest >= minRestHours*60
	}

	// 代码规则：夜班次日不排白班
	return !(prev.Code == model.NightCode && next.Code == model.DayCode)
}

// consecutiveAround 计算在 day 顶班后包含该日的连续工作天数
func consecutiveAround(grid model.AssignmentGrid, catalog model.ShiftCatalog, handle, day int) int {
	isWorking := func(d int) bool {
		code := grid.Cell(handle, d)
		return code != "" && !model.IsReservedCode(code) && catalog.IsWorkingCode(code)
	}

	run := 1
	for d := day - 1; d >= 0 && isWorking(d); d-- {
		run++
	}
	for d := day + 1; d < grid.NumDays() && isWorking(d); d++ {
		run++
	}
	return run
}

// limit 截取候选人列表
func limit(scores []Candidate, max int) []Candidate {
	if max < 0 {
		max = 0
	}
	if len(scores) <= max {
		return scores
	}
	return scores[:max]
}
