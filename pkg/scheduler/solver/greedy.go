// Package solver 提供排班求解器
package solver

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/logger"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/audit"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/availability"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/calendar"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint/builtin"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/random"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/rotation"
)

const (
	noiseScale       = 0.5  // 单次噪声贡献上限
	backupFillChance = 0.30 // 替补回填命中阈值
	adminFillChance  = 0.15 // 行政回填命中阈值
	backupThreshold  = 0.8  // 低于人均目标班次此比例才参与替补回填
)

// Solver 求解器接口
type Solver interface {
	// Solve 生成排班方案
	Solve(ctx context.Context, input *model.GenerateInput) (*Result, error)

	// Name 返回求解器名称
	Name() string
}

// Result 求解结果
// 网格总是完整产出，人手不足与超限以告警形式记录而不中断生成
type Result struct {
	Grid       model.AssignmentGrid   `json:"grid"`
	Roster     model.Roster           `json:"roster"`
	Dates      []string               `json:"dates"`
	Counters   model.FairnessCounters `json:"counters"`
	Warnings   model.Warnings         `json:"warnings"`
	Statistics *Statistics            `json:"statistics"`
	Duration   time.Duration          `json:"duration"`
	Seed       int64                  `json:"seed"`
	Message    string                 `json:"message,omitempty"`
}

// Statistics 排班统计
type Statistics struct {
	TotalAssignments int     `json:"total_assignments"`
	WorkingAssigned  int     `json:"working_assigned"`
	BackupAssigned   int     `json:"backup_assigned"`
	AdminAssigned    int     `json:"admin_assigned"`
	RequiredSlots    int     `json:"required_slots"`
	FilledSlots      int     `json:"filled_slots"`
	FillRate         float64 `json:"fill_rate"`
	ShortfallCount   int     `json:"shortfall_count"`
	Employees        int     `json:"employees"`
	Days             int     `json:"days"`
}

// GreedySolver 贪心求解器
// 逐日按班次优先级分配，公平性评分低者优先，调用之间不保留任何状态
type GreedySolver struct {
	logger *logger.SchedulerLogger
}

// NewGreedySolver 创建贪心求解器
func NewGreedySolver() *GreedySolver {
	return &GreedySolver{
		logger: logger.NewSchedulerLogger(),
	}
}

// Name 返回求解器名称
func (s *GreedySolver) Name() string {
	return "GreedySolver"
}

// Generate 使用默认求解器生成排班
func Generate(ctx context.Context, input *model.GenerateInput) (*Result, error) {
	return NewGreedySolver().Solve(ctx, input)
}

// Solve 三趟生成排班：工作班次主循环、替补回填、行政回填
//
// 同一种子与相同输入的输出逐字节一致：随机发生器每次取数推进一步，
// 取数顺序固定为主循环候选人顺序（每人两次噪声）、替补回填合格单元格、
// 行政回填合格单元格。
func (s *GreedySolver) Solve(ctx context.Context, input *model.GenerateInput) (*Result, error) {
	startTime := time.Now()

	tl, err := calendar.Resolve(input.Period)
	if err != nil {
		return nil, err
	}

	roster := model.FlattenGroups(input.Groups)
	if len(roster) == 0 {
		return nil, apperrors.ErrEmptyRoster
	}

	numDays := tl.NumDays()
	s.logger.StartGenerate(input.Seed, len(roster), numDays)

	grid := model.NewAssignmentGrid(len(roster), numDays)
	counters := model.NewFairnessCounters(len(roster))
	warnings := model.Warnings{}

	// 缺勤窗口先行落格，整个生成过程不再触碰这些单元格
	availability.Build(roster, tl).Stamp(grid)

	engine := rotation.NewEngine(input.Pattern, len(roster))

	schedCtx := constraint.NewContext(roster, input.Shifts, grid)
	manager := constraint.NewManager()
	builtin.RegisterDefaultGates(manager, input.Constraints, engine)

	src := random.NewSource(input.Seed)
	working := input.Shifts.Working()

	stats := &Statistics{
		Employees: len(roster),
		Days:      numDays,
	}

	// 主循环：逐日处理工作班次
	for d := 0; d < numDays; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		weekend := tl.IsWeekend(d)

		for i := range working {
			shift := &working[i]
			required := shift.CoverageOn(weekend, input.Preset)
			if required <= 0 {
				continue
			}
			stats.RequiredSlots += required

			candidates := s.collectCandidates(schedCtx, manager, d, shift)
			scored := s.scoreCandidates(candidates, counters, shift, src)

			assigned := 0
			for _, c := range scored {
				if assigned >= required {
					break
				}
				grid.Set(c.handle, d, shift.Code)
				counters[c.handle].TotalAssigned++
				if shift.IsNightShift() {
					counters[c.handle].NightAssigned++
				}
				assigned++
			}
			stats.FilledSlots += assigned
			stats.WorkingAssigned += assigned

			if assigned < required {
				warnings = append(warnings,
					model.NewShortfallWarning(d+1, tl.DateString(d), shift.Code, assigned, required))
				s.logger.CoverageShortfall(d+1, shift.Code, assigned, required)
			}
		}

		// 当日工作班次处理完毕后更新连续工作日计数
		for e := range roster {
			if schedCtx.IsWorkingCell(e, d) {
				schedCtx.Consecutive[e]++
			} else {
				schedCtx.Consecutive[e] = 0
			}
		}
	}

	// 替补回填：欠班员工按概率补位
	if backup, ok := input.Shifts.FirstOfCategory(model.CategoryBackup); ok {
		threshold := backupThreshold * float64(input.Constraints.TargetShiftsPerPerson)
		for d := 0; d < numDays; d++ {
			for e := range roster {
				if !grid.IsEmpty(e, d) || !engine.IsOnCycle(e, d) {
					continue
				}
				if float64(counters[e].TotalAssigned) >= threshold {
					continue
				}
				if src.Float64() < backupFillChance {
					grid.Set(e, d, backup.Code)
					counters[e].TotalAssigned++
					stats.BackupAssigned++
				}
			}
		}
	}

	// 行政回填：剩余空格按概率填入行政班，不计入工作量
	if admin, ok := input.Shifts.FirstOfCategory(model.CategoryAdmin); ok {
		for d := 0; d < numDays; d++ {
			for e := range roster {
				if !grid.IsEmpty(e, d) || !engine.IsOnCycle(e, d) {
					continue
				}
				if src.Float64() < adminFillChance {
					grid.Set(e, d, admin.Code)
					stats.AdminAssigned++
				}
			}
		}
	}

	// 事后审计：连续天数与周工时核查，只追加告警不改动网格
	warnings = append(warnings,
		audit.NewAuditor().Audit(grid, roster, input.Shifts, input.Constraints, tl)...)

	stats.TotalAssignments = stats.WorkingAssigned + stats.BackupAssigned + stats.AdminAssigned
	stats.ShortfallCount = warnings.CountKind(model.WarnCoverageShortfall)
	if stats.RequiredSlots > 0 {
		stats.FillRate = float64(stats.FilledSlots) / float64(stats.RequiredSlots) * 100
	}

	result := &Result{
		Grid:       grid,
		Roster:     roster,
		Dates:      tl.DateStrings(),
		Counters:   counters,
		Warnings:   warnings,
		Statistics: stats,
		Duration:   time.Since(startTime),
		Seed:       input.Seed,
	}

	if len(warnings) > 0 {
		result.Message = fmt.Sprintf("排班完成，覆盖率 %.1f%%，%d 条告警", stats.FillRate, len(warnings))
	} else if stats.RequiredSlots > 0 {
		result.Message = fmt.Sprintf("排班完成，覆盖率 %.1f%%", stats.FillRate)
	} else {
		result.Message = "没有工作班次需求"
	}

	s.logger.GenerateComplete(result.Duration, stats.TotalAssignments, len(warnings))
	return result, nil
}

// scoredCandidate 带公平性评分的候选人
type scoredCandidate struct {
	handle int
	score  float64
}

// collectCandidates 按员工序收集通过全部约束的候选人
func (s *GreedySolver) collectCandidates(ctx *constraint.Context, manager *constraint.Manager, day int, shift *model.ShiftDefinition) []int {
	candidates := make([]int, 0, len(ctx.Roster))
	for e := range ctx.Roster {
		if ok, _ := manager.CanAssign(ctx, e, day, shift); ok {
			candidates = append(candidates, e)
		}
	}
	return candidates
}

// scoreCandidates 计算公平性评分并升序稳定排序
// 分值 = 累计班次 + 夜班加权 + 两次随机噪声，分值低者优先，
// 噪声按候选人顺序取数，同分时保持员工序
func (s *GreedySolver) scoreCandidates(handles []int, counters model.FairnessCounters, shift *model.ShiftDefinition, src *random.Source) []scoredCandidate {
	night := shift.IsNightShift()
	scored := make([]scoredCandidate, 0, len(handles))
	for _, h := range handles {
		score := float64(counters[h].TotalAssigned)
		if night {
			score += 2 * float64(counters[h].NightAssigned)
		}
		score += src.Float64() * noiseScale
		score += src.Float64() * noiseScale
		scored = append(scored, scoredCandidate{handle: h, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score < scored[j].score
	})
	return scored
}
