// Package stats 提供排班结果的统计分析功能
//
// 分析只消费引擎产出的网格与计数，不反馈到分配过程。
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 班次数量公平性
	WorkloadGini     float64 `json:"workload_gini"`     // 班次数基尼系数 (0=完全公平, 1=完全不公平)
	WorkloadVariance float64 `json:"workload_variance"` // 班次数方差
	WorkloadStdDev   float64 `json:"workload_std_dev"`  // 班次数标准差
	AvgShifts        float64 `json:"avg_shifts"`        // 人均班次数
	MaxShifts        int     `json:"max_shifts"`        // 最多班次数
	MinShifts        int     `json:"min_shifts"`        // 最少班次数
	ShiftsRange      int     `json:"shifts_range"`      // 班次数极差

	// 班次类型公平性
	NightShiftGini   float64 `json:"night_shift_gini"`   // 夜班分配基尼系数
	WeekendShiftGini float64 `json:"weekend_shift_gini"` // 周末班分配基尼系数

	// 员工级别统计
	EmployeeStats []EmployeeStat `json:"employee_stats"`

	// 综合评分
	OverallFairnessScore float64 `json:"overall_fairness_score"` // 综合公平性评分 (0-100)
}

// EmployeeStat 单名员工的统计
type EmployeeStat struct {
	Handle        int     `json:"handle"`
	Name          string  `json:"name"`
	TotalShifts   int     `json:"total_shifts"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	AbsenceDays   int     `json:"absence_days"`
	Deviation     float64 `json:"deviation"` // 与人均班次数的偏差百分比
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析一次生成结果的公平性
// dates 为周期内的日期字符串序列，用于判定周末班
func (f *FairnessAnalyzer) Analyze(grid model.AssignmentGrid, roster model.Roster, catalog model.ShiftCatalog, counters model.FairnessCounters, dates []string) *FairnessMetrics {
	if len(roster) == 0 {
		return &FairnessMetrics{OverallFairnessScore: 100}
	}

	weekend := weekendMask(dates)
	empStats := f.collectEmployeeStats(grid, roster, catalog, counters, weekend)

	totals := make([]float64, len(empStats))
	nights := make([]float64, len(empStats))
	weekends := make([]float64, len(empStats))
	for i, s := range empStats {
		totals[i] = float64(s.TotalShifts)
		nights[i] = float64(s.NightShifts)
		weekends[i] = float64(s.WeekendShifts)
	}

	avg := mean(totals)
	variance := varianceOf(totals, avg)
	stdDev := math.Sqrt(variance)

	maxShifts, minShifts := empStats[0].TotalShifts, empStats[0].TotalShifts
	for _, s := range empStats[1:] {
		if s.TotalShifts > maxShifts {
			maxShifts = s.TotalShifts
		}
		if s.TotalShifts < minShifts {
			minShifts = s.TotalShifts
		}
	}

	for i := range empStats {
		if avg > 0 {
			empStats[i].Deviation = (float64(empStats[i].TotalShifts) - avg) / avg * 100
		}
	}

	workloadGini := gini(totals)
	nightGini := gini(nights)
	weekendGini := gini(weekends)

	return &FairnessMetrics{
		WorkloadGini:         workloadGini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgShifts:            avg,
		MaxShifts:            maxShifts,
		MinShifts:            minShifts,
		ShiftsRange:          maxShifts - minShifts,
		NightShiftGini:       nightGini,
		WeekendShiftGini:     weekendGini,
		EmployeeStats:        empStats,
		OverallFairnessScore: overallScore(workloadGini, nightGini, weekendGini, stdDev, avg),
	}
}

// collectEmployeeStats 逐员工汇总网格内容
// 夜班与周末班从网格重新统计，总量取引擎计数（含替补回填）
func (f *FairnessAnalyzer) collectEmployeeStats(grid model.AssignmentGrid, roster model.Roster, catalog model.ShiftCatalog, counters model.FairnessCounters, weekend []bool) []EmployeeStat {
	stats := make([]EmployeeStat, len(roster))
	for e := range roster {
		s := EmployeeStat{Handle: e, Name: roster[e].Name}
		if e < len(counters) {
			s.TotalShifts = counters[e].TotalAssigned
			s.NightShifts = counters[e].NightAssigned
		}
		for d := 0; d < grid.NumDays(); d++ {
			code := grid.Cell(e, d)
			if code == "" {
				continue
			}
			if model.IsReservedCode(code) {
				s.AbsenceDays++
				continue
			}
			if d < len(weekend) && weekend[d] && catalog.IsWorkingCode(code) {
				s.WeekendShifts++
			}
		}
		stats[e] = s
	}

	// 班次数降序，同数保持员工序
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalShifts > stats[j].TotalShifts
	})
	return stats
}

// overallScore 计算综合公平性评分
func overallScore(workloadGini, nightGini, weekendGini, stdDev, avg float64) float64 {
	const (
		workloadWeight = 0.4
		nightWeight    = 0.25
		weekendWeight  = 0.25
		stdDevWeight   = 0.1
	)

	workloadScore := (1 - workloadGini) * 100
	nightScore := (1 - nightGini) * 100
	weekendScore := (1 - weekendGini) * 100

	// 变异系数越低分数越高
	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore +
		nightWeight*nightScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore

	return math.Max(0, math.Min(100, score))
}

// weekendMask 按日期字符串序列计算周末掩码
func weekendMask(dates []string) []bool {
	mask := make([]bool, len(dates))
	for i, s := range dates {
		date, err := time.ParseInLocation(model.DateLayout, s, time.Local)
		if err != nil {
			continue
		}
		wd := date.Weekday()
		mask[i] = wd == time.Saturday || wd == time.Sunday
	}
	return mask
}

// mean 计算平均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// varianceOf 计算方差
func varianceOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
