package stats

import (
	"fmt"
	"strings"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	// 整体覆盖率
	RequiredSlots   int     `json:"required_slots"`   // 总需求名额
	FilledSlots     int     `json:"filled_slots"`     // 已填充名额
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	// 按日期统计
	DailyCoverage []DayCoverage `json:"daily_coverage"` // 每日覆盖情况

	// 按班次统计
	ShiftCoverage map[string]float64 `json:"shift_coverage"` // 按班次代码覆盖率

	// 问题识别
	Understaffed []UnderstaffedSlot `json:"understaffed"` // 人手不足名额
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date         string  `json:"date"`
	Required     int     `json:"required"`
	Filled       int     `json:"filled"`
	CoverageRate float64 `json:"coverage_rate"`
	StaffCount   int     `json:"staff_count"` // 当日在岗人数（含备班与行政班）
}

// UnderstaffedSlot 人手不足名额
type UnderstaffedSlot struct {
	Date      string `json:"date"`
	ShiftCode string `json:"shift_code"`
	ShiftName string `json:"shift_name"`
	Required  int    `json:"required"`
	Filled    int    `json:"filled"`
	Shortage  int    `json:"shortage"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 逐日重新统计网格填充量与工作班需求的比值
// 需求按预设计算，8x5 预设下工作班周末需求为 0
func (c *CoverageAnalyzer) Analyze(grid model.AssignmentGrid, catalog model.ShiftCatalog, dates []string, preset model.CoveragePreset) *CoverageMetrics {
	weekend := weekendMask(dates)
	working := catalog.Working()

	metrics := &CoverageMetrics{
		ShiftCoverage: make(map[string]float64),
	}

	shiftRequired := make(map[string]int)
	shiftFilled := make(map[string]int)

	for d := 0; d < grid.NumDays() && d < len(dates); d++ {
		day := DayCoverage{Date: dates[d]}

		// 当日网格内容计数
		filledByCode := make(map[string]int)
		for e := 0; e < grid.NumEmployees(); e++ {
			code := grid.Cell(e, d)
			if code == "" || model.IsReservedCode(code) {
				continue
			}
			day.StaffCount++
			filledByCode[code]++
		}

		for _, shift := range working {
			required := shift.CoverageOn(weekend[d], preset)
			if required == 0 {
				continue
			}
			filled := filledByCode[shift.Code]
			if filled > required {
				filled = required
			}
			day.Required += required
			day.Filled += filled
			shiftRequired[shift.Code] += required
			shiftFilled[shift.Code] += filled

			if filled < required {
				metrics.Understaffed = append(metrics.Understaffed, UnderstaffedSlot{
					Date:      dates[d],
					ShiftCode: shift.Code,
					ShiftName: shift.Name,
					Required:  required,
					Filled:    filled,
					Shortage:  required - filled,
				})
			}
		}

		if day.Required > 0 {
			day.CoverageRate = float64(day.Filled) / float64(day.Required) * 100
		} else {
			day.CoverageRate = 100
		}
		metrics.RequiredSlots += day.Required
		metrics.FilledSlots += day.Filled
		metrics.DailyCoverage = append(metrics.DailyCoverage, day)
	}

	if metrics.RequiredSlots > 0 {
		metrics.OverallCoverage = float64(metrics.FilledSlots) / float64(metrics.RequiredSlots) * 100
	} else {
		metrics.OverallCoverage = 100
	}

	for code, required := range shiftRequired {
		if required > 0 {
			metrics.ShiftCoverage[code] = float64(shiftFilled[code]) / float64(required) * 100
		}
	}

	return metrics
}

// Report 生成覆盖率文字报告
func (c *CoverageAnalyzer) Report(metrics *CoverageMetrics) string {
	var b strings.Builder
	b.WriteString("=== 覆盖率分析报告 ===\n\n")
	b.WriteString("【整体覆盖情况】\n")
	fmt.Fprintf(&b, "  总需求名额: %d\n", metrics.RequiredSlots)
	fmt.Fprintf(&b, "  已填充名额: %d\n", metrics.FilledSlots)
	fmt.Fprintf(&b, "  覆盖率: %.1f%%\n\n", metrics.OverallCoverage)

	if len(metrics.Understaffed) > 0 {
		b.WriteString("【人手不足名额】\n")
		for _, slot := range metrics.Understaffed {
			fmt.Fprintf(&b, "  - %s %s(%s) 需要%d人，仅有%d人，缺%d人\n",
				slot.Date, slot.ShiftName, slot.ShiftCode, slot.Required, slot.Filled, slot.Shortage)
		}
	} else {
		b.WriteString("【人手不足名额】\n  无\n")
	}

	return b.String()
}
