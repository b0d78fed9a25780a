// Package scenario 提供端到端场景测试
package scenario

import (
	"context"
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/rotation"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/solver"
)

func dayShift(coverage int) model.ShiftCatalog {
	return model.ShiftCatalog{
		{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00",
			Category: model.CategoryWorking, RequiredCoverage: coverage, Priority: 10},
	}
}

func singleGroup(employees ...model.GroupedEmployee) []model.EmployeeGroup {
	return []model.EmployeeGroup{{Name: "病区", Employees: employees}}
}

// TestScenario_单人全勤 一名员工、单一班次、三天周期应天天在岗且无告警
func TestScenario_单人全勤(t *testing.T) {
	input := model.GenerateInput{
		Period:      model.Period{StartDate: "2026-03-02", DurationDays: 3},
		Preset:      model.Preset247,
		Shifts:      dayShift(1),
		Groups:      singleGroup(model.GroupedEmployee{Name: "张三"}),
		Constraints: model.DefaultConstraints(),
		Seed:        7,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for d := 0; d < 3; d++ {
		if got := result.Grid.Cell(0, d); got != "D" {
			t.Errorf("天序 %d 应为 D，实际 %q", d, got)
		}
	}
	if result.Counters[0].TotalAssigned != 3 {
		t.Errorf("TotalAssigned = %d，期望 3", result.Counters[0].TotalAssigned)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("不应有告警，实际 %v", result.Warnings.Strings())
	}
}

// TestScenario_休假期间由同事顶岗 休假员工的格子保持 LEAVE，覆盖由另一人承担
func TestScenario_休假期间由同事顶岗(t *testing.T) {
	input := model.GenerateInput{
		Period: model.Period{StartDate: "2026-03-02", DurationDays: 2},
		Preset: model.Preset247,
		Shifts: dayShift(1),
		Groups: singleGroup(
			model.GroupedEmployee{Name: "张三", Windows: []model.UnavailabilityWindow{
				{Kind: model.AbsenceLeave, StartDate: "2026-03-02", EndDate: "2026-03-03"},
			}},
			model.GroupedEmployee{Name: "李四"},
		),
		Constraints: model.DefaultConstraints(),
		Seed:        7,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for d := 0; d < 2; d++ {
		if got := result.Grid.Cell(0, d); got != model.MarkerLeave {
			t.Errorf("张三天序 %d 应为 %s，实际 %q", d, model.MarkerLeave, got)
		}
		if got := result.Grid.Cell(1, d); got != "D" {
			t.Errorf("李四天序 %d 应为 D，实际 %q", d, got)
		}
	}
	if n := result.Warnings.CountKind(model.WarnCoverageShortfall); n != 0 {
		t.Errorf("不应有缺口告警，实际 %d 条", n)
	}
}

// TestScenario_四班四休互补 周期长度 8 的 4-4 模式下两人相位互补
func TestScenario_四班四休互补(t *testing.T) {
	pattern := &model.RotationPattern{
		Code:  "4-4",
		Cycle: []int{1, 1, 1, 1, 0, 0, 0, 0},
	}

	engine := rotation.NewEngine(pattern, 2)
	if offsets := engine.Offsets(); offsets[0] != 0 || offsets[1] != 4 {
		t.Fatalf("相位偏移 = %v，期望 [0 4]", offsets)
	}

	input := model.GenerateInput{
		Period: model.Period{StartDate: "2026-03-02", DurationDays: 8},
		Preset: model.Preset247,
		Shifts: dayShift(1),
		Groups: singleGroup(
			model.GroupedEmployee{Name: "张三"},
			model.GroupedEmployee{Name: "李四"},
		),
		Constraints: model.DefaultConstraints(),
		Pattern:     pattern,
		Seed:        7,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// 员工 0 在岗天序 0-3，员工 1 在岗天序 4-7
	for d := 0; d < 8; d++ {
		onDuty, offDuty := 0, 1
		if d >= 4 {
			onDuty, offDuty = 1, 0
		}
		if got := result.Grid.Cell(onDuty, d); got != "D" {
			t.Errorf("天序 %d 在岗员工 %d 应为 D，实际 %q", d, onDuty, got)
		}
		if got := result.Grid.Cell(offDuty, d); got != "" {
			t.Errorf("天序 %d 轮休员工 %d 应为空，实际 %q", d, offDuty, got)
		}
	}
	if n := result.Warnings.CountKind(model.WarnCoverageShortfall); n != 0 {
		t.Errorf("互补覆盖不应有缺口，实际 %d 条", n)
	}
}

// TestScenario_连续上限后强制休息 连续两天达到上限后第三天被排除并记录缺口
func TestScenario_连续上限后强制休息(t *testing.T) {
	cons := model.DefaultConstraints()
	cons.MaxConsecutiveDays = 2

	input := model.GenerateInput{
		Period:      model.Period{StartDate: "2026-03-02", DurationDays: 4},
		Preset:      model.Preset247,
		Shifts:      dayShift(1),
		Groups:      singleGroup(model.GroupedEmployee{Name: "张三"}),
		Constraints: cons,
		Seed:        7,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{"D", "D", "", "D"}
	for d, expected := range want {
		if got := result.Grid.Cell(0, d); got != expected {
			t.Errorf("天序 %d = %q，期望 %q", d, got, expected)
		}
	}

	shortfalls := 0
	for _, w := range result.Warnings {
		if w.Kind == model.WarnCoverageShortfall {
			shortfalls++
			if w.Day != 3 {
				t.Errorf("缺口天序 = %d，期望 3", w.Day)
			}
			if w.Actual != 0 || w.Required != 1 {
				t.Errorf("缺口人数 = %d/%d，期望 0/1", w.Actual, w.Required)
			}
		}
	}
	if shortfalls != 1 {
		t.Errorf("缺口告警数 = %d，期望恰好 1 条", shortfalls)
	}
}

// TestProperty_缺勤格不被覆盖 随机铺开的缺勤窗在任何种子下都不被分配覆盖
func TestProperty_缺勤格不被覆盖(t *testing.T) {
	windows := []model.UnavailabilityWindow{
		{Kind: model.AbsenceLeave, StartDate: "2026-03-03", EndDate: "2026-03-05"},
		{Kind: model.AbsenceTAD, StartDate: "2026-03-10", EndDate: "2026-03-12"},
	}

	for _, seed := range []int64{1, 99, 12345} {
		input := model.GenerateInput{
			Period: model.Period{Year: 2026, Month: 3},
			Preset: model.Preset247,
			Shifts: model.ShiftCatalog{
				{Code: "N", Name: "夜班", StartTime: "22:00", EndTime: "06:00",
					Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 30},
				{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00",
					Category: model.CategoryWorking, RequiredCoverage: 2, Priority: 10},
				{Code: "B", Name: "备班", Category: model.CategoryBackup},
				{Code: "A", Name: "行政班", Category: model.CategoryAdmin},
			},
			Groups: singleGroup(
				model.GroupedEmployee{Name: "张三", Windows: windows},
				model.GroupedEmployee{Name: "李四"},
				model.GroupedEmployee{Name: "王五"},
				model.GroupedEmployee{Name: "赵六"},
			),
			Constraints: model.DefaultConstraints(),
			Seed:        seed,
		}

		result, err := solver.Generate(context.Background(), &input)
		if err != nil {
			t.Fatalf("种子 %d: Generate() error = %v", seed, err)
		}

		for d, date := range result.Dates {
			for _, w := range windows {
				if w.Covers(date) {
					if got := result.Grid.Cell(0, d); got != w.Kind.Marker() {
						t.Errorf("种子 %d 日期 %s 应为 %s，实际 %q", seed, date, w.Kind.Marker(), got)
					}
				}
			}
		}
	}
}

// TestProperty_连续超限必有告警 网格中任何超限的连续段都对应一条超限告警
func TestProperty_连续超限必有告警(t *testing.T) {
	cons := model.DefaultConstraints()
	cons.MaxConsecutiveDays = 3

	input := model.GenerateInput{
		Period:      model.Period{StartDate: "2026-03-02", DurationDays: 14},
		Preset:      model.Preset247,
		Shifts:      dayShift(2),
		Groups:      singleGroup(model.GroupedEmployee{Name: "张三"}, model.GroupedEmployee{Name: "李四"}),
		Constraints: cons,
		Seed:        3,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	catalog := input.Shifts
	for e := 0; e < result.Grid.NumEmployees(); e++ {
		run := 0
		for d := 0; d < result.Grid.NumDays(); d++ {
			if catalog.IsWorkingCode(result.Grid.Cell(e, d)) {
				run++
			} else {
				run = 0
			}
			if run > cons.MaxConsecutiveDays {
				if result.Warnings.CountKind(model.WarnConsecutiveOverrun) == 0 {
					t.Fatalf("员工 %d 连续 %d 天无对应告警", e, run)
				}
			}
		}
	}
}

// TestProperty_缺口计数准确 每个缺口日恰好一条告警且人数准确
func TestProperty_缺口计数准确(t *testing.T) {
	input := model.GenerateInput{
		Period:      model.Period{StartDate: "2026-03-02", DurationDays: 5},
		Preset:      model.Preset247,
		Shifts:      dayShift(3), // 2 人承担每日 3 个名额
		Groups:      singleGroup(model.GroupedEmployee{Name: "张三"}, model.GroupedEmployee{Name: "李四"}),
		Constraints: model.DefaultConstraints(),
		Seed:        5,
	}

	result, err := solver.Generate(context.Background(), &input)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	shortfalls := 0
	for _, w := range result.Warnings {
		if w.Kind != model.WarnCoverageShortfall {
			continue
		}
		shortfalls++
		if w.Actual != 2 || w.Required != 3 {
			t.Errorf("第 %d 天缺口人数 = %d/%d，期望 2/3", w.Day, w.Actual, w.Required)
		}
		if w.ShiftCode != "D" {
			t.Errorf("缺口班次 = %s，期望 D", w.ShiftCode)
		}
	}
	if shortfalls != 5 {
		t.Errorf("缺口告警数 = %d，期望每日一条共 5 条", shortfalls)
	}
	if result.Statistics.ShortfallCount != shortfalls {
		t.Errorf("统计缺口数 = %d，与告警数 %d 不符", result.Statistics.ShortfallCount, shortfalls)
	}
}

// TestProperty_相位偏移公式 E 名员工在长度 L 的周期中偏移为 floor(i*L/E)
func TestProperty_相位偏移公式(t *testing.T) {
	tests := []struct {
		name      string
		cycleLen  int
		employees int
		expected  []int
	}{
		{"两人八天", 8, 2, []int{0, 4}},
		{"三人七天", 7, 3, []int{0, 2, 4}},
		{"五人七天", 7, 5, []int{0, 1, 2, 4, 5}},
		{"单人", 7, 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cycle := make([]int, tt.cycleLen)
			for i := range cycle {
				cycle[i] = 1
			}
			engine := rotation.NewEngine(&model.RotationPattern{Cycle: cycle}, tt.employees)
			offsets := engine.Offsets()
			for i, want := range tt.expected {
				if offsets[i] != want {
					t.Errorf("偏移[%d] = %d，期望 %d", i, offsets[i], want)
				}
			}
		})
	}
}
