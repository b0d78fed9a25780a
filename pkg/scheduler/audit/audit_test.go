package audit

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/calendar"
)

func testCatalog() model.ShiftCatalog {
	return model.ShiftCatalog{
		{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 10},
		{Code: "N", Name: "夜班", StartTime: "22:00", EndTime: "06:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 30},
	}
}

func TestAudit_ConsecutiveOverrun(t *testing.T) {
	tl, err := calendar.Resolve(model.Period{StartDate: "2026-03-02", DurationDays: 7})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	roster := model.Roster{{Handle: 0, Name: "王护士"}}
	grid := model.NewAssignmentGrid(1, 7)
	// 连续6天白班，超过上限5天
	for d := 0; d < 6; d++ {
		grid.Set(0, d, "D")
	}

	warnings := NewAuditor().Audit(grid, roster, testCatalog(),
		model.Constraints{MaxConsecutiveDays: 5}, tl)

	if warnings.CountKind(model.WarnConsecutiveOverrun) != 1 {
		t.Fatalf("连续超限告警数 = %d, expected 1", warnings.CountKind(model.WarnConsecutiveOverrun))
	}
	w := warnings[0]
	if w.EmployeeHandle != 0 || w.Actual != 6 || w.Required != 5 {
		t.Errorf("告警内容错误: %+v", w)
	}
	t.Logf("告警: %s", w.Message)
}

func TestAudit_RunBrokenByAbsence(t *testing.T) {
	tl, _ := calendar.Resolve(model.Period{StartDate: "2026-03-02", DurationDays: 6})

	roster := model.Roster{{Handle: 0, Name: "李护士"}}
	grid := model.NewAssignmentGrid(1, 6)
	// 3天工作、1天休假、2天工作：最长连续3天，不超限
	grid.Set(0, 0, "D")
	grid.Set(0, 1, "D")
	grid.Set(0, 2, "D")
	grid.Set(0, 3, model.MarkerLeave)
	grid.Set(0, 4, "D")
	grid.Set(0, 5, "D")

	warnings := NewAuditor().Audit(grid, roster, testCatalog(),
		model.Constraints{MaxConsecutiveDays: 3}, tl)

	if len(warnings) != 0 {
		t.Errorf("缺勤应中断连续计数，实际告警 %d 条: %v", len(warnings), warnings.Strings())
	}
}

func TestAudit_WeeklyHours(t *testing.T) {
	// 2026-03-02 是周一，整周七天落在同一自然周
	tl, _ := calendar.Resolve(model.Period{StartDate: "2026-03-02", DurationDays: 7})

	roster := model.Roster{{Handle: 0, Name: "张护士"}}
	grid := model.NewAssignmentGrid(1, 7)
	// 7天8小时白班 = 56小时，超过40小时上限
	for d := 0; d < 7; d++ {
		grid.Set(0, d, "D")
	}

	warnings := NewAuditor().Audit(grid, roster, testCatalog(),
		model.Constraints{MaxHoursWeek: 40}, tl)

	if warnings.CountKind(model.WarnWeeklyHours) != 1 {
		t.Fatalf("周工时告警数 = %d, expected 1", warnings.CountKind(model.WarnWeeklyHours))
	}
	t.Logf("告警: %s", warnings[0].Message)
}

func TestAudit_WeeklyHoursUntimedSkipped(t *testing.T) {
	tl, _ := calendar.Resolve(model.Period{StartDate: "2026-03-02", DurationDays: 7})

	catalog := model.ShiftCatalog{
		{Code: "D", Category: model.CategoryWorking, RequiredCoverage: 1},
	}
	roster := model.Roster{{Handle: 0, Name: "赵护士"}}
	grid := model.NewAssignmentGrid(1, 7)
	for d := 0; d < 7; d++ {
		grid.Set(0, d, "D")
	}

	// 无时刻班次不计入工时，不应产生告警
	warnings := NewAuditor().Audit(grid, roster, catalog,
		model.Constraints{MaxHoursWeek: 1}, tl)

	if len(warnings) != 0 {
		t.Errorf("无时刻班次不应计入周工时，实际告警: %v", warnings.Strings())
	}
}

func TestFillCounts(t *testing.T) {
	tl, _ := calendar.Resolve(model.Period{StartDate: "2026-03-02", DurationDays: 2})

	grid := model.NewAssignmentGrid(3, 2)
	grid.Set(0, 0, "N")
	grid.Set(1, 0, "D")
	grid.Set(2, 0, "D")
	grid.Set(0, 1, model.MarkerLeave)

	fills := NewAuditor().FillCounts(grid, testCatalog(), tl, model.Preset247)

	// 两天 × 两个工作班次（按优先级 N 在前）
	if len(fills) != 4 {
		t.Fatalf("统计行数 = %d, expected 4", len(fills))
	}
	if fills[0].ShiftCode != "N" || fills[0].Assigned != 1 {
		t.Errorf("第1天夜班统计错误: %+v", fills[0])
	}
	if fills[1].ShiftCode != "D" || fills[1].Assigned != 2 {
		t.Errorf("第1天白班统计错误: %+v", fills[1])
	}
	if fills[2].Assigned != 0 || fills[3].Assigned != 0 {
		t.Errorf("第2天应无人排班: %+v %+v", fills[2], fills[3])
	}
}
