package availability

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/calendar"
)

func mustTimeline(t *testing.T, p model.Period) *calendar.Timeline {
	t.Helper()
	tl, err := calendar.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return tl
}

func TestBuild_Markers(t *testing.T) {
	tl := mustTimeline(t, model.Period{StartDate: "2026-03-01", DurationDays: 7})
	roster := model.Roster{
		{Handle: 0, Name: "张三", Windows: []model.UnavailabilityWindow{
			{Kind: model.AbsenceLeave, StartDate: "2026-03-02", EndDate: "2026-03-04"},
		}},
		{Handle: 1, Name: "李四"},
	}

	ix := Build(roster, tl)

	tests := []struct {
		handle  int
		day     int
		blocked bool
		marker  string
	}{
		{0, 0, false, ""},
		{0, 1, true, "LEAVE"},
		{0, 2, true, "LEAVE"},
		{0, 3, true, "LEAVE"},
		{0, 4, false, ""},
		{1, 1, false, ""},
	}

	for _, tt := range tests {
		if got := ix.IsBlocked(tt.handle, tt.day); got != tt.blocked {
			t.Errorf("IsBlocked(%d,%d) = %v, expected %v", tt.handle, tt.day, got, tt.blocked)
		}
		marker, _ := ix.Marker(tt.handle, tt.day)
		if marker != tt.marker {
			t.Errorf("Marker(%d,%d) = %q, expected %q", tt.handle, tt.day, marker, tt.marker)
		}
	}

	if n := ix.BlockedDays(0); n != 3 {
		t.Errorf("BlockedDays(0) = %d, expected 3", n)
	}
}

func TestBuild_OverlappingWindowsLastWins(t *testing.T) {
	tl := mustTimeline(t, model.Period{StartDate: "2026-03-01", DurationDays: 5})
	roster := model.Roster{
		{Handle: 0, Name: "王五", Windows: []model.UnavailabilityWindow{
			{Kind: model.AbsenceLeave, StartDate: "2026-03-01", EndDate: "2026-03-03"},
			{Kind: model.AbsenceTAD, StartDate: "2026-03-03", EndDate: "2026-03-05"},
		}},
	}

	ix := Build(roster, tl)

	marker, _ := ix.Marker(0, 1)
	if marker != "LEAVE" {
		t.Errorf("第2天应为LEAVE, got %s", marker)
	}
	marker, _ = ix.Marker(0, 2)
	if marker != "TAD" {
		t.Errorf("重叠日应为后者TAD, got %s", marker)
	}
	marker, _ = ix.Marker(0, 4)
	if marker != "TAD" {
		t.Errorf("第5天应为TAD, got %s", marker)
	}
}

func TestBuild_IllFormedWindowSkipped(t *testing.T) {
	tl := mustTimeline(t, model.Period{StartDate: "2026-03-01", DurationDays: 3})
	roster := model.Roster{
		{Handle: 0, Name: "赵六", Windows: []model.UnavailabilityWindow{
			{Kind: model.AbsenceLeave, StartDate: "2026-03-01", EndDate: ""},
		}},
	}

	ix := Build(roster, tl)
	for d := 0; d < 3; d++ {
		if ix.IsBlocked(0, d) {
			t.Errorf("不完整时间窗不应生效, day %d", d)
		}
	}
}

func TestIndex_Stamp(t *testing.T) {
	tl := mustTimeline(t, model.Period{StartDate: "2026-03-01", DurationDays: 4})
	roster := model.Roster{
		{Handle: 0, Name: "张三", Windows: []model.UnavailabilityWindow{
			{Kind: model.AbsenceTAD, StartDate: "2026-03-02", EndDate: "2026-03-03"},
		}},
		{Handle: 1, Name: "李四"},
	}

	ix := Build(roster, tl)
	grid := model.NewAssignmentGrid(len(roster), tl.NumDays())
	ix.Stamp(grid)

	if grid.Cell(0, 1) != "TAD" || grid.Cell(0, 2) != "TAD" {
		t.Error("缺勤标记应写入网格")
	}
	if !grid.IsEmpty(0, 0) || !grid.IsEmpty(0, 3) {
		t.Error("无缺勤的单元格应保持为空")
	}
	if !grid.IsEmpty(1, 1) {
		t.Error("无时间窗员工的单元格应保持为空")
	}
}
