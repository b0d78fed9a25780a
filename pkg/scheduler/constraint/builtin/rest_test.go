package builtin

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/constraint"
)

func timedCatalog() model.ShiftCatalog {
	return model.ShiftCatalog{
		{Code: "N", Name: "夜班", StartTime: "22:00", EndTime: "06:00", Category: model.CategoryWorking, Priority: 3},
		{Code: "E", Name: "中班", StartTime: "14:00", EndTime: "22:00", Category: model.CategoryWorking, Priority: 2},
		{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00", Category: model.CategoryWorking, Priority: 1},
	}
}

func untimedCatalog() model.ShiftCatalog {
	return model.ShiftCatalog{
		{Code: "N", Name: "夜班", Category: model.CategoryWorking, Priority: 3},
		{Code: "D", Name: "白班", Category: model.CategoryWorking, Priority: 1},
	}
}

func newTestContext(catalog model.ShiftCatalog, numEmployees, numDays int) *constraint.Context {
	roster := make(model.Roster, numEmployees)
	for i := range roster {
		roster[i] = model.Employee{Handle: i}
	}
	return constraint.NewContext(roster, catalog, model.NewAssignmentGrid(numEmployees, numDays))
}

func TestMinRestGate_TimedShifts(t *testing.T) {
	catalog := timedCatalog()
	gate := NewMinRestGate(12)

	tests := []struct {
		name      string
		prevCode  string
		nextCode  string
		expected  bool
	}{
		// 夜班 22:00-06:00 次日白班 08:00 间隔2小时
		{"夜班后白班间隔不足", "N", "D", false},
		// 夜班 22:00-06:00 次日中班 14:00 间隔8小时
		{"夜班后中班间隔不足", "N", "E", false},
		// 白班 08:00-16:00 次日白班 08:00 间隔16小时
		{"白班后白班间隔充足", "D", "D", true},
		// 中班 14:00-22:00 次日白班 08:00 间隔10小时
		{"中班后白班间隔不足", "E", "D", false},
		// 中班 14:00-22:00 次日中班 14:00 间隔16小时
		{"中班后中班间隔充足", "E", "E", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(catalog, 1, 2)
			ctx.Grid.Set(0, 0, tt.prevCode)

			next, _ := catalog.ByCode(tt.nextCode)
			if result := gate.Allows(ctx, 0, 1, next); result != tt.expected {
				t.Errorf("Allows(%s→%s) = %v, expected %v", tt.prevCode, tt.nextCode, result, tt.expected)
			}
		})
	}
}

func TestMinRestGate_UntimedFallback(t *testing.T) {
	catalog := untimedCatalog()
	gate := NewMinRestGate(12)

	ctx := newTestContext(catalog, 1, 2)
	ctx.Grid.Set(0, 0, "N")

	day, _ := catalog.ByCode("D")
	if gate.Allows(ctx, 0, 1, day) {
		t.Error("无时刻信息时夜班次日不应排白班")
	}

	night, _ := catalog.ByCode("N")
	if !gate.Allows(ctx, 0, 1, night) {
		t.Error("代码规则只限制N→D转换")
	}
}

func TestMinRestGate_FirstDay(t *testing.T) {
	gate := NewMinRestGate(12)
	ctx := newTestContext(timedCatalog(), 1, 2)

	day, _ := timedCatalog().ByCode("D")
	if !gate.Allows(ctx, 0, 0, day) {
		t.Error("首日无前班，应放行")
	}
}

func TestMinRestGate_AbsenceMarkerIgnored(t *testing.T) {
	gate := NewMinRestGate(12)
	ctx := newTestContext(timedCatalog(), 1, 2)
	ctx.Grid.Set(0, 0, model.MarkerLeave)

	day, _ := timedCatalog().ByCode("D")
	if !gate.Allows(ctx, 0, 1, day) {
		t.Error("前一天为缺勤标记时应放行")
	}
}

func TestMinRestGate_ZeroMinHoursTimed(t *testing.T) {
	// 带时刻且 minHours=0 时不做间隔检查
	gate := NewMinRestGate(0)
	ctx := newTestContext(timedCatalog(), 1, 2)
	ctx.Grid.Set(0, 0, "N")

	day, _ := timedCatalog().ByCode("D")
	if !gate.Allows(ctx, 0, 1, day) {
		t.Error("minHours为零且班次带时刻时应放行")
	}
}

func TestConsecutiveDaysGate(t *testing.T) {
	gate := NewConsecutiveDaysGate(5)
	catalog := untimedCatalog()
	day, _ := catalog.ByCode("D")

	tests := []struct {
		name        string
		consecutive int
		expected    bool
	}{
		{"无连续工作", 0, true},
		{"连续4天", 4, true},
		{"连续5天达到上限", 5, false},
		{"连续6天超限", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(catalog, 1, 10)
			ctx.Consecutive[0] = tt.consecutive
			if result := gate.Allows(ctx, 0, 5, day); result != tt.expected {
				t.Errorf("Allows() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestConsecutiveDaysGate_Unlimited(t *testing.T) {
	gate := NewConsecutiveDaysGate(0)
	catalog := untimedCatalog()
	day, _ := catalog.ByCode("D")

	ctx := newTestContext(catalog, 1, 10)
	ctx.Consecutive[0] = 100
	if !gate.Allows(ctx, 0, 5, day) {
		t.Error("上限为零时不应限制")
	}
}
