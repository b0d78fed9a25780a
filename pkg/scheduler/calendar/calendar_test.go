package calendar

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

func TestResolve_MonthMode(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    int
		expected int
	}{
		{"31天大月", 2026, 3, 31},
		{"30天小月", 2026, 4, 30},
		{"平年二月", 2026, 2, 28},
		{"闰年二月", 2024, 2, 29},
		{"世纪闰年", 2000, 2, 29},
		{"世纪平年", 1900, 2, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := Resolve(model.Period{Year: tt.year, Month: tt.month})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if tl.NumDays() != tt.expected {
				t.Errorf("NumDays() = %d, expected %d", tl.NumDays(), tt.expected)
			}
		})
	}
}

func TestResolve_MonthDates(t *testing.T) {
	tl, err := Resolve(model.Period{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if tl.DateString(0) != "2026-03-01" {
		t.Errorf("首日 = %s, expected 2026-03-01", tl.DateString(0))
	}
	if tl.DateString(30) != "2026-03-31" {
		t.Errorf("末日 = %s, expected 2026-03-31", tl.DateString(30))
	}
	if tl.StartDate() != "2026-03-01" || tl.EndDate() != "2026-03-31" {
		t.Error("StartDate/EndDate 错误")
	}
}

func TestResolve_RangeMode(t *testing.T) {
	// 跨月区间
	tl, err := Resolve(model.Period{StartDate: "2026-03-30", DurationDays: 5})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	expected := []string{"2026-03-30", "2026-03-31", "2026-04-01", "2026-04-02", "2026-04-03"}
	for d, date := range expected {
		if tl.DateString(d) != date {
			t.Errorf("DateString(%d) = %s, expected %s", d, tl.DateString(d), date)
		}
	}
}

func TestTimeline_IsWeekend(t *testing.T) {
	// 2026-03-01 是周日，2026-03-07 是周六
	tl, err := Resolve(model.Period{Year: 2026, Month: 3})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		day      int
		expected bool
	}{
		{0, true},  // 03-01 周日
		{1, false}, // 03-02 周一
		{5, false}, // 03-06 周五
		{6, true},  // 03-07 周六
		{7, true},  // 03-08 周日
	}

	for _, tt := range tests {
		if result := tl.IsWeekend(tt.day); result != tt.expected {
			t.Errorf("IsWeekend(%d) = %v, expected %v", tt.day, result, tt.expected)
		}
	}
}

func TestResolve_InvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		period model.Period
	}{
		{"月份越界", model.Period{Year: 2026, Month: 13}},
		{"月份为零且无起始日期", model.Period{Year: 2026, Month: 0}},
		{"起始日期格式错误", model.Period{StartDate: "03/01/2026", DurationDays: 7}},
		{"天数为零", model.Period{StartDate: "2026-03-01", DurationDays: 0}},
		{"天数为负", model.Period{StartDate: "2026-03-01", DurationDays: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(tt.period); err == nil {
				t.Error("应该返回错误")
			}
		})
	}
}
