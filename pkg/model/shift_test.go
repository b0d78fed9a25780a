package model

import "testing"

func TestShiftDefinition_CrossesMidnight(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected bool
	}{
		{"普通白班", "08:00", "16:00", false},
		{"跨零点夜班", "22:00", "06:00", true},
		{"整点结束于零点", "16:00", "00:00", true},
		{"无时刻", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ShiftDefinition{Code: "X", StartTime: tt.start, EndTime: tt.end}
			if result := s.CrossesMidnight(); result != tt.expected {
				t.Errorf("CrossesMidnight() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShiftDefinition_IsNightShift(t *testing.T) {
	tests := []struct {
		name     string
		shift    ShiftDefinition
		expected bool
	}{
		{"带时刻的跨零点班", ShiftDefinition{Code: "X", StartTime: "22:00", EndTime: "06:00"}, true},
		{"带时刻的白班", ShiftDefinition{Code: "N", StartTime: "08:00", EndTime: "16:00"}, false},
		{"无时刻的N班", ShiftDefinition{Code: "N"}, true},
		{"无时刻的D班", ShiftDefinition{Code: "D"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.shift.IsNightShift(); result != tt.expected {
				t.Errorf("IsNightShift() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShiftDefinition_DurationMinutes(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"8小时白班", "08:00", "16:00", 480},
		{"跨零点夜班", "22:00", "06:00", 480},
		{"12小时班", "07:30", "19:30", 720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ShiftDefinition{StartTime: tt.start, EndTime: tt.end}
			result, ok := s.DurationMinutes()
			if !ok {
				t.Fatal("应该解析成功")
			}
			if result != tt.expected {
				t.Errorf("DurationMinutes() = %v, expected %v", result, tt.expected)
			}
		})
	}

	untimed := &ShiftDefinition{Code: "D"}
	if _, ok := untimed.DurationMinutes(); ok {
		t.Error("无时刻班次应返回false")
	}
}

func TestShiftDefinition_CoverageOn(t *testing.T) {
	working := &ShiftDefinition{Code: "D", Category: CategoryWorking, RequiredCoverage: 3}
	backup := &ShiftDefinition{Code: "B", Category: CategoryBackup, RequiredCoverage: 1}

	tests := []struct {
		name     string
		shift    *ShiftDefinition
		weekend  bool
		preset   CoveragePreset
		expected int
	}{
		{"24_7工作日", working, false, Preset247, 3},
		{"24_7周末", working, true, Preset247, 3},
		{"8x5工作日", working, false, Preset8x5, 3},
		{"8x5周末归零", working, true, Preset8x5, 0},
		{"8x5周末备班不归零", backup, true, Preset8x5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.shift.CoverageOn(tt.weekend, tt.preset); result != tt.expected {
				t.Errorf("CoverageOn() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestShiftCatalog_Working(t *testing.T) {
	catalog := ShiftCatalog{
		{Code: "D", Category: CategoryWorking, Priority: 1},
		{Code: "E", Category: CategoryWorking, Priority: 2},
		{Code: "B", Category: CategoryBackup, Priority: 9},
		{Code: "N", Category: CategoryWorking, Priority: 3},
		{Code: "A", Category: CategoryAdmin},
	}

	working := catalog.Working()
	if len(working) != 3 {
		t.Fatalf("工作班数量 = %d, expected 3", len(working))
	}

	expected := []string{"N", "E", "D"}
	for i, code := range expected {
		if working[i].Code != code {
			t.Errorf("working[%d].Code = %s, expected %s", i, working[i].Code, code)
		}
	}
}

func TestShiftCatalog_WorkingStableOrder(t *testing.T) {
	// 优先级相同时保持目录顺序
	catalog := ShiftCatalog{
		{Code: "A1", Category: CategoryWorking, Priority: 5},
		{Code: "A2", Category: CategoryWorking, Priority: 5},
		{Code: "A3", Category: CategoryWorking, Priority: 5},
	}

	working := catalog.Working()
	for i, code := range []string{"A1", "A2", "A3"} {
		if working[i].Code != code {
			t.Errorf("working[%d].Code = %s, expected %s", i, working[i].Code, code)
		}
	}
}

func TestIsReservedCode(t *testing.T) {
	if !IsReservedCode("LEAVE") || !IsReservedCode("TAD") {
		t.Error("LEAVE和TAD应为保留代码")
	}
	if IsReservedCode("N") || IsReservedCode("") {
		t.Error("普通代码不应为保留代码")
	}
}
