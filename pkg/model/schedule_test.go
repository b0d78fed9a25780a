package model

import (
	"strings"
	"testing"
)

func TestAssignmentGrid_Basics(t *testing.T) {
	grid := NewAssignmentGrid(3, 5)

	if grid.NumEmployees() != 3 || grid.NumDays() != 5 {
		t.Fatalf("网格尺寸 = %dx%d, expected 3x5", grid.NumEmployees(), grid.NumDays())
	}

	if !grid.IsEmpty(0, 0) {
		t.Error("新网格单元格应为空")
	}

	grid.Set(1, 2, "N")
	if grid.Cell(1, 2) != "N" {
		t.Errorf("Cell(1,2) = %s, expected N", grid.Cell(1, 2))
	}
	if grid.IsEmpty(1, 2) {
		t.Error("已写入的单元格不应为空")
	}

	grid.Set(2, 4, MarkerLeave)
	if !grid.IsAbsence(2, 4) {
		t.Error("LEAVE标记应识别为缺勤")
	}
	if grid.IsAbsence(1, 2) {
		t.Error("班次代码不应识别为缺勤")
	}
}

func TestAssignmentGrid_Clone(t *testing.T) {
	grid := NewAssignmentGrid(2, 3)
	grid.Set(0, 0, "D")

	clone := grid.Clone()
	clone.Set(0, 0, "N")
	clone.Set(1, 2, "E")

	if grid.Cell(0, 0) != "D" {
		t.Error("修改副本不应影响原网格")
	}
	if grid.Cell(1, 2) != "" {
		t.Error("修改副本不应影响原网格")
	}
}

func TestWarningConstructors(t *testing.T) {
	shortfall := NewShortfallWarning(3, "2026-03-03", "N", 1, 2)
	if shortfall.Kind != WarnCoverageShortfall {
		t.Errorf("Kind = %s, expected %s", shortfall.Kind, WarnCoverageShortfall)
	}
	if shortfall.Day != 3 || shortfall.Actual != 1 || shortfall.Required != 2 {
		t.Error("人手不足告警字段错误")
	}
	if shortfall.EmployeeHandle != -1 {
		t.Error("人手不足告警不应关联员工")
	}
	if !strings.Contains(shortfall.Message, "第 3 天") || !strings.Contains(shortfall.Message, "N 班") {
		t.Errorf("告警文本错误: %s", shortfall.Message)
	}

	overrun := NewOverrunWarning(2, "李四", 6, 5)
	if overrun.Kind != WarnConsecutiveOverrun || overrun.EmployeeHandle != 2 {
		t.Error("连续超限告警字段错误")
	}
	if !strings.Contains(overrun.Message, "连续工作 6 天") {
		t.Errorf("告警文本错误: %s", overrun.Message)
	}
}

func TestWarnings_CountKind(t *testing.T) {
	ws := Warnings{
		NewShortfallWarning(1, "2026-03-01", "N", 0, 1),
		NewShortfallWarning(2, "2026-03-02", "D", 1, 2),
		NewOverrunWarning(0, "张三", 6, 5),
	}

	if n := ws.CountKind(WarnCoverageShortfall); n != 2 {
		t.Errorf("CountKind(shortfall) = %d, expected 2", n)
	}
	if n := ws.CountKind(WarnConsecutiveOverrun); n != 1 {
		t.Errorf("CountKind(overrun) = %d, expected 1", n)
	}

	lines := ws.Strings()
	if len(lines) != 3 {
		t.Fatalf("Strings() 长度 = %d, expected 3", len(lines))
	}
}
