package relief

import (
	"testing"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

func reliefCatalog() model.ShiftCatalog {
	return model.ShiftCatalog{
		{Code: "N", Name: "夜班", StartTime: "22:00", EndTime: "06:00", Category: model.CategoryWorking, RequiredCoverage: 1, Priority: 30},
		{Code: "D", Name: "白班", StartTime: "08:00", EndTime: "16:00", Category: model.CategoryWorking, RequiredCoverage: 2, Priority: 10},
		{Code: "A", Name: "行政班", Category: model.CategoryAdmin, Priority: 0},
	}
}

func reliefRoster(names ...string) model.Roster {
	roster := make(model.Roster, len(names))
	for i, n := range names {
		roster[i] = model.Employee{Handle: i, Name: n}
	}
	return roster
}

func TestEngine_负担轻者优先(t *testing.T) {
	// 三人中张三当日已排班，李四 1 班，王五 3 班，应推荐李四
	dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"}
	grid := model.NewAssignmentGrid(3, 4)
	grid.Set(0, 1, "D")
	grid.Set(1, 3, "D")
	for _, d := range []int{0, 2, 3} {
		grid.Set(2, d, "D")
	}

	req := &Request{
		Grid:        grid,
		Roster:      reliefRoster("张三", "李四", "王五"),
		Catalog:     reliefCatalog(),
		Constraints: model.DefaultConstraints(),
		Dates:       dates,
	}
	s := NewEngine().Suggest(req, Gap{Day: 1, Date: "2026-03-03", ShiftCode: "D", Shortage: 1})

	if !s.Feasible || s.Best == nil {
		t.Fatalf("应有可行建议: %+v", s)
	}
	if s.Best.Name != "李四" {
		t.Errorf("最佳人选 = %s, expected 李四", s.Best.Name)
	}
	// 备选列完整名单：可行的王五在前，已排班的张三垫底且标记不可行
	if len(s.Alternatives) != 2 || s.Alternatives[0].Name != "王五" {
		t.Fatalf("备选 = %+v, expected 王五在前共2人", s.Alternatives)
	}
	if s.Alternatives[1].Name != "张三" || s.Alternatives[1].Feasible {
		t.Errorf("张三应以不可行身份垫底: %+v", s.Alternatives[1])
	}
	t.Logf("建议: %s(%.1f), 备选 %d 人", s.Best.Name, s.Best.Score, len(s.Alternatives))
}

func TestEngine_缺勤不可顶班(t *testing.T) {
	dates := []string{"2026-03-02"}
	grid := model.NewAssignmentGrid(2, 1)
	grid.Set(0, 0, model.MarkerLeave)
	grid.Set(1, 0, model.MarkerTAD)

	req := &Request{
		Grid:        grid,
		Roster:      reliefRoster("张三", "李四"),
		Catalog:     reliefCatalog(),
		Constraints: model.DefaultConstraints(),
		Dates:       dates,
	}
	s := NewEngine().Suggest(req, Gap{Day: 0, Date: "2026-03-02", ShiftCode: "N", Shortage: 1})

	if s.Feasible {
		t.Fatal("全员缺勤时不应有可行建议")
	}
	if s.Reason == "" {
		t.Error("无可行解时应给出原因")
	}
	if len(s.Alternatives) != 2 {
		t.Errorf("备选数 = %d, expected 2（列出不可行者）", len(s.Alternatives))
	}
}

func TestEngine_夜班接白班休息不足(t *testing.T) {
	// 张三前日夜班次日 06:00 结束，当日白班 08:00 开始，只休息 2 小时
	dates := []string{"2026-03-02", "2026-03-03"}
	grid := model.NewAssignmentGrid(2, 2)
	grid.Set(0, 0, "N")

	req := &Request{
		Grid:        grid,
		Roster:      reliefRoster("张三", "李四"),
		Catalog:     reliefCatalog(),
		Constraints: model.DefaultConstraints(),
		Dates:       dates,
	}
	s := NewEngine().Suggest(req, Gap{Day: 1, Date: "2026-03-03", ShiftCode: "D", Shortage: 1})

	if !s.Feasible || s.Best == nil {
		t.Fatal("李四应为可行人选")
	}
	if s.Best.Name != "李四" {
		t.Errorf("最佳人选 = %s, expected 李四", s.Best.Name)
	}
	// 张三落入备选且标记不可行
	found := false
	for _, alt := range s.Alternatives {
		if alt.Name == "张三" {
			found = true
			if alt.Feasible {
				t.Error("张三休息不足应不可行")
			}
		}
	}
	if !found {
		t.Errorf("张三应出现在备选: %+v", s.Alternatives)
	}
}

func TestEngine_连续天数上限(t *testing.T) {
	// 张三已连续 5 天，再顶第 6 天超出上限
	dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07"}
	grid := model.NewAssignmentGrid(1, 6)
	for d := 0; d < 5; d++ {
		grid.Set(0, d, "D")
	}

	cons := model.DefaultConstraints() // 上限 5
	req := &Request{
		Grid:        grid,
		Roster:      reliefRoster("张三"),
		Catalog:     reliefCatalog(),
		Constraints: cons,
		Dates:       dates,
	}
	s := NewEngine().Suggest(req, Gap{Day: 5, Date: "2026-03-07", ShiftCode: "D", Shortage: 1})

	if s.Feasible {
		t.Fatalf("顶班后连续 6 天应不可行: %+v", s.Best)
	}
}

func TestFindGaps(t *testing.T) {
	// 需求 N×1 + D×2，第 0 天全满，第 1 天缺一个白班
	dates := []string{"2026-03-02", "2026-03-03"}
	grid := model.NewAssignmentGrid(3, 2)
	grid.Set(0, 0, "N")
	grid.Set(1, 0, "D")
	grid.Set(2, 0, "D")
	grid.Set(0, 1, "N")
	grid.Set(1, 1, "D")

	gaps := FindGaps(grid, reliefCatalog(), dates, model.Preset247)

	if len(gaps) != 1 {
		t.Fatalf("缺口数 = %d, expected 1: %+v", len(gaps), gaps)
	}
	g := gaps[0]
	if g.Day != 1 || g.ShiftCode != "D" || g.Shortage != 1 {
		t.Errorf("缺口 = %+v, expected 第1天白班缺1", g)
	}
}

func TestFindGaps_8x5周末无缺口(t *testing.T) {
	// 2026-03-07 周六，空网格在 8x5 模式下周六不算缺口
	dates := []string{"2026-03-06", "2026-03-07"}
	grid := model.NewAssignmentGrid(3, 2)

	gaps := FindGaps(grid, reliefCatalog(), dates, model.Preset8x5)

	for _, g := range gaps {
		if g.Date == "2026-03-07" {
			t.Errorf("周六不应有工作班缺口: %+v", g)
		}
	}
	// 周五两个工作班都缺
	if len(gaps) != 2 {
		t.Errorf("缺口数 = %d, expected 2", len(gaps))
	}
}

func TestEngine_SuggestAll(t *testing.T) {
	dates := []string{"2026-03-02"}
	grid := model.NewAssignmentGrid(3, 1)
	grid.Set(0, 0, "N")

	req := &Request{
		Grid:        grid,
		Roster:      reliefRoster("张三", "李四", "王五"),
		Catalog:     reliefCatalog(),
		Constraints: model.DefaultConstraints(),
		Dates:       dates,
	}
	suggestions := NewEngine().SuggestAll(req, model.Preset247)

	// 白班缺 2，产生一个缺口的建议
	if len(suggestions) != 1 {
		t.Fatalf("建议数 = %d, expected 1", len(suggestions))
	}
	if !suggestions[0].Feasible {
		t.Errorf("李四与王五空闲，建议应可行: %+v", suggestions[0])
	}
	if suggestions[0].Gap.Shortage != 2 {
		t.Errorf("缺口人数 = %d, expected 2", suggestions[0].Gap.Shortage)
	}
}
