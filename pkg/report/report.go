// Package report 提供排班结果的值班表导出
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/solver"
)

// Generator 值班表生成器
type Generator struct{}

// NewGenerator 创建值班表生成器
func NewGenerator() *Generator {
	return &Generator{}
}

// Text 生成纯文本值班表
// 含网格、逐人工作量小结与告警清单，适合打印或贴入公告
func (g *Generator) Text(result *solver.Result, title string) string {
	var b strings.Builder

	if title == "" {
		title = "值班表"
	}
	fmt.Fprintf(&b, "=== %s ===\n", title)
	if len(result.Dates) > 0 {
		fmt.Fprintf(&b, "周期: %s ~ %s（%d 天）\n", result.Dates[0], result.Dates[len(result.Dates)-1], len(result.Dates))
	}
	fmt.Fprintf(&b, "种子: %d\n\n", result.Seed)

	// 网格：首列员工名，其余列按日期
	nameWidth := 0
	for _, e := range result.Roster {
		if w := displayWidth(e.Name); w > nameWidth {
			nameWidth = w
		}
	}

	b.WriteString(padRight("", nameWidth))
	for _, date := range result.Dates {
		// 只写月内日序，表头紧凑
		fmt.Fprintf(&b, " %5s", date[len(date)-2:])
	}
	b.WriteString("\n")

	for e, emp := range result.Roster {
		b.WriteString(padRight(emp.Name, nameWidth))
		for d := range result.Dates {
			cell := result.Grid.Cell(e, d)
			if cell == "" {
				cell = "-"
			}
			fmt.Fprintf(&b, " %5s", cell)
		}
		b.WriteString("\n")
	}

	// 逐人小结
	b.WriteString("\n【工作量小结】\n")
	for e, emp := range result.Roster {
		total, nights := 0, 0
		if e < len(result.Counters) {
			total = result.Counters[e].TotalAssigned
			nights = result.Counters[e].NightAssigned
		}
		fmt.Fprintf(&b, "  %s: 共 %d 班，其中夜班 %d\n", emp.Name, total, nights)
	}

	if result.Statistics != nil {
		s := result.Statistics
		b.WriteString("\n【覆盖统计】\n")
		fmt.Fprintf(&b, "  需求名额 %d，已填 %d，填充率 %.1f%%\n", s.RequiredSlots, s.FilledSlots, s.FillRate)
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n【告警】\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w.Message)
		}
	} else {
		b.WriteString("\n【告警】\n  无\n")
	}

	return b.String()
}

// CSV 导出网格为 CSV
// 首行为表头（员工列加日期列），每行一名员工，空单元格留空
func (g *Generator) CSV(result *solver.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"员工"}, result.Dates...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("写入表头失败: %w", err)
	}

	for e, emp := range result.Roster {
		row := make([]string, 0, len(result.Dates)+1)
		row = append(row, emp.Name)
		for d := range result.Dates {
			row = append(row, result.Grid.Cell(e, d))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("写入员工 %s 失败: %w", emp.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShiftLegend 生成班次图例
func (g *Generator) ShiftLegend(catalog model.ShiftCatalog) string {
	var b strings.Builder
	b.WriteString("【班次图例】\n")
	for _, s := range catalog {
		if s.HasTimes() {
			fmt.Fprintf(&b, "  %s = %s (%s-%s)\n", s.Code, s.Name, s.StartTime, s.EndTime)
		} else {
			fmt.Fprintf(&b, "  %s = %s\n", s.Code, s.Name)
		}
	}
	fmt.Fprintf(&b, "  %s = 休假, %s = 外派, - = 轮休\n", model.MarkerLeave, model.MarkerTAD)
	return b.String()
}

// displayWidth 估算终端显示宽度，中文按两列计
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// padRight 右侧补空格到指定显示宽度
func padRight(s string, width int) string {
	pad := width - displayWidth(s)
	if pad <= 0 {
		return s
	}
	return s + strings.Repeat(" ", pad)
}
