// Package availability 预计算员工每日的缺勤状态
//
// 索引独立于班次分配：被不可用时间窗覆盖的日子在排班开始前
// 即写入缺勤标记，并在整个生成过程中排除该员工当日的候选资格。
package availability

import (
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
	"github.com/Berner89/hospital-staff-scheduler/pkg/scheduler/calendar"
)

// Index 员工×天的缺勤索引
type Index struct {
	markers [][]string // 空串表示当日无缺勤
}

// Build 基于花名册与日期序列构建索引
// 同一员工多个时间窗重叠时按列表顺序后者生效，不完整的时间窗被跳过
func Build(roster model.Roster, tl *calendar.Timeline) *Index {
	ix := &Index{markers: make([][]string, len(roster))}
	for e := range roster {
		ix.markers[e] = make([]string, tl.NumDays())
		for d := 0; d < tl.NumDays(); d++ {
			if kind, ok := roster[e].AbsenceOn(tl.DateString(d)); ok {
				ix.markers[e][d] = kind.Marker()
			}
		}
	}
	return ix
}

// IsBlocked 检查员工某日是否被缺勤窗排除
func (ix *Index) IsBlocked(handle, day int) bool {
	return ix.markers[handle][day] != ""
}

// Marker 返回员工某日的缺勤标记
func (ix *Index) Marker(handle, day int) (string, bool) {
	m := ix.markers[handle][day]
	return m, m != ""
}

// Stamp 将全部缺勤标记写入网格，在任何班次分配之前执行
func (ix *Index) Stamp(grid model.AssignmentGrid) {
	for e := range ix.markers {
		for d, m := range ix.markers[e] {
			if m != "" {
				grid.Set(e, d, m)
			}
		}
	}
}

// BlockedDays 返回员工在周期内的缺勤天数
func (ix *Index) BlockedDays(handle int) int {
	n := 0
	for _, m := range ix.markers[handle] {
		if m != "" {
			n++
		}
	}
	return n
}
