// Package model 定义排班引擎的核心数据模型
package model

// AbsenceKind 缺勤类型
type AbsenceKind string

const (
	AbsenceLeave AbsenceKind = MarkerLeave // 休假
	AbsenceTAD   AbsenceKind = MarkerTAD   // 外派
)

// Marker 返回缺勤类型对应的网格标记
func (k AbsenceKind) Marker() string {
	return string(k)
}

// UnavailabilityWindow 不可用时间窗
// 起止日期均为闭区间，由产生方保证 StartDate <= EndDate
type UnavailabilityWindow struct {
	Kind      AbsenceKind `json:"kind"`
	StartDate string      `json:"start_date"` // YYYY-MM-DD
	EndDate   string      `json:"end_date"`   // YYYY-MM-DD
}

// IsWellFormed 检查时间窗是否完整（缺少日期的窗被跳过）
func (w UnavailabilityWindow) IsWellFormed() bool {
	return w.StartDate != "" && w.EndDate != ""
}

// Covers 检查时间窗是否覆盖某日
// 日期为固定宽度 YYYY-MM-DD，按字典序比较即按时间先后比较
func (w UnavailabilityWindow) Covers(date string) bool {
	return w.StartDate <= date && date <= w.EndDate
}

// Employee 员工
// Handle 为扁平化花名册中的序号，是引擎内部的唯一标识
type Employee struct {
	Handle  int                    `json:"handle"`
	Name    string                 `json:"name"`
	Group   int                    `json:"group"` // 所属组序号
	Windows []UnavailabilityWindow `json:"windows,omitempty"`
}

// EmployeeGroup 员工组
type EmployeeGroup struct {
	Name      string           `json:"name"`
	Employees []GroupedEmployee `json:"employees"`
}

// GroupedEmployee 组内员工（扁平化前的外部表示）
type GroupedEmployee struct {
	Name    string                 `json:"name"`
	Windows []UnavailabilityWindow `json:"windows,omitempty"`
}

// Roster 扁平化花名册，下标即员工 Handle
type Roster []Employee

// FlattenGroups 将分组花名册扁平化并分配 Handle
// 顺序为组序加组内序，Handle 从 0 开始连续编号
func FlattenGroups(groups []EmployeeGroup) Roster {
	var roster Roster
	for gi, g := range groups {
		for _, e := range g.Employees {
			roster = append(roster, Employee{
				Handle:  len(roster),
				Name:    e.Name,
				Group:   gi,
				Windows: e.Windows,
			})
		}
	}
	return roster
}

// AbsenceOn 返回员工在某日的缺勤类型
// 多个时间窗重叠时按列表顺序后者覆盖前者
func (e *Employee) AbsenceOn(date string) (AbsenceKind, bool) {
	var kind AbsenceKind
	found := false
	for _, w := range e.Windows {
		if !w.IsWellFormed() {
			continue
		}
		if w.Covers(date) {
			kind = w.Kind
			found = true
		}
	}
	return kind, found
}
