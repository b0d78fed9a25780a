// Package calendar 将排班周期配置解析为具体日期序列
package calendar

import (
	"fmt"
	"time"

	apperrors "github.com/Berner89/hospital-staff-scheduler/pkg/errors"
	"github.com/Berner89/hospital-staff-scheduler/pkg/model"
)

// Timeline 解析后的日期序列
// 日期按本地时区构造，天序 d 的取值范围为 [0, NumDays)
type Timeline struct {
	dates   []time.Time
	strings []string
}

// Resolve 解析周期配置
// 整月模式取该月实际天数（闰年正确），区间模式取起始日期加天数
func Resolve(p model.Period) (*Timeline, error) {
	var first time.Time
	var numDays int

	if p.IsMonth() {
		if p.Month < 1 || p.Month > 12 {
			return nil, apperrors.InvalidPeriod(fmt.Sprintf("月份 %d 越界", p.Month))
		}
		if p.Year < 1 {
			return nil, apperrors.InvalidPeriod(fmt.Sprintf("年份 %d 无效", p.Year))
		}
		first = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.Local)
		// 下月第0天即本月最后一天
		numDays = time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.Local).Day()
	} else {
		start, err := time.ParseInLocation(model.DateLayout, p.StartDate, time.Local)
		if err != nil {
			return nil, apperrors.InvalidPeriod("起始日期格式应为 YYYY-MM-DD").WithCause(err)
		}
		if p.DurationDays <= 0 {
			return nil, apperrors.InvalidPeriod(fmt.Sprintf("天数 %d 必须为正", p.DurationDays))
		}
		first = start
		numDays = p.DurationDays
	}

	tl := &Timeline{
		dates:   make([]time.Time, numDays),
		strings: make([]string, numDays),
	}
	for d := 0; d < numDays; d++ {
		date := first.AddDate(0, 0, d)
		tl.dates[d] = date
		tl.strings[d] = date.Format(model.DateLayout)
	}
	return tl, nil
}

// NumDays 返回周期天数
func (t *Timeline) NumDays() int {
	return len(t.dates)
}

// Date 返回天序对应的日期
func (t *Timeline) Date(d int) time.Time {
	return t.dates[d]
}

// DateString 返回天序对应的 YYYY-MM-DD 字符串
func (t *Timeline) DateString(d int) string {
	return t.strings[d]
}

// IsWeekend 检查天序是否为周末（周六或周日）
func (t *Timeline) IsWeekend(d int) bool {
	wd := t.dates[d].Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartDate 返回周期首日字符串
func (t *Timeline) StartDate() string {
	if len(t.strings) == 0 {
		return ""
	}
	return t.strings[0]
}

// EndDate 返回周期末日字符串
func (t *Timeline) EndDate() string {
	if len(t.strings) == 0 {
		return ""
	}
	return t.strings[len(t.strings)-1]
}

// DateStrings 返回全部日期字符串
func (t *Timeline) DateStrings() []string {
	out := make([]string, len(t.strings))
	copy(out, t.strings)
	return out
}
