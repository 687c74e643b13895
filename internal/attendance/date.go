package attendance

import (
	"fmt"
	"time"
)

// ── 民用日期（Civil Date）──────────────────────────────────
//
// 考勤核心只处理"某一天"这个概念，不处理时刻。所有带时区的
// 时间戳必须在 Service 边界统一折算为 IST（Asia/Kolkata）的
// 民用日期后再进入本包，包内比较、迭代一律基于 Date 值。
// ─────────────────────────────────────────────────────────────

// DateLayout 日期的标准字符串格式（ISO 8601 日期部分）
const DateLayout = "2006-01-02"

// Weekday 三字母星期名，MON..SUN
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

// Weekdays 全部星期名，按 MON=0 .. SUN=6 排序
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index 返回星期序号（MON=0 .. SUN=6），未知名称返回 -1
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// IsWeekend 是否为周末（周课表不含周末常规事件）
func (w Weekday) IsWeekend() bool {
	return w == Saturday || w == Sunday
}

// Date 不带时区的民用日期
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate 构造民用日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf 将一个时刻按给定时区折算为民用日期
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate 解析 "YYYY-MM-DD" 格式的日期字符串
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式无效 %q: %w", s, err)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

// String 输出 "YYYY-MM-DD"
func (d Date) String() string {
	return d.toTime().Format(DateLayout)
}

// toTime 内部换算用，固定 UTC 仅作日历运算，不代表时刻
func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Next 后一天
func (d Date) Next() Date {
	y, m, day := d.toTime().AddDate(0, 0, 1).Date()
	return Date{Year: y, Month: m, Day: day}
}

// Weekday 该日期的星期名
func (d Date) Weekday() Weekday {
	// time.Weekday: Sunday=0，映射到 MON=0..SUN=6
	return Weekdays[(int(d.toTime().Weekday())+6)%7]
}

// Compare 返回 -1/0/1
func (d Date) Compare(o Date) int {
	a, b := d.toTime(), o.toTime()
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// Before 严格早于
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After 严格晚于
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Equal 同一天
func (d Date) Equal(o Date) bool { return d.Compare(o) == 0 }
