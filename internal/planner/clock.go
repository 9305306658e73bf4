package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── 时间与星期的内部表示 ──────────────────────────────────────
//
// 对外契约使用 "HH:MM"（24 小时制）与英文星期全称（Monday … Sunday），
// 内部统一转换为 Weekday 枚举与自零点起的分钟数，区间运算只在整数上进行。
// ─────────────────────────────────────────────────────────────

var (
	ErrInvalidWeekday  = errors.New("无效的星期名称")
	ErrInvalidClock    = errors.New("无效的时间格式，应为 HH:MM")
	ErrInvalidInterval = errors.New("开始时间必须早于结束时间")
	ErrNoDays          = errors.New("至少需要指定一个星期")
)

// Weekday 星期枚举（ISO 8601：1=Monday … 7=Sunday）
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AllWeekdays 按周一到周日排列
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday 解析英文星期全称（忽略大小写与首尾空白）
func ParseWeekday(s string) (Weekday, error) {
	name := strings.TrimSpace(s)
	for d := Monday; d <= Sunday; d++ {
		if strings.EqualFold(name, weekdayNames[d]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// ParseWeekdays 解析星期列表，任一非法即返回错误
func ParseWeekdays(names []string) ([]Weekday, error) {
	if len(names) == 0 {
		return nil, ErrNoDays
	}
	days := make([]Weekday, 0, len(names))
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// WeekdayFromTime 将 time.Weekday (0=Sunday) 转为 ISO 星期
func WeekdayFromTime(wd time.Weekday) Weekday {
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// Valid 是否为合法星期
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.Valid() {
		return "Unknown"
	}
	return weekdayNames[d]
}

func containsDay(days []Weekday, d Weekday) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

// sharedDays 返回两组星期的交集，保持 a 的顺序
func sharedDays(a, b []Weekday) []Weekday {
	var out []Weekday
	for _, d := range a {
		if containsDay(b, d) && !containsDay(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// Clock 自零点起的分钟数（0 … 1439）
type Clock int

// ParseClock 解析 "HH:MM"，小时 00-23，分钟 00-59
func ParseClock(s string) (Clock, error) {
	v := strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(v, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(h*60 + m), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval 半开区间 [Start, End)
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval 由 "HH:MM" 字符串构造区间，要求 start < end
func NewInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps 半开区间重叠判定：首尾相接（a.End == b.Start）不算重叠
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && iv.End > o.Start
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}
