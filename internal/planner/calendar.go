package planner

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// 与 calendar_events 表字段长度一致
const (
	MaxEventIDLen    = 64
	MaxEventTitleLen = 200
)

// Classifier 为未指定分类的事件推断分类
type Classifier interface {
	Classify(title string) Category
}

// ClassifierFunc 函数适配器
type ClassifierFunc func(title string) Category

func (f ClassifierFunc) Classify(title string) Category { return f(title) }

// KeywordClassifier 按标题关键词分类（忽略大小写的子串匹配），兜底为 personal
type KeywordClassifier struct{}

var keywordRules = []struct {
	category Category
	keywords []string
}{
	{CategoryWork, []string{"job", "work", "shift"}},
	{CategoryClub, []string{"club", "meeting"}},
	{CategoryStudy, []string{"study", "homework", "assignment"}},
}

func (KeywordClassifier) Classify(title string) Category {
	t := strings.ToLower(title)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.category
			}
		}
	}
	return CategoryPersonal
}

// EventInput 导入前的原始事件记录（边界字符串形式）
type EventInput struct {
	ID        string
	Title     string
	Day       string
	Start     string
	End       string
	Recurring bool
	Category  string
}

// RejectedEvent 被拒绝的记录及原因
type RejectedEvent struct {
	Index  int
	Input  EventInput
	Reason string
}

// ImportResult 一批导入记录的校验结果
type ImportResult struct {
	Accepted []CalendarEvent
	Rejected []RejectedEvent
}

// PrepareImport 逐条校验待追加记录，非法记录单独拒绝，不影响其余记录。
// 已有事件不会被修改；ID 为空时由 newID 生成，ID 与已有或同批记录重复则拒绝。
func PrepareImport(existing []CalendarEvent, batch []EventInput, classify Classifier, newID func() string) ImportResult {
	if classify == nil {
		classify = KeywordClassifier{}
	}
	ids := make(map[string]bool, len(existing)+len(batch))
	for _, ev := range existing {
		ids[ev.ID] = true
	}

	res := ImportResult{Accepted: []CalendarEvent{}, Rejected: []RejectedEvent{}}
	for i, in := range batch {
		ev, reason := validateEvent(in, classify)
		if reason == "" {
			ev.ID = strings.TrimSpace(in.ID)
			if ev.ID == "" && newID != nil {
				ev.ID = newID()
			}
			switch {
			case ev.ID == "":
				reason = "missing id"
			case utf8.RuneCountInString(ev.ID) > MaxEventIDLen:
				reason = fmt.Sprintf("id longer than %d characters", MaxEventIDLen)
			case ids[ev.ID]:
				reason = fmt.Sprintf("duplicate id %q", ev.ID)
			}
		}
		if reason != "" {
			res.Rejected = append(res.Rejected, RejectedEvent{Index: i, Input: in, Reason: reason})
			continue
		}
		ids[ev.ID] = true
		res.Accepted = append(res.Accepted, ev)
	}
	return res
}

func validateEvent(in EventInput, classify Classifier) (CalendarEvent, string) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CalendarEvent{}, "missing title"
	}
	if utf8.RuneCountInString(title) > MaxEventTitleLen {
		return CalendarEvent{}, fmt.Sprintf("title longer than %d characters", MaxEventTitleLen)
	}
	day, err := ParseWeekday(in.Day)
	if err != nil {
		return CalendarEvent{}, fmt.Sprintf("unknown day %q", in.Day)
	}
	start, err := ParseClock(in.Start)
	if err != nil {
		return CalendarEvent{}, fmt.Sprintf("malformed start time %q", in.Start)
	}
	end, err := ParseClock(in.End)
	if err != nil {
		return CalendarEvent{}, fmt.Sprintf("malformed end time %q", in.End)
	}
	if start >= end {
		return CalendarEvent{}, fmt.Sprintf("start %s is not before end %s", start, end)
	}

	category := Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if category == "" {
		category = classify.Classify(title)
	} else if !category.Valid() {
		return CalendarEvent{}, fmt.Sprintf("unknown category %q", in.Category)
	}

	return CalendarEvent{
		Title:     title,
		Day:       day,
		Span:      Interval{Start: start, End: end},
		Recurring: in.Recurring,
		Category:  category,
	}, ""
}

// GroupByDay 按星期分组日历事件（周一到周日，组内保持原顺序，跳过空白日）
func GroupByDay(calendar []CalendarEvent) []DayEvents {
	out := []DayEvents{}
	for _, d := range AllWeekdays {
		var events []CalendarEvent
		for _, ev := range calendar {
			if ev.Day == d {
				events = append(events, ev)
			}
		}
		if len(events) > 0 {
			out = append(out, DayEvents{Day: d, Events: events})
		}
	}
	return out
}

// DayEvents 某一天的日历事件
type DayEvents struct {
	Day    Weekday
	Events []CalendarEvent
}
