package planner

// FindConflicts 返回与给定时间段冲突的日历事件，保持日历原有顺序。
// 事件需同时满足：星期在 days 中，且与 span 按半开区间重叠。
// 首尾相接不冲突；days 为空时恒无冲突。
func FindConflicts(days []Weekday, span Interval, calendar []CalendarEvent) []CalendarEvent {
	var out []CalendarEvent
	if len(days) == 0 {
		return out
	}
	for _, ev := range calendar {
		if !containsDay(days, ev.Day) {
			continue
		}
		if span.Overlaps(ev.Span) {
			out = append(out, ev)
		}
	}
	return out
}

// CheckSlot 边界入口：解析字符串形式的星期与时间后检测冲突
func CheckSlot(dayNames []string, start, end string, calendar []CalendarEvent) ([]CalendarEvent, error) {
	days, err := ParseWeekdays(dayNames)
	if err != nil {
		return nil, err
	}
	span, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	return FindConflicts(days, span, calendar), nil
}

// MeetingConflict 某次上课与日历事件的冲突
type MeetingConflict struct {
	Meeting Meeting
	Event   CalendarEvent
}

// CourseConflicts 对目录课程的每组上课时间依次检测冲突并展开。
// 同一事件可能因多组上课时间而重复出现。
func (s *Snapshot) CourseConflicts(code string) (*Course, []MeetingConflict, bool) {
	course, ok := s.FindCourse(code)
	if !ok {
		return nil, nil, false
	}
	return course, meetingConflicts(course, s.Calendar), true
}

func meetingConflicts(course *Course, calendar []CalendarEvent) []MeetingConflict {
	var out []MeetingConflict
	for _, m := range course.Meetings {
		for _, ev := range FindConflicts(m.Days, m.Span, calendar) {
			out = append(out, MeetingConflict{Meeting: m, Event: ev})
		}
	}
	return out
}

// PairConflict 两门拟选课程之间的时间冲突
type PairConflict struct {
	First      string
	Second     string
	FirstSpan  Interval
	SecondSpan Interval
	Days       []Weekday
}

// PairwiseConflicts 检查拟选课程两两之间的冲突，规则与日历冲突一致
func PairwiseConflicts(courses []Course) []PairConflict {
	var out []PairConflict
	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			a, b := courses[i], courses[j]
			for _, ma := range a.Meetings {
				for _, mb := range b.Meetings {
					shared := sharedDays(ma.Days, mb.Days)
					if len(shared) == 0 || !ma.Span.Overlaps(mb.Span) {
						continue
					}
					out = append(out, PairConflict{
						First:      a.Code,
						Second:     b.Code,
						FirstSpan:  ma.Span,
						SecondSpan: mb.Span,
						Days:       shared,
					})
				}
			}
		}
	}
	return out
}
