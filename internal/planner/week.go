package planner

import "sort"

// EntryKindCourse 周视图中课程条目的类型，其余条目沿用日历分类
const EntryKindCourse = "course"

// WeekEntry 周视图中的一个条目
type WeekEntry struct {
	Title string
	Span  Interval
	Kind  string
}

// CourseCalendarConflict 拟选课程某次上课与日历事件冲突
type CourseCalendarConflict struct {
	CourseCode string
	Meeting    Meeting
	Events     []CalendarEvent
}

// Week 拟选课程与现有日历合成的一周安排
type Week struct {
	Days              map[Weekday][]WeekEntry
	Selected          []Course
	UnknownCodes      []string
	CalendarConflicts []CourseCalendarConflict
	CourseConflicts   []PairConflict
	TotalCredits      int
}

// HasConflicts 是否存在任何冲突
func (w *Week) HasConflicts() bool {
	return len(w.CalendarConflicts) > 0 || len(w.CourseConflicts) > 0
}

// BuildWeek 将日历事件与拟选课程排入每日列表（按开始时间稳定排序），
// 同时报告课程与日历、课程与课程的冲突。总学分 = 拟选课程 + 在修课程。
func (s *Snapshot) BuildWeek(codes []string) Week {
	w := Week{
		Days:              make(map[Weekday][]WeekEntry, len(AllWeekdays)),
		Selected:          []Course{},
		UnknownCodes:      []string{},
		CalendarConflicts: []CourseCalendarConflict{},
		CourseConflicts:   []PairConflict{},
	}
	for _, d := range AllWeekdays {
		w.Days[d] = []WeekEntry{}
	}

	for _, code := range codes {
		c, ok := s.FindCourse(code)
		if !ok {
			w.UnknownCodes = append(w.UnknownCodes, CanonicalCode(code))
			continue
		}
		w.Selected = append(w.Selected, *c)
	}

	for _, ev := range s.Calendar {
		if !ev.Day.Valid() {
			continue
		}
		w.Days[ev.Day] = append(w.Days[ev.Day], WeekEntry{Title: ev.Title, Span: ev.Span, Kind: string(ev.Category)})
	}
	for _, c := range w.Selected {
		for _, m := range c.Meetings {
			for _, d := range m.Days {
				if !d.Valid() {
					continue
				}
				w.Days[d] = append(w.Days[d], WeekEntry{Title: c.Code + ": " + c.Name, Span: m.Span, Kind: EntryKindCourse})
			}
			if hits := FindConflicts(m.Days, m.Span, s.Calendar); len(hits) > 0 {
				w.CalendarConflicts = append(w.CalendarConflicts, CourseCalendarConflict{CourseCode: c.Code, Meeting: m, Events: hits})
			}
		}
		w.TotalCredits += c.Credits
	}
	for d := range w.Days {
		entries := w.Days[d]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Span.Start < entries[j].Span.Start })
	}

	w.CourseConflicts = append(w.CourseConflicts, PairwiseConflicts(w.Selected)...)
	for _, c := range s.Profile.Current {
		w.TotalCredits += c.Credits
	}
	return w
}
