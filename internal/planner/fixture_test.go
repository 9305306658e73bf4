package planner

import "testing"

// ── 测试辅助 ──

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%s, %s) 失败: %v", start, end, err)
	}
	return iv
}

func event(t *testing.T, id, title string, day Weekday, start, end string, cat Category) CalendarEvent {
	t.Helper()
	return CalendarEvent{ID: id, Title: title, Day: day, Span: mustInterval(t, start, end), Recurring: true, Category: cat}
}

func meeting(t *testing.T, start, end string, days ...Weekday) Meeting {
	t.Helper()
	return Meeting{Days: days, Span: mustInterval(t, start, end)}
}

// newFixtureSnapshot 构造一个大三计算机专业学生的快照
func newFixtureSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	return &Snapshot{
		Catalog: []Course{
			{
				Code: "CS 370", Name: "Software Engineering", Department: "Computer Science", Credits: 3,
				Prerequisites: []string{"CS 201", "CS 301"},
				Meetings:      []Meeting{meeting(t, "10:30", "11:45", Monday, Wednesday)},
				Instructor:    "Dr. Sarah Chen", Tags: []string{"core", "project-heavy"},
			},
			{
				Code: "CS 380", Name: "Computer Networks", Department: "Computer Science", Credits: 3,
				Prerequisites: []string{"CS 210", "CS 350"},
				Meetings:      []Meeting{meeting(t, "09:00", "10:15", Tuesday, Thursday)},
				Instructor:    "Prof. James Morton", Tags: []string{"core", "exam-heavy"},
			},
			{
				Code: "CS 410", Name: "Machine Learning", Department: "Computer Science", Credits: 3,
				Prerequisites: []string{"CS 301", "MATH 251", "MATH 253"},
				Meetings:      []Meeting{meeting(t, "13:00", "13:50", Monday, Wednesday, Friday)},
				Instructor:    "Dr. Priya Patel", Tags: []string{"elective", "math-heavy", "popular"},
			},
			{
				Code: "CS 440", Name: "Cybersecurity", Department: "Computer Science", Credits: 3,
				Prerequisites: []string{"CS 380"},
				Meetings:      []Meeting{meeting(t, "15:30", "16:45", Monday, Wednesday)},
				Instructor:    "Prof. Lisa Nakamura", Tags: []string{"elective", "lab-heavy"},
			},
			{
				Code: "CS 460", Name: "Mobile App Development", Department: "Computer Science", Credits: 3,
				Prerequisites: []string{"CS 201"},
				Meetings:      []Meeting{meeting(t, "09:00", "10:15", Monday, Wednesday)},
				Instructor:    "Prof. Rachel Kim", Tags: []string{"elective", "beginner-friendly"},
			},
			{
				Code: "MATH 310", Name: "Numerical Analysis", Department: "Mathematics", Credits: 3,
				Prerequisites: []string{"MATH 152", "MATH 251"},
				Meetings:      []Meeting{meeting(t, "09:00", "09:50", Monday, Wednesday, Friday)},
				Instructor:    "Dr. Anna Kowalski", Tags: []string{"math-minor"},
			},
			{
				Code: "PHIL 210", Name: "Ethics in Technology", Department: "Philosophy", Credits: 3,
				Meetings:   []Meeting{meeting(t, "16:00", "17:15", Tuesday, Thursday)},
				Instructor: "Prof. Carla Reyes", Tags: []string{"general-ed", "humanities"},
			},
		},
		Calendar: []CalendarEvent{
			event(t, "cal-1", "Part-time Job - Coffee Shop", Monday, "07:00", "10:00", CategoryWork),
			event(t, "cal-2", "Part-time Job - Coffee Shop", Wednesday, "07:00", "10:00", CategoryWork),
			event(t, "cal-4", "ACM Club Meeting", Tuesday, "17:00", "18:30", CategoryClub),
			event(t, "cal-5", "Gym / Workout", Monday, "17:00", "18:30", CategoryPersonal),
		},
		Profile: Profile{
			StudentID: "stu-001",
			Name:      "Alex Rivera",
			Completed: []CompletedCourse{
				{Code: "CS 101", Credits: 3}, {Code: "CS 201", Credits: 3}, {Code: "CS 210", Credits: 3},
				{Code: "CS 220", Credits: 3}, {Code: "CS 301", Credits: 3},
				{Code: "MATH 151", Credits: 4}, {Code: "MATH 152", Credits: 4},
				{Code: "MATH 251", Credits: 3}, {Code: "MATH 253", Credits: 3},
			},
			Current: []CurrentCourse{
				{Code: "CS 350", Credits: 3}, {Code: "CS 360", Credits: 3}, {Code: "MATH 310", Credits: 3},
			},
			TotalCredits:    52,
			RequiredCredits: 120,
		},
		Reviews: []Review{
			{ID: "r-001", CourseCode: "CS 370", Rating: 4.5, Difficulty: 3, Upvotes: 45, CreatedAt: "2025-05-15"},
			{ID: "r-002", CourseCode: "CS 370", Rating: 4.0, Difficulty: 4, Upvotes: 32, CreatedAt: "2025-05-18"},
			{ID: "r-003", CourseCode: "CS 370", Rating: 5.0, Difficulty: 3, Upvotes: 67, CreatedAt: "2024-12-20"},
			{ID: "r-006", CourseCode: "CS 410", Rating: 4.8, Difficulty: 5, Upvotes: 89, CreatedAt: "2025-05-12"},
			{ID: "r-099", CourseCode: "ART 100", Rating: 2.0, Difficulty: 1, Upvotes: 1, CreatedAt: "2025-01-01"},
		},
		Degree: DegreeTemplate{
			Major: "Computer Science",
			Core: []RequiredCourse{
				{Code: "CS 101"}, {Code: "CS 201"}, {Code: "CS 210"}, {Code: "CS 220"}, {Code: "CS 301"},
				{Code: "CS 350"}, {Code: "CS 360"}, {Code: "CS 370"}, {Code: "CS 380"}, {Code: "CS 490"},
			},
			ElectivePool: []RequiredCourse{
				{Code: "CS 410"}, {Code: "CS 420"}, {Code: "CS 430"}, {Code: "CS 440"},
				{Code: "CS 450"}, {Code: "CS 460"}, {Code: "CS 470"}, {Code: "CS 480"},
			},
			ElectiveRequired: 4,
			Math:             []RequiredCourse{{Code: "MATH 151"}, {Code: "MATH 152"}, {Code: "MATH 251"}, {Code: "MATH 253"}},
			GeneralEducation: []GeneralEducation{{Category: "english", Count: 2}, {Category: "science", Count: 2}},
		},
		Skills: map[string][]string{
			"CS 101":   {"Programming Fundamentals", "Problem Solving"},
			"CS 201":   {"Data Structures", "Problem Solving", "Programming Fundamentals"},
			"CS 210":   {"Systems Thinking"},
			"CS 301":   {"Problem Solving"},
			"CS 350":   {"Systems Thinking"},
			"CS 360":   {"Systems Thinking", "SQL"},
			"MATH 151": {"Calculus"},
			"MATH 152": {"Calculus"},
			"MATH 310": {"Calculus"},
		},
	}
}
