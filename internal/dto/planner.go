package dto

// ── 选课规划 DTO ──

// RequirementCourseResponse 培养方案中的一门课
type RequirementCourseResponse struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// GeneralEducationResponse 通识类别要求
type GeneralEducationResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// RequirementsResponse 剩余毕业要求
type RequirementsResponse struct {
	Major                    string                      `json:"major"`
	RemainingCore            []RequirementCourseResponse `json:"remaining_core"`
	CompletedCore            []RequirementCourseResponse `json:"completed_core"`
	CompletedElectives       []RequirementCourseResponse `json:"completed_electives"`
	RemainingElectivesNeeded int                         `json:"remaining_electives_needed"`
	ElectiveOptions          []RequirementCourseResponse `json:"elective_options"`
	RemainingMath            []RequirementCourseResponse `json:"remaining_math"`
	CompletedMath            []RequirementCourseResponse `json:"completed_math"`
	GeneralEducation         []GeneralEducationResponse  `json:"general_education"`
	TotalCredits             int                         `json:"total_credits"`
	RequiredCredits          int                         `json:"required_credits"`
	CreditProgress           int                         `json:"credit_progress"`
}

// SkillBadgeResponse 技能徽章
type SkillBadgeResponse struct {
	Skill       string   `json:"skill"`
	Tier        string   `json:"tier"`
	CourseCount int      `json:"course_count"`
	Courses     []string `json:"courses"`
}

// SkillsResponse 技能徽章列表
type SkillsResponse struct {
	Total  int                  `json:"total"`
	Badges []SkillBadgeResponse `json:"badges"`
}

// ScheduleRequest 拟选课程周视图请求
type ScheduleRequest struct {
	Courses []string `json:"courses" binding:"required,min=1,max=12"`
}

// WeekEntryResponse 周视图条目
type WeekEntryResponse struct {
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Kind      string `json:"kind"` // course | work | club | personal | study
}

// WeekDayResponse 周视图中的一天
type WeekDayResponse struct {
	Day     string              `json:"day"`
	Entries []WeekEntryResponse `json:"entries"`
}

// SelectedCourseResponse 周视图中的拟选课程
type SelectedCourseResponse struct {
	Code       string            `json:"code"`
	Name       string            `json:"name"`
	Credits    int               `json:"credits"`
	Instructor string            `json:"instructor"`
	Meetings   []MeetingResponse `json:"meetings"`
}

// CalendarConflictResponse 拟选课程与日历的冲突
type CalendarConflictResponse struct {
	CourseCode string          `json:"course_code"`
	Meeting    MeetingResponse `json:"meeting"`
	Events     []EventResponse `json:"events"`
}

// CoursePairConflictResponse 两门拟选课程之间的冲突
type CoursePairConflictResponse struct {
	First      string   `json:"first"`
	Second     string   `json:"second"`
	Days       []string `json:"days"`
	FirstTime  string   `json:"first_time"`
	SecondTime string   `json:"second_time"`
}

// WeekResponse 拟选课程周视图
type WeekResponse struct {
	Days              []WeekDayResponse            `json:"days"`
	Selected          []SelectedCourseResponse     `json:"selected"`
	UnknownCodes      []string                     `json:"unknown_codes"`
	CalendarConflicts []CalendarConflictResponse   `json:"calendar_conflicts"`
	CourseConflicts   []CoursePairConflictResponse `json:"course_conflicts"`
	HasConflicts      bool                         `json:"has_conflicts"`
	SelectedCredits   int                          `json:"selected_credits"`
	TotalCredits      int                          `json:"total_credits"` // 拟选 + 在修
}
