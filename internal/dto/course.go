package dto

// ── 课程目录 DTO ──

// CourseListQuery 课程列表查询参数
type CourseListQuery struct {
	Q      string `form:"q"`
	Filter string `form:"filter"` // all | eligible | cs | math | other
}

// MeetingResponse 一组上课时间
type MeetingResponse struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// CourseResponse 课程信息
type CourseResponse struct {
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Department    string            `json:"department"`
	Credits       int               `json:"credits"`
	Description   string            `json:"description"`
	Prerequisites []string          `json:"prerequisites"`
	Meetings      []MeetingResponse `json:"meetings"`
	Instructor    string            `json:"instructor"`
	Capacity      int               `json:"capacity"`
	Enrolled      int               `json:"enrolled"`
	SeatsLeft     int               `json:"seats_left"`
	Term          string            `json:"term"`
	Tags          []string          `json:"tags"`
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int               `json:"review_count"`
}

// CourseListResponse 课程列表
type CourseListResponse struct {
	Query   string           `json:"query,omitempty"`
	Filter  string           `json:"filter"`
	Total   int              `json:"total"`
	Courses []CourseResponse `json:"courses"`
}

// PrerequisiteResponse 先修条件检查结果
type PrerequisiteResponse struct {
	CourseCode    string   `json:"course_code"`
	CourseExists  bool     `json:"course_exists"`
	Met           bool     `json:"met"`
	Missing       []string `json:"missing"`
	Prerequisites []string `json:"prerequisites"`
}

// MeetingConflictResponse 某组上课时间与日历事件的冲突
type MeetingConflictResponse struct {
	Meeting MeetingResponse `json:"meeting"`
	Event   EventResponse   `json:"event"`
}

// CourseConflictResponse 课程与日历冲突检查结果
type CourseConflictResponse struct {
	CourseCode   string                    `json:"course_code"`
	CourseName   string                    `json:"course_name"`
	HasConflicts bool                      `json:"has_conflicts"`
	Conflicts    []MeetingConflictResponse `json:"conflicts"`
}
