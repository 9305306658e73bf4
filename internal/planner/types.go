package planner

// ════════════════════════════════════════════════════════════
// 排课引擎领域模型
//
// Snapshot 是所有评估函数的显式上下文：每次请求由 service 层
// 从数据库装配，引擎内部不持有任何全局状态。
// ════════════════════════════════════════════════════════════

// Category 日历事件分类
type Category string

const (
	CategoryWork     Category = "work"
	CategoryClub     Category = "club"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
)

// Valid 是否为已知分类
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryClub, CategoryPersonal, CategoryStudy:
		return true
	}
	return false
}

// Meeting 课程的一组上课时间（多天共用同一时间段）
type Meeting struct {
	Days []Weekday
	Span Interval
}

// Course 目录中的一门课程
type Course struct {
	Code          string
	Name          string
	Department    string
	Credits       int
	Description   string
	Prerequisites []string
	Meetings      []Meeting
	Instructor    string
	Capacity      int
	Enrolled      int
	Term          string
	Tags          []string
}

// CalendarEvent 学生日历中的一条周期性事务
type CalendarEvent struct {
	ID        string
	Title     string
	Day       Weekday
	Span      Interval
	Recurring bool
	Category  Category
}

// CompletedCourse 已修课程
type CompletedCourse struct {
	Code    string
	Name    string
	Grade   string
	Term    string
	Credits int
}

// CurrentCourse 在修课程
type CurrentCourse struct {
	Code    string
	Name    string
	Credits int
}

// Profile 学生档案
type Profile struct {
	StudentID       string
	Name            string
	Email           string
	Year            string
	Majors          []string
	Minors          []string
	GPA             float64
	Completed       []CompletedCourse
	Current         []CurrentCourse
	TotalCredits    int
	RequiredCredits int
}

// Review 课程评价（course code 不唯一，也可能指向目录中不存在的课程）
type Review struct {
	ID            string
	CourseCode    string
	Rating        float64
	Difficulty    float64
	Workload      string
	TeachingStyle string
	Comment       string
	Grade         string
	Term          string
	Anonymous     bool
	Upvotes       int
	CreatedAt     string // YYYY-MM-DD，按字典序比较
}

// RequiredCourse 培养方案中的一门课
type RequiredCourse struct {
	Code    string
	Name    string
	Credits int
}

// GeneralEducation 通识类别与需修门数
type GeneralEducation struct {
	Category string
	Count    int
}

// DegreeTemplate 专业培养方案模板
type DegreeTemplate struct {
	Major            string
	Core             []RequiredCourse
	ElectivePool     []RequiredCourse
	ElectiveRequired int
	Math             []RequiredCourse
	GeneralEducation []GeneralEducation
}

// Snapshot 一次评估所需的全部数据
type Snapshot struct {
	Catalog  []Course
	Calendar []CalendarEvent
	Profile  Profile
	Reviews  []Review
	Degree   DegreeTemplate
	Skills   map[string][]string
}

// FindCourse 按规范化代码查找课程
func (s *Snapshot) FindCourse(code string) (*Course, bool) {
	key := CanonicalCode(code)
	for i := range s.Catalog {
		if CanonicalCode(s.Catalog[i].Code) == key {
			return &s.Catalog[i], true
		}
	}
	return nil, false
}

// takenSet 已修 ∪ 在修课程代码集合
func (s *Snapshot) takenSet() map[string]bool {
	set := make(map[string]bool, len(s.Profile.Completed)+len(s.Profile.Current))
	for _, c := range s.Profile.Completed {
		set[CanonicalCode(c.Code)] = true
	}
	for _, c := range s.Profile.Current {
		set[CanonicalCode(c.Code)] = true
	}
	return set
}
