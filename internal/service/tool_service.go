package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
)

// ── 对话工具层业务错误 ──

var (
	ErrUnknownTool          = errors.New("未知的工具名称")
	ErrInvalidToolArguments = errors.New("工具参数格式错误")
)

// ── ToolService 接口 ────────────────────────────────────────
//
// 设计说明：
//   - 工具结果面向 LLM 提示词，字段使用 camelCase，说明文字为英文
//   - 课程不存在等情况写入结果中的 note / error 字段，不作为错误返回
//   - 只有未知工具与无法解码的参数返回错误
// ─────────────────────────────────────────────────────────────

// ToolService 对话工具层业务接口
type ToolService interface {
	// Definitions 列出全部工具及参数说明
	Definitions() []dto.ToolDefinition
	// Invoke 以 JSON 参数调用指定工具
	Invoke(ctx context.Context, studentID, name string, args json.RawMessage) (*dto.ToolResult, error)
	// DetectContext 从用户消息中识别课程代码与意图，返回可拼入提示词的上下文
	DetectContext(ctx context.Context, studentID, message string) (*dto.ContextResponse, error)
}

// 工具名称
const (
	ToolSearchCourses      = "searchCourses"
	ToolGetRequirements    = "getRequirements"
	ToolCheckConflicts     = "checkConflicts"
	ToolCheckPrerequisites = "checkPrerequisites"
	ToolGetCourseReviews   = "getCourseReviews"
	ToolGetCalendar        = "getCalendar"
	ToolBuildSchedule      = "buildSchedule"
	ToolGetSkills          = "getSkills"
)

// 上下文意图
const (
	IntentRequirements = "requirements"
	IntentCalendar     = "calendar"
	IntentSkills       = "skills"
	IntentReviews      = "reviews"
)

var intentPatterns = []struct {
	intent  string
	pattern *regexp.Regexp
}{
	{IntentRequirements, regexp.MustCompile(`(?i)\b(requirements?|required|graduat\w*|electives?|core|degree|remaining|still need)\b`)},
	{IntentCalendar, regexp.MustCompile(`(?i)\b(calendar|schedules?|conflicts?|free time|busy|availability|week)\b`)},
	{IntentSkills, regexp.MustCompile(`(?i)\b(skills?|badges?|strengths?)\b`)},
	{IntentReviews, regexp.MustCompile(`(?i)\b(reviews?|ratings?|rated|professor|instructor|difficult\w*|workload|teaching|easy|hard)\b`)},
}

type toolHandler func(s *toolService, ctx context.Context, studentID string, args json.RawMessage) (interface{}, error)

type toolService struct {
	snapshots *SnapshotBuilder
	planner   PlannerService
	logger    *zap.Logger
	handlers  map[string]toolHandler
}

// NewToolService 创建 ToolService 实例
func NewToolService(snapshots *SnapshotBuilder, plannerSvc PlannerService, logger *zap.Logger) ToolService {
	return &toolService{
		snapshots: snapshots,
		planner:   plannerSvc,
		logger:    logger,
		handlers: map[string]toolHandler{
			ToolSearchCourses:      (*toolService).searchCourses,
			ToolGetRequirements:    (*toolService).getRequirements,
			ToolCheckConflicts:     (*toolService).checkConflicts,
			ToolCheckPrerequisites: (*toolService).checkPrerequisites,
			ToolGetCourseReviews:   (*toolService).getCourseReviews,
			ToolGetCalendar:        (*toolService).getCalendar,
			ToolBuildSchedule:      (*toolService).buildSchedule,
			ToolGetSkills:          (*toolService).getSkills,
		},
	}
}

func (s *toolService) Definitions() []dto.ToolDefinition {
	courseCode := dto.ToolParameter{Type: "string", Description: `The course code to check, e.g. "CS 370"`}
	none := map[string]dto.ToolParameter{}
	return []dto.ToolDefinition{
		{
			Name:        ToolSearchCourses,
			Description: "Search for available courses by department, name, code, instructor or tag.",
			Parameters: map[string]dto.ToolParameter{
				"query":  {Type: "string", Description: `Search query: a course code, name, department, or tag like "elective"`},
				"filter": {Type: "string", Description: "Optional catalog filter", Enum: []string{"all", "eligible", "cs", "math", "other"}},
			},
			Required: []string{"query"},
		},
		{
			Name:        ToolGetRequirements,
			Description: "Get the remaining degree requirements: core courses, electives and math still needed.",
			Parameters:  none,
			Required:    []string{},
		},
		{
			Name:        ToolCheckConflicts,
			Description: "Check whether a course's meetings conflict with the student's calendar commitments.",
			Parameters:  map[string]dto.ToolParameter{"courseCode": courseCode},
			Required:    []string{"courseCode"},
		},
		{
			Name:        ToolCheckPrerequisites,
			Description: "Check whether the student meets the prerequisites for a course.",
			Parameters:  map[string]dto.ToolParameter{"courseCode": courseCode},
			Required:    []string{"courseCode"},
		},
		{
			Name:        ToolGetCourseReviews,
			Description: "Get student reviews for a course: ratings, difficulty, workload and teaching style.",
			Parameters: map[string]dto.ToolParameter{
				"courseCode": courseCode,
				"sort":       {Type: "string", Description: "Optional review order", Enum: []string{"recent", "rating", "upvotes", "difficulty"}},
			},
			Required: []string{"courseCode"},
		},
		{
			Name:        ToolGetCalendar,
			Description: "Get the student's recurring weekly commitments grouped by day.",
			Parameters:  none,
			Required:    []string{},
		},
		{
			Name:        ToolBuildSchedule,
			Description: "Lay out a week with the selected courses plus existing calendar events and report conflicts.",
			Parameters: map[string]dto.ToolParameter{
				"courseCodes": {Type: "array", Items: "string", Description: "Course codes to include in the schedule"},
			},
			Required: []string{"courseCodes"},
		},
		{
			Name:        ToolGetSkills,
			Description: "Get the skill badges earned from completed and current courses.",
			Parameters:  none,
			Required:    []string{},
		},
	}
}

func (s *toolService) Invoke(ctx context.Context, studentID, name string, args json.RawMessage) (*dto.ToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, ErrUnknownTool
	}
	result, err := handler(s, ctx, studentID, args)
	if err != nil {
		return nil, err
	}
	return &dto.ToolResult{Tool: name, Result: result}, nil
}

// ════════════════════════════════════════════════════════════
// 工具实现
// ════════════════════════════════════════════════════════════

type courseCodeArgs struct {
	CourseCode string `json:"courseCode"`
	Sort       string `json:"sort"`
}

type searchArgs struct {
	Query  string `json:"query"`
	Filter string `json:"filter"`
}

type scheduleArgs struct {
	CourseCodes []string `json:"courseCodes"`
}

type toolCourse struct {
	Code          string   `json:"code"`
	Name          string   `json:"name"`
	Credits       int      `json:"credits"`
	Instructor    string   `json:"instructor"`
	Schedule      string   `json:"schedule"`
	Enrolled      string   `json:"enrolled"`
	Prerequisites string   `json:"prerequisites"`
	Tags          []string `json:"tags"`
	Description   string   `json:"description"`
}

type toolSearchResult struct {
	Query   string       `json:"query"`
	Count   int          `json:"count"`
	Courses []toolCourse `json:"courses"`
	Note    string       `json:"note,omitempty"`
}

func (s *toolService) searchCourses(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	var args searchArgs
	if err := decodeToolArgs(raw, &args); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	filter := planner.Filter(strings.ToLower(strings.TrimSpace(args.Filter)))
	if !filter.Valid() {
		filter = planner.FilterAll
	}
	courses := snap.FilterCourses(snap.Search(args.Query), filter)

	res := toolSearchResult{Query: args.Query, Count: len(courses), Courses: make([]toolCourse, 0, len(courses))}
	for _, c := range courses {
		prereqs := "None"
		if len(c.Prerequisites) > 0 {
			prereqs = strings.Join(c.Prerequisites, ", ")
		}
		res.Courses = append(res.Courses, toolCourse{
			Code:          c.Code,
			Name:          c.Name,
			Credits:       c.Credits,
			Instructor:    c.Instructor,
			Schedule:      strings.Join(meetingLabels(c.Meetings), ", "),
			Enrolled:      fmt.Sprintf("%d/%d", c.Enrolled, c.Capacity),
			Prerequisites: prereqs,
			Tags:          append([]string{}, c.Tags...),
			Description:   c.Description,
		})
	}
	if len(courses) == 0 {
		res.Note = fmt.Sprintf("No courses match %q.", args.Query)
	}
	return res, nil
}

type toolRequirementsResult struct {
	Major                string   `json:"major"`
	RemainingCoreCourses []string `json:"remainingCoreCourses"`
	ElectivesNeeded      int      `json:"electivesNeeded"`
	ElectiveOptions      []string `json:"electiveOptions"`
	RemainingMath        []string `json:"remainingMath"`
	CompletedCoreCount   int      `json:"completedCoreCount"`
	TotalCoreRequired    int      `json:"totalCoreRequired"`
	GeneralEducation     []string `json:"generalEducation"`
	CreditsCompleted     string   `json:"creditsCompleted"`
	CreditProgress       string   `json:"creditProgress"`
}

func (s *toolService) getRequirements(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	if err := decodeToolArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	r := snap.RemainingRequirements()

	general := make([]string, 0, len(r.GeneralEducation))
	for _, g := range r.GeneralEducation {
		general = append(general, fmt.Sprintf("%s: %d course(s)", g.Category, g.Count))
	}
	return toolRequirementsResult{
		Major:                r.Major,
		RemainingCoreCourses: requirementLabels(r.RemainingCore),
		ElectivesNeeded:      r.RemainingElectivesNeeded,
		ElectiveOptions:      requirementLabels(r.ElectiveOptions),
		RemainingMath:        requirementLabels(r.RemainingMath),
		CompletedCoreCount:   len(r.CompletedCore),
		TotalCoreRequired:    len(r.CompletedCore) + len(r.RemainingCore),
		GeneralEducation:     general,
		CreditsCompleted:     fmt.Sprintf("%d/%d", r.TotalCredits, r.RequiredCredits),
		CreditProgress:       fmt.Sprintf("%d%%", r.CreditProgress),
	}, nil
}

type toolEvent struct {
	Event string `json:"event"`
	Day   string `json:"day"`
	Time  string `json:"time"`
	Type  string `json:"type"`
}

type toolConflictResult struct {
	CourseCode     string      `json:"courseCode"`
	CourseName     string      `json:"courseName,omitempty"`
	CourseSchedule []string    `json:"courseSchedule,omitempty"`
	HasConflicts   bool        `json:"hasConflicts"`
	Conflicts      []toolEvent `json:"conflicts"`
	CalendarNote   string      `json:"calendarNote,omitempty"`
	Error          string      `json:"error,omitempty"`
}

func (s *toolService) checkConflicts(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	var args courseCodeArgs
	if err := decodeToolArgs(raw, &args); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	course, conflicts, ok := snap.CourseConflicts(args.CourseCode)
	if !ok {
		return toolConflictResult{
			CourseCode: planner.CanonicalCode(args.CourseCode),
			Conflicts:  []toolEvent{},
			Error:      fmt.Sprintf("Course %s not found.", strings.TrimSpace(args.CourseCode)),
		}, nil
	}

	res := toolConflictResult{
		CourseCode:     course.Code,
		CourseName:     course.Name,
		CourseSchedule: meetingLabels(course.Meetings),
		HasConflicts:   len(conflicts) > 0,
		Conflicts:      make([]toolEvent, 0, len(conflicts)),
		CalendarNote:   "No conflicts found with existing calendar events.",
	}
	for _, c := range conflicts {
		res.Conflicts = append(res.Conflicts, eventLabel(c.Event))
	}
	if res.HasConflicts {
		res.CalendarNote = fmt.Sprintf("This course conflicts with %d event(s) on the student's calendar.", len(conflicts))
	}
	return res, nil
}

type toolPrerequisiteResult struct {
	CourseCode           string   `json:"courseCode"`
	CourseName           string   `json:"courseName"`
	PrerequisitesMet     bool     `json:"prerequisitesMet"`
	MissingPrerequisites []string `json:"missingPrerequisites"`
	AllPrerequisites     []string `json:"allPrerequisites"`
	Note                 string   `json:"note"`
}

func (s *toolService) checkPrerequisites(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	var args courseCodeArgs
	if err := decodeToolArgs(raw, &args); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	r := snap.CheckPrerequisites(args.CourseCode)
	res := toolPrerequisiteResult{
		CourseCode:           r.CourseCode,
		CourseName:           "Unknown",
		PrerequisitesMet:     r.Met,
		MissingPrerequisites: append([]string{}, r.Missing...),
		AllPrerequisites:     append([]string{}, r.All...),
	}
	switch {
	case !r.CourseExists:
		res.Note = fmt.Sprintf("Course %s was not found in the catalog.", r.CourseCode)
	case r.Met:
		res.Note = "The student meets all prerequisites for this course."
	default:
		res.Note = fmt.Sprintf("The student is missing: %s. They cannot enroll until these are completed.", strings.Join(r.Missing, ", "))
	}
	if c, ok := snap.FindCourse(r.CourseCode); ok {
		res.CourseName = c.Name
	}
	return res, nil
}

type toolReview struct {
	Rating        string `json:"rating"`
	Difficulty    string `json:"difficulty"`
	Workload      string `json:"workload"`
	TeachingStyle string `json:"teachingStyle"`
	Comment       string `json:"comment"`
	Grade         string `json:"grade"`
	Semester      string `json:"semester"`
	Upvotes       int    `json:"upvotes"`
}

type toolReviewsResult struct {
	CourseCode    string       `json:"courseCode"`
	CourseName    string       `json:"courseName,omitempty"`
	AverageRating string       `json:"averageRating,omitempty"`
	TotalReviews  int          `json:"totalReviews"`
	Reviews       []toolReview `json:"reviews"`
	Message       string       `json:"message,omitempty"`
}

func (s *toolService) getCourseReviews(ctx context.Context, _ string, raw json.RawMessage) (interface{}, error) {
	var args courseCodeArgs
	if err := decodeToolArgs(raw, &args); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Reference(ctx)
	if err != nil {
		return nil, err
	}

	code := planner.CanonicalCode(args.CourseCode)
	reviews := snap.ReviewsFor(code)
	if len(reviews) == 0 {
		return toolReviewsResult{CourseCode: code, Reviews: []toolReview{}, Message: "No reviews found for this course."}, nil
	}

	key := planner.SortKey(strings.ToLower(strings.TrimSpace(args.Sort)))
	if !key.Valid() {
		key = defaultSortKey
	}
	res := toolReviewsResult{
		CourseCode:    code,
		CourseName:    "Unknown",
		AverageRating: fmt.Sprintf("%.1f", snap.AverageRating(code)),
		TotalReviews:  len(reviews),
		Reviews:       make([]toolReview, 0, len(reviews)),
	}
	if c, ok := snap.FindCourse(code); ok {
		res.CourseName = c.Name
	}
	for _, r := range planner.SortReviews(reviews, key) {
		res.Reviews = append(res.Reviews, toolReview{
			Rating:        fmt.Sprintf("%g/5", r.Rating),
			Difficulty:    fmt.Sprintf("%g/5", r.Difficulty),
			Workload:      r.Workload,
			TeachingStyle: r.TeachingStyle,
			Comment:       r.Comment,
			Grade:         r.Grade,
			Semester:      r.Term,
			Upvotes:       r.Upvotes,
		})
	}
	return res, nil
}

type toolCalendarDay struct {
	Day    string      `json:"day"`
	Events []toolEvent `json:"events"`
}

type toolCalendarResult struct {
	Events []toolCalendarDay `json:"events"`
	Note   string            `json:"note"`
}

func (s *toolService) getCalendar(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	if err := decodeToolArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	groups := planner.GroupByDay(snap.Calendar)
	res := toolCalendarResult{
		Events: make([]toolCalendarDay, 0, len(groups)),
		Note:   "These are recurring weekly commitments from the student's calendar.",
	}
	for _, g := range groups {
		day := toolCalendarDay{Day: g.Day.String(), Events: make([]toolEvent, 0, len(g.Events))}
		for _, ev := range g.Events {
			day.Events = append(day.Events, eventLabel(ev))
		}
		res.Events = append(res.Events, day)
	}
	if len(groups) == 0 {
		res.Note = "The student's calendar is empty."
	}
	return res, nil
}

type toolScheduleEntry struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"type"`
}

type toolScheduleResult struct {
	Schedule                 map[string][]toolScheduleEntry `json:"schedule"`
	SelectedCourses          []string                       `json:"selectedCourses"`
	UnknownCourses           []string                       `json:"unknownCourses,omitempty"`
	TotalCreditsThisSemester int                            `json:"totalCreditsThisSemester"`
	Conflicts                []string                       `json:"conflicts"`
	Note                     string                         `json:"note"`
}

func (s *toolService) buildSchedule(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	var args scheduleArgs
	if err := decodeToolArgs(raw, &args); err != nil {
		return nil, err
	}
	week, err := s.planner.BuildWeek(ctx, studentID, args.CourseCodes)
	if errors.Is(err, ErrEmptySelection) {
		return toolScheduleResult{
			Schedule:        map[string][]toolScheduleEntry{},
			SelectedCourses: []string{},
			Conflicts:       []string{},
			Note:            "No course codes were provided.",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	res := toolScheduleResult{
		Schedule:                 make(map[string][]toolScheduleEntry, len(week.Days)),
		SelectedCourses:          make([]string, 0, len(week.Selected)),
		UnknownCourses:           week.UnknownCodes,
		TotalCreditsThisSemester: week.TotalCredits,
		Conflicts:                []string{},
		Note:                     fmt.Sprintf("This schedule includes %d new course(s) plus existing calendar commitments.", len(week.Selected)),
	}
	for _, d := range week.Days {
		entries := make([]toolScheduleEntry, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, toolScheduleEntry{Title: e.Title, Start: e.StartTime, End: e.EndTime, Type: e.Kind})
		}
		res.Schedule[d.Day] = entries
	}
	for _, c := range week.Selected {
		res.SelectedCourses = append(res.SelectedCourses, fmt.Sprintf("%s: %s (%d cr)", c.Code, c.Name, c.Credits))
	}
	for _, cc := range week.CalendarConflicts {
		titles := make([]string, 0, len(cc.Events))
		for _, ev := range cc.Events {
			titles = append(titles, ev.Title)
		}
		res.Conflicts = append(res.Conflicts, fmt.Sprintf("%s conflicts with %s", cc.CourseCode, strings.Join(titles, ", ")))
	}
	for _, pc := range week.CourseConflicts {
		res.Conflicts = append(res.Conflicts, fmt.Sprintf("%s and %s have overlapping times", pc.First, pc.Second))
	}
	if len(res.Conflicts) == 0 {
		res.Conflicts = append(res.Conflicts, "No conflicts detected!")
	}
	return res, nil
}

type toolSkill struct {
	Skill   string   `json:"skill"`
	Tier    string   `json:"tier"`
	Courses []string `json:"courses"`
}

type toolSkillsResult struct {
	Badges []toolSkill `json:"badges"`
	Note   string      `json:"note"`
}

func (s *toolService) getSkills(ctx context.Context, studentID string, raw json.RawMessage) (interface{}, error) {
	if err := decodeToolArgs(raw, &struct{}{}); err != nil {
		return nil, err
	}
	skills, err := s.planner.Skills(ctx, studentID)
	if err != nil {
		return nil, err
	}

	res := toolSkillsResult{
		Badges: make([]toolSkill, 0, len(skills.Badges)),
		Note:   fmt.Sprintf("The student has earned %d skill badge(s).", skills.Total),
	}
	for _, b := range skills.Badges {
		res.Badges = append(res.Badges, toolSkill{Skill: b.Skill, Tier: b.Tier, Courses: b.Courses})
	}
	return res, nil
}

// ════════════════════════════════════════════════════════════
// DetectContext — 意图识别与提示词上下文
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 提取消息中的课程代码，按关键词识别意图
//   2. 每个课程代码附带先修、冲突与评价信息
//   3. 每个意图附带对应工具的结果
//   4. 将学生档案与上下文拼成系统提示词

func (s *toolService) DetectContext(ctx context.Context, studentID, message string) (*dto.ContextResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ContextResponse{
		CourseCodes: planner.ExtractCourseCodes(message),
		Intents:     detectIntents(message),
		Facts:       map[string]interface{}{},
		Lines:       []string{},
	}
	if resp.CourseCodes == nil {
		resp.CourseCodes = []string{}
	}

	for _, code := range resp.CourseCodes {
		course, ok := snap.FindCourse(code)
		if !ok {
			resp.Lines = append(resp.Lines, fmt.Sprintf("%s is not in the course catalog.", code))
			continue
		}
		args := mustToolArgs(courseCodeArgs{CourseCode: code})
		for _, name := range []string{ToolCheckPrerequisites, ToolCheckConflicts, ToolGetCourseReviews} {
			result, err := s.handlers[name](s, ctx, studentID, args)
			if err != nil {
				return nil, err
			}
			resp.Facts[name+":"+code] = result
		}
		resp.Lines = append(resp.Lines, courseContextLines(snap, course)...)
	}

	for _, intent := range resp.Intents {
		name, args := intentTool(intent, resp.CourseCodes)
		if name == "" {
			continue
		}
		result, err := s.handlers[name](s, ctx, studentID, args)
		if err != nil {
			return nil, err
		}
		resp.Facts[name] = result
		resp.Lines = append(resp.Lines, intentContextLines(snap, intent)...)
	}

	resp.Prompt = buildSystemPrompt(snap.Profile, resp.Lines)
	return resp, nil
}

func detectIntents(message string) []string {
	intents := []string{}
	for _, p := range intentPatterns {
		if p.pattern.MatchString(message) {
			intents = append(intents, p.intent)
		}
	}
	return intents
}

// intentTool 意图对应的工具；评价意图没有对应工具，只生成上下文行
func intentTool(intent string, codes []string) (string, json.RawMessage) {
	switch intent {
	case IntentRequirements:
		return ToolGetRequirements, nil
	case IntentCalendar:
		if len(codes) > 0 {
			return ToolBuildSchedule, mustToolArgs(scheduleArgs{CourseCodes: codes})
		}
		return ToolGetCalendar, nil
	case IntentSkills:
		return ToolGetSkills, nil
	}
	return "", nil
}

func courseContextLines(snap *planner.Snapshot, c *planner.Course) []string {
	lines := []string{fmt.Sprintf("%s: %s (%d cr), %s, %s, enrolled %d/%d.",
		c.Code, c.Name, c.Credits, c.Instructor, strings.Join(meetingLabels(c.Meetings), ", "), c.Enrolled, c.Capacity)}

	pre := snap.CheckPrerequisites(c.Code)
	if pre.Met {
		lines = append(lines, fmt.Sprintf("%s prerequisites are met.", c.Code))
	} else {
		lines = append(lines, fmt.Sprintf("%s is missing prerequisites: %s.", c.Code, strings.Join(pre.Missing, ", ")))
	}

	_, conflicts, _ := snap.CourseConflicts(c.Code)
	if len(conflicts) == 0 {
		lines = append(lines, fmt.Sprintf("%s has no calendar conflicts.", c.Code))
	} else {
		titles := make([]string, 0, len(conflicts))
		for _, mc := range conflicts {
			titles = append(titles, mc.Event.Title)
		}
		lines = append(lines, fmt.Sprintf("%s conflicts with %s.", c.Code, strings.Join(titles, ", ")))
	}

	if reviews := snap.ReviewsFor(c.Code); len(reviews) > 0 {
		lines = append(lines, fmt.Sprintf("%s is rated %.1f/5 across %d review(s).", c.Code, snap.AverageRating(c.Code), len(reviews)))
	}
	return lines
}

func intentContextLines(snap *planner.Snapshot, intent string) []string {
	switch intent {
	case IntentRequirements:
		r := snap.RemainingRequirements()
		return []string{
			fmt.Sprintf("Remaining core courses: %s.", joinOrNone(requirementLabels(r.RemainingCore))),
			fmt.Sprintf("Electives still needed: %d.", r.RemainingElectivesNeeded),
			fmt.Sprintf("Credits completed: %d/%d (%d%%).", r.TotalCredits, r.RequiredCredits, r.CreditProgress),
		}
	case IntentCalendar:
		labels := make([]string, 0, len(snap.Calendar))
		for _, ev := range snap.Calendar {
			labels = append(labels, fmt.Sprintf("%s %s %s", ev.Title, ev.Day, ev.Span))
		}
		return []string{fmt.Sprintf("Weekly commitments: %s.", joinOrNone(labels))}
	case IntentSkills:
		badges := snap.StudentSkills()
		labels := make([]string, 0, len(badges))
		for _, b := range badges {
			labels = append(labels, fmt.Sprintf("%s (%s)", b.Skill, b.Tier))
		}
		return []string{fmt.Sprintf("Skill badges: %s.", joinOrNone(labels))}
	case IntentReviews:
		summaries := snap.ReviewSummaries()
		labels := make([]string, 0, len(summaries))
		for _, sm := range summaries {
			labels = append(labels, fmt.Sprintf("%s %.1f/5 (%d)", sm.CourseCode, sm.AverageRating, sm.ReviewCount))
		}
		return []string{fmt.Sprintf("Course ratings: %s.", joinOrNone(labels))}
	}
	return nil
}

// buildSystemPrompt 学生档案 + 已修课程 + 识别到的上下文
func buildSystemPrompt(p planner.Profile, lines []string) string {
	var b strings.Builder
	b.WriteString("You are CourseFlow, a course scheduling assistant for university students.\n\n")
	b.WriteString("## Student Profile\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Year: %s\n", p.Year)
	fmt.Fprintf(&b, "- Major(s): %s\n", joinOrNone(p.Majors))
	fmt.Fprintf(&b, "- Minor(s): %s\n", joinOrNone(p.Minors))
	fmt.Fprintf(&b, "- GPA: %.2f\n", p.GPA)
	fmt.Fprintf(&b, "- Credits Completed: %d/%d\n", p.TotalCredits, p.RequiredCredits)
	current := make([]string, 0, len(p.Current))
	for _, c := range p.Current {
		current = append(current, c.Code+" - "+c.Name)
	}
	fmt.Fprintf(&b, "- Current Courses: %s\n", joinOrNone(current))

	b.WriteString("\n## Completed Courses\n")
	for _, c := range p.Completed {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", c.Code, c.Name, c.Grade)
	}

	if len(lines) > 0 {
		b.WriteString("\n## Context\n")
		for _, l := range lines {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}

	b.WriteString("\n## Guidelines\n")
	b.WriteString("- Always check prerequisites before recommending a course.\n")
	b.WriteString("- Check suggested courses against the student's calendar commitments.\n")
	b.WriteString("- Use course reviews to describe workload and teaching style.\n")
	b.WriteString("- Keep responses concise and actionable.\n")
	return b.String()
}

// ── 辅助函数 ──

// decodeToolArgs 空参数与 null 视为 {}
func decodeToolArgs(raw json.RawMessage, v interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToolArguments, err)
	}
	return nil
}

func mustToolArgs(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func meetingLabels(meetings []planner.Meeting) []string {
	out := make([]string, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, fmt.Sprintf("%s %s", strings.Join(dayNames(m.Days), "/"), m.Span))
	}
	return out
}

func requirementLabels(items []planner.RequiredCourse) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, fmt.Sprintf("%s: %s (%d cr)", c.Code, c.Name, c.Credits))
	}
	return out
}

func eventLabel(ev planner.CalendarEvent) toolEvent {
	return toolEvent{Event: ev.Title, Day: ev.Day.String(), Time: ev.Span.String(), Type: string(ev.Category)}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
