package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
)

// ── Snapshot 装配 ──────────────────────────────────────────
//
// 每次请求从数据库装配一个 planner.Snapshot：
//   - 参考数据（课程目录、评价、技能映射、培养方案）所有学生共享，写入缓存
//   - 学生数据（档案、修课记录、日历）按学生读取，不缓存
// 缓存读写失败只记录日志，回落到数据库。
// ─────────────────────────────────────────────────────────────

const referenceCacheKey = "reference"

func degreeCacheKey(major string) string { return "degree:" + major }

// referenceData 参考数据的缓存形态
type referenceData struct {
	Catalog []planner.Course
	Reviews []planner.Review
	Skills  map[string][]string
}

// SnapshotBuilder 装配 planner.Snapshot
type SnapshotBuilder struct {
	repo            *repository.Repository
	cache           Cache
	ttl             time.Duration
	defaultMajor    string
	requiredCredits int
	logger          *zap.Logger
}

// NewSnapshotBuilder 创建 SnapshotBuilder；cache 可为 nil
func NewSnapshotBuilder(cfg *config.Config, repo *repository.Repository, cache Cache, logger *zap.Logger) *SnapshotBuilder {
	return &SnapshotBuilder{
		repo:            repo,
		cache:           cache,
		ttl:             cfg.Redis.CacheTTL,
		defaultMajor:    cfg.Planner.DefaultMajor,
		requiredCredits: cfg.Planner.RequiredCredits,
		logger:          logger,
	}
}

// Reference 仅含参考数据的快照（档案与日历为空）
func (b *SnapshotBuilder) Reference(ctx context.Context) (*planner.Snapshot, error) {
	ref, err := b.reference(ctx)
	if err != nil {
		return nil, err
	}
	return &planner.Snapshot{
		Catalog:  ref.Catalog,
		Reviews:  ref.Reviews,
		Skills:   ref.Skills,
		Calendar: []planner.CalendarEvent{},
	}, nil
}

// ForStudent 装配指定学生的完整快照
func (b *SnapshotBuilder) ForStudent(ctx context.Context, studentID string) (*planner.Snapshot, error) {
	student, err := b.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		b.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	courses, err := b.repo.Student.ListCourses(ctx, studentID)
	if err != nil {
		b.logger.Error("查询修课记录失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	events, err := b.repo.CalendarEvent.ListByStudent(ctx, studentID)
	if err != nil {
		b.logger.Error("查询日历失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	ref, err := b.reference(ctx)
	if err != nil {
		return nil, err
	}

	degree, err := b.degree(ctx, b.majorOf(student))
	if err != nil {
		return nil, err
	}

	return &planner.Snapshot{
		Catalog:  ref.Catalog,
		Reviews:  ref.Reviews,
		Skills:   ref.Skills,
		Calendar: b.toCalendar(events),
		Profile:  b.toProfile(student, courses),
		Degree:   degree,
	}, nil
}

// InvalidateReference 评价或目录变更后清除参考数据缓存
func (b *SnapshotBuilder) InvalidateReference(ctx context.Context) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx, referenceCacheKey); err != nil {
		b.logger.Warn("清除参考数据缓存失败", zap.Error(err))
	}
}

func (b *SnapshotBuilder) reference(ctx context.Context) (*referenceData, error) {
	var ref referenceData
	if b.cache != nil {
		hit, err := b.cache.GetJSON(ctx, referenceCacheKey, &ref)
		if err != nil {
			b.logger.Warn("读取参考数据缓存失败", zap.Error(err))
		} else if hit {
			return &ref, nil
		}
	}

	courses, err := b.repo.Course.List(ctx)
	if err != nil {
		b.logger.Error("查询课程目录失败", zap.Error(err))
		return nil, err
	}
	reviews, err := b.repo.Review.List(ctx, "")
	if err != nil {
		b.logger.Error("查询课程评价失败", zap.Error(err))
		return nil, err
	}
	skills, err := b.repo.CourseSkill.List(ctx)
	if err != nil {
		b.logger.Error("查询技能映射失败", zap.Error(err))
		return nil, err
	}

	ref = referenceData{
		Catalog: b.toCatalog(courses),
		Reviews: toPlannerReviews(reviews),
		Skills:  toSkillMap(skills),
	}
	if b.cache != nil {
		if err := b.cache.SetJSON(ctx, referenceCacheKey, ref, b.ttl); err != nil {
			b.logger.Warn("写入参考数据缓存失败", zap.Error(err))
		}
	}
	return &ref, nil
}

// degree 读取培养方案；专业无方案时返回空模板
func (b *SnapshotBuilder) degree(ctx context.Context, major string) (planner.DegreeTemplate, error) {
	key := degreeCacheKey(major)
	var tpl planner.DegreeTemplate
	if b.cache != nil {
		hit, err := b.cache.GetJSON(ctx, key, &tpl)
		if err != nil {
			b.logger.Warn("读取培养方案缓存失败", zap.String("major", major), zap.Error(err))
		} else if hit {
			return tpl, nil
		}
	}

	req, err := b.repo.Degree.GetByMajor(ctx, major)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b.logger.Warn("专业未配置培养方案", zap.String("major", major))
			return planner.DegreeTemplate{Major: major}, nil
		}
		b.logger.Error("查询培养方案失败", zap.String("major", major), zap.Error(err))
		return planner.DegreeTemplate{}, err
	}

	tpl = toDegreeTemplate(req)
	if b.cache != nil {
		if err := b.cache.SetJSON(ctx, key, tpl, b.ttl); err != nil {
			b.logger.Warn("写入培养方案缓存失败", zap.String("major", major), zap.Error(err))
		}
	}
	return tpl, nil
}

func (b *SnapshotBuilder) majorOf(s *model.Student) string {
	if len(s.Majors) > 0 && s.Majors[0] != "" {
		return s.Majors[0]
	}
	return b.defaultMajor
}

// ── model → planner 转换 ──

func (b *SnapshotBuilder) toCatalog(courses []model.Course) []planner.Course {
	out := make([]planner.Course, 0, len(courses))
	for _, c := range courses {
		meetings := make([]planner.Meeting, 0, len(c.Meetings))
		for _, m := range c.Meetings {
			days, err := planner.ParseWeekdays(m.Days)
			if err == nil {
				var span planner.Interval
				span, err = planner.NewInterval(m.StartTime, m.EndTime)
				if err == nil {
					meetings = append(meetings, planner.Meeting{Days: days, Span: span})
					continue
				}
			}
			b.logger.Warn("忽略无效的上课时间", zap.String("course", c.Code), zap.Error(err))
		}
		out = append(out, planner.Course{
			Code:          planner.CanonicalCode(c.Code),
			Name:          c.Name,
			Department:    c.Department,
			Credits:       c.Credits,
			Description:   c.Description,
			Prerequisites: canonicalCodes(c.Prerequisites),
			Meetings:      meetings,
			Instructor:    c.Instructor,
			Capacity:      c.Capacity,
			Enrolled:      c.Enrolled,
			Term:          c.Term,
			Tags:          append([]string{}, c.Tags...),
		})
	}
	return out
}

func (b *SnapshotBuilder) toCalendar(events []model.CalendarEvent) []planner.CalendarEvent {
	out := make([]planner.CalendarEvent, 0, len(events))
	for _, e := range events {
		ev, err := toPlannerEvent(e)
		if err != nil {
			b.logger.Warn("忽略无效的日历事件", zap.String("event_id", e.EventID), zap.Error(err))
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (b *SnapshotBuilder) toProfile(s *model.Student, courses []model.StudentCourse) planner.Profile {
	required := s.RequiredCredits
	if required == 0 {
		required = b.requiredCredits
	}
	p := planner.Profile{
		StudentID:       s.StudentID,
		Name:            s.Name,
		Email:           s.Email,
		Year:            s.Year,
		Majors:          append([]string{}, s.Majors...),
		Minors:          append([]string{}, s.Minors...),
		GPA:             s.GPA,
		Completed:       []planner.CompletedCourse{},
		Current:         []planner.CurrentCourse{},
		TotalCredits:    s.TotalCredits,
		RequiredCredits: required,
	}
	for _, c := range courses {
		code := planner.CanonicalCode(c.CourseCode)
		switch c.Status {
		case model.CourseStatusCompleted:
			p.Completed = append(p.Completed, planner.CompletedCourse{Code: code, Name: c.CourseName, Grade: c.Grade, Term: c.Term, Credits: c.Credits})
		case model.CourseStatusCurrent:
			p.Current = append(p.Current, planner.CurrentCourse{Code: code, Name: c.CourseName, Credits: c.Credits})
		}
	}
	return p
}

func toPlannerEvent(e model.CalendarEvent) (planner.CalendarEvent, error) {
	day := planner.Weekday(e.DayOfWeek)
	if !day.Valid() {
		return planner.CalendarEvent{}, planner.ErrInvalidWeekday
	}
	span, err := planner.NewInterval(e.StartTime, e.EndTime)
	if err != nil {
		return planner.CalendarEvent{}, err
	}
	return planner.CalendarEvent{
		ID:        e.EventID,
		Title:     e.Title,
		Day:       day,
		Span:      span,
		Recurring: e.Recurring,
		Category:  planner.Category(e.Category),
	}, nil
}

func toPlannerReviews(reviews []model.CourseReview) []planner.Review {
	out := make([]planner.Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toPlannerReview(r))
	}
	return out
}

func toPlannerReview(r model.CourseReview) planner.Review {
	return planner.Review{
		ID:            r.ExternalID,
		CourseCode:    planner.CanonicalCode(r.CourseCode),
		Rating:        r.Rating,
		Difficulty:    r.Difficulty,
		Workload:      r.Workload,
		TeachingStyle: r.TeachingStyle,
		Comment:       r.Comment,
		Grade:         r.Grade,
		Term:          r.Term,
		Anonymous:     r.Anonymous,
		Upvotes:       r.Upvotes,
		CreatedAt:     r.ReviewedOn,
	}
}

// toSkillMap 按 (course_code, position) 顺序还原技能映射
func toSkillMap(skills []model.CourseSkill) map[string][]string {
	out := make(map[string][]string)
	for _, s := range skills {
		code := planner.CanonicalCode(s.CourseCode)
		out[code] = append(out[code], s.Skill)
	}
	return out
}

func toDegreeTemplate(req *model.DegreeRequirement) planner.DegreeTemplate {
	tpl := planner.DegreeTemplate{
		Major:            req.Major,
		Core:             toRequiredCourses(req.Core),
		ElectivePool:     toRequiredCourses(req.Electives),
		ElectiveRequired: req.ElectiveRequired,
		Math:             toRequiredCourses(req.Math),
		GeneralEducation: make([]planner.GeneralEducation, 0, len(req.GeneralEducation)),
	}
	for _, g := range req.GeneralEducation {
		tpl.GeneralEducation = append(tpl.GeneralEducation, planner.GeneralEducation{Category: g.Category, Count: g.Count})
	}
	return tpl
}

func toRequiredCourses(items []model.RequirementCourse) []planner.RequiredCourse {
	out := make([]planner.RequiredCourse, 0, len(items))
	for _, it := range items {
		out = append(out, planner.RequiredCourse{Code: planner.CanonicalCode(it.Code), Name: it.Name, Credits: it.Credits})
	}
	return out
}

func canonicalCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, planner.CanonicalCode(c))
	}
	return out
}
