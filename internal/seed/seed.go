// Package seed 在空库上导入演示数据
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
)

//go:embed data.yaml
var defaultData []byte

// ── YAML 文档结构 ──

// Document 种子文件的顶层结构
type Document struct {
	Students []StudentDoc        `yaml:"students"`
	Degrees  []DegreeDoc         `yaml:"degrees"`
	Courses  []CourseDoc         `yaml:"courses"`
	Reviews  []ReviewDoc         `yaml:"reviews"`
	Skills   map[string][]string `yaml:"skills"`
}

type StudentDoc struct {
	StudentNo       string         `yaml:"student_no"`
	Name            string         `yaml:"name"`
	Email           string         `yaml:"email"`
	Year            string         `yaml:"year"`
	Majors          []string       `yaml:"majors"`
	Minors          []string       `yaml:"minors"`
	GPA             float64        `yaml:"gpa"`
	TotalCredits    int            `yaml:"total_credits"`
	RequiredCredits int            `yaml:"required_credits"`
	Completed       []CompletedDoc `yaml:"completed"`
	Current         []CurrentDoc   `yaml:"current"`
	Calendar        []EventDoc     `yaml:"calendar"`
}

type CompletedDoc struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Grade   string `yaml:"grade"`
	Term    string `yaml:"term"`
	Credits int    `yaml:"credits"`
}

type CurrentDoc struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Credits int    `yaml:"credits"`
}

type EventDoc struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Day       string `yaml:"day"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Recurring bool   `yaml:"recurring"`
	Category  string `yaml:"category"`
}

type DegreeDoc struct {
	Major     string                `yaml:"major"`
	Core      []RequirementDoc      `yaml:"core"`
	Electives ElectivesDoc          `yaml:"electives"`
	Math      []RequirementDoc      `yaml:"math"`
	General   []GeneralEducationDoc `yaml:"general_education"`
}

type RequirementDoc struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Credits int    `yaml:"credits"`
}

type ElectivesDoc struct {
	Required int              `yaml:"required"`
	Options  []RequirementDoc `yaml:"options"`
}

type GeneralEducationDoc struct {
	Category string `yaml:"category"`
	Count    int    `yaml:"count"`
}

type CourseDoc struct {
	Code          string       `yaml:"code"`
	Name          string       `yaml:"name"`
	Department    string       `yaml:"department"`
	Credits       int          `yaml:"credits"`
	Description   string       `yaml:"description"`
	Prerequisites []string     `yaml:"prerequisites"`
	Meetings      []MeetingDoc `yaml:"meetings"`
	Instructor    string       `yaml:"instructor"`
	Capacity      int          `yaml:"capacity"`
	Enrolled      int          `yaml:"enrolled"`
	Term          string       `yaml:"term"`
	Tags          []string     `yaml:"tags"`
}

type MeetingDoc struct {
	Days  []string `yaml:"days"`
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
}

type ReviewDoc struct {
	ID            string  `yaml:"id"`
	CourseCode    string  `yaml:"course_code"`
	Rating        float64 `yaml:"rating"`
	Difficulty    float64 `yaml:"difficulty"`
	Workload      string  `yaml:"workload"`
	TeachingStyle string  `yaml:"teaching_style"`
	Comment       string  `yaml:"comment"`
	Grade         string  `yaml:"grade"`
	Term          string  `yaml:"term"`
	Anonymous     bool    `yaml:"anonymous"`
	Upvotes       int     `yaml:"upvotes"`
	CreatedAt     string  `yaml:"created_at"`
}

// Parse 解析种子 YAML
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析种子数据失败: %w", err)
	}
	return &doc, nil
}

// Default 返回内置种子数据
func Default() (*Document, error) {
	return Parse(defaultData)
}

// Run 课程目录为空且启用种子时导入内置数据
// 返回值表示本次是否实际写入
func Run(ctx context.Context, repo *repository.Repository, cfg *config.SeedConfig, logger *zap.Logger) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	count, err := repo.Course.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("统计课程失败: %w", err)
	}
	if count > 0 {
		logger.Info("课程目录非空，跳过种子数据", zap.Int64("courses", count))
		return false, nil
	}

	doc, err := Default()
	if err != nil {
		return false, err
	}
	if err := Load(ctx, repo, doc, cfg.DemoPassword); err != nil {
		return false, err
	}

	logger.Info("种子数据导入完成",
		zap.Int("students", len(doc.Students)),
		zap.Int("courses", len(doc.Courses)),
		zap.Int("reviews", len(doc.Reviews)),
		zap.Int("skills", len(doc.Skills)),
	)
	return true, nil
}

// Load 将文档写入数据库
func Load(ctx context.Context, repo *repository.Repository, doc *Document, password string) error {
	courses := make([]model.Course, 0, len(doc.Courses))
	for i, c := range doc.Courses {
		meetings := make([]model.CourseMeeting, 0, len(c.Meetings))
		for _, m := range c.Meetings {
			meetings = append(meetings, model.CourseMeeting{Days: m.Days, StartTime: m.Start, EndTime: m.End})
		}
		courses = append(courses, model.Course{
			Code:          planner.CanonicalCode(c.Code),
			Name:          c.Name,
			Department:    c.Department,
			Credits:       c.Credits,
			Description:   c.Description,
			Prerequisites: nonNil(c.Prerequisites),
			Meetings:      meetings,
			Instructor:    c.Instructor,
			Capacity:      c.Capacity,
			Enrolled:      c.Enrolled,
			Term:          c.Term,
			Tags:          nonNil(c.Tags),
			Position:      i + 1,
		})
	}
	if err := repo.Course.BatchCreate(ctx, courses); err != nil {
		return fmt.Errorf("写入课程失败: %w", err)
	}

	reviews := make([]model.CourseReview, 0, len(doc.Reviews))
	for i, r := range doc.Reviews {
		reviews = append(reviews, model.CourseReview{
			ExternalID:    r.ID,
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
			ReviewedOn:    r.CreatedAt,
			Position:      i + 1,
		})
	}
	if err := repo.Review.BatchCreate(ctx, reviews); err != nil {
		return fmt.Errorf("写入评价失败: %w", err)
	}

	for _, d := range doc.Degrees {
		req := &model.DegreeRequirement{
			Major:            d.Major,
			Core:             requirementCourses(d.Core),
			Electives:        requirementCourses(d.Electives.Options),
			ElectiveRequired: d.Electives.Required,
			Math:             requirementCourses(d.Math),
		}
		general := make([]model.GeneralEducationItem, 0, len(d.General))
		for _, g := range d.General {
			general = append(general, model.GeneralEducationItem{Category: g.Category, Count: g.Count})
		}
		req.GeneralEducation = general
		if err := repo.Degree.Create(ctx, req); err != nil {
			return fmt.Errorf("写入培养方案 %s 失败: %w", d.Major, err)
		}
	}

	var skills []model.CourseSkill
	for code, names := range doc.Skills {
		for i, name := range names {
			skills = append(skills, model.CourseSkill{
				CourseCode: planner.CanonicalCode(code),
				Skill:      name,
				Position:   i + 1,
			})
		}
	}
	if err := repo.CourseSkill.BatchCreate(ctx, skills); err != nil {
		return fmt.Errorf("写入技能映射失败: %w", err)
	}

	if len(doc.Students) == 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成演示密码失败: %w", err)
	}
	for _, s := range doc.Students {
		if err := loadStudent(ctx, repo, s, string(hash)); err != nil {
			return fmt.Errorf("写入学生 %s 失败: %w", s.StudentNo, err)
		}
	}
	return nil
}

func loadStudent(ctx context.Context, repo *repository.Repository, s StudentDoc, hash string) error {
	student := &model.Student{
		StudentNo:       s.StudentNo,
		Name:            s.Name,
		Email:           s.Email,
		PasswordHash:    hash,
		Year:            s.Year,
		Majors:          nonNil(s.Majors),
		Minors:          nonNil(s.Minors),
		GPA:             s.GPA,
		TotalCredits:    s.TotalCredits,
		RequiredCredits: s.RequiredCredits,
	}
	if err := repo.Student.Create(ctx, student); err != nil {
		return err
	}

	courses := make([]model.StudentCourse, 0, len(s.Completed)+len(s.Current))
	for _, c := range s.Completed {
		courses = append(courses, model.StudentCourse{
			StudentID:  student.StudentID,
			CourseCode: planner.CanonicalCode(c.Code),
			CourseName: c.Name,
			Status:     model.CourseStatusCompleted,
			Grade:      c.Grade,
			Term:       c.Term,
			Credits:    c.Credits,
			Position:   len(courses) + 1,
		})
	}
	for _, c := range s.Current {
		courses = append(courses, model.StudentCourse{
			StudentID:  student.StudentID,
			CourseCode: planner.CanonicalCode(c.Code),
			CourseName: c.Name,
			Status:     model.CourseStatusCurrent,
			Credits:    c.Credits,
			Position:   len(courses) + 1,
		})
	}
	if err := repo.Student.BatchCreateCourses(ctx, courses); err != nil {
		return err
	}

	events := make([]model.CalendarEvent, 0, len(s.Calendar))
	for _, e := range s.Calendar {
		day, err := planner.ParseWeekday(e.Day)
		if err != nil {
			return fmt.Errorf("事件 %s: %w", e.ID, err)
		}
		events = append(events, model.CalendarEvent{
			EventID:   e.ID,
			Title:     e.Title,
			DayOfWeek: int(day),
			StartTime: e.Start,
			EndTime:   e.End,
			Recurring: e.Recurring,
			Category:  e.Category,
			Source:    model.EventSourceSeed,
		})
	}
	return repo.CalendarEvent.AppendBatch(ctx, student.StudentID, events)
}

func requirementCourses(items []RequirementDoc) []model.RequirementCourse {
	out := make([]model.RequirementCourse, 0, len(items))
	for _, it := range items {
		out = append(out, model.RequirementCourse{Code: planner.CanonicalCode(it.Code), Name: it.Name, Credits: it.Credits})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
