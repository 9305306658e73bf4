package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
)

// ── 课程目录模块业务错误 ──

var (
	ErrCourseNotFound = errors.New("课程不存在")
	ErrInvalidFilter  = errors.New("无效的筛选条件，可选 all/eligible/cs/math/other")
)

// CatalogService 课程目录业务接口
type CatalogService interface {
	// List 搜索并筛选课程；eligible 筛选依赖当前学生的修课记录
	List(ctx context.Context, studentID string, query *dto.CourseListQuery) (*dto.CourseListResponse, error)
	Get(ctx context.Context, studentID, code string) (*dto.CourseResponse, error)
	// Prerequisites 课程不存在时返回 course_exists=false、met=false
	Prerequisites(ctx context.Context, studentID, code string) (*dto.PrerequisiteResponse, error)
	// Conflicts 课程每组上课时间与学生日历的冲突
	Conflicts(ctx context.Context, studentID, code string) (*dto.CourseConflictResponse, error)
}

type catalogService struct {
	snapshots *SnapshotBuilder
	logger    *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(snapshots *SnapshotBuilder, logger *zap.Logger) CatalogService {
	return &catalogService{snapshots: snapshots, logger: logger}
}

func (s *catalogService) List(ctx context.Context, studentID string, query *dto.CourseListQuery) (*dto.CourseListResponse, error) {
	filter := planner.Filter(strings.ToLower(strings.TrimSpace(query.Filter)))
	if filter == "" {
		filter = planner.FilterAll
	}
	if !filter.Valid() {
		return nil, ErrInvalidFilter
	}

	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	courses := snap.FilterCourses(snap.Search(query.Q), filter)
	resp := &dto.CourseListResponse{
		Query:   strings.TrimSpace(query.Q),
		Filter:  string(filter),
		Total:   len(courses),
		Courses: make([]dto.CourseResponse, 0, len(courses)),
	}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, toCourseResponse(snap, c))
	}
	return resp, nil
}

func (s *catalogService) Get(ctx context.Context, studentID, code string) (*dto.CourseResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	course, ok := snap.FindCourse(code)
	if !ok {
		return nil, ErrCourseNotFound
	}
	resp := toCourseResponse(snap, *course)
	return &resp, nil
}

func (s *catalogService) Prerequisites(ctx context.Context, studentID, code string) (*dto.PrerequisiteResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	res := snap.CheckPrerequisites(code)
	return &dto.PrerequisiteResponse{
		CourseCode:    res.CourseCode,
		CourseExists:  res.CourseExists,
		Met:           res.Met,
		Missing:       append([]string{}, res.Missing...),
		Prerequisites: append([]string{}, res.All...),
	}, nil
}

func (s *catalogService) Conflicts(ctx context.Context, studentID, code string) (*dto.CourseConflictResponse, error) {
	snap, err := s.snapshots.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	course, conflicts, ok := snap.CourseConflicts(code)
	if !ok {
		return nil, ErrCourseNotFound
	}

	resp := &dto.CourseConflictResponse{
		CourseCode:   course.Code,
		CourseName:   course.Name,
		HasConflicts: len(conflicts) > 0,
		Conflicts:    make([]dto.MeetingConflictResponse, 0, len(conflicts)),
	}
	for _, c := range conflicts {
		resp.Conflicts = append(resp.Conflicts, dto.MeetingConflictResponse{
			Meeting: toMeetingResponse(c.Meeting),
			Event:   toEventResponse(c.Event),
		})
	}
	return resp, nil
}
