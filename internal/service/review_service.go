package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
)

// ── 课程评价模块业务错误 ──

var (
	ErrInvalidSortKey    = errors.New("无效的排序方式，可选 recent/rating/upvotes/difficulty")
	ErrInvalidRating     = errors.New("评分必须在 0 到 5 之间")
	ErrInvalidDifficulty = errors.New("难度必须在 0 到 5 之间")
	ErrEmptyCourseCode   = errors.New("课程代码不能为空")
	ErrCourseCodeTooLong = errors.New("课程代码不能超过 20 个字符")
)

// maxCourseCodeLen 与 course_reviews.course_code 字段长度一致
const maxCourseCodeLen = 20

// defaultSortKey 评价列表默认按点赞数排序
const defaultSortKey = planner.SortUpvotes

// ReviewService 课程评价业务接口
//
// 评价只追加；课程代码不要求存在于目录中，汇总时名称记为 Unknown。
type ReviewService interface {
	// List 全部或单门课程的评价，排序后分页
	List(ctx context.Context, query *dto.ReviewListQuery) ([]dto.ReviewResponse, int64, error)
	// ForCourse 单门课程的评价与平均分
	ForCourse(ctx context.Context, code, sort string) (*dto.CourseReviewsResponse, error)
	// Summary 评价总览；course 非空时统计只覆盖该课程
	Summary(ctx context.Context, course string) (*dto.ReviewSummaryResponse, error)
	Create(ctx context.Context, studentID, code string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewService struct {
	repo      *repository.Repository
	snapshots *SnapshotBuilder
	logger    *zap.Logger
	now       func() time.Time
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, snapshots *SnapshotBuilder, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, snapshots: snapshots, logger: logger, now: time.Now}
}

func (s *reviewService) List(ctx context.Context, query *dto.ReviewListQuery) ([]dto.ReviewResponse, int64, error) {
	key, err := parseSortKey(query.Sort)
	if err != nil {
		return nil, 0, err
	}

	snap, err := s.snapshots.Reference(ctx)
	if err != nil {
		return nil, 0, err
	}

	reviews := snap.Reviews
	if strings.TrimSpace(query.Course) != "" && !strings.EqualFold(query.Course, "all") {
		reviews = snap.ReviewsFor(query.Course)
	}
	sorted := planner.SortReviews(reviews, key)

	total := int64(len(sorted))
	offset := query.Offset()
	if offset >= len(sorted) {
		return []dto.ReviewResponse{}, total, nil
	}
	end := offset + query.GetPageSize()
	if end > len(sorted) {
		end = len(sorted)
	}
	return toReviewResponses(sorted[offset:end]), total, nil
}

func (s *reviewService) ForCourse(ctx context.Context, code, sort string) (*dto.CourseReviewsResponse, error) {
	key, err := parseSortKey(sort)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.Reference(ctx)
	if err != nil {
		return nil, err
	}

	canonical := planner.CanonicalCode(code)
	reviews := snap.ReviewsFor(canonical)
	resp := &dto.CourseReviewsResponse{
		CourseCode:    canonical,
		CourseName:    "Unknown",
		Sort:          string(key),
		AverageRating: roundTenth(snap.AverageRating(canonical)),
		ReviewCount:   len(reviews),
		Reviews:       toReviewResponses(planner.SortReviews(reviews, key)),
	}
	if c, ok := snap.FindCourse(canonical); ok {
		resp.CourseName = c.Name
		resp.CourseExists = true
	}
	return resp, nil
}

func (s *reviewService) Summary(ctx context.Context, course string) (*dto.ReviewSummaryResponse, error) {
	snap, err := s.snapshots.Reference(ctx)
	if err != nil {
		return nil, err
	}

	reviews := snap.Reviews
	if strings.TrimSpace(course) != "" && !strings.EqualFold(course, "all") {
		reviews = snap.ReviewsFor(course)
	}
	stats := planner.SummarizeReviews(reviews)

	summaries := snap.ReviewSummaries()
	resp := &dto.ReviewSummaryResponse{
		TotalReviews:      stats.Count,
		AverageRating:     roundTenth(stats.AverageRating),
		AverageDifficulty: roundTenth(stats.AverageDifficulty),
		Courses:           make([]dto.ReviewSummaryItem, 0, len(summaries)),
	}
	for _, sm := range summaries {
		resp.Courses = append(resp.Courses, dto.ReviewSummaryItem{
			CourseCode:    sm.CourseCode,
			CourseName:    sm.CourseName,
			AverageRating: roundTenth(sm.AverageRating),
			ReviewCount:   sm.ReviewCount,
		})
	}
	return resp, nil
}

func (s *reviewService) Create(ctx context.Context, studentID, code string, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	canonical := planner.CanonicalCode(code)
	if canonical == "" {
		return nil, ErrEmptyCourseCode
	}
	if utf8.RuneCountInString(canonical) > maxCourseCodeLen {
		return nil, ErrCourseCodeTooLong
	}
	if req.Rating == nil || *req.Rating < 0 || *req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if req.Difficulty == nil || *req.Difficulty < 0 || *req.Difficulty > 5 {
		return nil, ErrInvalidDifficulty
	}

	anonymous := true
	if req.Anonymous != nil {
		anonymous = *req.Anonymous
	}

	review := &model.CourseReview{
		CourseCode:    canonical,
		Rating:        *req.Rating,
		Difficulty:    *req.Difficulty,
		Workload:      strings.TrimSpace(req.Workload),
		TeachingStyle: strings.TrimSpace(req.TeachingStyle),
		Comment:       strings.TrimSpace(req.Comment),
		Grade:         strings.TrimSpace(req.Grade),
		Term:          strings.TrimSpace(req.Term),
		Anonymous:     anonymous,
		ReviewedOn:    s.now().Format("2006-01-02"),
	}
	if studentID != "" {
		review.StudentID = &studentID
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.logger.Error("创建评价失败", zap.String("course", canonical), zap.Error(err))
		return nil, err
	}
	s.snapshots.InvalidateReference(ctx)

	resp := toReviewResponse(toPlannerReview(*review))
	return &resp, nil
}

// parseSortKey 空值取默认排序；未知值返回错误
func parseSortKey(raw string) (planner.SortKey, error) {
	key := planner.SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if key == "" {
		return defaultSortKey, nil
	}
	if !key.Valid() {
		return "", ErrInvalidSortKey
	}
	return key, nil
}
