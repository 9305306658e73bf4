package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/response"
)

// ReviewHandler 课程评价 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// ListReviews 评价列表（分页）
// GET /api/v1/reviews?course=&sort=&page=&page_size=
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var query dto.ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.reviewSvc.List(c.Request.Context(), &query)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OKPage(c, list, total, query.GetPage(), query.GetPageSize())
}

// Summary 评价总览
// GET /api/v1/reviews/summary?course=
func (h *ReviewHandler) Summary(c *gin.Context) {
	summary, err := h.reviewSvc.Summary(c.Request.Context(), c.Query("course"))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, summary)
}

// CourseReviews 单门课程评价
// GET /api/v1/courses/:code/reviews?sort=
func (h *ReviewHandler) CourseReviews(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "课程代码不能为空")
		return
	}

	result, err := h.reviewSvc.ForCourse(c.Request.Context(), code, c.Query("sort"))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateReview 发表评价
// POST /api/v1/courses/:code/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	review, err := h.reviewSvc.Create(c.Request.Context(), studentID, c.Param("code"), &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.Created(c, review)
}

func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSortKey):
		response.BadRequest(c, 13001, err.Error())
	case errors.Is(err, service.ErrInvalidRating):
		response.ErrorWithDetails(c, http.StatusBadRequest, 13002, "评分无效", err.Error())
	case errors.Is(err, service.ErrInvalidDifficulty):
		response.ErrorWithDetails(c, http.StatusBadRequest, 13003, "难度无效", err.Error())
	case errors.Is(err, service.ErrEmptyCourseCode):
		response.BadRequest(c, 13004, err.Error())
	case errors.Is(err, service.ErrCourseCodeTooLong):
		response.BadRequest(c, 13005, err.Error())
	default:
		response.InternalError(c)
	}
}
