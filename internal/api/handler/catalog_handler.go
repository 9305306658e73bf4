package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/response"
)

// CatalogHandler 课程目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListCourses 搜索课程
// GET /api/v1/courses?q=&filter=
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.catalogSvc.List(c.Request.Context(), studentID, &query)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// GetCourse 课程详情
// GET /api/v1/courses/:code
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	code, studentID, ok := courseParams(c)
	if !ok {
		return
	}

	course, err := h.catalogSvc.Get(c.Request.Context(), studentID, code)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, course)
}

// CheckPrerequisites 先修条件检查
// GET /api/v1/courses/:code/prerequisites
func (h *CatalogHandler) CheckPrerequisites(c *gin.Context) {
	code, studentID, ok := courseParams(c)
	if !ok {
		return
	}

	result, err := h.catalogSvc.Prerequisites(c.Request.Context(), studentID, code)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckConflicts 课程与日历冲突
// GET /api/v1/courses/:code/conflicts
func (h *CatalogHandler) CheckConflicts(c *gin.Context) {
	code, studentID, ok := courseParams(c)
	if !ok {
		return
	}

	result, err := h.catalogSvc.Conflicts(c.Request.Context(), studentID, code)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, result)
}

// courseParams 读取 :code 与当前学生；失败时已写入响应
func courseParams(c *gin.Context) (code, studentID string, ok bool) {
	code = strings.TrimSpace(c.Param("code"))
	if code == "" {
		response.BadRequest(c, 10001, "课程代码不能为空")
		return "", "", false
	}
	studentID, ok = MustGetStudentID(c)
	return code, studentID, ok
}

func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFilter):
		response.BadRequest(c, 12001, err.Error())
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12002, "课程不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11004, "学生不存在")
	default:
		response.InternalError(c)
	}
}
