package handler

import (
	"errors"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlannerHandler 选课规划 HTTP 处理器
type PlannerHandler struct {
	plannerSvc service.PlannerService
}

// NewPlannerHandler 创建 PlannerHandler
func NewPlannerHandler(plannerSvc service.PlannerService) *PlannerHandler {
	return &PlannerHandler{plannerSvc: plannerSvc}
}

// Requirements 剩余毕业要求
// GET /api/v1/planner/requirements
func (h *PlannerHandler) Requirements(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.plannerSvc.Requirements(c.Request.Context(), studentID)
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, result)
}

// Skills 技能徽章
// GET /api/v1/planner/skills
func (h *PlannerHandler) Skills(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.plannerSvc.Skills(c.Request.Context(), studentID)
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, result)
}

// BuildSchedule 拟选课程周视图
// POST /api/v1/planner/schedule
func (h *PlannerHandler) BuildSchedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.plannerSvc.BuildWeek(c.Request.Context(), studentID, req.Courses)
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportSchedule 导出周视图 Excel
// POST /api/v1/planner/schedule/export
func (h *PlannerHandler) ExportSchedule(c *gin.Context) {
	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	buf, filename, err := h.plannerSvc.ExportWeek(c.Request.Context(), studentID, req.Courses)
	if err != nil {
		h.handlePlannerError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	response.Attachment(c, url.QueryEscape(filename), xlsxContentType, buf.Bytes())
}

func (h *PlannerHandler) handlePlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptySelection):
		response.BadRequest(c, 15001, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11004, "学生不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
