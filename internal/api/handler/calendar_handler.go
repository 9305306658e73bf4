package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/response"
)

// CalendarHandler 个人日历 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// GetCalendar 按星期分组的日历
// GET /api/v1/calendar
func (h *CalendarHandler) GetCalendar(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	cal, err := h.calendarSvc.Get(c.Request.Context(), studentID)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, cal)
}

// AppendEvents 手动追加事件
// POST /api/v1/calendar/events
func (h *CalendarHandler) AppendEvents(c *gin.Context) {
	var req dto.AppendEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.Append(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, result)
}

// ImportICS 导入 ICS 日历
// POST /api/v1/calendar/import
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, field="file"
//   - 订阅链接: application/json, body={"url": "..."}
func (h *CalendarHandler) ImportICS(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		result, err := h.calendarSvc.ImportICS(c.Request.Context(), studentID, header.Filename, file)
		if err != nil {
			h.handleCalendarError(c, err)
			return
		}
		response.Created(c, result)
		return
	}

	var req dto.ImportURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.URL = c.PostForm("url")
	}
	if req.URL == "" {
		response.BadRequest(c, 14000, "请上传 ICS 文件或提供 ICS 链接")
		return
	}

	result, err := h.calendarSvc.ImportURL(c.Request.Context(), studentID, req.URL)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.Created(c, result)
}

// CheckSlot 时间段冲突检查
// POST /api/v1/calendar/conflicts
func (h *CalendarHandler) CheckSlot(c *gin.Context) {
	var req dto.SlotCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.CheckSlot(c.Request.Context(), studentID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyEventBatch):
		response.BadRequest(c, 14001, err.Error())
	case errors.Is(err, service.ErrICSFileRequired):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrICSFileExtension):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, service.ErrICSTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 14004, err.Error())
	case errors.Is(err, service.ErrICSParseFailed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14005, "ICS 文件解析失败", err.Error())
	case errors.Is(err, service.ErrICSURLInvalid):
		response.BadRequest(c, 14006, err.Error())
	case errors.Is(err, service.ErrICSURLDisabled):
		response.Error(c, http.StatusForbidden, 14007, err.Error())
	case errors.Is(err, service.ErrICSHostForbidden):
		response.Error(c, http.StatusForbidden, 14011, err.Error())
	case errors.Is(err, service.ErrICSFetchFailed):
		response.ErrorWithDetails(c, http.StatusBadGateway, 14008, "获取 ICS 订阅失败", err.Error())
	case errors.Is(err, service.ErrCalendarIDClash):
		response.Error(c, http.StatusConflict, 14009, err.Error())
	case errors.Is(err, service.ErrInvalidSlot):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14010, "无效的时间段", err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11004, "学生不存在")
	default:
		response.InternalError(c)
	}
}
