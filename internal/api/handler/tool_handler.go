package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
	"github.com/aryamanr26/course-flow-hackathon/pkg/response"
)

// ToolHandler 对话工具层 HTTP 处理器
type ToolHandler struct {
	toolSvc service.ToolService
}

// NewToolHandler 创建 ToolHandler
func NewToolHandler(toolSvc service.ToolService) *ToolHandler {
	return &ToolHandler{toolSvc: toolSvc}
}

// ListTools 工具定义
// GET /api/v1/tools
func (h *ToolHandler) ListTools(c *gin.Context) {
	defs := h.toolSvc.Definitions()
	response.OK(c, gin.H{"list": defs, "total": len(defs)})
}

// Invoke 调用工具
// POST /api/v1/tools/:name
//
// 请求体为 {"arguments": {...}}；工具内部的业务错误（如课程不存在）写在结果中，仍返回 200
func (h *ToolHandler) Invoke(c *gin.Context) {
	var req dto.ToolInvokeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.toolSvc.Invoke(c.Request.Context(), studentID, c.Param("name"), req.Arguments)
	if err != nil {
		h.handleToolError(c, err)
		return
	}

	response.OK(c, result)
}

// DetectContext 识别对话中的课程与意图
// POST /api/v1/tools/context
func (h *ToolHandler) DetectContext(c *gin.Context) {
	var req dto.ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	result, err := h.toolSvc.DetectContext(c.Request.Context(), studentID, req.Message)
	if err != nil {
		h.handleToolError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ToolHandler) handleToolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownTool):
		response.NotFound(c, 16001, err.Error())
	case errors.Is(err, service.ErrInvalidToolArguments):
		response.ErrorWithDetails(c, http.StatusBadRequest, 16002, "工具参数格式错误", err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11004, "学生不存在")
	default:
		response.InternalError(c)
	}
}
