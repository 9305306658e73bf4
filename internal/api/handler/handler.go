package handler

import (
	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Review   *ReviewHandler
	Calendar *CalendarHandler
	Planner  *PlannerHandler
	Tool     *ToolHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, cfg),
		Catalog:  NewCatalogHandler(svc.Catalog),
		Review:   NewReviewHandler(svc.Review),
		Calendar: NewCalendarHandler(svc.Calendar),
		Planner:  NewPlannerHandler(svc.Planner),
		Tool:     NewToolHandler(svc.Tool),
	}
}
