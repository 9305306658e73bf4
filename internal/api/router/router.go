package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/api/handler"
	"github.com/aryamanr26/course-flow-hackathon/internal/api/middleware"
	"github.com/aryamanr26/course-flow-hackathon/pkg/jwt"
	"github.com/aryamanr26/course-flow-hackathon/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流降级
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// nil *redis.Client 不能直接赋给接口，否则接口非 nil
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	loginLimit := middleware.RateLimit(limiter, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow, logger)
	toolLimit := middleware.RateLimit(limiter, cfg.RateLimit.ToolLimit, cfg.RateLimit.ToolWindow, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/refresh", loginLimit, h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 课程目录与评价
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Catalog.ListCourses)
				courses.GET("/:code", h.Catalog.GetCourse)
				courses.GET("/:code/prerequisites", h.Catalog.CheckPrerequisites)
				courses.GET("/:code/conflicts", h.Catalog.CheckConflicts)
				courses.GET("/:code/reviews", h.Review.CourseReviews)
				courses.POST("/:code/reviews", h.Review.CreateReview)
			}

			reviews := authorized.Group("/reviews")
			{
				reviews.GET("", h.Review.ListReviews)
				reviews.GET("/summary", h.Review.Summary)
			}

			// 个人日历
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("", h.Calendar.GetCalendar)
				calendar.POST("/events", h.Calendar.AppendEvents)
				calendar.POST("/import", h.Calendar.ImportICS)
				calendar.POST("/conflicts", h.Calendar.CheckSlot)
			}

			// 选课规划
			planner := authorized.Group("/planner")
			{
				planner.GET("/requirements", h.Planner.Requirements)
				planner.GET("/skills", h.Planner.Skills)
				planner.POST("/schedule", h.Planner.BuildSchedule)
				planner.POST("/schedule/export", h.Planner.ExportSchedule)
			}

			// 对话工具层
			tools := authorized.Group("/tools")
			{
				tools.GET("", h.Tool.ListTools)
				tools.POST("/context", toolLimit, h.Tool.DetectContext)
				tools.POST("/:name", toolLimit, h.Tool.Invoke)
			}
		}
	}

	return r
}

// healthCheck 数据库不可用时返回 503；Redis 仅报告状态
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["status"] = "degraded"
			status["database"] = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unavailable"
			}
		}

		c.JSON(code, status)
	}
}
