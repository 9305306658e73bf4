package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
	"github.com/aryamanr26/course-flow-hackathon/pkg/jwt"
)

// Cache 参考数据缓存（pkg/redis.Client 实现）；为 nil 时直接读库
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// TokenStore Token 黑名单（pkg/redis.Client 实现）；为 nil 时登出仅由客户端丢弃 Token
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Catalog  CatalogService
	Review   ReviewService
	Calendar CalendarService
	Planner  PlannerService
	Tool     ToolService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	cache Cache,
	tokens TokenStore,
	logger *zap.Logger,
) *Service {
	snapshots := NewSnapshotBuilder(cfg, repo, cache, logger)
	plannerSvc := NewPlannerService(snapshots, logger)

	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, tokens, logger),
		Catalog:  NewCatalogService(snapshots, logger),
		Review:   NewReviewService(repo, snapshots, logger),
		Calendar: NewCalendarService(cfg, repo, snapshots, logger),
		Planner:  plannerSvc,
		Tool:     NewToolService(snapshots, plannerSvc, logger),
	}
}
