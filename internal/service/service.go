package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RVCE-Utility/rvce-utility-bknd/config"
	"github.com/RVCE-Utility/rvce-utility-bknd/internal/repository"
	"github.com/RVCE-Utility/rvce-utility-bknd/pkg/jwt"
)

// Cache 业务层依赖的令牌黑名单与统计缓存能力，由 pkg/redis 提供
type Cache interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	GetStatsCache(ctx context.Context, userID string) (string, error)
	SetStatsCache(ctx context.Context, userID, payload string, ttl time.Duration) error
	InvalidateStatsCache(ctx context.Context, userID string) error
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Timetable    TimetableService
	Attendance   AttendanceService
	Contribution ContributionService
	Request      RequestService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache Cache,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	att := NewAttendanceService(cfg, repo, cache, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, cache, jwtMgr, logger),
		Timetable:    NewTimetableService(cfg, repo, cache, logger),
		Attendance:   att,
		Contribution: NewContributionService(repo, logger),
		Request:      NewRequestService(repo, logger),
		Export:       NewExportService(cfg, repo, att, logger),
	}
}
