package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

// Ключи кешированных отчетов
const (
	SkillGapsCacheKey = "reports:skill_gaps"
	OverviewCacheKey  = "reports:overview"
)

// CachedReportService декоратор cache-aside над ReportProvider:
// чтение из кеша, при промахе вычисление и запись с фиксированным TTL.
// Ошибки кеша логируются и не влияют на результат.
type CachedReportService struct {
	inner        ReportProvider
	cache        repository.CacheRepository
	skillGapsTTL time.Duration
	overviewTTL  time.Duration
	metrics      *monitoring.Metrics
	log          *zap.Logger
}

// NewCachedReportService создает декоратор. cache == nil отключает кеширование.
func NewCachedReportService(
	inner ReportProvider,
	cache repository.CacheRepository,
	skillGapsTTL, overviewTTL time.Duration,
	metrics *monitoring.Metrics,
	log *zap.Logger,
) *CachedReportService {
	return &CachedReportService{
		inner:        inner,
		cache:        cache,
		skillGapsTTL: skillGapsTTL,
		overviewTTL:  overviewTTL,
		metrics:      metrics,
		log:          log,
	}
}

// SkillGaps возвращает отчет о пробелах в навыках из кеша или вычисляет его
func (s *CachedReportService) SkillGaps(ctx context.Context) ([]entity.SkillGap, error) {
	var cached []entity.SkillGap
	if s.lookup(ctx, SkillGapsCacheKey, &cached) {
		return cached, nil
	}

	fresh, err := s.inner.SkillGaps(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, SkillGapsCacheKey, fresh, s.skillGapsTTL)
	return fresh, nil
}

// Overview возвращает сводный отчет из кеша или вычисляет его
func (s *CachedReportService) Overview(ctx context.Context) (*entity.Overview, error) {
	var cached entity.Overview
	if s.lookup(ctx, OverviewCacheKey, &cached) {
		return &cached, nil
	}

	fresh, err := s.inner.Overview(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, OverviewCacheKey, fresh, s.overviewTTL)
	return fresh, nil
}

// Invalidate удаляет кешированные отчеты
func (s *CachedReportService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, SkillGapsCacheKey, OverviewCacheKey); err != nil {
		s.log.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}

func (s *CachedReportService) lookup(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetJSON(ctx, key, dest)
	switch {
	case err == nil:
		s.metrics.CacheResult(key, "hit")
		return true
	case errors.Is(err, repository.ErrCacheMiss):
		s.metrics.CacheResult(key, "miss")
	default:
		s.metrics.CacheResult(key, "error")
		s.log.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *CachedReportService) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		s.log.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
