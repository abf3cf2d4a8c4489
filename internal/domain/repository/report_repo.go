package repository

import (
	"context"
	"time"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// ReportRepository определяет агрегирующие запросы для отчетов.
// Учитываются только завершенные попытки.
type ReportRepository interface {
	// Leaderboard агрегирует попытки активных пользователей, since == nil означает весь период
	Leaderboard(ctx context.Context, since *time.Time, skillID *uint, limit int) ([]entity.LeaderboardEntry, error)
	// SkillGapStats возвращает статистику по каждому активному навыку, включая навыки без попыток
	SkillGapStats(ctx context.Context) ([]entity.SkillGap, error)
	// CountActiveLearners считает активных пользователей без роли администратора
	CountActiveLearners(ctx context.Context) (int64, error)

	OverviewTotals(ctx context.Context) (entity.OverviewTotals, error)
	CompletedSince(ctx context.Context, since time.Time) ([]entity.AttemptPoint, error)
	TopPerformers(ctx context.Context, limit int) ([]entity.TopPerformer, error)
	ChallengingSkills(ctx context.Context, limit int) ([]entity.ChallengingSkill, error)

	RecentAttempts(ctx context.Context, since time.Time, limit int) ([]entity.RecentAttempt, error)
	SkillUsage(ctx context.Context, since time.Time) ([]entity.SkillUsage, error)

	// UserAttempts возвращает завершенные попытки пользователя с данными навыка
	UserAttempts(ctx context.Context, userID uint) ([]entity.AttemptSummary, error)
}
