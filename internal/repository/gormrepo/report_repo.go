package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// ReportRepo реализует repository.ReportRepository.
// Запросы используют только переносимый SQL (SQLite и PostgreSQL):
// округление и группировка по дням выполняются в сервисе.
type ReportRepo struct {
	db *gorm.DB
}

// NewReportRepo создает новый репозиторий отчетов
func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Leaderboard агрегирует завершенные попытки активных пользователей
func (r *ReportRepo) Leaderboard(ctx context.Context, since *time.Time, skillID *uint, limit int) ([]entity.LeaderboardEntry, error) {
	q := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(`u.id AS user_id, u.first_name, u.last_name, u.email,
			COUNT(a.id) AS quiz_count,
			AVG(a.score_percentage) AS avg_score,
			MAX(a.score_percentage) AS best_score`).
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.completed_at IS NOT NULL AND u.is_active = ?", true)

	if since != nil {
		q = q.Where("a.completed_at >= ?", since.UTC())
	}
	if skillID != nil {
		q = q.Where("a.skill_id = ?", *skillID)
	}

	rows := make([]entity.LeaderboardEntry, 0)
	err := q.Group("u.id, u.first_name, u.last_name, u.email").
		Order("avg_score DESC, quiz_count DESC, u.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SkillGapStats возвращает статистику по активным навыкам; навык без попыток имеет нулевые значения.
// unique_users считает только активных учащихся, как и CountActiveLearners, попытки и баллы учитывают всех.
func (r *ReportRepo) SkillGapStats(ctx context.Context) ([]entity.SkillGap, error) {
	rows := make([]entity.SkillGap, 0)
	err := conn(ctx, r.db).
		Table("skills AS s").
		Select(`s.id AS skill_id, s.name AS skill_name, s.category,
			COUNT(a.id) AS total_attempts,
			COUNT(DISTINCT CASE WHEN u.is_active = ? AND u.role <> ? THEN a.user_id END) AS unique_users,
			COALESCE(AVG(a.score_percentage), 0) AS avg_score,
			COALESCE(MIN(a.score_percentage), 0) AS min_score,
			COALESCE(MAX(a.score_percentage), 0) AS max_score`, true, entity.RoleAdmin).
		Joins("LEFT JOIN quiz_attempts a ON a.skill_id = s.id AND a.completed_at IS NOT NULL").
		Joins("LEFT JOIN users u ON u.id = a.user_id").
		Where("s.is_active = ?", true).
		Group("s.id, s.name, s.category").
		Order("avg_score ASC, s.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActiveLearners считает активных пользователей без роли администратора
func (r *ReportRepo) CountActiveLearners(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.User{}).
		Where("is_active = ? AND role <> ?", true, entity.RoleAdmin).
		Count(&count).Error
	return count, err
}

// OverviewTotals собирает общие счетчики системы
func (r *ReportRepo) OverviewTotals(ctx context.Context) (entity.OverviewTotals, error) {
	var t entity.OverviewTotals
	db := conn(ctx, r.db)

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&t.TotalUsers, &entity.User{}, "", nil},
		{&t.ActiveUsers, &entity.User{}, "is_active = ?", []interface{}{true}},
		{&t.TotalSkills, &entity.Skill{}, "", nil},
		{&t.ActiveSkills, &entity.Skill{}, "is_active = ?", []interface{}{true}},
		{&t.TotalQuestions, &entity.Question{}, "", nil},
		{&t.CompletedAttempts, &entity.QuizAttempt{}, "completed_at IS NOT NULL", nil},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return t, err
		}
	}

	err := db.Model(&entity.QuizAttempt{}).
		Select("COALESCE(AVG(score_percentage), 0)").
		Where("completed_at IS NOT NULL").
		Row().Scan(&t.AverageScore)
	if err != nil {
		return t, err
	}
	return t, nil
}

// CompletedSince возвращает завершенные попытки начиная с since
func (r *ReportRepo) CompletedSince(ctx context.Context, since time.Time) ([]entity.AttemptPoint, error) {
	points := make([]entity.AttemptPoint, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts").
		Select("user_id, score_percentage, completed_at").
		Where("completed_at IS NOT NULL AND completed_at >= ?", since.UTC()).
		Order("completed_at ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// TopPerformers возвращает активных пользователей с лучшим средним баллом
func (r *ReportRepo) TopPerformers(ctx context.Context, limit int) ([]entity.TopPerformer, error) {
	rows := make([]entity.TopPerformer, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(`u.id AS user_id, u.first_name, u.last_name, u.email,
			COUNT(a.id) AS quiz_count,
			AVG(a.score_percentage) AS avg_score`).
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.completed_at IS NOT NULL AND u.is_active = ?", true).
		Group("u.id, u.first_name, u.last_name, u.email").
		Order("avg_score DESC, quiz_count DESC, u.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ChallengingSkills возвращает активные навыки с самым низким средним баллом
func (r *ReportRepo) ChallengingSkills(ctx context.Context, limit int) ([]entity.ChallengingSkill, error) {
	rows := make([]entity.ChallengingSkill, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(`s.id AS skill_id, s.name AS skill_name, s.category,
			COUNT(a.id) AS attempts,
			AVG(a.score_percentage) AS avg_score`).
		Joins("JOIN skills s ON s.id = a.skill_id").
		Where("a.completed_at IS NOT NULL AND s.is_active = ?", true).
		Group("s.id, s.name, s.category").
		Order("avg_score ASC, s.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentAttempts возвращает последние завершенные попытки начиная с since
func (r *ReportRepo) RecentAttempts(ctx context.Context, since time.Time, limit int) ([]entity.RecentAttempt, error) {
	rows := make([]entity.RecentAttempt, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(`a.id AS attempt_id, u.id AS user_id, u.first_name, u.last_name, u.email,
			s.id AS skill_id, s.name AS skill_name,
			a.score_percentage, a.time_taken, a.completed_at`).
		Joins("JOIN users u ON u.id = a.user_id").
		Joins("JOIN skills s ON s.id = a.skill_id").
		Where("a.completed_at IS NOT NULL AND a.completed_at >= ?", since.UTC()).
		Order("a.completed_at DESC, a.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SkillUsage считает попытки по навыкам начиная с since
func (r *ReportRepo) SkillUsage(ctx context.Context, since time.Time) ([]entity.SkillUsage, error) {
	rows := make([]entity.SkillUsage, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(`s.id AS skill_id, s.name AS skill_name, s.category,
			COUNT(a.id) AS attempts,
			COUNT(DISTINCT a.user_id) AS unique_users`).
		Joins("JOIN skills s ON s.id = a.skill_id").
		Where("a.completed_at IS NOT NULL AND a.completed_at >= ?", since.UTC()).
		Group("s.id, s.name, s.category").
		Order("attempts DESC, s.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UserAttempts возвращает все завершенные попытки пользователя по возрастанию времени завершения
func (r *ReportRepo) UserAttempts(ctx context.Context, userID uint) ([]entity.AttemptSummary, error) {
	rows := make([]entity.AttemptSummary, 0)
	err := conn(ctx, r.db).
		Table("quiz_attempts AS a").
		Select(attemptSummaryColumns).
		Joins("JOIN skills s ON s.id = a.skill_id").
		Where("a.user_id = ? AND a.completed_at IS NOT NULL", userID).
		Order("a.completed_at ASC, a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
