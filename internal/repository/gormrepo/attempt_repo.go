package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет новую попытку
func (r *AttemptRepo) Create(ctx context.Context, attempt *entity.QuizAttempt) error {
	return mapError(conn(ctx, r.db).Omit("Skill", "Answers").Create(attempt).Error)
}

// GetByID возвращает попытку без связанных данных
func (r *AttemptRepo) GetByID(ctx context.Context, id uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	if err := conn(ctx, r.db).First(&attempt, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &attempt, nil
}

// GetDetail возвращает попытку с навыком, ответами и вопросами
func (r *AttemptRepo) GetDetail(ctx context.Context, id uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := conn(ctx, r.db).
		Preload("Skill").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_answers.id ASC")
		}).
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &attempt, nil
}

// HasAnswer проверяет наличие ответа на вопрос в попытке
func (r *AttemptRepo) HasAnswer(ctx context.Context, attemptID, questionID uint) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.QuizAnswer{}).
		Where("quiz_attempt_id = ? AND question_id = ?", attemptID, questionID).
		Count(&count).Error
	return count > 0, err
}

// CreateAnswer сохраняет ответ; уникальный индекс (quiz_attempt_id, question_id)
// превращает гонку двух одновременных ответов в ErrConflict
func (r *AttemptRepo) CreateAnswer(ctx context.Context, answer *entity.QuizAnswer) error {
	return mapError(conn(ctx, r.db).Omit("Question").Create(answer).Error)
}

// CountCorrect считает правильные ответы попытки
func (r *AttemptRepo) CountCorrect(ctx context.Context, attemptID uint) (int, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.QuizAnswer{}).
		Where("quiz_attempt_id = ? AND is_correct = ?", attemptID, true).
		Count(&count).Error
	return int(count), err
}

// Complete записывает итоги условным UPDATE ... WHERE completed_at IS NULL.
// Если строка не обновлена, попытка уже завершена (или не существует).
func (r *AttemptRepo) Complete(ctx context.Context, attemptID uint, result repository.AttemptCompletion) error {
	res := conn(ctx, r.db).Model(&entity.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"correct_answers":  result.CorrectAnswers,
			"score_percentage": result.ScorePercentage,
			"time_taken":       result.TimeTaken,
			"completed_at":     result.CompletedAt.UTC(),
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ListCompletedByUser возвращает страницу завершенных попыток пользователя и общее количество
func (r *AttemptRepo) ListCompletedByUser(ctx context.Context, userID uint, skillID *uint, limit, offset int) ([]entity.AttemptSummary, int64, error) {
	query := func() *gorm.DB {
		q := conn(ctx, r.db).
			Table("quiz_attempts AS a").
			Joins("JOIN skills s ON s.id = a.skill_id").
			Where("a.user_id = ? AND a.completed_at IS NOT NULL", userID)
		if skillID != nil {
			q = q.Where("a.skill_id = ?", *skillID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]entity.AttemptSummary, 0)
	if total == 0 || offset < 0 || int64(offset) >= total {
		return rows, total, nil
	}

	err := query().
		Select(attemptSummaryColumns).
		Order("a.completed_at DESC, a.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

const attemptSummaryColumns = `a.id, a.skill_id, s.name AS skill_name, s.category,
	a.total_questions, a.correct_answers, a.score_percentage, a.time_taken,
	a.started_at, a.completed_at`
