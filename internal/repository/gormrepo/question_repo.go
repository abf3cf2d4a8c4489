package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает вопрос
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return mapError(conn(ctx, r.db).Create(question).Error)
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	if err := conn(ctx, r.db).First(&question, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &question, nil
}

// GetByText ищет вопрос навыка по тексту
func (r *QuestionRepo) GetByText(ctx context.Context, skillID uint, text string) (*entity.Question, error) {
	var question entity.Question
	err := conn(ctx, r.db).Where("skill_id = ? AND question_text = ?", skillID, text).First(&question).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &question, nil
}

// Update сохраняет вопрос
func (r *QuestionRepo) Update(ctx context.Context, question *entity.Question) error {
	return mapError(conn(ctx, r.db).Save(question).Error)
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(conn(ctx, r.db).Delete(&entity.Question{}, id))
}

// ListBySkill возвращает вопросы навыка по возрастанию ID
func (r *QuestionRepo) ListBySkill(ctx context.Context, skillID uint, activeOnly bool) ([]entity.Question, error) {
	q := conn(ctx, r.db).Where("skill_id = ?", skillID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	questions := make([]entity.Question, 0)
	if err := q.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// CountActiveBySkill считает активные вопросы навыка
func (r *QuestionRepo) CountActiveBySkill(ctx context.Context, skillID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Question{}).
		Where("skill_id = ? AND is_active = ?", skillID, true).
		Count(&count).Error
	return count, err
}
