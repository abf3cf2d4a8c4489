package repository

import (
	"context"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	// GetByText ищет вопрос навыка по тексту (естественный ключ для импорта)
	GetByText(ctx context.Context, skillID uint, text string) (*entity.Question, error)
	Update(ctx context.Context, question *entity.Question) error
	Delete(ctx context.Context, id uint) error
	// ListBySkill возвращает вопросы навыка по возрастанию id
	ListBySkill(ctx context.Context, skillID uint, activeOnly bool) ([]entity.Question, error)
	CountActiveBySkill(ctx context.Context, skillID uint) (int64, error)
}
