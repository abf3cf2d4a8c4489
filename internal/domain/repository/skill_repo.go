package repository

import (
	"context"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// SkillFilter задает условия выборки навыков
type SkillFilter struct {
	Category        string
	IncludeInactive bool
}

// SkillRepository определяет методы для работы с навыками
type SkillRepository interface {
	Create(ctx context.Context, skill *entity.Skill) error
	GetByID(ctx context.Context, id uint) (*entity.Skill, error)
	GetByName(ctx context.Context, name string) (*entity.Skill, error)
	Update(ctx context.Context, skill *entity.Skill) error
	Delete(ctx context.Context, id uint) error
	// List возвращает навыки с количеством активных вопросов, упорядоченные по категории и имени
	List(ctx context.Context, filter SkillFilter) ([]entity.SkillWithStats, error)
	Categories(ctx context.Context) ([]string, error)
}
