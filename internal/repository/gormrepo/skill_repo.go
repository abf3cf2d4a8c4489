package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
)

// SkillRepo реализует repository.SkillRepository
type SkillRepo struct {
	db *gorm.DB
}

// NewSkillRepo создает новый репозиторий навыков
func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db: db}
}

// Create создает навык; занятое имя дает ErrConflict
func (r *SkillRepo) Create(ctx context.Context, skill *entity.Skill) error {
	return mapError(conn(ctx, r.db).Create(skill).Error)
}

// GetByID возвращает навык по ID
func (r *SkillRepo) GetByID(ctx context.Context, id uint) (*entity.Skill, error) {
	var skill entity.Skill
	if err := conn(ctx, r.db).First(&skill, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &skill, nil
}

// GetByName возвращает навык по имени
func (r *SkillRepo) GetByName(ctx context.Context, name string) (*entity.Skill, error) {
	var skill entity.Skill
	if err := conn(ctx, r.db).Where("name = ?", name).First(&skill).Error; err != nil {
		return nil, mapError(err)
	}
	return &skill, nil
}

// Update сохраняет навык
func (r *SkillRepo) Update(ctx context.Context, skill *entity.Skill) error {
	return mapError(conn(ctx, r.db).Save(skill).Error)
}

// Delete удаляет навык вместе с вопросами и попытками (каскад в схеме)
func (r *SkillRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(conn(ctx, r.db).Delete(&entity.Skill{}, id))
}

// List возвращает навыки с количеством активных вопросов
func (r *SkillRepo) List(ctx context.Context, filter repository.SkillFilter) ([]entity.SkillWithStats, error) {
	q := conn(ctx, r.db).
		Table("skills AS s").
		Select("s.*, (SELECT COUNT(*) FROM questions q WHERE q.skill_id = s.id AND q.is_active = ?) AS question_count", true)

	if !filter.IncludeInactive {
		q = q.Where("s.is_active = ?", true)
	}
	if filter.Category != "" {
		q = q.Where("s.category = ?", filter.Category)
	}

	skills := make([]entity.SkillWithStats, 0)
	if err := q.Order("s.category ASC, s.name ASC").Scan(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// Categories возвращает отсортированный список категорий активных навыков
func (r *SkillRepo) Categories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := conn(ctx, r.db).Model(&entity.Skill{}).
		Where("is_active = ?", true).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
