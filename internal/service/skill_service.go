package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// CacheInvalidator сбрасывает кешированные отчеты после изменения каталога
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// SkillInput данные для создания или изменения навыка
type SkillInput struct {
	Name        string
	Description string
	Category    string
	IsActive    *bool
}

// SkillService управляет каталогом навыков
type SkillService struct {
	skillRepo    repository.SkillRepository
	questionRepo repository.QuestionRepository
	invalidator  CacheInvalidator
	log          *zap.Logger
}

// NewSkillService создает новый сервис навыков. invalidator может быть nil.
func NewSkillService(
	skillRepo repository.SkillRepository,
	questionRepo repository.QuestionRepository,
	invalidator CacheInvalidator,
	log *zap.Logger,
) *SkillService {
	return &SkillService{
		skillRepo:    skillRepo,
		questionRepo: questionRepo,
		invalidator:  invalidator,
		log:          log,
	}
}

// List возвращает навыки; неактивные только по запросу администратора
func (s *SkillService) List(ctx context.Context, category string, includeInactive bool) ([]entity.SkillWithStats, error) {
	return s.skillRepo.List(ctx, repository.SkillFilter{
		Category:        strings.TrimSpace(category),
		IncludeInactive: includeInactive,
	})
}

// Categories возвращает список категорий
func (s *SkillService) Categories(ctx context.Context) ([]string, error) {
	return s.skillRepo.Categories(ctx)
}

// Get возвращает навык с числом активных вопросов.
// Неактивный навык виден только администратору.
func (s *SkillService) Get(ctx context.Context, id uint, isAdmin bool) (*entity.SkillWithStats, error) {
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !skill.IsActive && !isAdmin {
		return nil, fmt.Errorf("%w: skill %d", apperrors.ErrNotFound, id)
	}
	count, err := s.questionRepo.CountActiveBySkill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	return &entity.SkillWithStats{Skill: *skill, QuestionCount: count}, nil
}

func validateSkillInput(in SkillInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: skill name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: skill category is required", apperrors.ErrValidation)
	}
	return nil
}

// Create создает навык
func (s *SkillService) Create(ctx context.Context, in SkillInput) (*entity.Skill, error) {
	if err := validateSkillInput(in); err != nil {
		return nil, err
	}
	skill := &entity.Skill{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: skill %q already exists", apperrors.ErrConflict, skill.Name)
		}
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	s.log.Info("Skill created", zap.Uint("skill_id", skill.ID), zap.String("name", skill.Name))
	s.invalidate(ctx)
	return skill, nil
}

// Update изменяет навык
func (s *SkillService) Update(ctx context.Context, id uint, in SkillInput) (*entity.Skill, error) {
	if err := validateSkillInput(in); err != nil {
		return nil, err
	}
	skill, err := s.skillRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	skill.Name = strings.TrimSpace(in.Name)
	skill.Description = strings.TrimSpace(in.Description)
	skill.Category = strings.TrimSpace(in.Category)
	if in.IsActive != nil {
		skill.IsActive = *in.IsActive
	}
	if err := s.skillRepo.Update(ctx, skill); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: skill %q already exists", apperrors.ErrConflict, skill.Name)
		}
		return nil, fmt.Errorf("failed to update skill: %w", err)
	}
	s.invalidate(ctx)
	return skill, nil
}

// Delete удаляет навык вместе с вопросами и попытками
func (s *SkillService) Delete(ctx context.Context, id uint) error {
	if err := s.skillRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Skill deleted", zap.Uint("skill_id", id))
	s.invalidate(ctx)
	return nil
}

func (s *SkillService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
