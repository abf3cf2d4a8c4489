package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// QuestionInput данные для создания или изменения вопроса
type QuestionInput struct {
	SkillID       uint
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Difficulty    string
	Points        int
	Explanation   string
	IsActive      *bool
}

// QuestionService управляет банком вопросов (только администратор)
type QuestionService struct {
	questionRepo repository.QuestionRepository
	skillRepo    repository.SkillRepository
	invalidator  CacheInvalidator
	log          *zap.Logger
}

// NewQuestionService создает новый сервис вопросов. invalidator может быть nil.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	skillRepo repository.SkillRepository,
	invalidator CacheInvalidator,
	log *zap.Logger,
) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, skillRepo: skillRepo, invalidator: invalidator, log: log}
}

// ValidateQuestionInput проверяет и нормализует вопрос: варианты заполнены,
// ответ A..D, сложность easy|medium|hard (по умолчанию medium), баллы >= 1 (по умолчанию 1)
func ValidateQuestionInput(in *QuestionInput) error {
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	if in.QuestionText == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	for i, opt := range []string{in.OptionA, in.OptionB, in.OptionC, in.OptionD} {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %c is required", apperrors.ErrValidation, 'A'+i)
		}
	}
	if !entity.IsValidAnswer(in.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer must be one of A, B, C, D", apperrors.ErrValidation)
	}
	in.CorrectAnswer = entity.NormalizeAnswer(in.CorrectAnswer)

	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Difficulty == "" {
		in.Difficulty = entity.DifficultyMedium
	}
	if !entity.IsValidDifficulty(in.Difficulty) {
		return fmt.Errorf("%w: difficulty must be easy, medium or hard", apperrors.ErrValidation)
	}

	if in.Points == 0 {
		in.Points = 1
	}
	if in.Points < 1 {
		return fmt.Errorf("%w: points must be at least 1", apperrors.ErrValidation)
	}
	return nil
}

// ListBySkill возвращает все вопросы навыка вместе с правильными ответами
func (s *QuestionService) ListBySkill(ctx context.Context, skillID uint) ([]entity.Question, error) {
	if _, err := s.skillRepo.GetByID(ctx, skillID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListBySkill(ctx, skillID, false)
}

// Create создает вопрос
func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (*entity.Question, error) {
	if err := ValidateQuestionInput(&in); err != nil {
		return nil, err
	}
	if _, err := s.skillRepo.GetByID(ctx, in.SkillID); err != nil {
		return nil, err
	}

	q := &entity.Question{SkillID: in.SkillID, IsActive: true}
	applyQuestionInput(q, in)
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	s.log.Info("Question created", zap.Uint("question_id", q.ID), zap.Uint("skill_id", q.SkillID))
	s.invalidate(ctx)
	return q, nil
}

// Update изменяет вопрос; перенос в другой навык допускается
func (s *QuestionService) Update(ctx context.Context, id uint, in QuestionInput) (*entity.Question, error) {
	if err := ValidateQuestionInput(&in); err != nil {
		return nil, err
	}
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SkillID != 0 && in.SkillID != q.SkillID {
		if _, err := s.skillRepo.GetByID(ctx, in.SkillID); err != nil {
			return nil, err
		}
		q.SkillID = in.SkillID
	}
	applyQuestionInput(q, in)
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	s.invalidate(ctx)
	return q, nil
}

// Delete удаляет вопрос
func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Question deleted", zap.Uint("question_id", id))
	s.invalidate(ctx)
	return nil
}

// счетчик вопросов входит в кешированную сводку
func (s *QuestionService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}

func applyQuestionInput(q *entity.Question, in QuestionInput) {
	q.QuestionText = in.QuestionText
	q.OptionA = strings.TrimSpace(in.OptionA)
	q.OptionB = strings.TrimSpace(in.OptionB)
	q.OptionC = strings.TrimSpace(in.OptionC)
	q.OptionD = strings.TrimSpace(in.OptionD)
	q.CorrectAnswer = in.CorrectAnswer
	q.Difficulty = in.Difficulty
	q.Points = in.Points
	q.Explanation = strings.TrimSpace(in.Explanation)
	if in.IsActive != nil {
		q.IsActive = *in.IsActive
	}
}
