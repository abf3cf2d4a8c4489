package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

// Notifier доставляет уведомление пользователю
type Notifier interface {
	Notify(ctx context.Context, userID uint, kind, title, message string) error
}

// StartResult новая попытка и вопросы для прохождения (без правильных ответов)
type StartResult struct {
	Attempt   *entity.QuizAttempt
	Skill     *entity.Skill
	Questions []entity.Question
}

// AnswerInput ответ пользователя на вопрос
type AnswerInput struct {
	UserID         uint
	AttemptID      uint
	QuestionID     uint
	SelectedAnswer string
	TimeTaken      int
}

// AnswerResult результат проверки ответа
type AnswerResult struct {
	IsCorrect     bool
	CorrectAnswer string
	Explanation   string
}

// CompletionResult итог завершенной попытки
type CompletionResult struct {
	AttemptID       uint
	SkillID         uint
	TotalQuestions  int
	CorrectAnswers  int
	ScorePercentage float64 // округлено до 2 знаков
	TimeTaken       int
	CompletedAt     time.Time
}

// AttemptHistory страница истории попыток
type AttemptHistory struct {
	Attempts   []entity.AttemptSummary
	Pagination Pagination
}

// QuizService реализует жизненный цикл попытки: start -> answer -> complete
type QuizService struct {
	skillRepo    repository.SkillRepository
	questionRepo repository.QuestionRepository
	attemptRepo  repository.AttemptRepository
	tx           repository.Transactor
	notifier     Notifier
	metrics      *monitoring.Metrics
	log          *zap.Logger
	now          func() time.Time
}

// NewQuizService создает сервис попыток. notifier и metrics могут быть nil.
func NewQuizService(
	skillRepo repository.SkillRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	tx repository.Transactor,
	notifier Notifier,
	metrics *monitoring.Metrics,
	log *zap.Logger,
) *QuizService {
	return &QuizService{
		skillRepo:    skillRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		tx:           tx,
		notifier:     notifier,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// Start начинает попытку по активному навыку.
// Навык без активных вопросов дает ErrValidation, попытка при этом не создается.
func (s *QuizService) Start(ctx context.Context, userID, skillID uint) (*StartResult, error) {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if !skill.IsActive {
		return nil, fmt.Errorf("%w: skill %d is not active", apperrors.ErrNotFound, skillID)
	}

	questions, err := s.questionRepo.ListBySkill(ctx, skillID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: skill %d has no active questions", apperrors.ErrValidation, skillID)
	}

	attempt := &entity.QuizAttempt{
		UserID:         userID,
		SkillID:        skillID,
		TotalQuestions: len(questions),
		StartedAt:      s.now().UTC(),
	}
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.metrics.QuizStarted()
	s.log.Info("Quiz attempt started",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("user_id", userID),
		zap.Uint("skill_id", skillID),
		zap.Int("questions", len(questions)),
	)
	return &StartResult{Attempt: attempt, Skill: skill, Questions: questions}, nil
}

// loadOwnedAttempt возвращает попытку пользователя; чужая попытка неотличима от несуществующей
func (s *QuizService) loadOwnedAttempt(ctx context.Context, userID, attemptID uint) (*entity.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.BelongsTo(userID) {
		return nil, fmt.Errorf("%w: attempt %d", apperrors.ErrNotFound, attemptID)
	}
	return attempt, nil
}

// SubmitAnswer принимает ответ на вопрос попытки. Повторный ответ и ответ
// в завершенной попытке дают ErrConflict.
func (s *QuizService) SubmitAnswer(ctx context.Context, in AnswerInput) (*AnswerResult, error) {
	if !entity.IsValidAnswer(in.SelectedAnswer) {
		return nil, fmt.Errorf("%w: selected answer must be one of A, B, C, D", apperrors.ErrValidation)
	}
	if in.TimeTaken < 0 {
		return nil, fmt.Errorf("%w: time taken cannot be negative", apperrors.ErrValidation)
	}

	attempt, err := s.loadOwnedAttempt(ctx, in.UserID, in.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		return nil, fmt.Errorf("%w: attempt %d is already completed", apperrors.ErrConflict, attempt.ID)
	}

	question, err := s.questionRepo.GetByID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if question.SkillID != attempt.SkillID || !question.IsActive {
		return nil, fmt.Errorf("%w: question %d does not belong to attempt %d", apperrors.ErrNotFound, question.ID, attempt.ID)
	}

	answered, err := s.attemptRepo.HasAnswer(ctx, attempt.ID, question.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check previous answer: %w", err)
	}
	if answered {
		return nil, fmt.Errorf("%w: question %d already answered", apperrors.ErrConflict, question.ID)
	}

	answer := &entity.QuizAnswer{
		QuizAttemptID:  attempt.ID,
		QuestionID:     question.ID,
		SelectedAnswer: entity.NormalizeAnswer(in.SelectedAnswer),
		IsCorrect:      question.IsCorrect(in.SelectedAnswer),
		TimeTaken:      in.TimeTaken,
		AnsweredAt:     s.now().UTC(),
	}
	if err := s.attemptRepo.CreateAnswer(ctx, answer); err != nil {
		// Одновременный ответ на тот же вопрос отклоняется уникальным индексом
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: question %d already answered", apperrors.ErrConflict, question.ID)
		}
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	s.metrics.AnswerSubmitted(answer.IsCorrect)
	return &AnswerResult{
		IsCorrect:     answer.IsCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}, nil
}

// Complete завершает попытку: считает правильные ответы и записывает итог один раз
func (s *QuizService) Complete(ctx context.Context, userID, attemptID uint, timeTaken int) (*CompletionResult, error) {
	if timeTaken < 0 {
		return nil, fmt.Errorf("%w: time taken cannot be negative", apperrors.ErrValidation)
	}

	var result *CompletionResult
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		attempt, err := s.loadOwnedAttempt(ctx, userID, attemptID)
		if err != nil {
			return err
		}
		if attempt.IsCompleted() {
			return fmt.Errorf("%w: attempt %d is already completed", apperrors.ErrConflict, attempt.ID)
		}

		correct, err := s.attemptRepo.CountCorrect(ctx, attempt.ID)
		if err != nil {
			return fmt.Errorf("failed to count correct answers: %w", err)
		}

		completion := repository.AttemptCompletion{
			CorrectAnswers:  correct,
			ScorePercentage: entity.CalculateScore(correct, attempt.TotalQuestions),
			TimeTaken:       timeTaken,
			CompletedAt:     s.now().UTC(),
		}
		if err := s.attemptRepo.Complete(ctx, attempt.ID, completion); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return fmt.Errorf("%w: attempt %d is already completed", apperrors.ErrConflict, attempt.ID)
			}
			return fmt.Errorf("failed to complete attempt: %w", err)
		}

		result = &CompletionResult{
			AttemptID:       attempt.ID,
			SkillID:         attempt.SkillID,
			TotalQuestions:  attempt.TotalQuestions,
			CorrectAnswers:  correct,
			ScorePercentage: entity.RoundScore(completion.ScorePercentage),
			TimeTaken:       timeTaken,
			CompletedAt:     completion.CompletedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.QuizCompleted(result.ScorePercentage)
	s.log.Info("Quiz attempt completed",
		zap.Uint("attempt_id", result.AttemptID),
		zap.Uint("user_id", userID),
		zap.Float64("score", result.ScorePercentage),
	)
	s.notifyCompleted(ctx, userID, result)
	return result, nil
}

func (s *QuizService) notifyCompleted(ctx context.Context, userID uint, r *CompletionResult) {
	if s.notifier == nil {
		return
	}
	skillName := fmt.Sprintf("#%d", r.SkillID)
	if skill, err := s.skillRepo.GetByID(ctx, r.SkillID); err == nil {
		skillName = skill.Name
	}

	kind := entity.NotificationSuccess
	if entity.GapLevelFor(r.ScorePercentage) == entity.GapHigh {
		kind = entity.NotificationWarning
	}
	msg := fmt.Sprintf("You scored %.2f%% (%d/%d) on %s.", r.ScorePercentage, r.CorrectAnswers, r.TotalQuestions, skillName)
	if err := s.notifier.Notify(ctx, userID, kind, "Quiz completed", msg); err != nil {
		s.log.Warn("Failed to send completion notification", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// History возвращает страницу завершенных попыток пользователя.
// Страница за пределами pages дает пустой список.
func (s *QuizService) History(ctx context.Context, userID uint, page, limit int, skillID *uint) (*AttemptHistory, error) {
	page, limit = normalizePage(page, limit)

	rows, total, err := s.attemptRepo.ListCompletedByUser(ctx, userID, skillID, limit, offsetFor(page, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	for i := range rows {
		rows[i].ScorePercentage = entity.RoundScore(rows[i].ScorePercentage)
	}
	return &AttemptHistory{Attempts: rows, Pagination: newPagination(page, limit, total)}, nil
}

// Detail возвращает попытку с ответами владельцу или администратору.
// Остальным попытка не видна (ErrNotFound).
func (s *QuizService) Detail(ctx context.Context, requesterID uint, isAdmin bool, attemptID uint) (*entity.QuizAttempt, error) {
	attempt, err := s.attemptRepo.GetDetail(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !attempt.BelongsTo(requesterID) {
		return nil, fmt.Errorf("%w: attempt %d", apperrors.ErrNotFound, attemptID)
	}
	attempt.ScorePercentage = entity.RoundScore(attempt.ScorePercentage)
	return attempt, nil
}
