package repository

import (
	"context"
	"time"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// AttemptCompletion итоговые значения, записываемые при завершении попытки
type AttemptCompletion struct {
	CorrectAnswers  int
	ScorePercentage float64
	TimeTaken       int
	CompletedAt     time.Time
}

// AttemptRepository определяет методы для работы с попытками и ответами
type AttemptRepository interface {
	Create(ctx context.Context, attempt *entity.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*entity.QuizAttempt, error)
	// GetDetail загружает попытку вместе с навыком, ответами и вопросами
	GetDetail(ctx context.Context, id uint) (*entity.QuizAttempt, error)

	// HasAnswer проверяет, был ли уже дан ответ на вопрос в попытке
	HasAnswer(ctx context.Context, attemptID, questionID uint) (bool, error)
	// CreateAnswer сохраняет ответ; повторный ответ на тот же вопрос дает ErrConflict
	CreateAnswer(ctx context.Context, answer *entity.QuizAnswer) error
	CountCorrect(ctx context.Context, attemptID uint) (int, error)

	// Complete записывает итоги только если попытка еще не завершена, иначе ErrConflict
	Complete(ctx context.Context, attemptID uint, result AttemptCompletion) error

	// ListCompletedByUser возвращает завершенные попытки пользователя по убыванию completed_at
	ListCompletedByUser(ctx context.Context, userID uint, skillID *uint, limit, offset int) ([]entity.AttemptSummary, int64, error)
}

// Transactor выполняет fn в одной транзакции; репозитории берут транзакцию из ctx
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
