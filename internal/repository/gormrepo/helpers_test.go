package gormrepo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/pkg/database"
)

// newTestDB открывает in-memory SQLite с примененными миграциями
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: database.InMemory}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "sqlite", zap.NewNop()))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixtures struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB
	seq int
}

func newFixtures(t *testing.T, db *gorm.DB) *fixtures {
	return &fixtures{t: t, ctx: context.Background(), db: db}
}

func (f *fixtures) user(role string, active bool) *entity.User {
	f.t.Helper()
	f.seq++
	u := &entity.User{
		Email:     fmt.Sprintf("user%d@example.com", f.seq),
		Password:  "$2a$10$abcdefghijklmnopqrstuuJ5v3h0fK5Yd5X8bY0Xq1Q7cT3mQ9v2", // уже хеш
		FirstName: fmt.Sprintf("User%d", f.seq),
		Role:      role,
		IsActive:  active,
	}
	require.NoError(f.t, NewUserRepo(f.db).Create(f.ctx, u))
	return u
}

func (f *fixtures) skill(name, category string, active bool) *entity.Skill {
	f.t.Helper()
	s := &entity.Skill{Name: name, Category: category, IsActive: active}
	require.NoError(f.t, NewSkillRepo(f.db).Create(f.ctx, s))
	return s
}

func (f *fixtures) question(skillID uint, correct string, active bool) *entity.Question {
	f.t.Helper()
	f.seq++
	q := &entity.Question{
		SkillID:       skillID,
		QuestionText:  fmt.Sprintf("Question %d?", f.seq),
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: correct,
		Difficulty:    entity.DifficultyMedium,
		Points:        1,
		IsActive:      active,
	}
	require.NoError(f.t, NewQuestionRepo(f.db).Create(f.ctx, q))
	return q
}

// completedAttempt создает завершенную попытку с заданным процентом и временем завершения
func (f *fixtures) completedAttempt(userID, skillID uint, score float64, completedAt time.Time) *entity.QuizAttempt {
	f.t.Helper()
	completedAt = completedAt.UTC()
	a := &entity.QuizAttempt{
		UserID:          userID,
		SkillID:         skillID,
		TotalQuestions:  10,
		CorrectAnswers:  int(score / 10),
		ScorePercentage: score,
		StartedAt:       completedAt.Add(-5 * time.Minute),
		CompletedAt:     &completedAt,
	}
	require.NoError(f.t, NewAttemptRepo(f.db).Create(f.ctx, a))
	return a
}

func (f *fixtures) openAttempt(userID, skillID uint, total int) *entity.QuizAttempt {
	f.t.Helper()
	a := &entity.QuizAttempt{
		UserID:         userID,
		SkillID:        skillID,
		TotalQuestions: total,
		StartedAt:      time.Now().UTC(),
	}
	require.NoError(f.t, NewAttemptRepo(f.db).Create(f.ctx, a))
	return a
}
