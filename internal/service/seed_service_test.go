package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

const sampleSeed = `
users:
  - email: Learner@Example.com
    password: secret1
    first_name: Lee
    last_name: Learner
skills:
  - name: Go
    category: Programming
    description: Go basics
    questions:
      - text: Which keyword starts a goroutine?
        a: go
        b: async
        c: spawn
        d: thread
        answer: a
        difficulty: easy
      - text: What does defer do?
        a: Runs now
        b: Runs at function return
        c: Panics
        d: Nothing
        answer: B
        points: 2
`

func TestParseSeed(t *testing.T) {
	f, err := ParseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	require.Len(t, f.Users, 1)
	require.Len(t, f.Skills, 1)
	assert.Equal(t, "Lee", f.Users[0].FirstName)
	assert.Len(t, f.Skills[0].Questions, 2)
	assert.NoError(t, ValidateSeed(f))
}

func TestParseSeed_UnknownField(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("skills:\n  - name: Go\n    eval: rm -rf /\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseSeed_Empty(t *testing.T) {
	f, err := ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Users)
	assert.Empty(t, f.Skills)
}

func TestValidateSeed_CollectsAllErrors(t *testing.T) {
	f := &SeedFile{
		Users: []SeedUser{
			{Email: "bad", Password: "123"},
			{Email: "a@b.c", Password: "secret1", Role: "root"},
		},
		Skills: []SeedSkill{
			{Name: "Go"},
			{Name: "Go", Category: "Programming", Questions: []SeedQuestion{
				{Text: "Q", A: "a", B: "b", C: "c", D: "d", Answer: "X"},
			}},
		},
	}
	err := ValidateSeed(f)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	msg := err.Error()
	for _, want := range []string{
		"users[0]: invalid email",
		"users[0]: password must be at least 6",
		"users[1]: unknown role",
		"skills[0]:",
		"skills[1]: duplicate skill",
		"skills[1].questions[0]:",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestSeedService_Apply(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	skills := new(MockSkillRepository)
	questions := new(MockQuestionRepository)
	tx := &fakeTx{}
	svc := NewSeedService(tx, users, skills, questions, testLogger())

	f, err := ParseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)

	users.On("GetByEmail", ctx, "learner@example.com").Return(nil, apperrors.ErrNotFound)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "learner@example.com" && u.Role == entity.RoleUser && u.IsActive
	})).Return(nil)

	existingSkill := &entity.Skill{ID: 3, Name: "Go", Category: "Old", IsActive: false}
	skills.On("GetByName", ctx, "Go").Return(existingSkill, nil)
	skills.On("Update", ctx, existingSkill).Return(nil)

	existingQ := &entity.Question{ID: 11, SkillID: 3, QuestionText: "What does defer do?", IsActive: false}
	questions.On("GetByText", ctx, uint(3), "Which keyword starts a goroutine?").Return(nil, apperrors.ErrNotFound)
	questions.On("GetByText", ctx, uint(3), "What does defer do?").Return(existingQ, nil)
	questions.On("Create", ctx, mock.MatchedBy(func(q *entity.Question) bool {
		return q.SkillID == 3 && q.CorrectAnswer == "A" && q.Difficulty == entity.DifficultyEasy && q.IsActive
	})).Return(nil)
	questions.On("Update", ctx, existingQ).Return(nil)

	report, err := svc.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, &SeedReport{
		UsersCreated:     1,
		SkillsUpdated:    1,
		QuestionsCreated: 1,
		QuestionsUpdated: 1,
	}, report)
	assert.Equal(t, 1, tx.calls)

	assert.Equal(t, "Programming", existingSkill.Category)
	assert.True(t, existingSkill.IsActive)
	assert.Equal(t, "B", existingQ.CorrectAnswer)
	assert.Equal(t, 2, existingQ.Points)
	assert.True(t, existingQ.IsActive)
}

func TestSeedService_ApplyInvalidDoesNotTouchStore(t *testing.T) {
	users := new(MockUserRepository)
	tx := &fakeTx{}
	svc := NewSeedService(tx, users, new(MockSkillRepository), new(MockQuestionRepository), testLogger())

	_, err := svc.Apply(context.Background(), &SeedFile{Users: []SeedUser{{Email: "x"}}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Zero(t, tx.calls)
}
