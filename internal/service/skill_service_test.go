package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.calls++
}

func TestSkillService_List(t *testing.T) {
	ctx := context.Background()
	skills := new(MockSkillRepository)
	skills.On("List", ctx, repository.SkillFilter{Category: "Data", IncludeInactive: false}).
		Return([]entity.SkillWithStats{{Skill: entity.Skill{ID: 1}, QuestionCount: 4}}, nil)

	svc := NewSkillService(skills, new(MockQuestionRepository), nil, testLogger())
	got, err := svc.List(ctx, " Data ", false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got[0].QuestionCount)
}

func TestSkillService_Get(t *testing.T) {
	ctx := context.Background()
	skills := new(MockSkillRepository)
	questions := new(MockQuestionRepository)
	skills.On("GetByID", ctx, uint(1)).Return(&entity.Skill{ID: 1, IsActive: false}, nil)
	questions.On("CountActiveBySkill", ctx, uint(1)).Return(int64(2), nil)
	svc := NewSkillService(skills, questions, nil, testLogger())

	_, err := svc.Get(ctx, 1, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "неактивный навык скрыт от пользователя")

	got, err := svc.Get(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.QuestionCount)
}

func TestSkillService_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	skills := new(MockSkillRepository)
	inv := &countingInvalidator{}
	svc := NewSkillService(skills, new(MockQuestionRepository), inv, testLogger())

	skills.On("Create", ctx, mock.MatchedBy(func(s *entity.Skill) bool {
		return s.Name == "Go" && s.Category == "Programming" && s.IsActive
	})).Return(nil).Once()
	created, err := svc.Create(ctx, SkillInput{Name: " Go ", Category: "Programming"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	skills.On("Create", ctx, mock.Anything).Return(apperrors.ErrConflict).Once()
	_, err = svc.Create(ctx, SkillInput{Name: "Go", Category: "Programming"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(ctx, SkillInput{Name: "Go"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	existing := &entity.Skill{ID: 2, Name: "SQL", Category: "Data", IsActive: true}
	skills.On("GetByID", ctx, uint(2)).Return(existing, nil)
	skills.On("Update", ctx, existing).Return(nil)
	updated, err := svc.Update(ctx, 2, SkillInput{Name: "SQL", Category: "Data", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	skills.On("Delete", ctx, uint(2)).Return(nil)
	require.NoError(t, svc.Delete(ctx, 2))

	skills.On("Delete", ctx, uint(3)).Return(apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 3), apperrors.ErrNotFound)

	assert.Equal(t, 3, inv.calls, "кеш сбрасывается после каждого успешного изменения")
}

func TestValidateQuestionInput(t *testing.T) {
	valid := func() QuestionInput {
		return QuestionInput{
			SkillID: 1, QuestionText: " What? ", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
			CorrectAnswer: "c",
		}
	}

	in := valid()
	require.NoError(t, ValidateQuestionInput(&in))
	assert.Equal(t, "What?", in.QuestionText)
	assert.Equal(t, "C", in.CorrectAnswer)
	assert.Equal(t, entity.DifficultyMedium, in.Difficulty)
	assert.Equal(t, 1, in.Points)

	cases := map[string]func(*QuestionInput){
		"empty text":     func(in *QuestionInput) { in.QuestionText = "" },
		"missing option": func(in *QuestionInput) { in.OptionC = " " },
		"bad answer":     func(in *QuestionInput) { in.CorrectAnswer = "E" },
		"bad difficulty": func(in *QuestionInput) { in.Difficulty = "insane" },
		"negative point": func(in *QuestionInput) { in.Points = -2 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			mutate(&in)
			assert.ErrorIs(t, ValidateQuestionInput(&in), apperrors.ErrValidation)
		})
	}

	in = valid()
	in.OptionB = ""
	assert.EqualError(t, ValidateQuestionInput(&in), "validation failed: option B is required")
}

func TestQuestionService_Create(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	skills := new(MockSkillRepository)
	svc := NewQuestionService(questions, skills, nil, testLogger())

	skills.On("GetByID", ctx, uint(1)).Return(&entity.Skill{ID: 1}, nil)
	skills.On("GetByID", ctx, uint(9)).Return(nil, apperrors.ErrNotFound)
	questions.On("Create", ctx, mock.MatchedBy(func(q *entity.Question) bool {
		return q.SkillID == 1 && q.CorrectAnswer == "A" && q.IsActive && q.Difficulty == entity.DifficultyHard
	})).Return(nil)

	q, err := svc.Create(ctx, QuestionInput{
		SkillID: 1, QuestionText: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectAnswer: "a", Difficulty: "HARD", Points: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Points)

	_, err = svc.Create(ctx, QuestionInput{
		SkillID: 9, QuestionText: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "a",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuestionService_UpdateMovesSkill(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	skills := new(MockSkillRepository)
	svc := NewQuestionService(questions, skills, nil, testLogger())

	existing := &entity.Question{ID: 4, SkillID: 1, IsActive: true}
	questions.On("GetByID", ctx, uint(4)).Return(existing, nil)
	skills.On("GetByID", ctx, uint(2)).Return(&entity.Skill{ID: 2}, nil)
	questions.On("Update", ctx, existing).Return(nil)

	q, err := svc.Update(ctx, 4, QuestionInput{
		SkillID: 2, QuestionText: "Q2", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectAnswer: "d", IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), q.SkillID)
	assert.Equal(t, "D", q.CorrectAnswer)
	assert.False(t, q.IsActive)
}

func TestQuestionService_InvalidatesReports(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	skills := new(MockSkillRepository)
	inv := &countingInvalidator{}
	svc := NewQuestionService(questions, skills, inv, testLogger())

	existing := &entity.Question{ID: 4, SkillID: 1, IsActive: true}
	skills.On("GetByID", ctx, uint(1)).Return(&entity.Skill{ID: 1}, nil)
	questions.On("Create", ctx, mock.Anything).Return(nil)
	questions.On("GetByID", ctx, uint(4)).Return(existing, nil)
	questions.On("Update", ctx, existing).Return(nil)
	questions.On("Delete", ctx, uint(4)).Return(nil)
	questions.On("Delete", ctx, uint(5)).Return(apperrors.ErrNotFound)

	in := QuestionInput{
		SkillID: 1, QuestionText: "Q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectAnswer: "b",
	}
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)
	_, err = svc.Update(ctx, 4, in)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 4))
	assert.Equal(t, 3, inv.calls)

	// Неудачное удаление кеш не трогает
	assert.ErrorIs(t, svc.Delete(ctx, 5), apperrors.ErrNotFound)
	assert.Equal(t, 3, inv.calls)
}
