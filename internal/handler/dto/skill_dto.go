package dto

import (
	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// SkillRequest создание или изменение навыка
type SkillRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Category    string `json:"category" binding:"required,max=50"`
	IsActive    *bool  `json:"isActive"`
}

// Input переводит запрос во входные данные сервиса
func (r SkillRequest) Input() service.SkillInput {
	return service.SkillInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		IsActive:    r.IsActive,
	}
}

// QuestionRequest создание или изменение вопроса.
// Значения проверяются в service.ValidateQuestionInput.
type QuestionRequest struct {
	SkillID       uint   `json:"skillId" binding:"required"`
	QuestionText  string `json:"questionText" binding:"required,max=1000"`
	OptionA       string `json:"optionA" binding:"required,max=500"`
	OptionB       string `json:"optionB" binding:"required,max=500"`
	OptionC       string `json:"optionC" binding:"required,max=500"`
	OptionD       string `json:"optionD" binding:"required,max=500"`
	CorrectAnswer string `json:"correctAnswer" binding:"required"`
	Difficulty    string `json:"difficulty"`
	Points        int    `json:"points"`
	Explanation   string `json:"explanation" binding:"omitempty,max=1000"`
	IsActive      *bool  `json:"isActive"`
}

// Input переводит запрос во входные данные сервиса
func (r QuestionRequest) Input() service.QuestionInput {
	return service.QuestionInput{
		SkillID:       r.SkillID,
		QuestionText:  r.QuestionText,
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectAnswer: r.CorrectAnswer,
		Difficulty:    r.Difficulty,
		Points:        r.Points,
		Explanation:   r.Explanation,
		IsActive:      r.IsActive,
	}
}

// AdminQuestionResponse вопрос вместе с правильным ответом, только для администратора
type AdminQuestionResponse struct {
	entity.Question
	CorrectAnswer string `json:"correctAnswer"`
}

// NewAdminQuestionResponse раскрывает правильный ответ вопроса
func NewAdminQuestionResponse(q *entity.Question) AdminQuestionResponse {
	return AdminQuestionResponse{Question: *q, CorrectAnswer: q.CorrectAnswer}
}

// NewAdminQuestionList преобразует список вопросов
func NewAdminQuestionList(questions []entity.Question) []AdminQuestionResponse {
	out := make([]AdminQuestionResponse, len(questions))
	for i := range questions {
		out[i] = NewAdminQuestionResponse(&questions[i])
	}
	return out
}
