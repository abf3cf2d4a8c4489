package dto

import (
	"time"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// StartQuizRequest запрос на начало попытки
type StartQuizRequest struct {
	SkillID uint `json:"skillId" binding:"required"`
}

// SubmitAnswerRequest ответ на вопрос попытки
type SubmitAnswerRequest struct {
	QuizAttemptID  uint   `json:"quizAttemptId" binding:"required"`
	QuestionID     uint   `json:"questionId" binding:"required"`
	SelectedAnswer string `json:"selectedAnswer" binding:"required"`
	TimeTaken      int    `json:"timeTaken" binding:"min=0"`
}

// CompleteQuizRequest завершение попытки
type CompleteQuizRequest struct {
	QuizAttemptID uint `json:"quizAttemptId" binding:"required"`
	TimeTaken     int  `json:"timeTaken" binding:"min=0"`
}

// QuizQuestion вопрос в попытке: без правильного ответа и пояснения
type QuizQuestion struct {
	ID           uint   `json:"id"`
	QuestionText string `json:"questionText"`
	OptionA      string `json:"optionA"`
	OptionB      string `json:"optionB"`
	OptionC      string `json:"optionC"`
	OptionD      string `json:"optionD"`
	Difficulty   string `json:"difficulty"`
	Points       int    `json:"points"`
}

// StartQuizResponse новая попытка
type StartQuizResponse struct {
	QuizAttemptID  uint           `json:"quizAttemptId"`
	SkillID        uint           `json:"skillId"`
	SkillName      string         `json:"skillName"`
	TotalQuestions int            `json:"totalQuestions"`
	StartedAt      time.Time      `json:"startedAt"`
	Questions      []QuizQuestion `json:"questions"`
}

// NewStartQuizResponse создает DTO новой попытки
func NewStartQuizResponse(r *service.StartResult) StartQuizResponse {
	questions := make([]QuizQuestion, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = QuizQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
			Difficulty:   q.Difficulty,
			Points:       q.Points,
		}
	}
	return StartQuizResponse{
		QuizAttemptID:  r.Attempt.ID,
		SkillID:        r.Skill.ID,
		SkillName:      r.Skill.Name,
		TotalQuestions: r.Attempt.TotalQuestions,
		StartedAt:      r.Attempt.StartedAt,
		Questions:      questions,
	}
}

// AnswerResponse результат проверки ответа
type AnswerResponse struct {
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// NewAnswerResponse создает DTO результата ответа
func NewAnswerResponse(r *service.AnswerResult) AnswerResponse {
	return AnswerResponse{
		IsCorrect:     r.IsCorrect,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
}

// CompletionResponse итог попытки
type CompletionResponse struct {
	QuizAttemptID   uint      `json:"quizAttemptId"`
	SkillID         uint      `json:"skillId"`
	TotalQuestions  int       `json:"totalQuestions"`
	CorrectAnswers  int       `json:"correctAnswers"`
	ScorePercentage float64   `json:"scorePercentage"`
	TimeTaken       int       `json:"timeTaken"`
	CompletedAt     time.Time `json:"completedAt"`
}

// NewCompletionResponse создает DTO итога попытки
func NewCompletionResponse(r *service.CompletionResult) CompletionResponse {
	return CompletionResponse{
		QuizAttemptID:   r.AttemptID,
		SkillID:         r.SkillID,
		TotalQuestions:  r.TotalQuestions,
		CorrectAnswers:  r.CorrectAnswers,
		ScorePercentage: r.ScorePercentage,
		TimeTaken:       r.TimeTaken,
		CompletedAt:     r.CompletedAt,
	}
}

// HistoryResponse страница истории попыток
type HistoryResponse struct {
	Attempts   []entity.AttemptSummary `json:"attempts"`
	Pagination service.Pagination      `json:"pagination"`
}

// NewHistoryResponse создает DTO истории; страница за пределами диапазона дает пустой список
func NewHistoryResponse(h *service.AttemptHistory) HistoryResponse {
	attempts := h.Attempts
	if attempts == nil {
		attempts = []entity.AttemptSummary{}
	}
	return HistoryResponse{Attempts: attempts, Pagination: h.Pagination}
}

// AnswerDetail ответ в разборе попытки вместе с текстом вопроса
type AnswerDetail struct {
	QuestionID     uint      `json:"questionId"`
	QuestionText   string    `json:"questionText"`
	OptionA        string    `json:"optionA"`
	OptionB        string    `json:"optionB"`
	OptionC        string    `json:"optionC"`
	OptionD        string    `json:"optionD"`
	SelectedAnswer string    `json:"selectedAnswer"`
	CorrectAnswer  string    `json:"correctAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	Explanation    string    `json:"explanation,omitempty"`
	TimeTaken      int       `json:"timeTaken"`
	AnsweredAt     time.Time `json:"answeredAt"`
}

// AttemptDetailResponse попытка со всеми ответами
type AttemptDetailResponse struct {
	ID              uint           `json:"id"`
	UserID          uint           `json:"userId"`
	SkillID         uint           `json:"skillId"`
	SkillName       string         `json:"skillName"`
	TotalQuestions  int            `json:"totalQuestions"`
	CorrectAnswers  int            `json:"correctAnswers"`
	ScorePercentage float64        `json:"scorePercentage"`
	TimeTaken       int            `json:"timeTaken"`
	StartedAt       time.Time      `json:"startedAt"`
	CompletedAt     *time.Time     `json:"completedAt"`
	Answers         []AnswerDetail `json:"answers"`
}

// NewAttemptDetailResponse создает DTO разбора попытки
func NewAttemptDetailResponse(a *entity.QuizAttempt) AttemptDetailResponse {
	resp := AttemptDetailResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		SkillID:         a.SkillID,
		TotalQuestions:  a.TotalQuestions,
		CorrectAnswers:  a.CorrectAnswers,
		ScorePercentage: a.ScorePercentage,
		TimeTaken:       a.TimeTaken,
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
		Answers:         make([]AnswerDetail, 0, len(a.Answers)),
	}
	if a.Skill != nil {
		resp.SkillName = a.Skill.Name
	}
	for _, ans := range a.Answers {
		d := AnswerDetail{
			QuestionID:     ans.QuestionID,
			SelectedAnswer: ans.SelectedAnswer,
			IsCorrect:      ans.IsCorrect,
			TimeTaken:      ans.TimeTaken,
			AnsweredAt:     ans.AnsweredAt,
		}
		if q := ans.Question; q != nil {
			d.QuestionText = q.QuestionText
			d.OptionA, d.OptionB, d.OptionC, d.OptionD = q.OptionA, q.OptionB, q.OptionC, q.OptionD
			d.CorrectAnswer = q.CorrectAnswer
			d.Explanation = q.Explanation
		}
		resp.Answers = append(resp.Answers, d)
	}
	return resp
}
