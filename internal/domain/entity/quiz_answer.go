package entity

import (
	"time"
)

// QuizAnswer представляет ответ пользователя на вопрос в рамках попытки.
// Для пары (quiz_attempt_id, question_id) существует не более одной записи.
type QuizAnswer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	QuizAttemptID  uint      `gorm:"not null;index" json:"quizAttemptId"`
	QuestionID     uint      `gorm:"not null;index" json:"questionId"`
	SelectedAnswer string    `gorm:"size:1;not null" json:"selectedAnswer"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`
	TimeTaken      int       `gorm:"not null" json:"timeTaken"` // секунды
	AnsweredAt     time.Time `gorm:"not null" json:"answeredAt"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuizAnswer) TableName() string {
	return "quiz_answers"
}
