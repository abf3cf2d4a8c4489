package entity

import (
	"math"
	"time"
)

// QuizAttempt представляет одну сессию прохождения теста пользователем по навыку.
// Состояния: в процессе (CompletedAt == nil) -> завершена (терминальное).
type QuizAttempt struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"userId"`
	SkillID         uint       `gorm:"not null;index" json:"skillId"`
	TotalQuestions  int        `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers  int        `gorm:"not null" json:"correctAnswers"`
	ScorePercentage float64    `gorm:"not null" json:"scorePercentage"`
	TimeTaken       int        `gorm:"not null" json:"timeTaken"` // секунды
	StartedAt       time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt     *time.Time `gorm:"index" json:"completedAt,omitempty"`

	Skill   *Skill       `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Answers []QuizAnswer `gorm:"foreignKey:QuizAttemptID" json:"answers,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// IsCompleted проверяет, завершена ли попытка
func (a *QuizAttempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

// BelongsTo проверяет владельца попытки
func (a *QuizAttempt) BelongsTo(userID uint) bool {
	return a.UserID == userID
}

// CalculateScore возвращает процент правильных ответов с полной точностью.
// При total == 0 возвращает 0.
func CalculateScore(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// RoundScore округляет процент до двух знаков для отображения
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
