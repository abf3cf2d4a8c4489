package entity

import (
	"strings"
	"time"
)

// Варианты ответа
const (
	AnswerA = "A"
	AnswerB = "B"
	AnswerC = "C"
	AnswerD = "D"
)

// Уровни сложности вопроса
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Question представляет один вопрос теста по навыку
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SkillID       uint      `gorm:"not null;index" json:"skillId"`
	QuestionText  string    `gorm:"size:1000;not null" json:"questionText"`
	OptionA       string    `gorm:"size:500;not null" json:"optionA"`
	OptionB       string    `gorm:"size:500;not null" json:"optionB"`
	OptionC       string    `gorm:"size:500;not null" json:"optionC"`
	OptionD       string    `gorm:"size:500;not null" json:"optionD"`
	CorrectAnswer string    `gorm:"size:1;not null" json:"-"` // Скрыто от клиента
	Difficulty    string    `gorm:"size:10;not null" json:"difficulty"`
	Points        int       `gorm:"not null" json:"points"`
	Explanation   string    `gorm:"size:1000;not null" json:"explanation,omitempty"`
	IsActive      bool      `gorm:"not null" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным.
// Сравнение нечувствительно к регистру и пробелам.
func (q *Question) IsCorrect(selected string) bool {
	return NormalizeAnswer(selected) == q.CorrectAnswer
}

// Options возвращает варианты в порядке A..D
func (q *Question) Options() map[string]string {
	return map[string]string{
		AnswerA: q.OptionA,
		AnswerB: q.OptionB,
		AnswerC: q.OptionC,
		AnswerD: q.OptionD,
	}
}

// NormalizeAnswer приводит букву ответа к верхнему регистру
func NormalizeAnswer(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidAnswer проверяет, что буква ответа одна из A, B, C, D
func IsValidAnswer(s string) bool {
	switch NormalizeAnswer(s) {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	}
	return false
}

// IsValidDifficulty проверяет уровень сложности
func IsValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
