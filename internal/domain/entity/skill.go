package entity

import "time"

// Skill представляет оцениваемую тему
type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	Category    string    `gorm:"size:100;not null;index" json:"category"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Skill) TableName() string {
	return "skills"
}

// SkillWithStats дополняет навык количеством активных вопросов
type SkillWithStats struct {
	Skill
	QuestionCount int64 `json:"questionCount"`
}
