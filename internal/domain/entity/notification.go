package entity

import "time"

// Типы уведомлений
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification представляет уведомление пользователя
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Message   string    `gorm:"size:1000;not null" json:"message"`
	Type      string    `gorm:"size:20;not null" json:"type"`
	IsRead    bool      `gorm:"not null" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (Notification) TableName() string {
	return "notifications"
}

// IsValidNotificationType проверяет тип уведомления
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}
