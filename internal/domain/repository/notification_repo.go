package repository

import (
	"context"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	// MarkRead отмечает уведомление прочитанным; чужое или несуществующее дает ErrNotFound
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}
