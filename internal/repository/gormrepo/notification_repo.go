package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// NotificationRepo реализует repository.NotificationRepository
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo создает новый репозиторий уведомлений
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create сохраняет уведомление
func (r *NotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	return mapError(conn(ctx, r.db).Create(notification).Error)
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]entity.Notification, int64, error) {
	query := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&entity.Notification{}).Where("user_id = ?", userID)
		if unreadOnly {
			q = q.Where("is_read = ?", false)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]entity.Notification, 0)
	if err := query().Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountUnread считает непрочитанные уведомления
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead отмечает уведомление пользователя прочитанным
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, notificationID uint) error {
	res := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	return rowsOrNotFound(res)
}

// MarkAllRead отмечает все уведомления пользователя прочитанными
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
