package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// EventNotification тип websocket-события с новым уведомлением
const EventNotification = "notification"

// Pusher отправляет событие в открытые соединения пользователя
type Pusher interface {
	SendToUser(userID uint, eventType string, data interface{})
}

// NotificationPage страница уведомлений
type NotificationPage struct {
	Notifications []entity.Notification
	Unread        int64
	Pagination    Pagination
}

// NotificationService хранит уведомления и доставляет их по websocket
type NotificationService struct {
	repo   repository.NotificationRepository
	pusher Pusher
	log    *zap.Logger
}

// NewNotificationService создает сервис уведомлений. pusher может быть nil.
func NewNotificationService(repo repository.NotificationRepository, pusher Pusher, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, log: log}
}

// Notify сохраняет уведомление и отправляет его в открытые соединения пользователя
func (s *NotificationService) Notify(ctx context.Context, userID uint, kind, title, message string) error {
	if !entity.IsValidNotificationType(kind) {
		return fmt.Errorf("%w: unknown notification type %q", apperrors.ErrValidation, kind)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: notification title is required", apperrors.ErrValidation)
	}

	n := &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}

	if s.pusher != nil {
		s.pusher.SendToUser(userID, EventNotification, n)
	}
	return nil
}

// List возвращает уведомления пользователя и число непрочитанных
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page, limit int) (*NotificationPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, offsetFor(page, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return &NotificationPage{
		Notifications: items,
		Unread:        unread,
		Pagination:    newPagination(page, limit, total),
	}, nil
}

// MarkRead отмечает уведомление прочитанным
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead отмечает все уведомления пользователя прочитанными
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
