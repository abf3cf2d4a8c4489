package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("сохраняет и отправляет", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		pusher := new(MockPusher)
		repo.On("Create", ctx, mock.MatchedBy(func(n *entity.Notification) bool {
			return n.UserID == 5 && n.Type == entity.NotificationInfo && !n.IsRead
		})).Return(nil)
		pusher.On("SendToUser", uint(5), EventNotification, mock.AnythingOfType("*entity.Notification")).Return()

		svc := NewNotificationService(repo, pusher, testLogger())
		require.NoError(t, svc.Notify(ctx, 5, entity.NotificationInfo, "Hello", "World"))
		pusher.AssertExpectations(t)
	})

	t.Run("ошибка хранилища не отправляет", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		pusher := new(MockPusher)
		repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		svc := NewNotificationService(repo, pusher, testLogger())
		assert.Error(t, svc.Notify(ctx, 5, entity.NotificationInfo, "Hello", ""))
		pusher.AssertNotCalled(t, "SendToUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("неизвестный тип и пустой заголовок", func(t *testing.T) {
		svc := NewNotificationService(new(MockNotificationRepository), nil, testLogger())
		assert.ErrorIs(t, svc.Notify(ctx, 5, "urgent", "Hello", ""), apperrors.ErrValidation)
		assert.ErrorIs(t, svc.Notify(ctx, 5, entity.NotificationInfo, "  ", ""), apperrors.ErrValidation)
	})

	t.Run("без pusher", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)
		svc := NewNotificationService(repo, nil, testLogger())
		assert.NoError(t, svc.Notify(ctx, 5, entity.NotificationSuccess, "Done", ""))
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	repo.On("ListByUser", ctx, uint(5), true, 10, 0).Return([]entity.Notification{{ID: 1}, {ID: 2}}, int64(2), nil)
	repo.On("CountUnread", ctx, uint(5)).Return(int64(2), nil)

	page, err := NewNotificationService(repo, nil, testLogger()).List(ctx, 5, true, 1, 0)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, int64(2), page.Unread)
	assert.Equal(t, 1, page.Pagination.Pages)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	repo.On("MarkRead", ctx, uint(5), uint(8)).Return(apperrors.ErrNotFound)
	repo.On("MarkAllRead", ctx, uint(5)).Return(int64(3), nil)
	svc := NewNotificationService(repo, nil, testLogger())

	assert.ErrorIs(t, svc.MarkRead(ctx, 5, 8), apperrors.ErrNotFound)
	n, err := svc.MarkAllRead(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
