package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// NotificationHandler обрабатывает уведомления текущего пользователя
type NotificationHandler struct {
	notifications *service.NotificationService
	resp          *Responder
}

// NewNotificationHandler создает новый обработчик уведомлений
func NewNotificationHandler(notifications *service.NotificationService, resp *Responder) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, resp: resp}
}

// List возвращает уведомления
// GET /api/notifications?page=&limit=&unreadOnly=
func (h *NotificationHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	unreadOnly, err := queryBool(c, "unreadOnly")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.notifications.List(c.Request.Context(), identity(c).UserID, unreadOnly, page, limit)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, dto.NewNotificationListResponse(result))
}

// MarkRead отмечает уведомление прочитанным
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), identity(c).UserID, c.GetUint("notificationID")); err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Notification marked as read", nil)
}

// MarkAllRead отмечает все уведомления прочитанными
// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Notifications marked as read", gin.H{"updated": updated})
}
