package dto

import (
	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// NotificationListResponse страница уведомлений с числом непрочитанных
type NotificationListResponse struct {
	Notifications []entity.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
	Pagination    service.Pagination    `json:"pagination"`
}

// NewNotificationListResponse создает DTO страницы уведомлений
func NewNotificationListResponse(p *service.NotificationPage) NotificationListResponse {
	items := p.Notifications
	if items == nil {
		items = []entity.Notification{}
	}
	return NotificationListResponse{Notifications: items, Unread: p.Unread, Pagination: p.Pagination}
}
