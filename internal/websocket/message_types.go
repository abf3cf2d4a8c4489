package websocket

import "time"

// Типы событий, отправляемых клиенту
const (
	// EventNotification новое уведомление пользователя
	EventNotification = "notification"

	// EventConnected подтверждение подключения
	EventConnected = "connected"

	// EventPong ответ на текстовое сообщение "ping" от клиента
	EventPong = "pong"
)

// Event формат сообщения, отправляемого клиенту
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
