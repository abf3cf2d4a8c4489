package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

// Hub хранит открытые соединения по пользователям и доставляет им события.
// У пользователя может быть несколько соединений (вкладки, устройства).
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
	closed  bool

	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewHub создает hub. metrics может быть nil.
func NewHub(metrics *monitoring.Metrics, log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]struct{}),
		metrics: metrics,
		log:     log,
	}
}

func encodeEvent(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
}

// Register добавляет клиента; после Shutdown новые клиенты не принимаются
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	h.metrics.WSConnected()
	h.log.Debug("WebSocket client registered", zap.Uint("user_id", c.UserID), zap.String("conn_id", c.ConnectionID))
	return true
}

// Unregister удаляет клиента и закрывает его канал отправки; повторный вызов безопасен
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	c.closeSend()
	h.metrics.WSDisconnected()
	h.log.Debug("WebSocket client unregistered", zap.Uint("user_id", c.UserID), zap.String("conn_id", c.ConnectionID))
}

// SendToUser отправляет событие во все соединения пользователя.
// Медленный клиент с переполненным буфером отключается.
func (h *Hub) SendToUser(userID uint, eventType string, data interface{}) {
	message, err := encodeEvent(eventType, data)
	if err != nil {
		h.log.Error("Failed to encode websocket event", zap.String("type", eventType), zap.Error(err))
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.clients[userID] {
		if !c.enqueue(message) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		h.log.Warn("WebSocket client buffer full, disconnecting",
			zap.Uint("user_id", userID),
			zap.String("conn_id", c.ConnectionID),
		)
		h.removeLocked(c)
	}
	h.mu.Unlock()
}

// ClientCount возвращает число открытых соединений пользователя
func (h *Hub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Serve регистрирует соединение пользователя и запускает чтение и запись.
// Возвращается сразу, соединение обслуживается в отдельных горутинах.
func (h *Hub) Serve(conn *websocket.Conn, userID uint) {
	c := NewClient(h, conn, userID)
	if !h.Register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}
	if data, err := encodeEvent(EventConnected, map[string]string{"connection_id": c.ConnectionID}); err == nil {
		c.enqueue(data)
	}

	go c.writePump()
	go c.readPump()
}

// Shutdown закрывает все соединения
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}
