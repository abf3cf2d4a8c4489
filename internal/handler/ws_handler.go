package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/middleware"
	"github.com/yourusername/skill-assessment-api/internal/websocket"
)

// Authenticator проверяет токен доступа
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (middleware.Identity, int, error)
}

// WSHandler открывает websocket-соединения для доставки уведомлений
type WSHandler struct {
	hub      *websocket.Hub
	auth     Authenticator
	upgrader gorillaws.Upgrader
	log      *zap.Logger
}

// NewWSHandler создает обработчик websocket. allowedOrigins синхронизирован с CORS;
// пустой Origin (не браузерный клиент) допускается.
func NewWSHandler(hub *websocket.Hub, auth Authenticator, allowedOrigins []string, log *zap.Logger) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	h := &WSHandler{hub: hub, auth: auth, log: log}
	h.upgrader = gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || wildcard {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			log.Warn("WebSocket: rejected origin", zap.String("origin", origin))
			return false
		},
	}
	return h
}

// HandleConnection аутентифицирует по ?token= или заголовку Authorization и открывает соединение
// GET /ws?token=
func (h *WSHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: "token is required"})
		return
	}

	id, status, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.JSON(status, Response{Success: false, Message: err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		h.log.Warn("WebSocket upgrade failed", zap.Uint("user_id", id.UserID), zap.Error(err))
		return
	}
	h.hub.Serve(conn, id.UserID)
}
