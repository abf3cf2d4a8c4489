package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/middleware"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// Response единый формат ответа API
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Responder пишет ответы и переводит ошибки сервисов в HTTP-статусы
type Responder struct {
	log         *zap.Logger
	development bool
}

// NewResponder создает Responder. development включает текст внутренних ошибок в ответе.
func NewResponder(log *zap.Logger, development bool) *Responder {
	return &Responder{log: log, development: development}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func okMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

// statusFor сопоставляет ошибку с HTTP-статусом
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error отвечает ошибкой сервиса. Для 4xx сообщение берется из ошибки,
// для 500 клиент получает общее сообщение.
func (r *Responder) Error(c *gin.Context, err error) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		c.JSON(status, Response{Success: false, Message: err.Error()})
		return
	}

	r.log.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	)
	resp := Response{Success: false, Message: "Internal server error"}
	if r.development {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

// identity возвращает пользователя запроса; маршрут должен быть защищен RequireAuth
func identity(c *gin.Context) middleware.Identity {
	id, _ := middleware.GetIdentity(c)
	return id
}
