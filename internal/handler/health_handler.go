package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/pkg/database"
)

// Pinger проверяет доступность внешней зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler отвечает на проверки живости
type HealthHandler struct {
	db    *gorm.DB
	cache Pinger
}

// NewHealthHandler создает обработчик health. cache может быть nil, если Redis не настроен.
func NewHealthHandler(db *gorm.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health проверяет базу данных и кеш. Недоступный кеш не делает сервис нездоровым.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbState := "ok"
	if sqlDB, err := database.GetSQLDB(h.db); err != nil || sqlDB.PingContext(ctx) != nil {
		dbState = "unavailable"
		status = http.StatusServiceUnavailable
	}

	cacheState := "disabled"
	if h.cache != nil {
		cacheState = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cacheState = "unavailable"
		}
	}

	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data: gin.H{
			"database": dbState,
			"cache":    cacheState,
			"time":     time.Now().UTC(),
		},
	})
}
