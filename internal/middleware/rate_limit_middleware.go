package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests максимальное количество запросов за Window
	MaxRequests int
	// Window временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix префикс для ключей в Redis
	KeyPrefix string
}

// AuthRateLimitConfig лимит для login/register (защита от brute-force)
func AuthRateLimitConfig(maxRequests int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: maxRequests,
		Window:      window,
		KeyPrefix:   "rl:auth",
	}
}

// RateLimiter ограничивает запросы по IP и маршруту. С Redis счетчик общий
// для всех экземпляров; без Redis используется x/time/rate в памяти процесса.
type RateLimiter struct {
	redisClient redis.UniversalClient
	log         *zap.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает новый RateLimiter. redisClient может быть nil.
func NewRateLimiter(redisClient redis.UniversalClient, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		log:         log,
		visitors:    make(map[string]*visitor),
	}
}

func limitKey(c *gin.Context, prefix string) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return fmt.Sprintf("%s:%s:%s", prefix, c.ClientIP(), path)
}

// Limit возвращает Gin middleware с заданной конфигурацией
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
			c.Next()
			return
		}
		key := limitKey(c, cfg.KeyPrefix)

		var (
			allowed    bool
			retryAfter int
		)
		if rl.redisClient != nil {
			var ok bool
			allowed, retryAfter, ok = rl.allowRedis(c, key, cfg)
			if !ok {
				// Redis недоступен: переходим на локальный лимитер
				allowed, retryAfter = rl.allowLocal(key, cfg)
			}
		} else {
			allowed, retryAfter = rl.allowLocal(key, cfg)
		}

		if !allowed {
			rl.log.Warn("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.Int("limit", cfg.MaxRequests),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// allowRedis считает запросы фиксированным окном: INCR + EXPIRE при первом запросе.
// ok == false означает ошибку Redis.
func (rl *RateLimiter) allowRedis(c *gin.Context, key string, cfg RateLimitConfig) (allowed bool, retryAfter int, ok bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		rl.log.Warn("Rate limiter redis error, falling back to local limiter", zap.String("key", key), zap.Error(err))
		return false, 0, false
	}
	if count == 1 {
		if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
			rl.log.Warn("Failed to set rate limit TTL", zap.String("key", key), zap.Error(err))
		}
	}

	remaining := cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}
	ttl, _ := rl.redisClient.TTL(ctx, key).Result()
	retryAfter = int(ttl.Seconds())
	if retryAfter <= 0 {
		retryAfter = int(cfg.Window.Seconds())
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))
	return int(count) <= cfg.MaxRequests, retryAfter, true
}

// allowLocal token bucket на ключ: MaxRequests запросов в Window с burst = MaxRequests
func (rl *RateLimiter) allowLocal(key string, cfg RateLimitConfig) (bool, int) {
	now := time.Now()

	rl.mu.Lock()
	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.MaxRequests)), cfg.MaxRequests)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	retry := int((cfg.Window / time.Duration(cfg.MaxRequests)).Seconds())
	if retry < 1 {
		retry = 1
	}
	return false, retry
}

// Cleanup периодически удаляет неактивные локальные лимитеры до отмены ctx
func (rl *RateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune(time.Now(), idle)
		}
	}
}

func (rl *RateLimiter) prune(now time.Time, idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}
