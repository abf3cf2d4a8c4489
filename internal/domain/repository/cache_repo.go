package repository

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss возвращается, когда ключ отсутствует в кеше
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// GetJSON читает значение и декодирует его в dest; отсутствие ключа дает ErrCacheMiss
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
