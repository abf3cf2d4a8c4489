package repository

import (
	"context"
	"time"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
	SetActive(ctx context.Context, userID uint, active bool) error
	// List возвращает страницу пользователей и общее количество; search ищет по email и имени
	List(ctx context.Context, search string, limit, offset int) ([]entity.User, int64, error)
}
