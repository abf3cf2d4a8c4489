package gormrepo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя; занятый email дает ErrConflict
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return mapError(conn(ctx, r.db).Create(user).Error)
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email (без учета регистра)
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := conn(ctx, r.db).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// Update сохраняет все поля пользователя
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return mapError(conn(ctx, r.db).Save(user).Error)
}

// UpdateLastLogin фиксирует время последнего входа
func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	res := conn(ctx, r.db).Model(&entity.User{}).Where("id = ?", userID).UpdateColumn("last_login_at", at.UTC())
	return rowsOrNotFound(res)
}

// SetActive активирует или деактивирует пользователя
func (r *UserRepo) SetActive(ctx context.Context, userID uint, active bool) error {
	res := conn(ctx, r.db).Model(&entity.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	return rowsOrNotFound(res)
}

// List возвращает страницу пользователей по возрастанию ID и общее количество
func (r *UserRepo) List(ctx context.Context, search string, limit, offset int) ([]entity.User, int64, error) {
	query := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&entity.User{})
		if s := strings.ToLower(strings.TrimSpace(search)); s != "" {
			like := "%" + s + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := make([]entity.User, 0)
	if err := query().Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
