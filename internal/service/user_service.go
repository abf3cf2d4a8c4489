package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// UserPage страница списка пользователей
type UserPage struct {
	Users      []entity.User
	Pagination Pagination
}

// UserService администрирование пользователей
type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, log: log}
}

// List возвращает страницу пользователей с необязательным поиском
func (s *UserService) List(ctx context.Context, search string, page, limit int) (*UserPage, error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.userRepo.List(ctx, search, limit, offsetFor(page, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserPage{Users: users, Pagination: newPagination(page, limit, total)}, nil
}

// SetStatus активирует или деактивирует пользователя. Пользователи не удаляются,
// а администратор не может деактивировать сам себя.
func (s *UserService) SetStatus(ctx context.Context, actorID, userID uint, active bool) (*entity.User, error) {
	if actorID == userID && !active {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", apperrors.ErrValidation)
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	s.log.Info("User status changed",
		zap.Uint("user_id", userID),
		zap.Uint("actor_id", actorID),
		zap.Bool("active", active),
	)
	return s.userRepo.GetByID(ctx, userID)
}
