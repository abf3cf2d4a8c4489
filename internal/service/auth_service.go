package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// MinPasswordLength минимальная длина пароля
const MinPasswordLength = 6

// TokenIssuer выпускает токены доступа
type TokenIssuer interface {
	GenerateToken(userID uint, email, role string) (string, error)
	Expiration() time.Duration
}

// RegisterInput данные для регистрации
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult результат успешной регистрации или входа
type AuthResult struct {
	Token     string
	ExpiresIn int64 // секунды
	User      *entity.User
}

// AuthService отвечает за регистрацию и вход
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает пользователя с ролью user и выдает токен
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, MinPasswordLength)
	}

	user := &entity.User{
		Email:     email,
		Password:  in.Password,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      entity.RoleUser,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered", zap.Uint("user_id", user.ID))
	return s.issue(user)
}

// Login проверяет учетные данные; деактивированный пользователь получает ErrForbidden
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	return s.issue(user)
}

// Me возвращает профиль текущего пользователя
func (s *AuthService) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *entity.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expiration().Seconds()),
		User:      user,
	}, nil
}

// EnsureAdmin создает учетную запись администратора из конфигурации, если ее еще нет.
// Существующий пользователь с тем же email повышается до администратора.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	email := normalizeEmail(cfg.Email)
	if email == "" || cfg.Password == "" {
		s.log.Info("Admin bootstrap skipped: admin email or password not configured")
		return nil
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == entity.RoleAdmin && existing.IsActive {
			return nil
		}
		existing.Role = entity.RoleAdmin
		existing.IsActive = true
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to promote admin %s: %w", email, err)
		}
		s.log.Info("Existing user promoted to admin", zap.Uint("user_id", existing.ID))
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	admin := &entity.User{
		Email:     email,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		Role:      entity.RoleAdmin,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	s.log.Info("Admin account created", zap.Uint("user_id", admin.ID))
	return nil
}
