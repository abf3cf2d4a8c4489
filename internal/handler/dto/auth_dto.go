package dto

import (
	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	FirstName string `json:"firstName" binding:"omitempty,max=100"`
	LastName  string `json:"lastName" binding:"omitempty,max=100"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse токен и профиль пользователя
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *entity.User `json:"user"`
}

// NewAuthResponse создает DTO из результата входа или регистрации
func NewAuthResponse(r *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:     r.Token,
		TokenType: "Bearer",
		ExpiresIn: r.ExpiresIn,
		User:      r.User,
	}
}

// UpdateUserStatusRequest активация или деактивация пользователя
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UserListResponse страница пользователей
type UserListResponse struct {
	Users      []entity.User      `json:"users"`
	Pagination service.Pagination `json:"pagination"`
}
