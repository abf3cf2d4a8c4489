package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
	"github.com/yourusername/skill-assessment-api/pkg/auth"
)

// IdentityKey ключ, под которым RequireAuth сохраняет Identity в контексте Gin
const IdentityKey = "identity"

// Identity аутентифицированный пользователь текущего запроса
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// IsAdmin проверяет роль администратора
func (i Identity) IsAdmin() bool {
	return i.Role == entity.RoleAdmin
}

type identityCtxKey struct{}

// WithIdentity кладет Identity в context.Context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext достает Identity из context.Context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// GetIdentity возвращает Identity, установленную RequireAuth
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// TokenParser проверяет токен доступа
type TokenParser interface {
	ParseToken(token string) (*auth.JWTCustomClaims, error)
}

// UserLookup загружает пользователя для проверки is_active
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	tokens TokenParser
	users  UserLookup
	log    *zap.Logger
}

// NewAuthMiddleware создает middleware. users может быть nil:
// тогда деактивация вступает в силу только после истечения токена.
func NewAuthMiddleware(tokens TokenParser, users UserLookup, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, log: log}
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// bearerToken извлекает токен из заголовка Authorization: Bearer {token}
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Authenticate проверяет токен и состояние пользователя, возвращая HTTP-статус ошибки
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (Identity, int, error) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return Identity{}, http.StatusUnauthorized, errors.New("token expired")
		}
		return Identity{}, http.StatusUnauthorized, errors.New("invalid token")
	}

	id := Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
	if m.users != nil {
		user, err := m.users.GetByID(ctx, claims.UserID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return Identity{}, http.StatusUnauthorized, errors.New("user no longer exists")
		case err != nil:
			m.log.Error("Failed to load user for auth", zap.Uint("user_id", claims.UserID), zap.Error(err))
			return Identity{}, http.StatusInternalServerError, errors.New("internal server error")
		case !user.IsActive:
			return Identity{}, http.StatusForbidden, errors.New("account is deactivated")
		}
		// Роль берется из базы: понижение прав действует сразу
		id.Role = user.Role
	}
	return id, 0, nil
}

// RequireAuth проверяет токен и сохраняет Identity в контексте
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
			return
		}

		id, status, err := m.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, status, err.Error())
			return
		}

		c.Set(IdentityKey, id)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из ролей.
// Должен применяться после RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			abortWith(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		abortWith(c, http.StatusForbidden, "Insufficient permissions")
	}
}
