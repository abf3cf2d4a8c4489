package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// AuthHandler обрабатывает регистрацию, вход и профиль
type AuthHandler struct {
	authService *service.AuthService
	resp        *Responder
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, resp *Responder) *AuthHandler {
	return &AuthHandler{authService: authService, resp: resp}
}

// Register обрабатывает запрос на регистрацию
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	created(c, "User registered", dto.NewAuthResponse(result))
}

// Login обрабатывает вход по email и паролю
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Login successful", dto.NewAuthResponse(result))
}

// Me возвращает профиль текущего пользователя
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, user)
}
