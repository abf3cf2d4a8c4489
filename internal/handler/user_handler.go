package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// UserHandler обрабатывает администрирование пользователей
type UserHandler struct {
	userService *service.UserService
	resp        *Responder
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService, resp *Responder) *UserHandler {
	return &UserHandler{userService: userService, resp: resp}
}

// List возвращает страницу пользователей
// GET /api/users?search=&page=&limit=
func (h *UserHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.userService.List(c.Request.Context(), c.Query("search"), page, limit)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	users := result.Users
	if users == nil {
		users = []entity.User{}
	}
	ok(c, dto.UserListResponse{Users: users, Pagination: result.Pagination})
}

// UpdateStatus активирует или деактивирует пользователя
// PUT /api/users/:id/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.SetStatus(c.Request.Context(), identity(c).UserID, c.GetUint("userID"), *req.IsActive)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "User status updated", user)
}
