package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// SkillHandler обрабатывает каталог навыков
type SkillHandler struct {
	skillService *service.SkillService
	resp         *Responder
}

// NewSkillHandler создает новый обработчик навыков
func NewSkillHandler(skillService *service.SkillService, resp *Responder) *SkillHandler {
	return &SkillHandler{skillService: skillService, resp: resp}
}

// List возвращает активные навыки, администратор с ?all=true видит и неактивные
// GET /api/skills?category=&all=
func (h *SkillHandler) List(c *gin.Context) {
	all, err := queryBool(c, "all")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	skills, err := h.skillService.List(c.Request.Context(), c.Query("category"), all && identity(c).IsAdmin())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, skills)
}

// Categories возвращает список категорий
// GET /api/skills/categories
func (h *SkillHandler) Categories(c *gin.Context) {
	categories, err := h.skillService.Categories(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, categories)
}

// Get возвращает навык с числом активных вопросов
// GET /api/skills/:id
func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skillService.Get(c.Request.Context(), c.GetUint("skillID"), identity(c).IsAdmin())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, skill)
}

// Create создает навык
// POST /api/skills
func (h *SkillHandler) Create(c *gin.Context) {
	var req dto.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	skill, err := h.skillService.Create(c.Request.Context(), req.Input())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	created(c, "Skill created", skill)
}

// Update изменяет навык
// PUT /api/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	var req dto.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	skill, err := h.skillService.Update(c.Request.Context(), c.GetUint("skillID"), req.Input())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Skill updated", skill)
}

// Delete удаляет навык
// DELETE /api/skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	if err := h.skillService.Delete(c.Request.Context(), c.GetUint("skillID")); err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Skill deleted", nil)
}
