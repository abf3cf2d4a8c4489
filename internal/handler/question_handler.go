package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// QuestionHandler обрабатывает банк вопросов (администратор)
type QuestionHandler struct {
	questionService *service.QuestionService
	resp            *Responder
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService, resp *Responder) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, resp: resp}
}

// List возвращает вопросы навыка вместе с правильными ответами
// GET /api/questions?skillId=
func (h *QuestionHandler) List(c *gin.Context) {
	skillID, err := queryUint(c, "skillId")
	if err != nil || skillID == nil {
		badRequest(c, "skillId query parameter is required")
		return
	}

	questions, err := h.questionService.ListBySkill(c.Request.Context(), *skillID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, dto.NewAdminQuestionList(questions))
}

// Create добавляет вопрос
// POST /api/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), req.Input())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	created(c, "Question created", dto.NewAdminQuestionResponse(question))
}

// Update изменяет вопрос
// PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), c.GetUint("questionID"), req.Input())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Question updated", dto.NewAdminQuestionResponse(question))
}

// Delete удаляет вопрос
// DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
	if err := h.questionService.Delete(c.Request.Context(), c.GetUint("questionID")); err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Question deleted", nil)
}
