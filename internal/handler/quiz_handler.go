package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/skill-assessment-api/internal/handler/dto"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// QuizHandler обрабатывает прохождение тестов
type QuizHandler struct {
	quizService *service.QuizService
	resp        *Responder
}

// NewQuizHandler создает новый обработчик попыток
func NewQuizHandler(quizService *service.QuizService, resp *Responder) *QuizHandler {
	return &QuizHandler{quizService: quizService, resp: resp}
}

// Start начинает попытку по навыку
// POST /api/quiz/start
func (h *QuizHandler) Start(c *gin.Context) {
	var req dto.StartQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.quizService.Start(c.Request.Context(), identity(c).UserID, req.SkillID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	created(c, "Quiz started", dto.NewStartQuizResponse(result))
}

// SubmitAnswer принимает ответ на вопрос
// POST /api/quiz/answer
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.quizService.SubmitAnswer(c.Request.Context(), service.AnswerInput{
		UserID:         identity(c).UserID,
		AttemptID:      req.QuizAttemptID,
		QuestionID:     req.QuestionID,
		SelectedAnswer: req.SelectedAnswer,
		TimeTaken:      req.TimeTaken,
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, dto.NewAnswerResponse(result))
}

// Complete завершает попытку
// POST /api/quiz/complete
func (h *QuizHandler) Complete(c *gin.Context) {
	var req dto.CompleteQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.quizService.Complete(c.Request.Context(), identity(c).UserID, req.QuizAttemptID, req.TimeTaken)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	okMessage(c, "Quiz completed", dto.NewCompletionResponse(result))
}

// History возвращает завершенные попытки пользователя
// GET /api/quiz/history?page=&limit=&skillId=
func (h *QuizHandler) History(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	skillID, err := queryUint(c, "skillId")
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	history, err := h.quizService.History(c.Request.Context(), identity(c).UserID, page, limit, skillID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, dto.NewHistoryResponse(history))
}

// Detail возвращает разбор попытки владельцу или администратору
// GET /api/quiz/:id
func (h *QuizHandler) Detail(c *gin.Context) {
	id := identity(c)
	attempt, err := h.quizService.Detail(c.Request.Context(), id.UserID, id.IsAdmin(), c.GetUint("attemptID"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, dto.NewAttemptDetailResponse(attempt))
}
