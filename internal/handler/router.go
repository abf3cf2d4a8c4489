package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/middleware"
	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

// Handlers набор обработчиков API
type Handlers struct {
	Auth         *AuthHandler
	Skill        *SkillHandler
	Question     *QuestionHandler
	Quiz         *QuizHandler
	Report       *ReportHandler
	User         *UserHandler
	Notification *NotificationHandler
	WS           *WSHandler
	Health       *HealthHandler
}

// RouterConfig зависимости маршрутизатора
type RouterConfig struct {
	Handlers       Handlers
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	AuthRateLimit  middleware.RateLimitConfig
	Metrics        *monitoring.Metrics // nil отключает /metrics
	AllowedOrigins []string
	Development    bool
	Log            *zap.Logger
}

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(cfg.Log, cfg.Development), middleware.AccessLog(cfg.Log))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.MetricsMiddleware())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	h := cfg.Handlers
	requireAuth := cfg.AuthMiddleware.RequireAuth()
	adminOnly := middleware.RequireRole(entity.RoleAdmin)

	router.GET("/health", h.Health.Health)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.PrometheusHandler())
	}
	router.GET("/ws", h.WS.HandleConnection)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			limited := authGroup.Group("")
			if cfg.RateLimiter != nil {
				limited.Use(cfg.RateLimiter.Limit(cfg.AuthRateLimit))
			}
			limited.POST("/register", h.Auth.Register)
			limited.POST("/login", h.Auth.Login)

			authGroup.GET("/me", requireAuth, h.Auth.Me)
		}

		skills := api.Group("/skills", requireAuth)
		{
			skills.GET("", h.Skill.List)
			skills.GET("/categories", h.Skill.Categories)
			skills.POST("", adminOnly, h.Skill.Create)

			skillWithID := skills.Group("/:id", middleware.ExtractUintParam("id", "skillID"))
			{
				skillWithID.GET("", h.Skill.Get)
				skillWithID.PUT("", adminOnly, h.Skill.Update)
				skillWithID.DELETE("", adminOnly, h.Skill.Delete)
			}
		}

		questions := api.Group("/questions", requireAuth, adminOnly)
		{
			questions.GET("", h.Question.List)
			questions.POST("", h.Question.Create)

			questionWithID := questions.Group("/:id", middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.PUT("", h.Question.Update)
				questionWithID.DELETE("", h.Question.Delete)
			}
		}

		quiz := api.Group("/quiz", requireAuth)
		{
			quiz.POST("/start", h.Quiz.Start)
			quiz.POST("/answer", h.Quiz.SubmitAnswer)
			quiz.POST("/complete", h.Quiz.Complete)
			quiz.GET("/history", h.Quiz.History)
			quiz.GET("/:id", middleware.ExtractUintParam("id", "attemptID"), h.Quiz.Detail)
		}

		reports := api.Group("/reports", requireAuth)
		{
			reports.GET("/leaderboard", h.Report.Leaderboard)
			reports.GET("/my-progress", h.Report.MyProgress)

			adminReports := reports.Group("", adminOnly)
			{
				adminReports.GET("/skill-gaps", h.Report.SkillGaps)
				adminReports.GET("/skill-gaps/export", h.Report.ExportSkillGaps)
				adminReports.GET("/overview", h.Report.Overview)
				adminReports.GET("/quiz-usage", h.Report.QuizUsage)
			}
		}

		users := api.Group("/users", requireAuth, adminOnly)
		{
			users.GET("", h.User.List)
			users.PUT("/:id/status", middleware.ExtractUintParam("id", "userID"), h.User.UpdateStatus)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", h.Notification.List)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", middleware.ExtractUintParam("id", "notificationID"), h.Notification.MarkRead)
		}
	}

	return router
}
