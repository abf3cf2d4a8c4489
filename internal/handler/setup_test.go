package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"github.com/yourusername/skill-assessment-api/internal/middleware"
	"github.com/yourusername/skill-assessment-api/internal/repository/gormrepo"
	"github.com/yourusername/skill-assessment-api/internal/service"
	"github.com/yourusername/skill-assessment-api/internal/websocket"
	"github.com/yourusername/skill-assessment-api/pkg/auth"
	"github.com/yourusername/skill-assessment-api/pkg/database"
	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-secret"
)

// envelope разобранный ответ API
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	hub     *websocket.Hub
	metrics *monitoring.Metrics
}

// newTestServer собирает приложение поверх in-memory SQLite без Redis
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", Path: database.InMemory}, log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, "sqlite", log))
	t.Cleanup(func() { _ = database.Close(db) })

	jwtService, err := auth.NewJWTService("test-secret", "skill-assessment-test", 1)
	require.NoError(t, err)

	userRepo := gormrepo.NewUserRepo(db)
	skillRepo := gormrepo.NewSkillRepo(db)
	questionRepo := gormrepo.NewQuestionRepo(db)
	attemptRepo := gormrepo.NewAttemptRepo(db)
	notificationRepo := gormrepo.NewNotificationRepo(db)
	reportRepo := gormrepo.NewReportRepo(db)
	tx := gormrepo.NewTxManager(db)

	metrics := monitoring.New()
	hub := websocket.NewHub(metrics, log)
	t.Cleanup(hub.Shutdown)

	authService := service.NewAuthService(userRepo, jwtService, log)
	require.NoError(t, authService.EnsureAdmin(context.Background(), config.AdminConfig{
		Email:     adminEmail,
		Password:  adminPassword,
		FirstName: "Admin",
	}))

	reportService := service.NewReportService(reportRepo, 7, 5)
	cachedReports := service.NewCachedReportService(reportService, nil, time.Minute, time.Minute, metrics, log)
	notificationService := service.NewNotificationService(notificationRepo, hub, log)

	resp := NewResponder(log, true)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo, log)
	handlers := Handlers{
		Auth:         NewAuthHandler(authService, resp),
		Skill:        NewSkillHandler(service.NewSkillService(skillRepo, questionRepo, cachedReports, log), resp),
		Question:     NewQuestionHandler(service.NewQuestionService(questionRepo, skillRepo, cachedReports, log), resp),
		Quiz:         NewQuizHandler(service.NewQuizService(skillRepo, questionRepo, attemptRepo, tx, notificationService, metrics, log), resp),
		Report:       NewReportHandler(reportService, cachedReports, resp, log),
		User:         NewUserHandler(service.NewUserService(userRepo, log), resp),
		Notification: NewNotificationHandler(notificationService, resp),
		WS:           NewWSHandler(hub, authMiddleware, nil, log),
		Health:       NewHealthHandler(db, nil),
	}

	router := NewRouter(RouterConfig{
		Handlers:       handlers,
		AuthMiddleware: authMiddleware,
		RateLimiter:    middleware.NewRateLimiter(nil, log),
		AuthRateLimit:  middleware.AuthRateLimitConfig(1000, time.Minute),
		Metrics:        metrics,
		Development:    true,
		Log:            log,
	})

	return &testServer{t: t, db: db, router: router, hub: hub, metrics: metrics}
}

// do выполняет запрос и возвращает ответ вместе с разобранным конвертом
func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// decode разбирает data конверта в dest
func decode(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (s *testServer) login(email, password string) authData {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data authData
	decode(s.t, env, &data)
	return data
}

func (s *testServer) adminToken() string {
	return s.login(adminEmail, adminPassword).Token
}

// register создает пользователя с ролью user
func (s *testServer) register(name string) authData {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     name + "@example.com",
		"password":  "password1",
		"firstName": name,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var data authData
	decode(s.t, env, &data)
	return data
}

type idData struct {
	ID uint `json:"id"`
}

// createSkill создает навык с вопросами, правильный ответ у всех вопросов B
func (s *testServer) createSkill(adminToken, name string, questions int) uint {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/skills", adminToken, gin.H{"name": name, "category": "Backend"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var skill idData
	decode(s.t, env, &skill)

	for i := 0; i < questions; i++ {
		w, _ := s.do(http.MethodPost, "/api/questions", adminToken, gin.H{
			"skillId":       skill.ID,
			"questionText":  fmt.Sprintf("%s question %d", name, i+1),
			"optionA":       "a",
			"optionB":       "b",
			"optionC":       "c",
			"optionD":       "d",
			"correctAnswer": "b",
			"explanation":   "because b",
		})
		require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	}
	return skill.ID
}
