package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
	"github.com/yourusername/skill-assessment-api/pkg/auth"
)

type stubUsers map[uint]*entity.User

func (s stubUsers) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func newJWT(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService("test-secret", "skill-assessment-api", 1)
	require.NoError(t, err)
	return svc
}

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(m *AuthMiddleware, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{m.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := GetIdentity(c)
		fromCtx, ok := IdentityFromContext(c.Request.Context())
		if !ok || fromCtx != id {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.Role)
	})
	r.GET("/p", handlers...)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	jwtSvc := newJWT(t)
	users := stubUsers{
		1: {ID: 1, Role: entity.RoleUser, IsActive: true},
		2: {ID: 2, Role: entity.RoleAdmin, IsActive: true},
		3: {ID: 3, Role: entity.RoleUser, IsActive: false},
	}
	m := NewAuthMiddleware(jwtSvc, users, zap.NewNop())
	r := protectedRouter(m)

	token := func(id uint, role string) string {
		tok, err := jwtSvc.GenerateToken(id, "u@example.com", role)
		require.NoError(t, err)
		return tok
	}

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/p", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/p", "garbage").Code)

	w := doGet(r, "/p", token(1, entity.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.RoleUser, w.Body.String())

	assert.Equal(t, http.StatusForbidden, doGet(r, "/p", token(3, entity.RoleUser)).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/p", token(9, entity.RoleUser)).Code)

	// роль берется из базы, а не из токена
	w = doGet(r, "/p", token(1, entity.RoleAdmin))
	assert.Equal(t, entity.RoleUser, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	jwtSvc := newJWT(t)
	m := NewAuthMiddleware(jwtSvc, nil, zap.NewNop())
	r := protectedRouter(m, entity.RoleAdmin)

	userTok, err := jwtSvc.GenerateToken(1, "u@example.com", entity.RoleUser)
	require.NoError(t, err)
	adminTok, err := jwtSvc.GenerateToken(2, "a@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	w := doGet(r, "/p", userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Insufficient permissions"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, doGet(r, "/p", adminTok).Code)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequireRole(entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/p", "").Code)
}

func TestExtractUintParam(t *testing.T) {
	r := gin.New()
	r.GET("/items/:id", ExtractUintParam("id", "itemID"), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", c.GetUint("itemID"))
	})

	w := doGet(r, "/items/42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())

	assert.Equal(t, http.StatusBadRequest, doGet(r, "/items/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(r, "/items/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(r, "/items/-1", "").Code)
}

func TestRateLimiter_Local(t *testing.T) {
	rl := NewRateLimiter(nil, zap.NewNop())
	r := gin.New()
	r.POST("/login", rl.Limit(AuthRateLimitConfig(3, time.Minute)), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429}, codes)

	assert.Equal(t, 0, rl.prune(time.Now(), time.Hour))
	assert.Equal(t, 1, rl.prune(time.Now().Add(2*time.Hour), time.Hour))
}

func TestRateLimiter_DisabledConfig(t *testing.T) {
	rl := NewRateLimiter(nil, zap.NewNop())
	r := gin.New()
	r.GET("/x", rl.Limit(RateLimitConfig{}), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/x", "").Code)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.NewNop()), Recovery(zap.NewNop(), false))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := doGet(r, "/ok", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = doGet(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, w.Body.String())
}

func TestRecovery_DevelopmentIncludesDetail(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop(), true))
	r.GET("/boom", func(c *gin.Context) { panic("kaput") })

	w := doGet(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"kaput"`)
}
