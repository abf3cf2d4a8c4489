package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	"github.com/yourusername/skill-assessment-api/internal/handler"
	"github.com/yourusername/skill-assessment-api/internal/middleware"
	"github.com/yourusername/skill-assessment-api/internal/repository/gormrepo"
	redisRepo "github.com/yourusername/skill-assessment-api/internal/repository/redis"
	"github.com/yourusername/skill-assessment-api/internal/service"
	ws "github.com/yourusername/skill-assessment-api/internal/websocket"
	"github.com/yourusername/skill-assessment-api/pkg/auth"
	"github.com/yourusername/skill-assessment-api/pkg/database"
	"github.com/yourusername/skill-assessment-api/pkg/logger"
	"github.com/yourusername/skill-assessment-api/pkg/monitoring"
)

func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		// логгер еще не создан
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()
	log.Info("Configuration loaded", zap.String("path", configPath), zap.String("db_driver", cfg.Database.Driver))

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
		return err
	}

	// Redis необязателен: без него отчеты не кешируются, а лимиты считаются в памяти
	var (
		redisClient redis.UniversalClient
		cache       repository.CacheRepository
		cachePinger handler.Pinger
	)
	if cfg.Redis.Enabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo, err := redisRepo.NewCacheRepo(client, redisRepo.DefaultKeyPrefix)
			if err != nil {
				return err
			}
			redisClient, cache, cachePinger = client, cacheRepo, cacheRepo
			log.Info("Connected to Redis", zap.String("mode", cfg.Redis.Mode))
		}
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHrs)
	if err != nil {
		return err
	}

	// Репозитории
	userRepo := gormrepo.NewUserRepo(db)
	skillRepo := gormrepo.NewSkillRepo(db)
	questionRepo := gormrepo.NewQuestionRepo(db)
	attemptRepo := gormrepo.NewAttemptRepo(db)
	notificationRepo := gormrepo.NewNotificationRepo(db)
	reportRepo := gormrepo.NewReportRepo(db)
	txManager := gormrepo.NewTxManager(db)

	metrics := monitoring.New()
	hub := ws.NewHub(metrics, log)

	// Сервисы
	authService := service.NewAuthService(userRepo, jwtService, log)
	if err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		return err
	}
	reportService := service.NewReportService(reportRepo, cfg.Reports.OverviewDays, cfg.Reports.TopN)
	cachedReports := service.NewCachedReportService(reportService, cache, cfg.Cache.SkillGapsTTL, cfg.Cache.OverviewTTL, metrics, log)
	notificationService := service.NewNotificationService(notificationRepo, hub, log)
	skillService := service.NewSkillService(skillRepo, questionRepo, cachedReports, log)
	questionService := service.NewQuestionService(questionRepo, skillRepo, cachedReports, log)
	quizService := service.NewQuizService(skillRepo, questionRepo, attemptRepo, txManager, notificationService, metrics, log)
	userService := service.NewUserService(userRepo, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(redisClient, log)
	go rateLimiter.Cleanup(ctx, time.Minute, 10*time.Minute)

	resp := handler.NewResponder(log, cfg.Server.Development)
	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(handler.RouterConfig{
		Handlers: handler.Handlers{
			Auth:         handler.NewAuthHandler(authService, resp),
			Skill:        handler.NewSkillHandler(skillService, resp),
			Question:     handler.NewQuestionHandler(questionService, resp),
			Quiz:         handler.NewQuizHandler(quizService, resp),
			Report:       handler.NewReportHandler(reportService, cachedReports, resp, log),
			User:         handler.NewUserHandler(userService, resp),
			Notification: handler.NewNotificationHandler(notificationService, resp),
			WS:           handler.NewWSHandler(hub, authMiddleware, cfg.CORS.AllowedOrigins, log),
			Health:       handler.NewHealthHandler(db, cachePinger),
		},
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		AuthRateLimit:  middleware.AuthRateLimitConfig(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		Metrics:        metrics,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Development:    cfg.Server.Development,
		Log:            log,
	})

	if cfg.Server.Mode == gin.ReleaseMode {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Тайм-ауты защищают от медленных клиентов
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	cancel()
	hub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server exited properly")
	return nil
}
