package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"` // debug | release | test
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	// Development включает детали ошибок и стек в ответах 500
	Development bool `mapstructure:"development"`
}

// DatabaseConfig содержит настройки реляционного хранилища.
// Driver: "sqlite" (по умолчанию) или "postgres".
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"` // только для sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// RedisConfig содержит настройки подключения к Redis.
// Redis опционален: при Enabled=false кеш отчетов и Redis rate limiter не используются.
type RedisConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Mode: "single", "sentinel", "cluster". По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов (хост:порт). Для single используется первый.
	Addrs []string `mapstructure:"addrs"`

	// Addr: адрес для single, если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MasterName string `mapstructure:"master_name"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expiration_hrs"`
	Issuer        string `mapstructure:"issuer"`
}

// CacheConfig задает время жизни кешированных отчетов
type CacheConfig struct {
	SkillGapsTTL time.Duration `mapstructure:"skill_gaps_ttl"`
	OverviewTTL  time.Duration `mapstructure:"overview_ttl"`
}

// ReportsConfig содержит параметры агрегирующих отчетов
type ReportsConfig struct {
	OverviewDays int `mapstructure:"overview_days"`
	TopN         int `mapstructure:"top_n"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// CORSConfig содержит список разрешенных origin
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig ограничивает частоту запросов к auth endpoints
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// AdminConfig описывает учетную запись администратора, создаваемую при старте
type AdminConfig struct {
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// IsSQLite сообщает, используется ли SQLite
func (d *DatabaseConfig) IsSQLite() bool {
	return d.Driver == "" || d.Driver == "sqlite"
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.mode", "debug")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)

	vip.SetDefault("database.driver", "sqlite")
	vip.SetDefault("database.path", "data/skills.db")
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")

	vip.SetDefault("redis.mode", "single")

	vip.SetDefault("jwt.expiration_hrs", 24)
	vip.SetDefault("jwt.issuer", "skill-assessment-api")

	vip.SetDefault("cache.skill_gaps_ttl", 10*time.Minute)
	vip.SetDefault("cache.overview_ttl", 5*time.Minute)

	vip.SetDefault("reports.overview_days", 30)
	vip.SetDefault("reports.top_n", 5)

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.file", "logs/app.log")
	vip.SetDefault("log.max_size_mb", 100)
	vip.SetDefault("log.max_backups", 5)
	vip.SetDefault("log.max_age_days", 30)

	vip.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	vip.SetDefault("rate_limit.max_requests", 20)
	vip.SetDefault("rate_limit.window", time.Minute)
}

// Load загружает конфигурацию из файла и переменных окружения.
// Отсутствие файла не является ошибкой.
func Load(configPath string) (*Config, error) {
	vip := viper.New()
	setDefaults(vip)

	// Привязываем переменные окружения явно
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.mode", "GIN_MODE")
	vip.BindEnv("server.development", "SERVER_DEVELOPMENT")

	vip.BindEnv("database.driver", "DATABASE_DRIVER")
	vip.BindEnv("database.path", "DATABASE_PATH")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expiration_hrs", "JWT_EXPIRATION_HRS")

	vip.BindEnv("log.level", "LOG_LEVEL")
	vip.BindEnv("log.file", "LOG_FILE")

	vip.BindEnv("admin.email", "ADMIN_EMAIL")
	vip.BindEnv("admin.password", "ADMIN_PASSWORD")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			// SetConfigFile возвращает os.PathError, а не ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (check JWT_SECRET env var)")
	}
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return errors.New("jwt secret must be at least 32 characters in release mode")
	}

	switch c.Database.Driver {
	case "", "sqlite":
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite (check DATABASE_PATH env var)")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return errors.New("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Redis.Enabled && len(c.Redis.Addrs) == 0 && c.Redis.Addr == "" {
		return errors.New("redis is enabled but neither addrs nor addr is set")
	}
	if c.RateLimit.MaxRequests <= 0 {
		c.RateLimit.MaxRequests = 20
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Reports.OverviewDays <= 0 {
		c.Reports.OverviewDays = 30
	}
	if c.Reports.TopN <= 0 {
		c.Reports.TopN = 5
	}
	return nil
}
