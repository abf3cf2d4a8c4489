package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"go.uber.org/zap"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemory путь SQLite для тестов и одноразовых запусков
const InMemory = ":memory:"

// Open открывает подключение к базе по настройкам драйвера (sqlite или postgres)
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if cfg.LogSQL {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if cfg.IsSQLite() {
		return openSQLite(cfg.Path, gormCfg, log)
	}
	return openPostgres(cfg.PostgresConnectionString(), gormCfg, log)
}

func openSQLite(path string, gormCfg *gorm.Config, log *zap.Logger) (*gorm.DB, error) {
	if path != InMemory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(SQLiteDSN(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// SQLite допускает одного писателя; in-memory база живет в пределах одного соединения
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info("SQLite database opened", zap.String("path", path))
	return db, nil
}

// SQLiteDSN добавляет к пути параметры: внешние ключи и ожидание блокировки
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func openPostgres(dsn string, gormCfg *gorm.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("PostgreSQL database connected")
	return db, nil
}

// GetSQLDB возвращает базовый *sql.DB из *gorm.DB
func GetSQLDB(gormDB *gorm.DB) (*sql.DB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Close закрывает пул соединений
func Close(gormDB *gorm.DB) error {
	sqlDB, err := GetSQLDB(gormDB)
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
