package database

import (
	"embed"
	"errors"
	"fmt"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migrateDatabase "github.com/golang-migrate/migrate/v4/database"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migrateSQLite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate применяет встроенные SQL-миграции для выбранного драйвера.
// driver: "sqlite" или "postgres".
func Migrate(db *gorm.DB, driver string, log *zap.Logger) error {
	log.Info("Applying database migrations", zap.String("driver", driver))

	sqlDB, err := GetSQLDB(db)
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping before migration failed: %w", err)
	}

	var (
		dbDriver migrateDatabase.Driver
		dir      string
		name     string
	)
	switch driver {
	case "", "sqlite":
		dir, name = "migrations/sqlite", "sqlite3"
		dbDriver, err = migrateSQLite.WithInstance(sqlDB, &migrateSQLite.Config{})
	case "postgres":
		dir, name = "migrations/postgres", "postgres"
		dbDriver, err = migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	default:
		return fmt.Errorf("unsupported database driver for migrations: %s", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migration driver: %w", name, err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrateV4.NewWithInstance("iofs", src, name, dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m.Close() не вызываем: он закрыл бы общий *sql.DB

	err = m.Up()
	switch {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Info("No new migrations, schema is up to date")
	case err != nil:
		return fmt.Errorf("failed to apply migrations: %w", err)
	default:
		log.Info("Migrations applied")
	}
	return nil
}
