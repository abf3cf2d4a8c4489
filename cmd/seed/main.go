package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/config"
	"github.com/yourusername/skill-assessment-api/internal/repository/gormrepo"
	"github.com/yourusername/skill-assessment-api/internal/service"
	"github.com/yourusername/skill-assessment-api/pkg/database"
	"github.com/yourusername/skill-assessment-api/pkg/logger"
)

// seed загружает пользователей, навыки и вопросы из YAML-файла.
// Повторный запуск обновляет существующие записи по естественным ключам.
func main() {
	file := flag.String("file", "config/seed.yaml", "path to seed YAML file")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing to the database")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*file, *dryRun); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := service.ParseSeed(f)
	if err != nil {
		return err
	}
	if err := service.ValidateSeed(seed); err != nil {
		return err
	}

	questions := 0
	for _, sk := range seed.Skills {
		questions += len(sk.Questions)
	}
	color.Cyan("%s: %d users, %d skills, %d questions", path, len(seed.Users), len(seed.Skills), questions)
	if dryRun {
		color.Green("Seed file is valid (dry run, nothing written)")
		return nil
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(config.LogConfig{Level: "warn"})
	defer func() { _ = log.Sync() }()

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

	seeder := service.NewSeedService(
		gormrepo.NewTxManager(db),
		gormrepo.NewUserRepo(db),
		gormrepo.NewSkillRepo(db),
		gormrepo.NewQuestionRepo(db),
		log,
	)
	report, err := seeder.Apply(context.Background(), seed)
	if err != nil {
		return err
	}

	color.Green("Seed applied")
	fmt.Printf("  users:     %s created, %s updated\n", count(report.UsersCreated), count(report.UsersUpdated))
	fmt.Printf("  skills:    %s created, %s updated\n", count(report.SkillsCreated), count(report.SkillsUpdated))
	fmt.Printf("  questions: %s created, %s updated\n", count(report.QuestionsCreated), count(report.QuestionsUpdated))
	return nil
}

func count(n int) string {
	if n == 0 {
		return color.HiBlackString("0")
	}
	return color.YellowString("%d", n)
}
