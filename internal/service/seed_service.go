package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// SeedFile декларативное описание начальных данных
type SeedFile struct {
	Users  []SeedUser  `yaml:"users"`
	Skills []SeedSkill `yaml:"skills"`
}

// SeedUser пользователь; естественный ключ email
type SeedUser struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
	Active    *bool  `yaml:"active"`
}

// SeedSkill навык с вопросами; естественный ключ name
type SeedSkill struct {
	Name        string         `yaml:"name"`
	Category    string         `yaml:"category"`
	Description string         `yaml:"description"`
	Active      *bool          `yaml:"active"`
	Questions   []SeedQuestion `yaml:"questions"`
}

// SeedQuestion вопрос; естественный ключ текст в пределах навыка
type SeedQuestion struct {
	Text        string `yaml:"text"`
	A           string `yaml:"a"`
	B           string `yaml:"b"`
	C           string `yaml:"c"`
	D           string `yaml:"d"`
	Answer      string `yaml:"answer"`
	Difficulty  string `yaml:"difficulty"`
	Points      int    `yaml:"points"`
	Explanation string `yaml:"explanation"`
	Active      *bool  `yaml:"active"`
}

// SeedReport количество созданных и обновленных записей
type SeedReport struct {
	UsersCreated     int
	UsersUpdated     int
	SkillsCreated    int
	SkillsUpdated    int
	QuestionsCreated int
	QuestionsUpdated int
}

// ParseSeed читает YAML; неизвестные поля считаются ошибкой
func ParseSeed(r io.Reader) (*SeedFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f SeedFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid seed yaml: %v", apperrors.ErrValidation, err)
	}
	return &f, nil
}

// ValidateSeed проверяет все записи и возвращает все найденные ошибки сразу
func ValidateSeed(f *SeedFile) error {
	var errs []error
	emails := make(map[string]bool)
	for i, u := range f.Users {
		email := normalizeEmail(u.Email)
		switch {
		case email == "" || !strings.Contains(email, "@"):
			errs = append(errs, fmt.Errorf("users[%d]: invalid email %q", i, u.Email))
		case emails[email]:
			errs = append(errs, fmt.Errorf("users[%d]: duplicate email %q", i, email))
		}
		emails[email] = true
		if len(u.Password) < MinPasswordLength {
			errs = append(errs, fmt.Errorf("users[%d]: password must be at least %d characters", i, MinPasswordLength))
		}
		if u.Role != "" && !entity.IsValidRole(u.Role) {
			errs = append(errs, fmt.Errorf("users[%d]: unknown role %q", i, u.Role))
		}
	}

	names := make(map[string]bool)
	for i, s := range f.Skills {
		name := strings.TrimSpace(s.Name)
		if err := validateSkillInput(SkillInput{Name: s.Name, Category: s.Category}); err != nil {
			errs = append(errs, fmt.Errorf("skills[%d]: %w", i, err))
		}
		if names[name] {
			errs = append(errs, fmt.Errorf("skills[%d]: duplicate skill %q", i, name))
		}
		names[name] = true

		texts := make(map[string]bool)
		for j, q := range s.Questions {
			in := q.input(0)
			if err := ValidateQuestionInput(&in); err != nil {
				errs = append(errs, fmt.Errorf("skills[%d].questions[%d]: %w", i, j, err))
				continue
			}
			if texts[in.QuestionText] {
				errs = append(errs, fmt.Errorf("skills[%d].questions[%d]: duplicate question text", i, j))
			}
			texts[in.QuestionText] = true
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, errors.Join(errs...))
	}
	return nil
}

func (q SeedQuestion) input(skillID uint) QuestionInput {
	return QuestionInput{
		SkillID:       skillID,
		QuestionText:  q.Text,
		OptionA:       q.A,
		OptionB:       q.B,
		OptionC:       q.C,
		OptionD:       q.D,
		CorrectAnswer: q.Answer,
		Difficulty:    q.Difficulty,
		Points:        q.Points,
		Explanation:   q.Explanation,
		IsActive:      q.Active,
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// SeedService импортирует SeedFile в одной транзакции
type SeedService struct {
	tx           repository.Transactor
	userRepo     repository.UserRepository
	skillRepo    repository.SkillRepository
	questionRepo repository.QuestionRepository
	log          *zap.Logger
}

// NewSeedService создает сервис импорта
func NewSeedService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	questionRepo repository.QuestionRepository,
	log *zap.Logger,
) *SeedService {
	return &SeedService{tx: tx, userRepo: userRepo, skillRepo: skillRepo, questionRepo: questionRepo, log: log}
}

// Apply проверяет файл и выполняет upsert по естественным ключам.
// Любая ошибка откатывает весь импорт.
func (s *SeedService) Apply(ctx context.Context, f *SeedFile) (*SeedReport, error) {
	if err := ValidateSeed(f); err != nil {
		return nil, err
	}

	report := &SeedReport{}
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, u := range f.Users {
			if err := s.upsertUser(ctx, u, report); err != nil {
				return err
			}
		}
		for _, sk := range f.Skills {
			if err := s.upsertSkill(ctx, sk, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Seed applied",
		zap.Int("users_created", report.UsersCreated),
		zap.Int("users_updated", report.UsersUpdated),
		zap.Int("skills_created", report.SkillsCreated),
		zap.Int("skills_updated", report.SkillsUpdated),
		zap.Int("questions_created", report.QuestionsCreated),
		zap.Int("questions_updated", report.QuestionsUpdated),
	)
	return report, nil
}

func (s *SeedService) upsertUser(ctx context.Context, u SeedUser, report *SeedReport) error {
	role := u.Role
	if role == "" {
		role = entity.RoleUser
	}
	email := normalizeEmail(u.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Password = u.Password
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.Role = role
		existing.IsActive = boolOr(u.Active, true)
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("failed to update user %s: %w", email, err)
		}
		report.UsersUpdated++
		return nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}

	user := &entity.User{
		Email:     email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      role,
		IsActive:  boolOr(u.Active, true),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", email, err)
	}
	report.UsersCreated++
	return nil
}

func (s *SeedService) upsertSkill(ctx context.Context, sk SeedSkill, report *SeedReport) error {
	name := strings.TrimSpace(sk.Name)

	skill, err := s.skillRepo.GetByName(ctx, name)
	switch {
	case err == nil:
		skill.Category = strings.TrimSpace(sk.Category)
		skill.Description = strings.TrimSpace(sk.Description)
		skill.IsActive = boolOr(sk.Active, true)
		if err := s.skillRepo.Update(ctx, skill); err != nil {
			return fmt.Errorf("failed to update skill %s: %w", name, err)
		}
		report.SkillsUpdated++
	case errors.Is(err, apperrors.ErrNotFound):
		skill = &entity.Skill{
			Name:        name,
			Category:    strings.TrimSpace(sk.Category),
			Description: strings.TrimSpace(sk.Description),
			IsActive:    boolOr(sk.Active, true),
		}
		if err := s.skillRepo.Create(ctx, skill); err != nil {
			return fmt.Errorf("failed to create skill %s: %w", name, err)
		}
		report.SkillsCreated++
	default:
		return fmt.Errorf("failed to look up skill %s: %w", name, err)
	}

	for _, sq := range sk.Questions {
		in := sq.input(skill.ID)
		if err := ValidateQuestionInput(&in); err != nil {
			return err
		}

		q, err := s.questionRepo.GetByText(ctx, skill.ID, in.QuestionText)
		switch {
		case err == nil:
			applyQuestionInput(q, in)
			if in.IsActive == nil {
				q.IsActive = true
			}
			if err := s.questionRepo.Update(ctx, q); err != nil {
				return fmt.Errorf("failed to update question in %s: %w", name, err)
			}
			report.QuestionsUpdated++
		case errors.Is(err, apperrors.ErrNotFound):
			q = &entity.Question{SkillID: skill.ID, IsActive: true}
			applyQuestionInput(q, in)
			if err := s.questionRepo.Create(ctx, q); err != nil {
				return fmt.Errorf("failed to create question in %s: %w", name, err)
			}
			report.QuestionsCreated++
		default:
			return fmt.Errorf("failed to look up question in %s: %w", name, err)
		}
	}
	return nil
}
