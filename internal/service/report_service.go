package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/domain/repository"
	apperrors "github.com/yourusername/skill-assessment-api/internal/pkg/errors"
)

// Периоды лидерборда
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Ограничения отчетов
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	DefaultUsageDays        = 7
	MaxUsageDays            = 365
	DefaultUsageLimit       = 20
)

// ReportProvider описывает кешируемые отчеты
type ReportProvider interface {
	SkillGaps(ctx context.Context) ([]entity.SkillGap, error)
	Overview(ctx context.Context) (*entity.Overview, error)
}

// ReportService строит агрегирующие отчеты; только чтение
type ReportService struct {
	reportRepo   repository.ReportRepository
	overviewDays int
	topN         int
	now          func() time.Time
}

// NewReportService создает сервис отчетов
func NewReportService(reportRepo repository.ReportRepository, overviewDays, topN int) *ReportService {
	if overviewDays <= 0 {
		overviewDays = 30
	}
	if topN <= 0 {
		topN = 5
	}
	return &ReportService{
		reportRepo:   reportRepo,
		overviewDays: overviewDays,
		topN:         topN,
		now:          time.Now,
	}
}

// PeriodStart возвращает начало окна для периода лидерборда; nil для всего времени.
// week и month означают последние 7 и 30 дней.
func PeriodStart(period string, now time.Time) (*time.Time, error) {
	var since time.Time
	switch period {
	case "", PeriodAll:
		return nil, nil
	case PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case PeriodMonth:
		since = now.AddDate(0, 0, -30)
	default:
		return nil, fmt.Errorf("%w: unknown period %q (expected all, week or month)", apperrors.ErrValidation, period)
	}
	since = since.UTC()
	return &since, nil
}

// Leaderboard ранжирует пользователей по среднему баллу, затем по числу попыток, затем по id
func (s *ReportService) Leaderboard(ctx context.Context, period string, skillID *uint, limit int) ([]entity.LeaderboardEntry, error) {
	since, err := PeriodStart(period, s.now())
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, DefaultLeaderboardLimit, MaxLeaderboardLimit)

	rows, err := s.reportRepo.Leaderboard(ctx, since, skillID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].AvgScore = entity.RoundScore(rows[i].AvgScore)
		rows[i].BestScore = entity.RoundScore(rows[i].BestScore)
	}
	return rows, nil
}

// SkillGaps возвращает статистику навыков с уровнем пробела, от слабых к сильным
func (s *ReportService) SkillGaps(ctx context.Context) ([]entity.SkillGap, error) {
	rows, err := s.reportRepo.SkillGapStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill statistics: %w", err)
	}
	learners, err := s.reportRepo.CountActiveLearners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count learners: %w", err)
	}

	for i := range rows {
		r := &rows[i]
		r.AvgScore = entity.RoundScore(r.AvgScore)
		// Уровень по тому же округленному среднему, что видит администратор
		r.GapLevel = entity.GapLevelFor(r.AvgScore)
		if learners > 0 {
			r.ParticipationRate = entity.RoundScore(float64(r.UniqueUsers) / float64(learners) * 100)
		}
		r.MinScore = entity.RoundScore(r.MinScore)
		r.MaxScore = entity.RoundScore(r.MaxScore)
	}
	return rows, nil
}

// Overview собирает сводный отчет: итоги, активность по дням, лидеров и сложные навыки
func (s *ReportService) Overview(ctx context.Context) (*entity.Overview, error) {
	now := s.now().UTC()

	totals, err := s.reportRepo.OverviewTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}
	totals.AverageScore = entity.RoundScore(totals.AverageScore)

	firstDay := truncateDay(now).AddDate(0, 0, -(s.overviewDays - 1))
	points, err := s.reportRepo.CompletedSince(ctx, firstDay)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily activity: %w", err)
	}

	top, err := s.reportRepo.TopPerformers(ctx, s.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to load top performers: %w", err)
	}
	for i := range top {
		top[i].AvgScore = entity.RoundScore(top[i].AvgScore)
	}

	hard, err := s.reportRepo.ChallengingSkills(ctx, s.topN)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenging skills: %w", err)
	}
	for i := range hard {
		hard[i].AvgScore = entity.RoundScore(hard[i].AvgScore)
	}

	return &entity.Overview{
		Totals:            totals,
		DailyActivity:     BucketDaily(points, firstDay, s.overviewDays),
		TopPerformers:     top,
		ChallengingSkills: hard,
		GeneratedAt:       now,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BucketDaily раскладывает попытки по дням начиная с firstDay; дни без активности
// присутствуют с нулевыми значениями
func BucketDaily(points []entity.AttemptPoint, firstDay time.Time, days int) []entity.DailyActivity {
	type acc struct {
		attempts int
		sum      float64
		users    map[uint]struct{}
	}
	buckets := make([]acc, days)
	firstDay = truncateDay(firstDay)

	for _, p := range points {
		idx := int(truncateDay(p.CompletedAt).Sub(firstDay).Hours() / 24)
		if idx < 0 || idx >= days {
			continue
		}
		b := &buckets[idx]
		if b.users == nil {
			b.users = make(map[uint]struct{})
		}
		b.attempts++
		b.sum += p.ScorePercentage
		b.users[p.UserID] = struct{}{}
	}

	out := make([]entity.DailyActivity, days)
	for i, b := range buckets {
		day := entity.DailyActivity{
			Date:        firstDay.AddDate(0, 0, i).Format("2006-01-02"),
			Attempts:    b.attempts,
			UniqueUsers: len(b.users),
		}
		if b.attempts > 0 {
			day.AvgScore = entity.RoundScore(b.sum / float64(b.attempts))
		}
		out[i] = day
	}
	return out
}

// QuizUsage возвращает последние попытки и число попыток по навыкам за days дней
func (s *ReportService) QuizUsage(ctx context.Context, days, limit int) (*entity.QuizUsage, error) {
	days = clampLimit(days, DefaultUsageDays, MaxUsageDays)
	limit = clampLimit(limit, DefaultUsageLimit, MaxPageSize)
	since := s.now().UTC().AddDate(0, 0, -days)

	recent, err := s.reportRepo.RecentAttempts(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attempts: %w", err)
	}
	for i := range recent {
		recent[i].ScorePercentage = entity.RoundScore(recent[i].ScorePercentage)
	}

	bySkill, err := s.reportRepo.SkillUsage(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load skill usage: %w", err)
	}
	return &entity.QuizUsage{Days: days, Recent: recent, BySkill: bySkill}, nil
}

// UserProgress сводит попытки пользователя по навыкам: число, лучший и средний балл, последняя попытка
func (s *ReportService) UserProgress(ctx context.Context, userID uint) ([]entity.SkillProgress, error) {
	attempts, err := s.reportRepo.UserAttempts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	bySkill := make(map[uint]*entity.SkillProgress)
	sums := make(map[uint]float64)
	for _, a := range attempts {
		p, ok := bySkill[a.SkillID]
		if !ok {
			p = &entity.SkillProgress{SkillID: a.SkillID, SkillName: a.SkillName, Category: a.Category}
			bySkill[a.SkillID] = p
		}
		p.Attempts++
		sums[a.SkillID] += a.ScorePercentage
		if a.ScorePercentage > p.BestScore {
			p.BestScore = a.ScorePercentage
		}
		if a.CompletedAt != nil && a.CompletedAt.After(p.LastAttemptAt) {
			p.LastAttemptAt = *a.CompletedAt
		}
	}

	out := make([]entity.SkillProgress, 0, len(bySkill))
	for id, p := range bySkill {
		p.AvgScore = entity.RoundScore(sums[id] / float64(p.Attempts))
		p.BestScore = entity.RoundScore(p.BestScore)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastAttemptAt.Equal(out[j].LastAttemptAt) {
			return out[i].LastAttemptAt.After(out[j].LastAttemptAt)
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out, nil
}
