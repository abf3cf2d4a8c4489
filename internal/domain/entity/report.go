package entity

import "time"

// Уровни пробела в навыке
const (
	GapHigh   = "high"
	GapMedium = "medium"
	GapLow    = "low"
)

// Пороговые значения среднего балла для уровней пробела
const (
	GapHighThreshold   = 60.0
	GapMediumThreshold = 75.0
)

// GapLevelFor классифицирует средний балл навыка: < 60 high, < 75 medium, иначе low
func GapLevelFor(avgScore float64) string {
	switch {
	case avgScore < GapHighThreshold:
		return GapHigh
	case avgScore < GapMediumThreshold:
		return GapMedium
	default:
		return GapLow
	}
}

// AttemptSummary строка истории попыток пользователя
type AttemptSummary struct {
	ID              uint       `json:"id"`
	SkillID         uint       `json:"skillId"`
	SkillName       string     `json:"skillName"`
	Category        string     `json:"category"`
	TotalQuestions  int        `json:"totalQuestions"`
	CorrectAnswers  int        `json:"correctAnswers"`
	ScorePercentage float64    `json:"scorePercentage"`
	TimeTaken       int        `json:"timeTaken"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// LeaderboardEntry строка лидерборда
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	UserID    uint    `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	QuizCount int     `json:"quizCount"`
	AvgScore  float64 `json:"avgScore"`
	BestScore float64 `json:"bestScore"`
}

// SkillGap агрегат по навыку для отчета о пробелах
type SkillGap struct {
	SkillID           uint    `json:"skillId"`
	SkillName         string  `json:"skillName"`
	Category          string  `json:"category"`
	TotalAttempts     int     `json:"totalAttempts"`
	UniqueUsers       int     `json:"uniqueUsers"`
	AvgScore          float64 `json:"avgScore"`
	MinScore          float64 `json:"minScore"`
	MaxScore          float64 `json:"maxScore"`
	ParticipationRate float64 `json:"participationRate"`
	GapLevel          string  `json:"gapLevel"`
}

// OverviewTotals общие счетчики системы
type OverviewTotals struct {
	TotalUsers        int64   `json:"totalUsers"`
	ActiveUsers       int64   `json:"activeUsers"`
	TotalSkills       int64   `json:"totalSkills"`
	ActiveSkills      int64   `json:"activeSkills"`
	TotalQuestions    int64   `json:"totalQuestions"`
	CompletedAttempts int64   `json:"completedAttempts"`
	AverageScore      float64 `json:"averageScore"`
}

// AttemptPoint завершенная попытка, сведенная к данным для дневной статистики
type AttemptPoint struct {
	UserID          uint
	ScorePercentage float64
	CompletedAt     time.Time
}

// DailyActivity активность за один календарный день (UTC)
type DailyActivity struct {
	Date        string  `json:"date"`
	Attempts    int     `json:"attempts"`
	UniqueUsers int     `json:"uniqueUsers"`
	AvgScore    float64 `json:"avgScore"`
}

// TopPerformer пользователь с высоким средним баллом
type TopPerformer struct {
	UserID    uint    `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	QuizCount int     `json:"quizCount"`
	AvgScore  float64 `json:"avgScore"`
}

// ChallengingSkill навык с низким средним баллом
type ChallengingSkill struct {
	SkillID   uint    `json:"skillId"`
	SkillName string  `json:"skillName"`
	Category  string  `json:"category"`
	Attempts  int     `json:"attempts"`
	AvgScore  float64 `json:"avgScore"`
}

// Overview сводный отчет администратора
type Overview struct {
	Totals            OverviewTotals     `json:"totals"`
	DailyActivity     []DailyActivity    `json:"dailyActivity"`
	TopPerformers     []TopPerformer     `json:"topPerformers"`
	ChallengingSkills []ChallengingSkill `json:"challengingSkills"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// RecentAttempt недавняя завершенная попытка для отчета об использовании
type RecentAttempt struct {
	AttemptID       uint      `json:"attemptId"`
	UserID          uint      `json:"userId"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	SkillID         uint      `json:"skillId"`
	SkillName       string    `json:"skillName"`
	ScorePercentage float64   `json:"scorePercentage"`
	TimeTaken       int       `json:"timeTaken"`
	CompletedAt     time.Time `json:"completedAt"`
}

// SkillUsage количество попыток по навыку за период
type SkillUsage struct {
	SkillID     uint   `json:"skillId"`
	SkillName   string `json:"skillName"`
	Category    string `json:"category"`
	Attempts    int    `json:"attempts"`
	UniqueUsers int    `json:"uniqueUsers"`
}

// QuizUsage отчет об использовании тестов за последние Days дней
type QuizUsage struct {
	Days    int             `json:"days"`
	Recent  []RecentAttempt `json:"recent"`
	BySkill []SkillUsage    `json:"bySkill"`
}

// SkillProgress прогресс пользователя по одному навыку
type SkillProgress struct {
	SkillID       uint      `json:"skillId"`
	SkillName     string    `json:"skillName"`
	Category      string    `json:"category"`
	Attempts      int       `json:"attempts"`
	BestScore     float64   `json:"bestScore"`
	AvgScore      float64   `json:"avgScore"`
	LastAttemptAt time.Time `json:"lastAttemptAt"`
}
