package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/skill-assessment-api/internal/domain/entity"
	"github.com/yourusername/skill-assessment-api/internal/service"
)

// Форматы выгрузки отчета о пробелах
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

var skillGapHeaders = []string{
	"Skill", "Category", "Attempts", "Unique users",
	"Average score", "Min score", "Max score", "Participation rate", "Gap level",
}

// ReportHandler обрабатывает отчеты
type ReportHandler struct {
	reports *service.ReportService
	cached  service.ReportProvider
	resp    *Responder
	log     *zap.Logger
}

// NewReportHandler создает обработчик отчетов. cached отдает кешируемые отчеты
// (skill-gaps, overview), остальные строятся напрямую.
func NewReportHandler(reports *service.ReportService, cached service.ReportProvider, resp *Responder, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, cached: cached, resp: resp, log: log}
}

// Leaderboard возвращает рейтинг пользователей
// GET /api/reports/leaderboard?period=all|week|month&skillId=&limit=
func (h *ReportHandler) Leaderboard(c *gin.Context) {
	skillID, err := queryUint(c, "skillId")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := h.reports.Leaderboard(c.Request.Context(), c.DefaultQuery("period", service.PeriodAll), skillID, limit)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if entries == nil {
		entries = []entity.LeaderboardEntry{}
	}
	ok(c, entries)
}

// MyProgress возвращает прогресс текущего пользователя по навыкам
// GET /api/reports/my-progress
func (h *ReportHandler) MyProgress(c *gin.Context) {
	progress, err := h.reports.UserProgress(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if progress == nil {
		progress = []entity.SkillProgress{}
	}
	ok(c, progress)
}

// SkillGaps возвращает отчет о пробелах в навыках
// GET /api/reports/skill-gaps
func (h *ReportHandler) SkillGaps(c *gin.Context) {
	gaps, err := h.cached.SkillGaps(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if gaps == nil {
		gaps = []entity.SkillGap{}
	}
	ok(c, gaps)
}

// Overview возвращает сводный отчет
// GET /api/reports/overview
func (h *ReportHandler) Overview(c *gin.Context) {
	overview, err := h.cached.Overview(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, overview)
}

// QuizUsage возвращает последние попытки и использование навыков
// GET /api/reports/quiz-usage?days=&limit=
func (h *ReportHandler) QuizUsage(c *gin.Context) {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	usage, err := h.reports.QuizUsage(c.Request.Context(), days, limit)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	ok(c, usage)
}

// ExportSkillGaps выгружает отчет о пробелах в CSV или Excel
// GET /api/reports/skill-gaps/export?format=csv|xlsx
func (h *ReportHandler) ExportSkillGaps(c *gin.Context) {
	format := c.DefaultQuery("format", ExportCSV)
	if format != ExportCSV && format != ExportXLSX {
		badRequest(c, "format must be csv or xlsx")
		return
	}

	gaps, err := h.cached.SkillGaps(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	filename := fmt.Sprintf("skill_gaps_%s", time.Now().UTC().Format("2006-01-02"))
	if format == ExportXLSX {
		h.exportXLSX(c, gaps, filename)
		return
	}
	h.exportCSV(c, gaps, filename)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func skillGapRow(g entity.SkillGap) []string {
	return []string{
		sanitizeForExcel(g.SkillName),
		sanitizeForExcel(g.Category),
		strconv.Itoa(g.TotalAttempts),
		strconv.Itoa(g.UniqueUsers),
		formatFloat(g.AvgScore),
		formatFloat(g.MinScore),
		formatFloat(g.MaxScore),
		formatFloat(g.ParticipationRate),
		g.GapLevel,
	}
}

// exportCSV пишет CSV с BOM, чтобы Excel распознал UTF-8
func (h *ReportHandler) exportCSV(c *gin.Context, gaps []entity.SkillGap, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.log.Warn("Failed to write CSV export", zap.Error(err))
		return
	}

	writer := csv.NewWriter(c.Writer)
	rows := make([][]string, 0, len(gaps)+1)
	rows = append(rows, skillGapHeaders)
	for _, g := range gaps {
		rows = append(rows, skillGapRow(g))
	}
	if err := writer.WriteAll(rows); err != nil {
		h.log.Warn("Failed to write CSV export", zap.Error(err))
	}
}

// exportXLSX пишет книгу Excel через StreamWriter
func (h *ReportHandler) exportXLSX(c *gin.Context, gaps []entity.SkillGap, filename string) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			h.log.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	const sheet = "Skill gaps"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		h.resp.Error(c, fmt.Errorf("failed to prepare workbook: %w", err))
		return
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		h.resp.Error(c, fmt.Errorf("failed to create stream writer: %w", err))
		return
	}

	header := make([]interface{}, len(skillGapHeaders))
	for i, v := range skillGapHeaders {
		header[i] = v
	}
	if err := sw.SetRow("A1", header); err != nil {
		h.resp.Error(c, fmt.Errorf("failed to write header: %w", err))
		return
	}
	for i, g := range gaps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			h.resp.Error(c, err)
			return
		}
		row := []interface{}{
			sanitizeForExcel(g.SkillName),
			sanitizeForExcel(g.Category),
			g.TotalAttempts,
			g.UniqueUsers,
			g.AvgScore,
			g.MinScore,
			g.MaxScore,
			g.ParticipationRate,
			g.GapLevel,
		}
		if err := sw.SetRow(cell, row); err != nil {
			h.resp.Error(c, fmt.Errorf("failed to write row %d: %w", i+2, err))
			return
		}
	}
	if err := sw.Flush(); err != nil {
		h.resp.Error(c, fmt.Errorf("failed to flush workbook: %w", err))
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.log.Warn("Failed to write XLSX export", zap.Error(err))
	}
}

// sanitizeForExcel экранирует значения, которые Excel принял бы за формулу
func sanitizeForExcel(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
