package service

import "math"

// Параметры пагинации по умолчанию
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination метаданные страницы
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// normalizePage приводит page к >= 1, limit к диапазону 1..MaxPageSize (0 означает значение по умолчанию).
// Сверху page ограничен так, чтобы (page-1)*limit не переполнял int.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

func offsetFor(page, limit int) int {
	return (page - 1) * limit
}

// newPagination считает число страниц: ceil(total / limit)
func newPagination(page, limit int, total int64) Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// clampLimit ограничивает limit диапазоном 1..max, 0 и отрицательные значения заменяются def
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
