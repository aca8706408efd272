// Package pagination normalizes raw page/limit query parameters into a
// bounded offset window shared by every list endpoint.
package pagination

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination is a validated {page, limit} pair. Zero value is not usable;
// construct through Parse or Normalize.
type Pagination struct {
	Page  int
	Limit int
}

// Parse builds a Pagination from raw query strings. Values that are absent,
// non-numeric, or below 1 fall back to the defaults; limit is silently
// clamped at MaxLimit rather than rejected.
func Parse(rawPage, rawLimit string) Pagination {
	return Pagination{
		Page:  parsePositive(rawPage, DefaultPage),
		Limit: parsePositive(rawLimit, DefaultLimit),
	}.Normalize()
}

// Normalize applies defaulting and the limit cap to an already-built pair.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Apply attaches the window to a gorm statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.Limit)
}

func parsePositive(raw string, def int) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return def
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed < 1 {
		return def
	}
	return parsed
}
