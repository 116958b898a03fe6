// Package option provides composable gorm query modifiers shared by the
// generic repository.
package option

import (
	"strings"

	"github.com/X-CodesTech/wassel-api/pkg/db/pagination"
	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(*gorm.DB) *gorm.DB

// Apply runs every option against the query in order.
func Apply(db *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt != nil {
			db = opt(db)
		}
	}
	return db
}

// ApplyPagination applies token pagination: rows strictly after the token's
// ID boundary, ordered by ID, limited to the page size.
func ApplyPagination(p pagination.Pagination) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		lastID, err := pagination.DecodeToken(p.PageToken)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if lastID != "" {
			db = db.Where("id > ?", lastID)
		}
		return db.Order("id ASC").Limit(p.Limit())
	}
}

// QuerySortBy describes a caller-requested sort restricted to an allow list.
type QuerySortBy struct {
	Allow   map[string]bool
	SortBy  string
	OrderBy string
}

// WithSortBy orders the query by an allow-listed column. Unknown columns and
// directions fall back to created_at DESC.
func WithSortBy(s QuerySortBy) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(strings.ToLower(s.SortBy))
		if column == "" || !s.Allow[column] {
			column = "created_at"
		}
		direction := "DESC"
		if strings.EqualFold(strings.TrimSpace(s.OrderBy), "asc") {
			direction = "ASC"
		}
		return db.Order(column + " " + direction)
	}
}

// WithLimit caps the number of returned rows.
func WithLimit(limit int) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}

// WithPreload eagerly loads an association.
func WithPreload(association string, args ...any) QueryOption {
	return func(db *gorm.DB) *gorm.DB {
		if strings.TrimSpace(association) == "" {
			return db
		}
		return db.Preload(association, args...)
	}
}
