// Package repository provides a generic gorm-backed store used by domain
// services for uniform persistence access.
package repository

import (
	"context"
	"errors"

	"github.com/X-CodesTech/wassel-api/pkg/db/option"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record_not_found")

// Repository exposes typed CRUD operations over a single model.
type Repository[T any] interface {
	Create(ctx context.Context, record *T) error
	CreateTx(ctx context.Context, tx *gorm.DB, record *T) error
	Find(ctx context.Context, filter map[string]any, opts ...option.QueryOption) ([]T, error)
	First(ctx context.Context, filter map[string]any) (*T, error)
	Update(ctx context.Context, record *T) error
	UpdateTx(ctx context.Context, tx *gorm.DB, record *T) error
	Delete(ctx context.Context, filter map[string]any) error
	DeleteTx(ctx context.Context, tx *gorm.DB, filter map[string]any) error
	Count(ctx context.Context, filter map[string]any) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given database handle.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) handle(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.CreateTx(ctx, nil, record)
}

func (s *store[T]) CreateTx(ctx context.Context, tx *gorm.DB, record *T) error {
	return s.handle(ctx, tx).Create(record).Error
}

func (s *store[T]) Find(ctx context.Context, filter map[string]any, opts ...option.QueryOption) ([]T, error) {
	var records []T
	query := s.handle(ctx, nil)
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	query = option.Apply(query, opts...)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) First(ctx context.Context, filter map[string]any) (*T, error) {
	var record T
	query := s.handle(ctx, nil)
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Update(ctx context.Context, record *T) error {
	return s.UpdateTx(ctx, nil, record)
}

func (s *store[T]) UpdateTx(ctx context.Context, tx *gorm.DB, record *T) error {
	return s.handle(ctx, tx).Save(record).Error
}

func (s *store[T]) Delete(ctx context.Context, filter map[string]any) error {
	return s.DeleteTx(ctx, nil, filter)
}

func (s *store[T]) DeleteTx(ctx context.Context, tx *gorm.DB, filter map[string]any) error {
	if len(filter) == 0 {
		return errors.New("delete requires a filter")
	}
	var record T
	return s.handle(ctx, tx).Where(filter).Delete(&record).Error
}

func (s *store[T]) Count(ctx context.Context, filter map[string]any) (int64, error) {
	var record T
	var count int64
	query := s.handle(ctx, nil).Model(&record)
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
