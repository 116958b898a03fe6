package repository

import (
	"context"
	"errors"

	apikeydomain "github.com/X-CodesTech/wassel-api/internal/apikey/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() apikeydomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, key *apikeydomain.APIKey) error {
	return db.WithContext(ctx).Create(key).Error
}

func (repository) Update(ctx context.Context, db *gorm.DB, key *apikeydomain.APIKey) error {
	return db.WithContext(ctx).Save(key).Error
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, orgID snowflake.ID, id snowflake.ID) (*apikeydomain.APIKey, error) {
	var record apikeydomain.APIKey
	err := db.WithContext(ctx).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apikeydomain.ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (repository) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]apikeydomain.APIKey, error) {
	var records []apikeydomain.APIKey
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
