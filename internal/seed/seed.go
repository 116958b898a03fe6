// Package seed bootstraps a fresh database: the default organization,
// its admin API key and the base sub-activity catalog.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	apikeydomain "github.com/X-CodesTech/wassel-api/internal/apikey/domain"
	"github.com/X-CodesTech/wassel-api/internal/auth/password"
	"github.com/X-CodesTech/wassel-api/internal/config"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultOrgName      = "Wassel"
	defaultAdminKeyName = "bootstrap-admin"
)

// defaultSubActivities is the catalog every fresh install starts with.
var defaultSubActivities = []struct {
	Code   string
	Name   string
	NameAr string
}{
	{Code: "FREIGHT", Name: "Freight", NameAr: "شحن"},
	{Code: "LOADING", Name: "Loading", NameAr: "تحميل"},
	{Code: "UNLOADING", Name: "Unloading", NameAr: "تفريغ"},
	{Code: "CUSTOMS", Name: "Customs Clearance", NameAr: "تخليص جمركي"},
	{Code: "STORAGE", Name: "Storage", NameAr: "تخزين"},
}

// Organization is the tenant record. Only seeding touches it directly.
type Organization struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	Name            string       `gorm:"type:text;not null"`
	AdminSecretHash *string      `gorm:"type:text"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// EnsureDefaultOrgAndAdmin seeds the default organization, hashes the
// bootstrap admin secret and issues the initial admin API key. The key
// plaintext is logged exactly once on first creation.
func EnsureDefaultOrgAndAdmin(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	slog := log.Named("seed")
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureDefaultOrgTx(ctx, tx, node, cfg)
		if err != nil {
			return err
		}
		if err := ensureAdminKeyTx(ctx, tx, node, org, slog); err != nil {
			return err
		}
		return ensureCatalogTx(ctx, tx, node, org)
	})
}

func ensureDefaultOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, cfg *config.Config) (Organization, error) {
	var org Organization
	err := tx.WithContext(ctx).Where("name = ?", defaultOrgName).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	now := time.Now().UTC()
	org = Organization{
		ID:        node.Generate(),
		Name:      defaultOrgName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if secret := strings.TrimSpace(cfg.Bootstrap.AdminSecret); secret != "" {
		hashed, err := password.Hash(secret)
		if err != nil {
			return org, err
		}
		org.AdminSecretHash = &hashed
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

func ensureAdminKeyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, org Organization, log *zap.Logger) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&apikeydomain.APIKey{}).
		Where("org_id = ? AND name = ?", org.ID, defaultAdminKeyName).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plaintext, err := apikeydomain.GeneratePlaintext()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	key := apikeydomain.APIKey{
		ID:        node.Generate(),
		OrgID:     org.ID,
		Name:      defaultAdminKeyName,
		KeyHash:   apikeydomain.HashAPIKey(plaintext),
		Prefix:    plaintext[:8],
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&key).Error; err != nil {
		return err
	}

	// The only place the plaintext ever surfaces.
	log.Info("bootstrap admin api key issued",
		zap.String("name", defaultAdminKeyName),
		zap.String("api_key", plaintext),
	)
	return nil
}

func ensureCatalogTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, org Organization) error {
	for _, entry := range defaultSubActivities {
		var count int64
		err := tx.WithContext(ctx).
			Model(&subactivitydomain.SubActivity{}).
			Where("org_id = ? AND code = ?", org.ID, entry.Code).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now().UTC()
		record := subactivitydomain.SubActivity{
			ID:             node.Generate(),
			OrgID:          org.ID,
			Code:           entry.Code,
			Name:           entry.Name,
			NameAr:         entry.NameAr,
			AllowedMethods: datatypes.NewJSONSlice([]string{}),
			Active:         true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
