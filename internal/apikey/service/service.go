package service

import (
	"context"
	"strings"
	"time"

	apikeydomain "github.com/X-CodesTech/wassel-api/internal/apikey/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IssueResult carries the one-time plaintext alongside the stored
// record.
type IssueResult struct {
	Key       apikeydomain.APIKey `json:"key"`
	Plaintext string              `json:"plaintext"`
}

// Service issues and revokes API keys.
type Service interface {
	Issue(ctx context.Context, orgID snowflake.ID, name string, expiresAt *time.Time) (*IssueResult, error)
	Revoke(ctx context.Context, orgID snowflake.ID, id string) error
	List(ctx context.Context, orgID snowflake.ID) ([]apikeydomain.APIKey, error)
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  apikeydomain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  apikeydomain.Repository
}

func New(p ServiceParam) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("apikey.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) Issue(ctx context.Context, orgID snowflake.ID, name string, expiresAt *time.Time) (*IssueResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apikeydomain.ErrInvalidName
	}

	plaintext, err := apikeydomain.GeneratePlaintext()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := apikeydomain.APIKey{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		KeyHash:   apikeydomain.HashAPIKey(plaintext),
		Prefix:    plaintext[:8],
		IsActive:  true,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return nil, err
	}

	s.log.Info("api key issued",
		zap.String("api_key_id", record.ID.String()),
		zap.String("name", record.Name),
	)
	return &IssueResult{Key: record, Plaintext: plaintext}, nil
}

func (s *service) Revoke(ctx context.Context, orgID snowflake.ID, id string) error {
	keyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return apikeydomain.ErrAPIKeyNotFound
	}
	record, err := s.repo.FindByID(ctx, s.db, orgID, keyID)
	if err != nil {
		return err
	}

	record.IsActive = false
	record.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, s.db, record)
}

func (s *service) List(ctx context.Context, orgID snowflake.ID) ([]apikeydomain.APIKey, error) {
	return s.repo.List(ctx, s.db, orgID)
}
