package service

import (
	"context"

	"github.com/X-CodesTech/wassel-api/internal/audit/domain"
	"github.com/X-CodesTech/wassel-api/internal/requestcontext"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service records and queries immutable audit rows.
type Service interface {
	// AuditLog writes one audit row. Nil/empty actor parameters are filled
	// from the request context. Failures are logged, never fatal to the
	// calling mutation.
	AuditLog(ctx context.Context, orgID *snowflake.ID, actorType string, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error)
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p ServiceParam) Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) AuditLog(ctx context.Context, orgID *snowflake.ID, actorType string, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error {
	entry := &domain.AuditLog{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		ActorType:  actorType,
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
	}
	for key, value := range metadata {
		entry.Metadata[key] = value
	}

	if entry.OrgID == nil {
		if ctxOrg := requestcontext.OrgIDFromContext(ctx); ctxOrg != 0 {
			id := snowflake.ID(ctxOrg)
			entry.OrgID = &id
		}
	}
	if entry.ActorType == "" {
		ctxActorType, ctxActorID := requestcontext.ActorFromContext(ctx)
		if ctxActorType == "" {
			ctxActorType = string(domain.ActorTypeSystem)
		}
		entry.ActorType = ctxActorType
		if entry.ActorID == nil && ctxActorID != "" {
			entry.ActorID = &ctxActorID
		}
	}
	if ip := requestcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := requestcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("audit insert failed",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, filter domain.ListFilter) ([]*domain.AuditLog, error) {
	return s.repo.List(ctx, s.db, filter)
}
