package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	"github.com/X-CodesTech/wassel-api/internal/attachment/storage"
	appconfig "github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/events"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	"github.com/X-CodesTech/wassel-api/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Config   *appconfig.Config
	Store    storage.ObjectStore
	OrderSvc orderdomain.Service
	Outbox   *events.Outbox
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	expiry   time.Duration
	store    storage.ObjectStore
	orderSvc orderdomain.Service
	outbox   *events.Outbox
	repo     repository.Repository[attachmentdomain.Attachment]
}

func NewService(p ServiceParam) attachmentdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("attachment.service"),

		genID:    p.GenID,
		expiry:   p.Config.Storage.PresignExpiry,
		store:    p.Store,
		orderSvc: p.OrderSvc,
		outbox:   p.Outbox,
		repo:     repository.ProvideStore[attachmentdomain.Attachment](p.DB),
	}
}

// RequestUpload records a pending attachment and hands back a
// presigned PUT URL. The object key embeds a random segment so two
// uploads of the same file name never collide.
func (s *Service) RequestUpload(ctx context.Context, orderID string, req attachmentdomain.UploadRequest) (*attachmentdomain.UploadGrant, error) {
	order, err := s.orderSvc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fileName := path.Base(strings.TrimSpace(req.FileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, attachmentdomain.ErrInvalidFileName
	}

	now := time.Now().UTC()
	record := &attachmentdomain.Attachment{
		ID:          s.genID.Generate(),
		OrgID:       order.OrgID,
		OrderID:     order.ID,
		FileName:    fileName,
		ContentType: strings.TrimSpace(req.ContentType),
		SizeBytes:   req.SizeBytes,
		Key:         fmt.Sprintf("orders/%s/%s/%s", order.ID.String(), uuid.NewString(), fileName),
		Status:      attachmentdomain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uploadURL, err := s.store.UploadURL(ctx, record.Key, s.expiry)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &attachmentdomain.UploadGrant{
		Attachment: *record,
		UploadURL:  uploadURL,
		ExpiresIn:  int64(s.expiry.Seconds()),
	}, nil
}

// Confirm verifies the object landed in storage and flips the
// attachment to uploaded, emitting an outbox event alongside.
func (s *Service) Confirm(ctx context.Context, id string) (*attachmentdomain.Attachment, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == attachmentdomain.StatusUploaded {
		return record, nil
	}

	exists, err := s.store.ObjectExists(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, attachmentdomain.ErrUploadMissing
	}

	now := time.Now().UTC()
	record.Status = attachmentdomain.StatusUploaded
	record.UploadedAt = &now
	record.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(record).Updates(map[string]any{
			"status":      record.Status,
			"uploaded_at": record.UploadedAt,
			"updated_at":  record.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			OrgID: eventOrgID(record),
			Type:  events.EventAttachmentUploaded,
			Payload: map[string]any{
				"attachment_id": record.ID.String(),
				"order_id":      record.OrderID.String(),
				"file_name":     record.FileName,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("attachment uploaded",
		zap.String("attachment_id", record.ID.String()),
		zap.String("order_id", record.OrderID.String()),
	)
	return record, nil
}

// DownloadURL hands out a presigned GET URL for an uploaded
// attachment.
func (s *Service) DownloadURL(ctx context.Context, id string) (string, error) {
	record, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	if record.Status != attachmentdomain.StatusUploaded {
		return "", attachmentdomain.ErrNotUploaded
	}
	return s.store.DownloadURL(ctx, record.Key, s.expiry)
}

func (s *Service) ListByOrder(ctx context.Context, orderID string) ([]attachmentdomain.Attachment, error) {
	order, err := s.orderSvc.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, map[string]any{
		"order_id": order.ID,
		"status":   []string{string(attachmentdomain.StatusPending), string(attachmentdomain.StatusUploaded)},
	})
}

// Delete soft-deletes the record and best-effort removes the object.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	record.Status = attachmentdomain.StatusDeleted
	record.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(record).Updates(map[string]any{
		"status":     record.Status,
		"updated_at": record.UpdatedAt,
	}).Error; err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, record.Key); err != nil {
		// The row is already marked deleted; a stranded object is
		// cleaned up by bucket lifecycle rules.
		s.log.Warn("object cleanup failed", zap.String("key", record.Key), zap.Error(err))
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*attachmentdomain.Attachment, error) {
	attachmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, attachmentdomain.ErrInvalidID
	}
	record, err := s.repo.First(ctx, map[string]any{"id": attachmentID})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, attachmentdomain.ErrAttachmentNotFound
		}
		return nil, err
	}
	if record.Status == attachmentdomain.StatusDeleted {
		return nil, attachmentdomain.ErrAttachmentNotFound
	}
	return record, nil
}

func eventOrgID(record *attachmentdomain.Attachment) snowflake.ID {
	if record.OrgID != 0 {
		return record.OrgID
	}
	return record.ID
}
