package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	appconfig "github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/events"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	orderservice "github.com/X-CodesTech/wassel-api/internal/order/service"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	subactivityservice "github.com/X-CodesTech/wassel-api/internal/subactivity/service"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeStore records issued keys and lets tests control whether an
// object "exists" in the bucket.
type fakeStore struct {
	objects map[string]bool
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]bool{}}
}

func (f *fakeStore) UploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (f *fakeStore) DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (f *fakeStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	return f.objects[key], nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

type fixture struct {
	svc     attachmentdomain.Service
	store   *fakeStore
	db      *gorm.DB
	node    *snowflake.Node
	orderID string
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&attachmentdomain.Attachment{},
		&orderdomain.Order{},
		&subactivitydomain.SubActivity{},
		&events.DomainEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	log := zap.NewNop()
	outbox := events.NewOutbox(db, node)

	subActivity := subactivitydomain.SubActivity{
		ID:     node.Generate(),
		Code:   "FREIGHT",
		Name:   "Freight",
		Active: true,
	}
	if err := db.Create(&subActivity).Error; err != nil {
		t.Fatalf("seed sub activity: %v", err)
	}

	orderSvc := orderservice.NewService(orderservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		SubActivitySvc: subactivityservice.NewService(subactivityservice.ServiceParam{
			DB:    db,
			Log:   log,
			GenID: node,
		}),
		Outbox: outbox,
	})
	order, err := orderSvc.Create(context.Background(), orderdomain.CreateRequest{
		CustomerID:    node.Generate().String(),
		SubActivityID: subActivity.ID.String(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	store := newFakeStore()
	cfg := &appconfig.Config{}
	cfg.Storage.PresignExpiry = 15 * time.Minute

	svc := NewService(ServiceParam{
		DB:       db,
		Log:      log,
		GenID:    node,
		Config:   cfg,
		Store:    store,
		OrderSvc: orderSvc,
		Outbox:   outbox,
	})

	return &fixture{
		svc:     svc,
		store:   store,
		db:      db,
		node:    node,
		orderID: order.ID.String(),
	}
}

func (f *fixture) requestUpload(t *testing.T) *attachmentdomain.UploadGrant {
	t.Helper()
	grant, err := f.svc.RequestUpload(context.Background(), f.orderID, attachmentdomain.UploadRequest{
		FileName:    "delivery-note.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
	})
	if err != nil {
		t.Fatalf("request upload: %v", err)
	}
	return grant
}

func TestRequestUpload(t *testing.T) {
	f := setupFixture(t)

	grant := f.requestUpload(t)
	if grant.Attachment.Status != attachmentdomain.StatusPending {
		t.Fatalf("status = %s", grant.Attachment.Status)
	}
	if !strings.HasPrefix(grant.UploadURL, "https://storage.test/upload/orders/") {
		t.Fatalf("upload url = %q", grant.UploadURL)
	}
	if !strings.HasSuffix(grant.Attachment.Key, "/delivery-note.pdf") {
		t.Fatalf("key = %q", grant.Attachment.Key)
	}
	if grant.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("expires in = %d", grant.ExpiresIn)
	}
}

func TestRequestUploadStripsPathSegments(t *testing.T) {
	f := setupFixture(t)

	grant, err := f.svc.RequestUpload(context.Background(), f.orderID, attachmentdomain.UploadRequest{
		FileName: "../../etc/passwd",
	})
	if err != nil {
		t.Fatalf("request upload: %v", err)
	}
	if grant.Attachment.FileName != "passwd" {
		t.Fatalf("file name = %q", grant.Attachment.FileName)
	}
}

func TestConfirmRequiresObject(t *testing.T) {
	f := setupFixture(t)
	grant := f.requestUpload(t)
	ctx := context.Background()
	id := grant.Attachment.ID.String()

	if _, err := f.svc.Confirm(ctx, id); !errors.Is(err, attachmentdomain.ErrUploadMissing) {
		t.Fatalf("expected ErrUploadMissing, got %v", err)
	}

	f.store.objects[grant.Attachment.Key] = true
	record, err := f.svc.Confirm(ctx, id)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if record.Status != attachmentdomain.StatusUploaded {
		t.Fatalf("status = %s", record.Status)
	}
	if record.UploadedAt == nil {
		t.Fatal("expected uploadedAt to be set")
	}

	var event events.DomainEvent
	if err := f.db.Where("event_type = ?", events.EventAttachmentUploaded).First(&event).Error; err != nil {
		t.Fatalf("expected outbox event: %v", err)
	}
}

func TestDownloadURLOnlyAfterUpload(t *testing.T) {
	f := setupFixture(t)
	grant := f.requestUpload(t)
	ctx := context.Background()
	id := grant.Attachment.ID.String()

	if _, err := f.svc.DownloadURL(ctx, id); !errors.Is(err, attachmentdomain.ErrNotUploaded) {
		t.Fatalf("expected ErrNotUploaded, got %v", err)
	}

	f.store.objects[grant.Attachment.Key] = true
	if _, err := f.svc.Confirm(ctx, id); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	url, err := f.svc.DownloadURL(ctx, id)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.HasPrefix(url, "https://storage.test/download/") {
		t.Fatalf("download url = %q", url)
	}
}

func TestDeleteHidesAttachment(t *testing.T) {
	f := setupFixture(t)
	grant := f.requestUpload(t)
	ctx := context.Background()
	id := grant.Attachment.ID.String()

	if err := f.svc.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.store.deleted) != 1 {
		t.Fatalf("expected object cleanup, deleted = %v", f.store.deleted)
	}
	if _, err := f.svc.DownloadURL(ctx, id); !errors.Is(err, attachmentdomain.ErrAttachmentNotFound) {
		t.Fatalf("expected ErrAttachmentNotFound, got %v", err)
	}

	list, err := f.svc.ListByOrder(ctx, f.orderID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}
}
