// Package domain models order attachments: delivery notes, customs
// papers and photos uploaded against a freight order. Files live in
// object storage; the API only ever hands out presigned URLs.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status tracks an attachment through its upload lifecycle.
type Status string

const (
	// StatusPending marks a grant that was issued but whose upload
	// has not been confirmed yet.
	StatusPending  Status = "pending"
	StatusUploaded Status = "uploaded"
	StatusDeleted  Status = "deleted"
)

// Attachment is one file attached to a freight order.
type Attachment struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID   snowflake.ID `gorm:"not null;index" json:"-"`
	OrderID snowflake.ID `gorm:"not null;index" json:"orderId"`

	FileName    string `gorm:"type:text;not null" json:"fileName"`
	ContentType string `gorm:"type:text" json:"contentType,omitempty"`
	SizeBytes   int64  `gorm:"not null;default:0" json:"sizeBytes"`

	// Key is the object storage key. Never exposed to clients.
	Key    string `gorm:"type:text;not null" json:"-"`
	Status Status `gorm:"type:text;not null;default:'pending';index" json:"status"`

	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Attachment) TableName() string { return "order_attachments" }

type UploadRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// UploadGrant is the response to an upload request: the stored record
// plus a presigned PUT URL the client uploads to directly.
type UploadGrant struct {
	Attachment Attachment `json:"attachment"`
	UploadURL  string     `json:"uploadUrl"`
	ExpiresIn  int64      `json:"expiresIn"`
}

// Service manages order attachments.
type Service interface {
	RequestUpload(ctx context.Context, orderID string, req UploadRequest) (*UploadGrant, error)
	Confirm(ctx context.Context, id string) (*Attachment, error)
	DownloadURL(ctx context.Context, id string) (string, error)
	ListByOrder(ctx context.Context, orderID string) ([]Attachment, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_attachment_id")
	ErrInvalidFileName    = errors.New("invalid_file_name")
	ErrAttachmentNotFound = errors.New("attachment_not_found")
	ErrNotUploaded        = errors.New("attachment_not_uploaded")
	ErrUploadMissing      = errors.New("upload_object_missing")
)
