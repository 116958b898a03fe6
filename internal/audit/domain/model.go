package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ActorType represents who triggered an action.
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
	ActorTypeAPIKey ActorType = "api_key"
)

// Actions recorded by the back office.
const (
	ActionPriceListCreate    = "price_list.create"
	ActionPriceLineAdd       = "price_list.line_add"
	ActionPriceLineUpdate    = "price_list.line_update"
	ActionPriceLineDelete    = "price_list.line_delete"
	ActionOrderCreate        = "order.create"
	ActionOrderUpdate        = "order.update"
	ActionOrderTransition    = "order.transition"
	ActionSubActivityCreate  = "sub_activity.create"
	ActionSubActivityUpdate  = "sub_activity.update"
	ActionSubActivityArchive = "sub_activity.archive"
	ActionAttachmentUpload   = "attachment.upload"
	ActionAttachmentConfirm  = "attachment.confirm"
	ActionAttachmentDelete   = "attachment.delete"
)

// AuditLog captures an immutable record of a back-office action.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey"`
	OrgID      *snowflake.ID     `gorm:"index"`
	ActorType  string            `gorm:"type:text;not null"`
	ActorID    *string           `gorm:"type:text"`
	Action     string            `gorm:"type:text;not null;index"`
	TargetType string            `gorm:"type:text;not null"`
	TargetID   *string           `gorm:"type:text"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IPAddress  *string           `gorm:"type:text"`
	UserAgent  *string           `gorm:"type:text"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }
