// Package domain contains the billable sub-activity catalog: the units of
// service a price line attaches a cost or price to.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// SubActivity is one billable unit of service, e.g. loading or customs
// clearance.
type SubActivity struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"-"`

	Code   string `gorm:"type:text;not null;uniqueIndex:idx_sub_activities_org_code" json:"code"`
	Name   string `gorm:"type:text;not null" json:"name"`
	NameAr string `gorm:"type:text" json:"nameAr"`

	// AllowedMethods restricts which pricing methods lines referencing this
	// sub-activity may use. Empty means all three are allowed.
	AllowedMethods datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"allowedMethods"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (SubActivity) TableName() string { return "sub_activities" }

// AllowsMethod reports whether a pricing method may be used with this
// sub-activity.
func (s SubActivity) AllowsMethod(method string) bool {
	if len(s.AllowedMethods) == 0 {
		return true
	}
	for _, allowed := range s.AllowedMethods {
		if allowed == method {
			return true
		}
	}
	return false
}

type CreateRequest struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	NameAr         string   `json:"nameAr"`
	AllowedMethods []string `json:"allowedMethods"`
	Active         *bool    `json:"active"`
}

type UpdateRequest struct {
	ID             string
	Name           *string
	NameAr         *string
	AllowedMethods []string
	Active         *bool
}

type ListRequest struct {
	Name    string
	Active  *bool
	SortBy  string
	OrderBy string
}

// Service manages the sub-activity catalog.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*SubActivity, error)
	Get(ctx context.Context, id string) (*SubActivity, error)
	List(ctx context.Context, req ListRequest) ([]SubActivity, error)
	Update(ctx context.Context, req UpdateRequest) (*SubActivity, error)
	Archive(ctx context.Context, id string) (*SubActivity, error)
}

var (
	ErrInvalidID           = errors.New("invalid_sub_activity_id")
	ErrInvalidCode         = errors.New("invalid_sub_activity_code")
	ErrInvalidName         = errors.New("invalid_sub_activity_name")
	ErrInvalidMethod       = errors.New("invalid_allowed_method")
	ErrDuplicateCode       = errors.New("duplicate_sub_activity_code")
	ErrSubActivityNotFound = errors.New("sub_activity_not_found")
	ErrSubActivityInactive = errors.New("sub_activity_inactive")
	ErrMethodNotAllowed    = errors.New("pricing_method_not_allowed")
)
