// Package domain holds freight orders: the operational records that
// consume sub-activity pricing once a shipment is booked.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusInTransit Status = "inTransit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// transitions maps each state to the states it may move to. Cancelled
// and delivered are terminal.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order is one freight order.
type Order struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"-"`

	CustomerID     snowflake.ID  `gorm:"not null;index" json:"customerId"`
	VendorID       *snowflake.ID `gorm:"index" json:"vendorId,omitempty"`
	SubActivityID  snowflake.ID  `gorm:"not null;index" json:"subActivityId"`
	FromLocationID *snowflake.ID `json:"fromLocationId,omitempty"`
	ToLocationID   *snowflake.ID `json:"toLocationId,omitempty"`

	Status Status `gorm:"type:text;not null;default:'draft';index" json:"status"`

	// RequestedAt is the date the customer asked the service to happen.
	RequestedAt *time.Time `json:"requestedAt,omitempty"`

	// AgreedPrice and AgreedCost freeze the pricing the order was
	// booked at, so later price list edits never move a live order.
	AgreedPrice *decimal.Decimal `gorm:"type:numeric(14,2)" json:"agreedPrice,omitempty"`
	AgreedCost  *decimal.Decimal `gorm:"type:numeric(14,2)" json:"agreedCost,omitempty"`

	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

type CreateRequest struct {
	CustomerID    string  `json:"customerId"`
	VendorID      *string `json:"vendorId"`
	SubActivityID string  `json:"subActivityId"`
	FromLocation  *string `json:"fromLocation"`
	ToLocation    *string `json:"toLocation"`
	RequestedAt   *string `json:"requestedAt"`
	AgreedPrice   *string `json:"agreedPrice"`
	AgreedCost    *string `json:"agreedCost"`
	Notes         string  `json:"notes"`
}

type UpdateRequest struct {
	ID          string
	VendorID    *string
	RequestedAt *string
	AgreedPrice *string
	AgreedCost  *string
	Notes       *string
}

type ListRequest struct {
	Status     string
	CustomerID string
	VendorID   string
	SortBy     string
	OrderBy    string
}

// Service manages freight orders and their lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]Order, error)
	Update(ctx context.Context, req UpdateRequest) (*Order, error)
	Transition(ctx context.Context, id string, to Status) (*Order, error)
}

var (
	ErrInvalidID          = errors.New("invalid_order_id")
	ErrInvalidCustomer    = errors.New("invalid_customer_id")
	ErrInvalidVendor      = errors.New("invalid_vendor_id")
	ErrInvalidSubActivity = errors.New("invalid_sub_activity_id")
	ErrInvalidLocation    = errors.New("invalid_location_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidDate        = errors.New("invalid_requested_date")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrOrderNotFound      = errors.New("order_not_found")
	ErrOrderImmutable     = errors.New("order_immutable")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
)
