// Package domain describes the vendor cost window: the read side that
// answers "what do vendors charge for this sub-activity here" together
// with the aggregated cost range shown next to customer pricing forms.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Query selects vendor costs for one sub-activity at either a single
// location or a trip. Location and FromLocation/ToLocation are
// mutually exclusive.
type Query struct {
	SubActivityID string `form:"subActivityId" json:"subActivityId"`
	Location      string `form:"location" json:"location,omitempty"`
	FromLocation  string `form:"fromLocation" json:"fromLocation,omitempty"`
	ToLocation    string `form:"toLocation" json:"toLocation,omitempty"`
}

// Validate normalizes the query and reports which shape it takes.
func (q Query) Validate() error {
	if strings.TrimSpace(q.SubActivityID) == "" {
		return ErrMissingSubActivity
	}
	hasSingle := strings.TrimSpace(q.Location) != ""
	hasFrom := strings.TrimSpace(q.FromLocation) != ""
	hasTo := strings.TrimSpace(q.ToLocation) != ""

	if hasSingle && (hasFrom || hasTo) {
		return ErrAmbiguousLocation
	}
	if hasFrom != hasTo {
		return ErrIncompleteTrip
	}
	return nil
}

// IsTrip reports whether the query targets a trip rather than a single
// location.
func (q Query) IsTrip() bool {
	return strings.TrimSpace(q.FromLocation) != ""
}

// VendorCost is one vendor's cost for the queried sub-activity.
type VendorCost struct {
	PriceListID   string          `json:"priceListId"`
	VendorID      string          `json:"vendorId"`
	PricingMethod string          `json:"pricingMethod"`
	Cost          decimal.Decimal `json:"cost"`
}

// Response pairs the raw per-vendor costs with their aggregate range
// and the display string clients render verbatim.
type Response struct {
	Data      []VendorCost            `json:"data"`
	CostRange pricingdomain.CostRange `json:"costRange"`
	Display   string                  `json:"display"`
}

// Snapshot is one precomputed aggregate row maintained by the
// background worker so dashboards avoid the join on every read.
type Snapshot struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	SubActivityID  snowflake.ID  `gorm:"not null;uniqueIndex:idx_vendor_cost_snapshots_key" json:"subActivityId"`
	LocationID     *snowflake.ID `gorm:"uniqueIndex:idx_vendor_cost_snapshots_key" json:"locationId,omitempty"`
	FromLocationID *snowflake.ID `gorm:"uniqueIndex:idx_vendor_cost_snapshots_key" json:"fromLocationId,omitempty"`
	ToLocationID   *snowflake.ID `gorm:"uniqueIndex:idx_vendor_cost_snapshots_key" json:"toLocationId,omitempty"`

	MinCost     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"minCost"`
	MaxCost     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"maxCost"`
	AverageCost decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"averageCost"`
	VendorCount int             `gorm:"not null" json:"vendorCount"`
	ComputedAt  time.Time       `gorm:"not null" json:"computedAt"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "vendor_cost_snapshots" }

// Service answers vendor cost queries.
type Service interface {
	GetVendorCosts(ctx context.Context, q Query) (*Response, error)
}

var (
	ErrMissingSubActivity = errors.New("missing_sub_activity")
	ErrInvalidSubActivity = errors.New("invalid_sub_activity")
	ErrInvalidLocation    = errors.New("invalid_location")
	ErrAmbiguousLocation  = errors.New("ambiguous_location")
	ErrIncompleteTrip     = errors.New("incomplete_trip")
)
