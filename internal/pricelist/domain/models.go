// Package domain contains the price-list aggregate: a vendor's or
// customer's set of priced sub-activity lines with an effective window.
package domain

import (
	"time"

	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
)

// OwnerType distinguishes vendor (cost-facing) from customer
// (price-facing) lists.
type OwnerType string

const (
	OwnerTypeVendor   OwnerType = "vendor"
	OwnerTypeCustomer OwnerType = "customer"
)

// Valid reports whether the owner type is recognized.
func (o OwnerType) Valid() bool {
	return o == OwnerTypeVendor || o == OwnerTypeCustomer
}

// Role maps the list owner onto the pricing role its payloads are
// validated and rendered with.
func (o OwnerType) Role() pricingdomain.Role {
	if o == OwnerTypeVendor {
		return pricingdomain.RoleVendor
	}
	return pricingdomain.RoleCustomer
}

// PriceList aggregates priced sub-activity lines for one vendor or one
// customer.
type PriceList struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	OrgID   snowflake.ID `gorm:"not null;index"`
	OwnerID snowflake.ID `gorm:"not null;index"`

	OwnerType OwnerType `gorm:"type:text;not null"`
	Name      string    `gorm:"type:text;not null"`
	Active    bool      `gorm:"not null;default:true"`

	EffectiveFrom time.Time  `gorm:"not null"`
	EffectiveTo   *time.Time `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PriceList) TableName() string { return "price_lists" }

// EffectiveAt reports whether the list is active and inside its window at
// the given instant.
func (p PriceList) EffectiveAt(at time.Time) bool {
	if !p.Active {
		return false
	}
	if at.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo != nil && at.After(*p.EffectiveTo) {
		return false
	}
	return true
}

// LineView is a price line rendered under the owner's role field naming,
// with its identifier attached for edit and delete operations.
type LineView struct {
	ID string `json:"id"`
	pricingdomain.LinePayload
}

// PriceListView is the wholesale read model returned to clients: the list
// header plus every line, freshly read after each mutation.
type PriceListView struct {
	ID            string     `json:"id"`
	OwnerType     OwnerType  `json:"ownerType"`
	OwnerID       string     `json:"ownerId"`
	Name          string     `json:"name"`
	Active        bool       `json:"active"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`

	SubActivityPrices []LineView `json:"subActivityPrices"`
}

// MutationResult reports the outcome of a line mutation. Changed is false
// when an update matched the stored state and was skipped.
type MutationResult struct {
	Changed   bool           `json:"changed"`
	PriceList *PriceListView `json:"priceList"`
}
