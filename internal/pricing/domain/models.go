package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SubActivityPrice is one priced line of a price list. Its field set is
// fully determined by PricingMethod: perItem lines carry BasePrice,
// perLocation and perTrip lines carry LocationPrices.
type SubActivityPrice struct {
	ID            snowflake.ID  `gorm:"primaryKey"`
	OrgID         snowflake.ID  `gorm:"not null;index"`
	PriceListID   snowflake.ID  `gorm:"not null;index"`
	SubActivityID snowflake.ID  `gorm:"not null;index"`
	PricingMethod PricingMethod `gorm:"type:text;not null"`

	// BasePrice is set only for perItem lines. Stored role-neutral; the
	// role-mapped field name is applied when rendering.
	BasePrice *decimal.Decimal `gorm:"type:numeric(14,2)"`

	LocationPrices []LocationPrice `gorm:"foreignKey:LineID;references:ID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (SubActivityPrice) TableName() string { return "sub_activity_prices" }

// LocationPrice is one row of a multi-location line. PricingMethod is
// duplicated onto the row so each row is self-describing.
type LocationPrice struct {
	ID            snowflake.ID  `gorm:"primaryKey"`
	LineID        snowflake.ID  `gorm:"not null;index"`
	PricingMethod PricingMethod `gorm:"type:text;not null"`

	// LocationID is set for perLocation rows.
	LocationID *snowflake.ID `gorm:"index"`
	// FromLocationID and ToLocationID are set for perTrip rows. They may be
	// equal: zero-distance trips are not rejected.
	FromLocationID *snowflake.ID `gorm:"index"`
	ToLocationID   *snowflake.ID `gorm:"index"`

	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Position int             `gorm:"not null"`
}

// TableName sets the database table name.
func (LocationPrice) TableName() string { return "location_prices" }
