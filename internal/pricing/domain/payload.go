package domain

import "github.com/shopspring/decimal"

// LinePayload is the wire shape of a price line. Both value namings are
// declared; which one a payload may carry is decided by the caller's role
// during validation.
type LinePayload struct {
	SubActivity    string           `json:"subActivity"`
	PricingMethod  PricingMethod    `json:"pricingMethod"`
	BasePrice      *decimal.Decimal `json:"basePrice,omitempty"`
	Cost           *decimal.Decimal `json:"cost,omitempty"`
	LocationPrices []RowPayload     `json:"locationPrices,omitempty"`
}

// RowPayload is the wire shape of one location-price row.
type RowPayload struct {
	PricingMethod PricingMethod    `json:"pricingMethod"`
	Location      string           `json:"location,omitempty"`
	FromLocation  string           `json:"fromLocation,omitempty"`
	ToLocation    string           `json:"toLocation,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
}

// SingleValue returns the flat value under the role's field naming, plus the
// value carried under the opposite role's name, if any.
func (p LinePayload) SingleValue(names RoleFieldNames) (value, foreign *decimal.Decimal) {
	if names.Single == "cost" {
		return p.Cost, p.BasePrice
	}
	return p.BasePrice, p.Cost
}

// Value returns the row value under the role's field naming, plus the value
// carried under the opposite role's name, if any.
func (r RowPayload) Value(names RoleFieldNames) (value, foreign *decimal.Decimal) {
	if names.PerRow == "cost" {
		return r.Cost, r.Price
	}
	return r.Price, r.Cost
}
