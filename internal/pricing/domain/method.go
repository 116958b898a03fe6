// Package domain holds the pricing-method model shared by vendor and
// customer price lists: the three line shapes, their validation rules, and
// the cost aggregation helpers used by the cost window.
package domain

// PricingMethod discriminates the shape of a priced line: a single flat
// value, one value per location, or one value per origin-destination pair.
type PricingMethod string

const (
	PricingMethodPerItem     PricingMethod = "perItem"
	PricingMethodPerLocation PricingMethod = "perLocation"
	PricingMethodPerTrip     PricingMethod = "perTrip"
)

// Valid reports whether the method is one of the three known variants.
func (m PricingMethod) Valid() bool {
	switch m {
	case PricingMethodPerItem, PricingMethodPerLocation, PricingMethodPerTrip:
		return true
	default:
		return false
	}
}

// MultiRow reports whether the method prices a collection of location rows
// rather than a single flat value.
func (m PricingMethod) MultiRow() bool {
	return m == PricingMethodPerLocation || m == PricingMethodPerTrip
}

// Role is the perspective a price is named and validated from. Vendors are
// cost-facing; customers and shared price lists are price-facing.
type Role string

const (
	RoleVendor    Role = "vendor"
	RoleCustomer  Role = "customer"
	RolePriceList Role = "priceList"
)

// Valid reports whether the role is recognized.
func (r Role) Valid() bool {
	switch r {
	case RoleVendor, RoleCustomer, RolePriceList:
		return true
	default:
		return false
	}
}

// RoleFieldNames maps the logical price quantity onto the wire field names
// and human-readable labels a role expects.
type RoleFieldNames struct {
	// Single names the flat value field used by perItem lines.
	Single string
	// PerRow names the value field on each location row.
	PerRow string

	SingleLabel string
	PerRowLabel string
}

// FieldNamesFor resolves the field naming for a role. Vendors see "cost"
// everywhere; customers and price lists see "basePrice" / "price".
func FieldNamesFor(role Role) RoleFieldNames {
	if role == RoleVendor {
		return RoleFieldNames{
			Single:      "cost",
			PerRow:      "cost",
			SingleLabel: "Base Cost",
			PerRowLabel: "Cost",
		}
	}
	return RoleFieldNames{
		Single:      "basePrice",
		PerRow:      "price",
		SingleLabel: "Base Price",
		PerRowLabel: "Price",
	}
}
