package domain

import "github.com/shopspring/decimal"

// HasChanges reports whether an incoming payload differs from the stored
// state of a line. Lines are compared by their single value for perItem,
// and by row-collection length plus per-field row equality otherwise.
// Mutations that carry no change are skipped entirely.
func HasChanges(current, incoming LinePayload, names RoleFieldNames) bool {
	if current.PricingMethod != incoming.PricingMethod {
		return true
	}

	if current.PricingMethod == PricingMethodPerItem {
		currentValue, _ := current.SingleValue(names)
		incomingValue, _ := incoming.SingleValue(names)
		return !decimalsEqual(currentValue, incomingValue)
	}

	if len(current.LocationPrices) != len(incoming.LocationPrices) {
		return true
	}
	for i := range current.LocationPrices {
		if rowChanged(current.LocationPrices[i], incoming.LocationPrices[i], names) {
			return true
		}
	}
	return false
}

func rowChanged(current, incoming RowPayload, names RoleFieldNames) bool {
	if current.PricingMethod != incoming.PricingMethod {
		return true
	}
	if current.Location != incoming.Location {
		return true
	}
	if current.FromLocation != incoming.FromLocation {
		return true
	}
	if current.ToLocation != incoming.ToLocation {
		return true
	}
	currentValue, _ := current.Value(names)
	incomingValue, _ := incoming.Value(names)
	return !decimalsEqual(currentValue, incomingValue)
}

func decimalsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
