package domain

import "testing"

func tripLine(costs ...string) LinePayload {
	rows := make([]RowPayload, 0, len(costs))
	for _, c := range costs {
		rows = append(rows, RowPayload{
			PricingMethod: PricingMethodPerTrip,
			FromLocation:  "A",
			ToLocation:    "B",
			Cost:          dec(c),
		})
	}
	return LinePayload{
		SubActivity:    "S1",
		PricingMethod:  PricingMethodPerTrip,
		LocationPrices: rows,
	}
}

func TestHasChangesUnmodifiedTripLine(t *testing.T) {
	names := FieldNamesFor(RoleVendor)
	stored := tripLine("100", "200")
	resubmitted := tripLine("100", "200")

	if HasChanges(stored, resubmitted, names) {
		t.Fatalf("expected identical resubmission to report no changes")
	}
}

func TestHasChangesSingleRowValue(t *testing.T) {
	names := FieldNamesFor(RoleVendor)
	stored := tripLine("100", "200")
	edited := tripLine("100", "201")

	if !HasChanges(stored, edited, names) {
		t.Fatalf("expected row value edit to report changes")
	}
}

func TestHasChangesRowCount(t *testing.T) {
	names := FieldNamesFor(RoleVendor)
	if !HasChanges(tripLine("100"), tripLine("100", "200"), names) {
		t.Fatalf("expected added row to report changes")
	}
}

func TestHasChangesPerItem(t *testing.T) {
	names := FieldNamesFor(RoleCustomer)
	current := LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		BasePrice:     dec("50"),
	}
	same := LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		BasePrice:     dec("50.00"),
	}
	changed := LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		BasePrice:     dec("51"),
	}

	if HasChanges(current, same, names) {
		t.Fatalf("expected numerically equal values to report no changes")
	}
	if !HasChanges(current, changed, names) {
		t.Fatalf("expected value edit to report changes")
	}
}
