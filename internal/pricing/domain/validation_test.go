package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(value string) *decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestValidatePerItemVendor(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		Cost:          dec("50"),
	})
	if len(errs) != 0 {
		t.Fatalf("expected valid payload, got %v", errs)
	}
}

func TestValidatePerItemCustomerUsesBasePrice(t *testing.T) {
	v := NewValidator(RoleCustomer)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		BasePrice:     dec("50"),
	})
	if len(errs) != 0 {
		t.Fatalf("expected valid payload, got %v", errs)
	}

	// The same structural payload under the vendor field name must be
	// rejected: the mapping is bijective per role.
	errs = v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		Cost:          dec("50"),
	})
	if !hasField(errs, "cost") {
		t.Fatalf("expected cost to be unrecognized for customer role, got %v", errs)
	}
	if !hasField(errs, "basePrice") {
		t.Fatalf("expected basePrice required for customer role, got %v", errs)
	}
}

func TestValidateRejectsNegativeValue(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		Cost:          dec("-1"),
	})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Field != "cost" || errs[0].Message != "Base Cost must be positive" {
		t.Fatalf("unexpected error: %+v", errs[0])
	}
}

func TestValidateAcceptsZeroValue(t *testing.T) {
	// The constraint is >= 0 despite the "must be positive" wording.
	for _, role := range []Role{RoleVendor, RoleCustomer, RolePriceList} {
		v := NewValidator(role)
		payload := LinePayload{
			SubActivity:   "S1",
			PricingMethod: PricingMethodPerItem,
		}
		if role == RoleVendor {
			payload.Cost = dec("0")
		} else {
			payload.BasePrice = dec("0")
		}
		if errs := v.Validate(payload); len(errs) != 0 {
			t.Fatalf("role %s: expected zero to validate, got %v", role, errs)
		}
	}
}

func TestValidatePerItemRejectsLocationPrices(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerItem,
		Cost:          dec("10"),
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerLocation, Location: "L1", Cost: dec("5")},
		},
	})
	if !hasField(errs, "locationPrices") {
		t.Fatalf("expected locationPrices rejection, got %v", errs)
	}
}

func TestValidatePerLocation(t *testing.T) {
	v := NewValidator(RolePriceList)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerLocation,
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerLocation, Location: "L1", Price: dec("100")},
			{PricingMethod: PricingMethodPerLocation, Location: "L2", Price: dec("250")},
		},
	})
	if len(errs) != 0 {
		t.Fatalf("expected valid payload, got %v", errs)
	}
}

func TestValidatePerLocationErrorPaths(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerLocation,
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerLocation, Location: "L1", Cost: dec("10")},
			{PricingMethod: PricingMethodPerLocation, Location: "L2", Cost: dec("20")},
			{PricingMethod: PricingMethodPerLocation, Location: "L3", Cost: dec("-3")},
		},
	})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Field != "locationPrices.2.cost" {
		t.Fatalf("expected path locationPrices.2.cost, got %q", errs[0].Field)
	}
	if errs[0].Message != "Cost must be positive" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestValidatePerTrip(t *testing.T) {
	v := NewValidator(RoleCustomer)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerTrip,
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerTrip, FromLocation: "A", ToLocation: "B", Price: dec("75")},
		},
	})
	if len(errs) != 0 {
		t.Fatalf("expected valid payload, got %v", errs)
	}
}

func TestValidatePerTripZeroDistanceAllowed(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerTrip,
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerTrip, FromLocation: "A", ToLocation: "A", Cost: dec("5")},
		},
	})
	if len(errs) != 0 {
		t.Fatalf("expected zero-distance trip to validate, got %v", errs)
	}
}

func TestValidatePerTripEmptyRows(t *testing.T) {
	v := NewValidator(RoleCustomer)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerTrip,
	})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if errs[0].Message != "At least one trip price is required" {
		t.Fatalf("unexpected message %q", errs[0].Message)
	}
}

func TestValidatePerLocationEmptyRows(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerLocation,
	})
	if len(errs) != 1 || errs[0].Message != "At least one location price is required" {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestValidateRejectsCrossVariantRowFields(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerTrip,
		LocationPrices: []RowPayload{
			{
				PricingMethod: PricingMethodPerTrip,
				FromLocation:  "A",
				ToLocation:    "B",
				Location:      "L1",
				Cost:          dec("5"),
			},
		},
	})
	if !hasField(errs, "locationPrices.0.location") {
		t.Fatalf("expected location rejection on trip row, got %v", errs)
	}
}

func TestValidateRejectsSingleValueOnMultiRow(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerLocation,
		Cost:          dec("9"),
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerLocation, Location: "L1", Cost: dec("5")},
		},
	})
	if !hasField(errs, "cost") {
		t.Fatalf("expected flat cost rejection, got %v", errs)
	}
}

func TestValidateRejectsRowMethodMismatch(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethodPerLocation,
		LocationPrices: []RowPayload{
			{PricingMethod: PricingMethodPerTrip, Location: "L1", Cost: dec("5")},
		},
	})
	if !hasField(errs, "locationPrices.0.pricingMethod") {
		t.Fatalf("expected row method mismatch error, got %v", errs)
	}
}

func TestValidateRejectsUnknownMethod(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		SubActivity:   "S1",
		PricingMethod: PricingMethod("perWeight"),
	})
	if !hasField(errs, "pricingMethod") {
		t.Fatalf("expected pricingMethod rejection, got %v", errs)
	}
}

func TestValidateMissingSubActivity(t *testing.T) {
	v := NewValidator(RoleVendor)

	errs := v.Validate(LinePayload{
		PricingMethod: PricingMethodPerItem,
		Cost:          dec("10"),
	})
	if !hasField(errs, "subActivity") {
		t.Fatalf("expected subActivity required, got %v", errs)
	}
}

func hasField(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
