package domain

import (
	"fmt"
	"strings"
)

// FieldError describes a single violated constraint, attributable to a
// field path such as "locationPrices.2.cost".
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validator accepts exactly one of the three well-formed line shapes for a
// given role and rejects anything else. It is a pure function of the role.
type Validator struct {
	role  Role
	names RoleFieldNames
}

// NewValidator builds the validator for a role.
func NewValidator(role Role) *Validator {
	return &Validator{role: role, names: FieldNamesFor(role)}
}

// Names exposes the role field mapping the validator was built with.
func (v *Validator) Names() RoleFieldNames { return v.names }

// Validate checks a payload against the shape its pricing method requires.
// A nil or empty result means the payload is valid.
func (v *Validator) Validate(p LinePayload) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(p.SubActivity) == "" {
		errs = append(errs, FieldError{
			Field:   "subActivity",
			Code:    "required",
			Message: "Sub-activity is required",
		})
	}

	switch p.PricingMethod {
	case PricingMethodPerItem:
		errs = append(errs, v.validatePerItem(p)...)
	case PricingMethodPerLocation:
		errs = append(errs, v.validateMultiRow(p, PricingMethodPerLocation)...)
	case PricingMethodPerTrip:
		errs = append(errs, v.validateMultiRow(p, PricingMethodPerTrip)...)
	default:
		errs = append(errs, FieldError{
			Field:   "pricingMethod",
			Code:    "invalid_pricing_method",
			Message: "Pricing method must be one of perItem, perLocation, perTrip",
		})
	}

	return errs
}

func (v *Validator) validatePerItem(p LinePayload) []FieldError {
	var errs []FieldError

	value, foreign := p.SingleValue(v.names)
	if foreign != nil {
		errs = append(errs, unrecognizedField(v.foreignSingleName()))
	}
	if value == nil {
		errs = append(errs, FieldError{
			Field:   v.names.Single,
			Code:    "required",
			Message: v.names.SingleLabel + " is required",
		})
	} else if value.IsNegative() {
		// Label text kept as shipped to existing clients even though zero
		// is accepted.
		errs = append(errs, FieldError{
			Field:   v.names.Single,
			Code:    "must_be_positive",
			Message: v.names.SingleLabel + " must be positive",
		})
	}

	if len(p.LocationPrices) > 0 {
		errs = append(errs, FieldError{
			Field:   "locationPrices",
			Code:    "not_allowed",
			Message: "locationPrices is not allowed for perItem pricing",
		})
	}

	return errs
}

func (v *Validator) validateMultiRow(p LinePayload, method PricingMethod) []FieldError {
	var errs []FieldError

	if p.BasePrice != nil {
		errs = append(errs, unrecognizedField("basePrice"))
	}
	if p.Cost != nil {
		errs = append(errs, unrecognizedField("cost"))
	}

	if len(p.LocationPrices) == 0 {
		message := "At least one location price is required"
		if method == PricingMethodPerTrip {
			message = "At least one trip price is required"
		}
		errs = append(errs, FieldError{
			Field:   "locationPrices",
			Code:    "required",
			Message: message,
		})
		return errs
	}

	for i, row := range p.LocationPrices {
		errs = append(errs, v.validateRow(row, method, i)...)
	}
	return errs
}

func (v *Validator) validateRow(row RowPayload, method PricingMethod, index int) []FieldError {
	var errs []FieldError
	path := func(field string) string {
		return fmt.Sprintf("locationPrices.%d.%s", index, field)
	}

	if row.PricingMethod != method {
		errs = append(errs, FieldError{
			Field:   path("pricingMethod"),
			Code:    "invalid_pricing_method",
			Message: fmt.Sprintf("Pricing method must be %q", method),
		})
	}

	switch method {
	case PricingMethodPerLocation:
		if strings.TrimSpace(row.Location) == "" {
			errs = append(errs, FieldError{
				Field:   path("location"),
				Code:    "required",
				Message: "Location is required",
			})
		}
		if row.FromLocation != "" {
			errs = append(errs, unrecognizedField(path("fromLocation")))
		}
		if row.ToLocation != "" {
			errs = append(errs, unrecognizedField(path("toLocation")))
		}
	case PricingMethodPerTrip:
		if strings.TrimSpace(row.FromLocation) == "" {
			errs = append(errs, FieldError{
				Field:   path("fromLocation"),
				Code:    "required",
				Message: "From location is required",
			})
		}
		if strings.TrimSpace(row.ToLocation) == "" {
			errs = append(errs, FieldError{
				Field:   path("toLocation"),
				Code:    "required",
				Message: "To location is required",
			})
		}
		if row.Location != "" {
			errs = append(errs, unrecognizedField(path("location")))
		}
	}

	value, foreign := row.Value(v.names)
	if foreign != nil {
		errs = append(errs, unrecognizedField(path(v.foreignRowName())))
	}
	if value == nil {
		errs = append(errs, FieldError{
			Field:   path(v.names.PerRow),
			Code:    "required",
			Message: v.names.PerRowLabel + " is required",
		})
	} else if value.IsNegative() {
		errs = append(errs, FieldError{
			Field:   path(v.names.PerRow),
			Code:    "must_be_positive",
			Message: v.names.PerRowLabel + " must be positive",
		})
	}

	return errs
}

func (v *Validator) foreignSingleName() string {
	if v.names.Single == "cost" {
		return "basePrice"
	}
	return "cost"
}

func (v *Validator) foreignRowName() string {
	if v.names.PerRow == "cost" {
		return "price"
	}
	return "cost"
}

func unrecognizedField(field string) FieldError {
	return FieldError{
		Field:   field,
		Code:    "unrecognized_field",
		Message: field + " is not a recognized field",
	}
}
