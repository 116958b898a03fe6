package domain

import (
	"context"
	"errors"
	"time"

	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
)

type CreateRequest struct {
	OwnerType     OwnerType  `json:"ownerType"`
	OwnerID       string     `json:"ownerId"`
	Name          string     `json:"name"`
	EffectiveFrom *time.Time `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
}

// Service manages price lists and their lines. Every mutation returns the
// freshly re-read list so callers always render authoritative state.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PriceListView, error)
	Get(ctx context.Context, id string) (*PriceListView, error)
	ListByOwner(ctx context.Context, ownerType OwnerType, ownerID string) ([]PriceListView, error)

	AddLine(ctx context.Context, priceListID string, payload pricingdomain.LinePayload) (*MutationResult, error)
	UpdateLine(ctx context.Context, priceListID, lineID string, payload pricingdomain.LinePayload) (*MutationResult, error)
	DeleteLine(ctx context.Context, priceListID, lineID string) (*MutationResult, error)
}

var (
	ErrInvalidID          = errors.New("invalid_price_list_id")
	ErrInvalidLineID      = errors.New("invalid_line_id")
	ErrInvalidOwnerType   = errors.New("invalid_owner_type")
	ErrInvalidOwner       = errors.New("invalid_owner")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidWindow      = errors.New("invalid_effective_window")
	ErrPriceListNotFound  = errors.New("price_list_not_found")
	ErrLineNotFound       = errors.New("price_line_not_found")
	ErrDuplicateLine      = errors.New("duplicate_sub_activity_line")
	ErrMethodImmutable    = errors.New("pricing_method_immutable")
	ErrInvalidLocationRef = errors.New("invalid_location_reference")
)

// ValidationError carries the field-level constraint violations of a line
// payload. It never reaches persistence.
type ValidationError struct {
	Errors []pricingdomain.FieldError
}

func (e *ValidationError) Error() string { return "validation_failed" }

// AsValidationError unwraps a *ValidationError if err is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
