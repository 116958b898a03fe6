package server

import (
	"errors"
	"net/http"

	apikeydomain "github.com/X-CodesTech/wassel-api/internal/apikey/domain"
	attachmentdomain "github.com/X-CodesTech/wassel-api/internal/attachment/domain"
	locationdomain "github.com/X-CodesTech/wassel-api/internal/location/domain"
	orderdomain "github.com/X-CodesTech/wassel-api/internal/order/domain"
	pricelistdomain "github.com/X-CodesTech/wassel-api/internal/pricelist/domain"
	pricingdomain "github.com/X-CodesTech/wassel-api/internal/pricing/domain"
	subactivitydomain "github.com/X-CodesTech/wassel-api/internal/subactivity/domain"
	vendorcostdomain "github.com/X-CodesTech/wassel-api/internal/vendorcost/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
)

// APIError is the wire shape for every non-2xx response.
type APIError struct {
	Status  int                        `json:"-"`
	Code    string                     `json:"code"`
	Message string                     `json:"message"`
	Errors  []pricingdomain.FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request body",
	}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "validation_failed",
		Message: "validation failed",
		Errors: []pricingdomain.FieldError{
			{Field: field, Code: code, Message: message},
		},
	}
}

// AbortWithError converts domain errors to HTTP responses. Unknown errors
// become opaque 500s so internals never leak to clients.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if verr, ok := pricelistdomain.AsValidationError(err); ok {
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "validation failed",
			Errors:  verr.Errors,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	case errors.Is(err, ErrForbidden):
		return &APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "forbidden"}
	case errors.Is(err, ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
	}

	if status, ok := statusOf(err); ok {
		return &APIError{Status: status, Code: err.Error(), Message: err.Error()}
	}

	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal server error",
	}
}

func statusOf(err error) (int, bool) {
	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, true
	case isConflictError(err):
		return http.StatusConflict, true
	case isBadRequestError(err):
		return http.StatusBadRequest, true
	default:
		return 0, false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, pricelistdomain.ErrPriceListNotFound),
		errors.Is(err, pricelistdomain.ErrLineNotFound),
		errors.Is(err, subactivitydomain.ErrSubActivityNotFound),
		errors.Is(err, locationdomain.ErrLocationNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, attachmentdomain.ErrAttachmentNotFound),
		errors.Is(err, apikeydomain.ErrAPIKeyNotFound):
		return true
	}
	return false
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, pricelistdomain.ErrDuplicateLine),
		errors.Is(err, pricelistdomain.ErrMethodImmutable),
		errors.Is(err, subactivitydomain.ErrDuplicateCode),
		errors.Is(err, orderdomain.ErrOrderImmutable),
		errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, attachmentdomain.ErrNotUploaded),
		errors.Is(err, attachmentdomain.ErrUploadMissing):
		return true
	}
	return false
}

func isBadRequestError(err error) bool {
	switch {
	case errors.Is(err, pricelistdomain.ErrInvalidID),
		errors.Is(err, pricelistdomain.ErrInvalidLineID),
		errors.Is(err, pricelistdomain.ErrInvalidOwnerType),
		errors.Is(err, pricelistdomain.ErrInvalidOwner),
		errors.Is(err, pricelistdomain.ErrInvalidName),
		errors.Is(err, pricelistdomain.ErrInvalidWindow),
		errors.Is(err, pricelistdomain.ErrInvalidLocationRef),
		errors.Is(err, subactivitydomain.ErrInvalidID),
		errors.Is(err, subactivitydomain.ErrInvalidCode),
		errors.Is(err, subactivitydomain.ErrInvalidName),
		errors.Is(err, subactivitydomain.ErrInvalidMethod),
		errors.Is(err, subactivitydomain.ErrSubActivityInactive),
		errors.Is(err, subactivitydomain.ErrMethodNotAllowed),
		errors.Is(err, locationdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidCustomer),
		errors.Is(err, orderdomain.ErrInvalidVendor),
		errors.Is(err, orderdomain.ErrInvalidSubActivity),
		errors.Is(err, orderdomain.ErrInvalidLocation),
		errors.Is(err, orderdomain.ErrInvalidAmount),
		errors.Is(err, orderdomain.ErrInvalidDate),
		errors.Is(err, orderdomain.ErrInvalidStatus),
		errors.Is(err, attachmentdomain.ErrInvalidID),
		errors.Is(err, attachmentdomain.ErrInvalidFileName),
		errors.Is(err, apikeydomain.ErrInvalidName),
		errors.Is(err, vendorcostdomain.ErrMissingSubActivity),
		errors.Is(err, vendorcostdomain.ErrInvalidSubActivity),
		errors.Is(err, vendorcostdomain.ErrInvalidLocation),
		errors.Is(err, vendorcostdomain.ErrAmbiguousLocation),
		errors.Is(err, vendorcostdomain.ErrIncompleteTrip):
		return true
	}
	return false
}
