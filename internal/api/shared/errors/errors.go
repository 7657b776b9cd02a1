package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"

	// Settlement errors
	ErrCodeAuthExpired           ErrorCode = "auth_expired"
	ErrCodeAuthReplayed          ErrorCode = "auth_replayed"
	ErrCodeAuthInvalidSigner     ErrorCode = "auth_invalid_signer"
	ErrCodeCollectionNotTrusted  ErrorCode = "collection_not_trusted"
	ErrCodeListingNotFound       ErrorCode = "listing_not_found"
	ErrCodeListingClosed         ErrorCode = "listing_closed"
	ErrCodeInsufficientQuantity  ErrorCode = "insufficient_quantity"
	ErrCodeInvalidQuantity       ErrorCode = "invalid_quantity"
	ErrCodePaymentTransferFailed ErrorCode = "payment_transfer_failed"
	ErrCodeAssetTransferFailed   ErrorCode = "asset_transfer_failed"
	ErrCodeFeeConfigInvalid      ErrorCode = "fee_config_invalid"
	ErrCodeInvalidInput          ErrorCode = "invalid_input"
	ErrCodeNotInitialized        ErrorCode = "not_initialized"
	ErrCodeAlreadyInitialized    ErrorCode = "already_initialized"
	ErrCodeUnsupportedVersion    ErrorCode = "unsupported_version"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

var domainErrors = []struct {
	err     error
	status  int
	code    ErrorCode
	message string
}{
	{domain.ErrAuthExpired, http.StatusForbidden, ErrCodeAuthExpired, "Authorization expired"},
	{domain.ErrAuthReplayed, http.StatusConflict, ErrCodeAuthReplayed, "Authorization already used"},
	{domain.ErrAuthInvalidSigner, http.StatusForbidden, ErrCodeAuthInvalidSigner, "Authorization not signed by the operator"},
	{domain.ErrCollectionNotTrusted, http.StatusUnprocessableEntity, ErrCodeCollectionNotTrusted, "Collection not trusted"},
	{domain.ErrListingNotFound, http.StatusNotFound, ErrCodeListingNotFound, "Listing not found"},
	{domain.ErrListingClosed, http.StatusConflict, ErrCodeListingClosed, "Listing closed"},
	{domain.ErrInsufficientQuantity, http.StatusConflict, ErrCodeInsufficientQuantity, "Insufficient quantity"},
	{domain.ErrInvalidQuantity, http.StatusBadRequest, ErrCodeInvalidQuantity, "Invalid quantity"},
	{domain.ErrPaymentTransferFailed, http.StatusUnprocessableEntity, ErrCodePaymentTransferFailed, "Payment transfer failed"},
	{domain.ErrAssetTransferFailed, http.StatusUnprocessableEntity, ErrCodeAssetTransferFailed, "Asset transfer failed"},
	{domain.ErrFeeConfigInvalid, http.StatusUnprocessableEntity, ErrCodeFeeConfigInvalid, "Fee configuration invalid"},
	{domain.ErrUnauthorized, http.StatusForbidden, ErrCodeForbidden, "Caller is not the admin"},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid input"},
	{domain.ErrNotInitialized, http.StatusConflict, ErrCodeNotInitialized, "Protocol not initialized"},
	{domain.ErrAlreadyInitialized, http.StatusConflict, ErrCodeAlreadyInitialized, "Protocol already initialized"},
	{domain.ErrUnsupportedVersion, http.StatusConflict, ErrCodeUnsupportedVersion, "Unsupported schema version"},
}

// FromDomain maps an error returned by the settlement packages to an HTTP status and API error.
// ok is false for errors outside the domain set, which callers treat as internal.
func FromDomain(err error) (status int, apiErr *APIError, ok bool) {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.status, &APIError{Code: d.code, Message: d.message, Details: err.Error()}, true
		}
	}
	return http.StatusInternalServerError, NewInternalError("Internal server error"), false
}
