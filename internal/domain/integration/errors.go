package integration

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Sentinel Errors
// ---------------------------------------------------------------------------

var (
	// Connection errors
	ErrConnectionNotFound   = errors.New("integration: connection not found")
	ErrConnectionInactive   = errors.New("integration: connection is not active")
	ErrCredentialDecrypt    = errors.New("integration: credential decryption failed")
	ErrCredentialIncomplete = errors.New("integration: credentials missing required fields")

	// Platform errors
	ErrPlatformNotSupported = errors.New("integration: platform not supported")
	ErrPlatformAuthFailed   = errors.New("integration: platform authentication failed")
	ErrPlatformRateLimited  = errors.New("integration: platform rate limited")
	ErrPlatformUnavailable  = errors.New("integration: platform temporarily unavailable")

	// Order import errors
	ErrImportRecordExists     = errors.New("integration: order import record already exists")
	ErrImportStatusFinal      = errors.New("integration: import record already in terminal status")
	ErrImportRecordNotFound   = errors.New("integration: order import record not found")
	ErrExternalOrderInvalid   = errors.New("integration: external order missing identifier")
	ErrConnectionIDRequired   = errors.New("integration: connection ID is required")
	ErrExternalSkuRequired    = errors.New("integration: external SKU is required")
	ErrInternalSkuRequired    = errors.New("integration: internal SKU is required")
	ErrAlternateSkuIncomplete = errors.New("integration: alternate SKU requires SKU, channel and product")
)

// ---------------------------------------------------------------------------
// APIError
// ---------------------------------------------------------------------------

// APIError represents an error response from an external platform API.
// The HTTP status code is preserved so the retry policy can distinguish
// authentication failures (never retried) from rate limiting (longer backoff)
// and generic transient failures.
type APIError struct {
	// Platform identifies which platform produced the error
	Platform PlatformCode
	// StatusCode is the HTTP status code returned by the platform
	StatusCode int
	// Message is the platform-provided error description
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Platform, e.StatusCode, e.Message)
}

// Is allows matching APIError against the platform sentinel errors
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrPlatformAuthFailed:
		return e.StatusCode == 401 || e.StatusCode == 403
	case ErrPlatformRateLimited:
		return e.StatusCode == 429
	default:
		return false
	}
}

// NewAPIError creates an APIError for the given platform and status code
func NewAPIError(platform PlatformCode, statusCode int, message string) *APIError {
	return &APIError{Platform: platform, StatusCode: statusCode, Message: message}
}

// IsAuthError reports whether err is an authentication or authorization
// failure (HTTP 401/403 equivalent). Such errors are never retried.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrPlatformAuthFailed)
}

// IsRateLimitError reports whether err is a rate-limit signal
// (HTTP 429 equivalent). Such errors get a longer backoff.
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrPlatformRateLimited)
}
