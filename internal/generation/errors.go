package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation boundary.
var (
	// ErrGenerationFailed is returned when image generation fails for any general reason.
	ErrGenerationFailed = errors.New("failed to generate image")

	// ErrMalformedResponse is returned when a vendor answers 2xx with a body
	// that matches none of the recognized response shapes.
	ErrMalformedResponse = errors.New("unrecognized response shape from vendor")

	// ErrOutputFlagged is returned when a vendor's own moderation flags its
	// generated output. Empirically this is a false positive and never
	// resolves by retrying the identical request.
	ErrOutputFlagged = errors.New("vendor flagged its own output as sensitive content")

	// ErrTransientFailure is returned for temporary errors (timeouts, 5xx,
	// 429, network faults) that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during image generation")

	// ErrUnknownVendor is returned when a request names a vendor this
	// service does not integrate.
	ErrUnknownVendor = errors.New("unknown vendor")

	// ErrInvalidConfig is returned when a vendor client or caller
	// configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ErrorCategory is the closed set of user-facing vendor error categories.
// Everything a vendor can do wrong maps onto exactly one of these.
type ErrorCategory string

const (
	CategoryAuthFailed        ErrorCategory = "auth_failed"
	CategoryPermissionDenied  ErrorCategory = "permission_denied"
	CategoryBadRequest        ErrorCategory = "bad_request"
	CategoryPayloadTooLarge   ErrorCategory = "payload_too_large"
	CategoryRateLimited       ErrorCategory = "rate_limited"
	CategoryServerError       ErrorCategory = "server_error"
	CategorySensitiveInput    ErrorCategory = "sensitive_input"
	CategorySensitiveOutput   ErrorCategory = "sensitive_output_false_positive"
	CategoryMalformedResponse ErrorCategory = "malformed_response"
	CategoryUnknown           ErrorCategory = "unknown"
)

// Retryable reports whether an error of this category may resolve on retry
// against the same vendor. Sensitive-output detections are deterministic
// vendor quirks, not transient faults, so they are excluded.
func (c ErrorCategory) Retryable() bool {
	switch c {
	case CategoryRateLimited, CategoryServerError:
		return true
	}
	return false
}

// VendorError is a classified vendor failure. Message and Suggestion are
// safe for clients: they never contain API keys, raw vendor payloads, or
// internal detail. The wrapped error (with the raw detail) stays server-side.
type VendorError struct {
	Vendor     Vendor
	Category   ErrorCategory
	StatusCode int
	VendorCode string
	Message    string
	Suggestion string
	Err        error
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	if e.VendorCode != "" {
		return fmt.Sprintf("vendor %s failed (%s, code %s): %s", e.Vendor, e.Category, e.VendorCode, e.Message)
	}
	return fmt.Sprintf("vendor %s failed (%s): %s", e.Vendor, e.Category, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *VendorError) Unwrap() error {
	return e.Err
}

// Retryable reports whether retrying the same vendor may help.
func (e *VendorError) Retryable() bool {
	return e.Category.Retryable()
}
