package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
	"github.com/hekuanga/ImgFactory-sub000/internal/service/auth"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	var vendorErr *generation.VendorError
	if errors.As(err, &vendorErr) {
		return mapVendorCategory(vendorErr.Category)
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Payment required
	case errors.Is(err, store.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	// Bad request errors
	case errors.Is(err, service.ErrMissingImage),
		errors.Is(err, generation.ErrUnknownVendor),
		errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEntryType):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrAccountNotFound):
		return http.StatusNotFound

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// mapVendorCategory maps a classified vendor failure onto the status the
// client sees. Input problems the caller can fix (including both sensitive
// content flags, which a different photo resolves) are 400s; vendor-side
// auth, permission, and availability problems are this service's concern
// and surface as 500.
func mapVendorCategory(category generation.ErrorCategory) int {
	switch category {
	case generation.CategoryBadRequest,
		generation.CategorySensitiveInput,
		generation.CategorySensitiveOutput:
		return http.StatusBadRequest
	case generation.CategoryPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case generation.CategoryRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// given error. Raw vendor payloads and internal detail never pass through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var vendorErr *generation.VendorError
	if errors.As(err, &vendorErr) && vendorErr.Message != "" {
		return vendorErr.Message
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, store.ErrInsufficientCredits):
		return "Insufficient credits"

	case errors.Is(err, service.ErrMissingImage):
		return "A source image is required"

	case errors.Is(err, generation.ErrUnknownVendor):
		return "Unknown vendor"

	case errors.Is(err, store.ErrInvalidAmount):
		return "Invalid amount"

	case errors.Is(err, domain.ErrInvalidEntryType):
		return "Invalid credit entry type"

	case errors.Is(err, store.ErrAccountNotFound):
		return "Account not found"

	default:
		return "An unexpected error occurred"
	}
}

// GetErrorSuggestion returns the recovery suggestion attached to a classified
// vendor failure, or "" when the error carries none.
func GetErrorSuggestion(err error) string {
	var vendorErr *generation.VendorError
	if errors.As(err, &vendorErr) {
		return vendorErr.Suggestion
	}
	return ""
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'GenerateRequest.Image' Error:Field validation for 'Image' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "invalid identifier format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt":
		return "must be positive"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
