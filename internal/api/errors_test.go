package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hekuanga/ImgFactory-sub000/internal/api"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
	"github.com/hekuanga/ImgFactory-sub000/internal/service/auth"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

func vendorErr(category generation.ErrorCategory) error {
	return &generation.VendorError{
		Vendor:   generation.VendorRestore,
		Category: category,
		Message:  "vendor message",
	}
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"insufficient credits", store.ErrInsufficientCredits, http.StatusPaymentRequired},
		{"missing image", service.ErrMissingImage, http.StatusBadRequest},
		{"unknown vendor", generation.ErrUnknownVendor, http.StatusBadRequest},
		{"account not found", store.ErrAccountNotFound, http.StatusNotFound},
		{"opaque error", errors.New("boom"), http.StatusInternalServerError},
		{"vendor bad request", vendorErr(generation.CategoryBadRequest), http.StatusBadRequest},
		{"vendor sensitive input", vendorErr(generation.CategorySensitiveInput), http.StatusBadRequest},
		{"vendor sensitive output", vendorErr(generation.CategorySensitiveOutput), http.StatusBadRequest},
		{"vendor payload too large", vendorErr(generation.CategoryPayloadTooLarge), http.StatusRequestEntityTooLarge},
		{"vendor rate limited", vendorErr(generation.CategoryRateLimited), http.StatusTooManyRequests},
		{"vendor auth failed", vendorErr(generation.CategoryAuthFailed), http.StatusInternalServerError},
		{"vendor server error", vendorErr(generation.CategoryServerError), http.StatusInternalServerError},
		{"vendor malformed response", vendorErr(generation.CategoryMalformedResponse), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageNeverLeaksInternals(t *testing.T) {
	t.Parallel()

	raw := errors.New("pq: connection to postgres://user:secret@db failed")
	msg := api.GetSafeErrorMessage(raw)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "secret")
}

func TestGetSafeErrorMessagePrefersVendorMessage(t *testing.T) {
	t.Parallel()

	err := &generation.VendorError{
		Vendor:   generation.VendorPortrait,
		Category: generation.CategorySensitiveInput,
		Message:  "The uploaded photo was rejected by content moderation",
	}
	assert.Equal(t, "The uploaded photo was rejected by content moderation",
		api.GetSafeErrorMessage(err))
}

func TestGetErrorSuggestion(t *testing.T) {
	t.Parallel()

	err := &generation.VendorError{
		Category:   generation.CategorySensitiveOutput,
		Suggestion: "Please try a different photo",
	}
	assert.Equal(t, "Please try a different photo", api.GetErrorSuggestion(err))
	assert.Empty(t, api.GetErrorSuggestion(errors.New("boom")))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'GenerateRequest.Image' Error:Field validation for 'Image' failed on the 'required' tag")
	assert.Equal(t, "Invalid Image: required field", api.SanitizeValidationError(err))

	assert.Equal(t, "Validation error", api.SanitizeValidationError(errors.New("boom")))
}
