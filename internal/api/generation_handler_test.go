package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekuanga/ImgFactory-sub000/internal/api"
	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// stubGenerationService returns a scripted result or error and records the
// request it received.
type stubGenerationService struct {
	result  *service.GenerationResult
	err     error
	lastReq generation.Request
	called  bool
}

func (s *stubGenerationService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	req generation.Request,
) (*service.GenerationResult, error) {
	s.called = true
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func doGenerate(t *testing.T, svc service.GenerationService, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := api.NewGenerationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generations", bytes.NewBufferString(body))
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}

	rr := httptest.NewRecorder()
	handler.Generate(rr, req)
	return rr
}

func TestGenerateHandlerSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubGenerationService{
		result: &service.GenerationResult{
			ImageURL:         "https://cdn.example/out.png",
			Vendor:           generation.VendorRestore,
			RemainingCredits: 4,
			CreditsCharged:   true,
		},
	}

	rr := doGenerate(t, svc, uuid.New(),
		`{"image":"https://src/old.jpg","vendor":"restore","params":{"prompt":"restore this photo"}}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.GenerateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn.example/out.png", resp.ImageURL)
	assert.Equal(t, "restore", resp.UsedVendor)
	assert.Equal(t, int64(4), resp.RemainingCredits)

	assert.Equal(t, generation.VendorRestore, svc.lastReq.Vendor)
	assert.Equal(t, "restore this photo", svc.lastReq.Params.Prompt)
}

func TestGenerateHandlerRequiresAuthenticatedUser(t *testing.T) {
	t.Parallel()

	svc := &stubGenerationService{}
	rr := doGenerate(t, svc, uuid.Nil, `{"image":"https://src/a.jpg","vendor":"restore"}`)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, svc.called)
}

func TestGenerateHandlerRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"image":`},
		{"missing image", `{"vendor":"restore"}`},
		{"missing vendor", `{"image":"https://src/a.jpg"}`},
		{"unsupported vendor", `{"image":"https://src/a.jpg","vendor":"dalle"}`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubGenerationService{}
			rr := doGenerate(t, svc, uuid.New(), tc.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.False(t, svc.called)
		})
	}
}

func TestGenerateHandlerInsufficientCredits(t *testing.T) {
	t.Parallel()

	svc := &stubGenerationService{err: store.ErrInsufficientCredits}
	rr := doGenerate(t, svc, uuid.New(), `{"image":"https://src/a.jpg","vendor":"restore"}`)

	require.Equal(t, http.StatusPaymentRequired, rr.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Insufficient credits", resp.Error)
}

func TestGenerateHandlerSurfacesVendorSuggestion(t *testing.T) {
	t.Parallel()

	svc := &stubGenerationService{err: &generation.VendorError{
		Vendor:     generation.VendorPortrait,
		Category:   generation.CategorySensitiveOutput,
		Message:    "The generated image was flagged by the vendor's moderation",
		Suggestion: "Please try a different photo / 请更换照片后重试",
		Err:        generation.ErrOutputFlagged,
	}}

	rr := doGenerate(t, svc, uuid.New(), `{"image":"https://src/a.jpg","vendor":"portrait"}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "flagged")
	assert.Contains(t, resp.Suggestion, "请更换照片")
}

func TestGenerateHandlerVendorServerErrorIsInternal(t *testing.T) {
	t.Parallel()

	svc := &stubGenerationService{err: &generation.VendorError{
		Vendor:   generation.VendorRestore,
		Category: generation.CategoryServerError,
		Message:  "The image service is temporarily unavailable",
		Err:      generation.ErrTransientFailure,
	}}

	rr := doGenerate(t, svc, uuid.New(), `{"image":"https://src/a.jpg","vendor":"restore"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
