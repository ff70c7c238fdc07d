package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
)

// GenerationHandler handles image generation HTTP requests.
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

// Generate handles POST /api/v1/generations requests.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	// Extract user ID from context (set by auth middleware)
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	vendor, err := generation.ParseVendor(req.Vendor)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown vendor")
		return
	}

	result, err := h.generationService.Generate(r.Context(), userID, generation.Request{
		Image:  req.Image,
		Vendor: vendor,
		Params: generation.RenderParams{
			Prompt:     req.Params.Prompt,
			Size:       req.Params.Size,
			Background: req.Params.Background,
			Clothing:   req.Params.Clothing,
		},
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err),
			GetSafeErrorMessage(err),
			GetErrorSuggestion(err),
			err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		ImageURL:         result.ImageURL,
		UsedVendor:       string(result.Vendor),
		RemainingCredits: result.RemainingCredits,
	})
}
