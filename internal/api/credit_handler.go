package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
	"github.com/hekuanga/ImgFactory-sub000/internal/domain"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CreditHandler handles credit balance, history and grant HTTP requests.
type CreditHandler struct {
	creditService service.CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditService service.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// GetBalance handles GET /api/v1/credits requests.
func (h *CreditHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	account, err := h.creditService.GetBalance(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), "", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		UserID:  account.UserID.String(),
		Balance: account.Balance,
	})
}

// GetHistory handles GET /api/v1/credits/history requests. An optional
// "limit" query parameter caps the number of entries, newest first.
func (h *CreditHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.creditService.GetHistory(r.Context(), userID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), "", err)
		return
	}

	response := HistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, HistoryEntryResponse{
			ID:          entry.ID.String(),
			Amount:      entry.Amount,
			Type:        string(entry.Type),
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Grant handles POST /api/v1/credits/grant requests.
func (h *CreditHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	targetUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id")
		return
	}

	newBalance, err := h.creditService.Grant(r.Context(),
		targetUserID, req.Amount, domain.CreditEntryType(req.Type), req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), "", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GrantResponse{
		UserID:     targetUserID.String(),
		NewBalance: newBalance,
	})
}
