package api

import (
	"time"
)

// GenerateRequest defines the payload for the image generation endpoint.
type GenerateRequest struct {
	// Image is the source photo reference, a URL or data URI.
	Image string `json:"image" validate:"required,min=1"`

	// Vendor selects the generation backend.
	Vendor string `json:"vendor" validate:"required,oneof=restore portrait"`

	// Params carries optional rendering options; vendors ignore the ones
	// they don't use.
	Params GenerateParams `json:"params"`
}

// GenerateParams are the optional rendering options of a GenerateRequest.
type GenerateParams struct {
	// Prompt overrides the vendor's default instruction.
	Prompt string `json:"prompt,omitempty" validate:"max=2000"`

	// Size is the requested output size, e.g. "1024x1024".
	Size string `json:"size,omitempty" validate:"max=16"`

	// Background and Clothing apply to the portrait vendor only.
	Background string `json:"background,omitempty" validate:"max=32"`
	Clothing   string `json:"clothing,omitempty"   validate:"max=32"`
}

// GenerateResponse defines the successful response for a generation.
type GenerateResponse struct {
	ImageURL         string `json:"image_url"`
	UsedVendor       string `json:"used_vendor"`
	RemainingCredits int64  `json:"remaining_credits"`
}

// BalanceResponse defines the response for the credit balance endpoint.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// HistoryEntryResponse is one ledger entry in the credit history listing.
type HistoryEntryResponse struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryResponse defines the response for the credit history endpoint.
type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

// GrantRequest defines the payload for the administrative grant endpoint.
type GrantRequest struct {
	UserID      string `json:"user_id"     validate:"required,uuid"`
	Amount      int64  `json:"amount"      validate:"required,gt=0"`
	Type        string `json:"type"        validate:"required,oneof=purchase bonus refund"`
	Description string `json:"description" validate:"max=500"`
}

// GrantResponse defines the successful response for a credit grant.
type GrantResponse struct {
	UserID     string `json:"user_id"`
	NewBalance int64  `json:"new_balance"`
}
