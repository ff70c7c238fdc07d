package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hekuanga/ImgFactory-sub000/internal/config"
	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
)

// VendorClient supplies the vendor-specific pieces of one generation call:
// which vendor it is and how to build the outbound HTTP request. Everything
// else (timeouts, retries, response interpretation) lives in the Caller and
// is written once, parameterized by this interface.
type VendorClient interface {
	// Vendor identifies which external API this client speaks to.
	Vendor() generation.Vendor

	// NewRequest builds the outbound HTTP request for one attempt. Each
	// attempt gets a fresh idempotency key so vendor-side duplication
	// during an ambiguous timeout cannot double-bill the account.
	NewRequest(ctx context.Context, req generation.Request, idempotencyKey string) (*http.Request, error)
}

// RestoreClient speaks to the photo-restoration vendor.
type RestoreClient struct {
	endpoint string
	apiKey   string
}

// NewRestoreClient creates a client for the restoration vendor.
func NewRestoreClient(cfg config.VendorConfig) (*RestoreClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: restore vendor API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: restore vendor endpoint cannot be empty", generation.ErrInvalidConfig)
	}

	return &RestoreClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
	}, nil
}

var _ VendorClient = (*RestoreClient)(nil)

// Vendor implements VendorClient.Vendor
func (c *RestoreClient) Vendor() generation.Vendor {
	return generation.VendorRestore
}

// restoreRequestBody is the wire shape the restoration vendor accepts.
type restoreRequestBody struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt,omitempty"`
	Size   string `json:"size,omitempty"`
}

// NewRequest implements VendorClient.NewRequest
func (c *RestoreClient) NewRequest(
	ctx context.Context,
	req generation.Request,
	idempotencyKey string,
) (*http.Request, error) {
	body, err := json.Marshal(restoreRequestBody{
		Image:  req.Image,
		Prompt: req.Params.Prompt,
		Size:   req.Params.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal restore request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build restore request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	return httpReq, nil
}

// PortraitClient speaks to the passport-portrait vendor.
type PortraitClient struct {
	endpoint string
	apiKey   string
}

// NewPortraitClient creates a client for the portrait vendor.
func NewPortraitClient(cfg config.VendorConfig) (*PortraitClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: portrait vendor API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: portrait vendor endpoint cannot be empty", generation.ErrInvalidConfig)
	}

	return &PortraitClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
	}, nil
}

var _ VendorClient = (*PortraitClient)(nil)

// Vendor implements VendorClient.Vendor
func (c *PortraitClient) Vendor() generation.Vendor {
	return generation.VendorPortrait
}

// portraitRequestBody is the wire shape the portrait vendor accepts.
type portraitRequestBody struct {
	Image      string `json:"image"`
	Size       string `json:"size,omitempty"`
	Background string `json:"background,omitempty"`
	Clothing   string `json:"clothing,omitempty"`
	Watermark  bool   `json:"watermark"`
}

// NewRequest implements VendorClient.NewRequest
func (c *PortraitClient) NewRequest(
	ctx context.Context,
	req generation.Request,
	idempotencyKey string,
) (*http.Request, error) {
	body, err := json.Marshal(portraitRequestBody{
		Image:      req.Image,
		Size:       req.Params.Size,
		Background: req.Params.Background,
		Clothing:   req.Params.Clothing,
		Watermark:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal portrait request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build portrait request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	return httpReq, nil
}
