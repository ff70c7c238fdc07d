package generation

import (
	"context"
	"fmt"
	"strings"
)

// Vendor identifies one of the external image-generation APIs.
type Vendor string

// Known vendors. The restore vendor specializes in old-photo restoration,
// the portrait vendor in passport-style portraits. Vendor choice is a hard
// caller-supplied parameter; the service never switches vendors on its own.
const (
	VendorRestore  Vendor = "restore"
	VendorPortrait Vendor = "portrait"
)

// ParseVendor converts a caller-supplied vendor name into a Vendor.
func ParseVendor(s string) (Vendor, error) {
	switch Vendor(strings.ToLower(s)) {
	case VendorRestore:
		return VendorRestore, nil
	case VendorPortrait:
		return VendorPortrait, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVendor, s)
}

// RenderParams carries the task-specific rendering options forwarded to the
// vendor. All fields are optional; vendors ignore the ones they don't use.
type RenderParams struct {
	Prompt     string `json:"prompt,omitempty"`
	Size       string `json:"size,omitempty"`
	Background string `json:"background,omitempty"`
	Clothing   string `json:"clothing,omitempty"`
}

// Request describes one logical image generation. Image is either an https
// URL or an inline data URI. Requests are ephemeral: built at the API
// boundary, discarded when the call completes.
type Request struct {
	Image  string
	Vendor Vendor
	Params RenderParams
}

// Result is the outcome of a successful vendor call: the resolved image URL
// (or data URI) and the vendor that produced it. Failures are carried as
// errors, never as a zero Result.
type Result struct {
	ImageURL string
	Vendor   Vendor
}

// Generator performs one logical image generation against one vendor,
// including the retry/backoff/timeout policy. Implementations have no side
// effects beyond the outbound HTTP calls; in particular they never touch the
// credit ledger.
type Generator interface {
	// GenerateImage runs the generation to completion. On failure the
	// returned error always carries a classified *VendorError in its
	// chain, never an opaque transport error.
	GenerateImage(ctx context.Context, req Request) (*Result, error)
}
