// Package auth verifies caller identity. Identity issuance (signup, login,
// token refresh) belongs to the external auth provider; this package only
// validates the bearer tokens that provider signs and extracts the user ID.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Claims holds the validated identity extracted from a bearer token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string

	// Admin is true for tokens carrying the admin claim. Only these may
	// reach the credit grant surface.
	Admin bool
}

// JWTService validates bearer tokens and, for tests and tooling, can mint
// them with the same signing key the provider uses.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// GenerateAdminToken creates a signed access token carrying the admin
	// claim, for internal tooling and tests.
	GenerateAdminToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies a token's signature, expiry, and type claim.
	// Returns ErrExpiredToken, ErrWrongTokenType, or ErrInvalidToken on
	// failure.
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
