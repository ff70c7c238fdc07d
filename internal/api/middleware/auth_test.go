package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/middleware"
	"github.com/hekuanga/ImgFactory-sub000/internal/config"
	"github.com/hekuanga/ImgFactory-sub000/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticateValidToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	userID := uuid.New()

	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, found = middleware.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.NewAuthMiddleware(jwtService).Authenticate(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, found)
	assert.Equal(t, userID, gotUserID)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	mw := middleware.NewAuthMiddleware(jwtService)

	handler := mw.Authenticate(mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("regular token is forbidden", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/credits/grant", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin token passes", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateAdminToken(context.Background(), uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/credits/grant", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not run for rejected requests")
	})
	handler := middleware.NewAuthMiddleware(jwtService).Authenticate(next)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}
