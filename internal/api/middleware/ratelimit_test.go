package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/middleware"
	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
)

func limitedRequest(userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generations", nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestRateLimiterAllowsBurstThenThrottles(t *testing.T) {
	t.Parallel()

	// 60 per minute with burst 2: the third immediate request must fail.
	rl := middleware.NewRateLimiter(60, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	userID := uuid.New()
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, limitedRequest(userID))
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	t.Parallel()

	rl := middleware.NewRateLimiter(60, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, limitedRequest(uuid.New()))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, limitedRequest(uuid.New()))

	// Exhausting one user's bucket must not affect another's.
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
}
