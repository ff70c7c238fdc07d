package imagegen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/redact"
)

// maxResponseBody caps how much of a vendor response is read. Successful
// bodies are small JSON documents; inline base64 images are the largest
// observed payloads.
const maxResponseBody = 8 << 20 // 8 MiB

// CallerConfig holds the resilience policy for one vendor caller. All
// credentials and endpoints come in explicitly through the VendorClient,
// never from ambient process state, so tests can inject doubles freely.
type CallerConfig struct {
	// MaxAttempts bounds vendor calls for one logical generation
	// (2 in production, 1 in lower environments). Defaults to 1.
	MaxAttempts int

	// AttemptTimeout is the per-attempt HTTP deadline. The timeout aborts
	// only that attempt, not the retry loop. Defaults to 120s.
	AttemptTimeout time.Duration

	// RetryBaseDelay is the base of the exponential backoff between
	// attempts: delay = base * 2^(attempt-1). Defaults to 1s.
	RetryBaseDelay time.Duration

	// HTTPClient overrides the transport, mainly for tests. The client
	// must not carry its own timeout; the per-attempt context governs.
	HTTPClient *http.Client
}

// Caller performs one logical generation against one vendor with the shared
// resilience policy. It implements generation.Generator. It has no side
// effects beyond the outbound HTTP calls; credit mutation is strictly the
// orchestrator's job, after confirmed success.
type Caller struct {
	client         VendorClient
	httpClient     *http.Client
	logger         *slog.Logger
	maxAttempts    int
	attemptTimeout time.Duration
	baseDelay      time.Duration

	// sleep waits between attempts; injectable so tests can observe the
	// backoff schedule without waiting it out.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCaller creates a retrying caller for the given vendor client.
func NewCaller(client VendorClient, cfg CallerConfig, logger *slog.Logger) (*Caller, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: vendor client cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("%w: max attempts cannot be negative", generation.ErrInvalidConfig)
	}

	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 120 * time.Second
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	return &Caller{
		client:         client,
		httpClient:     cfg.HTTPClient,
		logger:         logger.With(slog.String("component", "vendor_caller"), slog.String("vendor", string(client.Vendor()))),
		maxAttempts:    cfg.MaxAttempts,
		attemptTimeout: cfg.AttemptTimeout,
		baseDelay:      cfg.RetryBaseDelay,
		sleep:          sleepContext,
	}, nil
}

// Ensure Caller implements generation.Generator
var _ generation.Generator = (*Caller)(nil)

// GenerateImage implements generation.Generator.GenerateImage
//
// It attempts the vendor call up to maxAttempts times, waiting
// base * 2^(attempt-1) between attempts. Only transient failures (transport
// errors, timeouts, 429, 5xx) are retried. Sensitive-output false positives
// and malformed 2xx bodies abort immediately: they are deterministic vendor
// behavior, not transient faults.
func (c *Caller) GenerateImage(ctx context.Context, req generation.Request) (*generation.Result, error) {
	var lastErr *generation.VendorError

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		c.logger.InfoContext(ctx, "calling vendor",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", c.maxAttempts))

		result, verr := c.attempt(ctx, req)
		if verr == nil {
			c.logger.InfoContext(ctx, "vendor call succeeded",
				slog.Int("attempt", attempt))
			return result, nil
		}

		lastErr = verr
		c.logger.ErrorContext(ctx, "vendor call failed",
			slog.Int("attempt", attempt),
			slog.String("category", string(verr.Category)),
			slog.String("vendor_code", verr.VendorCode),
			slog.Int("status_code", verr.StatusCode),
			slog.String("error", redact.Error(verr)))

		if !verr.Retryable() {
			c.logger.WarnContext(ctx, "permanent vendor error, not retrying",
				slog.String("category", string(verr.Category)))
			return nil, verr
		}

		// The per-attempt timeout only aborts the attempt; a dead parent
		// context ends the whole loop.
		if ctx.Err() != nil {
			return nil, verr
		}

		if attempt == c.maxAttempts {
			break
		}

		delay := c.baseDelay << (attempt - 1)
		c.logger.InfoContext(ctx, "retrying after backoff",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))

		if err := c.sleep(ctx, delay); err != nil {
			c.logger.WarnContext(ctx, "vendor call cancelled during backoff",
				slog.String("error", err.Error()))
			return nil, lastErr
		}
	}

	c.logger.WarnContext(ctx, "vendor attempt budget exhausted",
		slog.Int("max_attempts", c.maxAttempts))

	// Always surface the last classified error, never an opaque one.
	return nil, lastErr
}

// attempt performs one HTTP call under the per-attempt timeout. Every
// failure comes back classified.
func (c *Caller) attempt(ctx context.Context, req generation.Request) (*generation.Result, *generation.VendorError) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	idempotencyKey := uuid.New().String()

	httpReq, err := c.client.NewRequest(attemptCtx, req, idempotencyKey)
	if err != nil {
		verr := &generation.VendorError{
			Vendor:   c.client.Vendor(),
			Category: generation.CategoryBadRequest,
			Err:      fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err),
		}
		verr.Message, verr.Suggestion = userFacingText(generation.CategoryBadRequest)
		return nil, verr
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, ClassifyTransport(c.client.Vendor(), err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "failed to close vendor response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, ClassifyTransport(c.client.Vendor(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, Classify(c.client.Vendor(), resp.StatusCode, body)
	}

	url, err := Normalize(body)
	if err != nil {
		// 2xx with an unparseable body is a hard failure for this
		// attempt, not something a retry fixes.
		verr := &generation.VendorError{
			Vendor:     c.client.Vendor(),
			Category:   generation.CategoryMalformedResponse,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
		verr.Message, verr.Suggestion = userFacingText(generation.CategoryMalformedResponse)
		return nil, verr
	}

	return &generation.Result{
		ImageURL: url,
		Vendor:   c.client.Vendor(),
	}, nil
}

// sleepContext waits for the delay or context cancellation, whichever comes
// first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
