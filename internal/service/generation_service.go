package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/platform/logger"
	"github.com/hekuanga/ImgFactory-sub000/internal/redact"
	"github.com/hekuanga/ImgFactory-sub000/internal/store"
)

// generationCost is how many credits one confirmed generation consumes.
const generationCost = 1

// GenerationResult is what the orchestrator hands back to the API layer on
// success.
type GenerationResult struct {
	ImageURL string
	Vendor   generation.Vendor

	// RemainingCredits is the balance after the debit. Negative when the
	// ledger schema is absent and no debit could run.
	RemainingCredits int64

	// CreditsCharged is false when the ledger was unavailable and the
	// generation was delivered without a debit.
	CreditsCharged bool
}

// GenerationService is the externally-visible entry point for "generate one
// image for one authenticated user".
type GenerationService interface {
	// Generate validates the request, gates on the caller's balance,
	// runs exactly one vendor call through the resilience layer, and on
	// confirmed success debits one credit atomically. Failures never
	// touch the ledger, so callers may safely retry the whole operation.
	Generate(ctx context.Context, userID uuid.UUID, req generation.Request) (*GenerationResult, error)
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	generators map[generation.Vendor]generation.Generator
	credits    store.CreditStore
	logger     *slog.Logger
}

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	generators map[generation.Vendor]generation.Generator,
	credits store.CreditStore,
	log *slog.Logger,
) (GenerationService, error) {
	if len(generators) == 0 {
		return nil, errors.New("at least one vendor generator is required")
	}
	if credits == nil {
		return nil, errors.New("credit store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &generationServiceImpl{
		generators: generators,
		credits:    credits,
		logger:     log.With(slog.String("component", "generation_service")),
	}, nil
}

// Generate implements GenerationService.Generate
//
// Steps are strictly sequential: input validation, identity, balance gate,
// vendor call, debit. A later step never begins before the earlier ones
// succeed, and the debit runs only after the vendor has returned a resolved
// image URL.
func (s *generationServiceImpl) Generate(
	ctx context.Context,
	userID uuid.UUID,
	req generation.Request,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.Image == "" {
		return nil, ErrMissingImage
	}
	if userID == uuid.Nil {
		return nil, ErrInvalidUser
	}

	generator, ok := s.generators[req.Vendor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", generation.ErrUnknownVendor, req.Vendor)
	}

	// Balance gate. A missing ledger schema is tolerated (logged, not
	// fatal) so partially-migrated deployments keep serving; a missing
	// account or an empty balance blocks the vendor call entirely.
	ledgerAvailable := true
	account, err := s.credits.GetAccount(ctx, userID)
	switch {
	case errors.Is(err, store.ErrSchemaMissing):
		ledgerAvailable = false
		log.Warn("credit ledger schema missing, skipping balance check",
			slog.String("user_id", userID.String()))
	case errors.Is(err, store.ErrAccountNotFound):
		return nil, store.ErrInsufficientCredits
	case err != nil:
		return nil, NewGenerationServiceError("generate", "failed to load credit account", err)
	case account.Balance < generationCost:
		return nil, store.ErrInsufficientCredits
	}

	log.Info("starting generation",
		slog.String("user_id", userID.String()),
		slog.String("vendor", string(req.Vendor)))

	result, err := generator.GenerateImage(ctx, req)
	if err != nil {
		// Full detail stays in server logs; the caller receives the
		// classified error from the chain.
		log.Error("generation failed",
			slog.String("user_id", userID.String()),
			slog.String("vendor", string(req.Vendor)),
			slog.String("error", redact.Error(err)))
		return nil, err
	}

	return s.completeGeneration(ctx, userID, result, ledgerAvailable)
}

// completeGeneration settles the ledger after a confirmed vendor success:
// one atomic transaction debiting the balance and appending the deduct
// history row. Kept separate from the vendor call so it is independently
// testable without any HTTP vendor in the loop.
func (s *generationServiceImpl) completeGeneration(
	ctx context.Context,
	userID uuid.UUID,
	result *generation.Result,
	ledgerAvailable bool,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	out := &GenerationResult{
		ImageURL:         result.ImageURL,
		Vendor:           result.Vendor,
		RemainingCredits: -1,
	}

	if !ledgerAvailable {
		return out, nil
	}

	newBalance, err := s.credits.TryDebit(ctx, userID, generationCost,
		fmt.Sprintf("photo generation (%s)", result.Vendor))
	switch {
	case errors.Is(err, store.ErrSchemaMissing):
		// The schema disappeared between the gate and the debit; the
		// user already has their image, so deliver it uncharged.
		log.Warn("credit ledger schema missing at debit time",
			slog.String("user_id", userID.String()))
		return out, nil
	case errors.Is(err, store.ErrInsufficientCredits), errors.Is(err, store.ErrAccountNotFound):
		// A concurrent request drained the balance after our gate. The
		// vendor work is done and paid for upstream; deliver the image
		// and record the miss rather than failing the user.
		log.Warn("post-success debit found no credits",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return out, nil
	case err != nil:
		// Anything else (dead connection, failed commit) must not mint
		// free generations; surface it instead of delivering uncharged.
		log.Error("post-success debit failed",
			slog.String("user_id", userID.String()),
			slog.String("error", redact.Error(err)))
		return nil, NewGenerationServiceError("complete_generation",
			"failed to settle credit ledger after generation", err)
	}

	out.RemainingCredits = newBalance
	out.CreditsCharged = true

	log.Info("generation completed",
		slog.String("user_id", userID.String()),
		slog.String("vendor", string(result.Vendor)),
		slog.Int64("remaining_credits", newBalance))

	return out, nil
}
