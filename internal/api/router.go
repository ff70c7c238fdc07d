package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/middleware"
	"github.com/hekuanga/ImgFactory-sub000/internal/service"
	"github.com/hekuanga/ImgFactory-sub000/internal/service/auth"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	GenerationService service.GenerationService
	CreditService     service.CreditService
	JWTService        auth.JWTService
	DB                *sql.DB // may be nil

	// GenerationsPerMinute is the per-user steady-state limit on the
	// generation endpoint.
	GenerationsPerMinute int
}

// NewRouter assembles the chi router: trace IDs on everything, JWT auth and
// per-user rate limiting on the generation surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	healthHandler := NewHealthHandler(cfg.DB)
	r.Get("/healthz", healthHandler.Check)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTService)
	rateLimiter := middleware.NewRateLimiter(cfg.GenerationsPerMinute, cfg.GenerationsPerMinute)

	generationHandler := NewGenerationHandler(cfg.GenerationService)
	creditHandler := NewCreditHandler(cfg.CreditService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(rateLimiter.Limit).Post("/generations", generationHandler.Generate)

		r.Get("/credits", creditHandler.GetBalance)
		r.Get("/credits/history", creditHandler.GetHistory)

		// Grants mint prepaid credits; only admin-claimed tokens pass.
		r.With(authMiddleware.RequireAdmin).Post("/credits/grant", creditHandler.Grant)
	})

	return r
}
