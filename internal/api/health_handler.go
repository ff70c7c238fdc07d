package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/hekuanga/ImgFactory-sub000/internal/api/shared"
)

// HealthHandler answers liveness probes. Database reachability is reported
// but never fails the probe; the generation path degrades gracefully without
// the ledger, so the process stays "ok" either way.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs without a database.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Check handles GET /healthz requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "unconfigured"}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			resp.Database = "unreachable"
		} else {
			resp.Database = "ok"
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
