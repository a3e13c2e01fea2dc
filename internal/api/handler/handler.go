// Package handler provides HTTP handlers for the trigger and admin
// endpoints. Event handlers never fail the request because a notification
// did not send — the caller-visible contract is "did a send happen".
package handler

import (
	"net/http"
	"time"

	"github.com/oddmarket/listing-notify/internal/api/respond"
	"github.com/oddmarket/listing-notify/internal/config"
	"github.com/oddmarket/listing-notify/internal/db"
	"github.com/oddmarket/listing-notify/internal/listing"
	"github.com/oddmarket/listing-notify/internal/notify"
	"github.com/oddmarket/listing-notify/internal/scan"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool    *db.Pool
	store   *listing.Store
	orch    *notify.Orchestrator
	prefs   *notify.Prefs
	scanner *scan.Scanner
	sender  notify.Sender
	cfg     *config.Config
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, store *listing.Store, orch *notify.Orchestrator, prefs *notify.Prefs, scanner *scan.Scanner, sender notify.Sender, cfg *config.Config) *Handler {
	return &Handler{
		pool:    pool,
		store:   store,
		orch:    orch,
		prefs:   prefs,
		scanner: scanner,
		sender:  sender,
		cfg:     cfg,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Listing Notify API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
