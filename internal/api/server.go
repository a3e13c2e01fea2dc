package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/oddmarket/listing-notify/internal/api/handler"
	"github.com/oddmarket/listing-notify/internal/config"
	"github.com/oddmarket/listing-notify/internal/db"
	"github.com/oddmarket/listing-notify/internal/listing"
	"github.com/oddmarket/listing-notify/internal/notify"
	"github.com/oddmarket/listing-notify/internal/scan"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *db.Pool, store *listing.Store, orch *notify.Orchestrator, prefs *notify.Prefs, scanner *scan.Scanner, sender notify.Sender, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, store, orch, prefs, scanner, sender, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Engagement triggers
		r.Post("/listings/{listingID}/events/view", h.RecordView)
		r.Post("/listings/{listingID}/events/contact-click", h.RecordContactClick)

		// Owner preferences
		r.Get("/owners/{ownerID}/prefs", h.GetPrefs)
		r.Put("/owners/{ownerID}/prefs", h.PutPrefs)

		// Admin
		r.Post("/admin/reminder-scan", h.RunReminderScan)
		r.Post("/admin/test-send", h.TestSend)
	})

	return r
}
