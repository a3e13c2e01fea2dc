// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddmarket/listing-notify/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and notification
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Listings
		"listing_by_id":    "SELECT id, owner_id, status, listing_type, title, created_at, updated_at, published_at FROM listings WHERE id = $1",
		"listing_meta_get": "SELECT meta_value FROM listing_meta WHERE listing_id = $1 AND meta_key = $2",

		// Owners
		"owner_by_id": "SELECT email, verified FROM owners WHERE id = $1",

		// Preferences
		"owner_pref_get": "SELECT pref_value FROM owner_prefs WHERE owner_id = $1 AND pref_key = $2",

		// Notification state
		"notification_state": "SELECT contact_click_sent, view_milestones, reminder_count, last_reminder_at, publish_sent FROM listing_notification_state WHERE listing_id = $1",

		// Reminder scan: published, correct type, not sold (absent, empty,
		// or "0" sold flag), newest first.
		"reminder_candidates": `
			SELECT l.id, l.created_at, l.updated_at, l.published_at,
			       rm.meta_value, s.last_reminder_at
			FROM listings l
			LEFT JOIN listing_notification_state s ON s.listing_id = l.id
			LEFT JOIN listing_meta sm ON sm.listing_id = l.id AND sm.meta_key = 'is_sold'
			LEFT JOIN listing_meta rm ON rm.listing_id = l.id AND rm.meta_key = 'refreshed_at'
			WHERE l.status = 'published'
			  AND l.listing_type = $1
			  AND COALESCE(sm.meta_value, '') IN ('', '0')
			ORDER BY l.created_at DESC
			LIMIT $2`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
