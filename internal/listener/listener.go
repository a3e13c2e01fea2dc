// Package listener provides a Postgres LISTEN/NOTIFY consumer for listing
// lifecycle events. It holds a dedicated pgx connection (not from the pool)
// listening on the `listing_status_changed` channel.
//
// The content layer fires pg_notify on every status transition; only
// pending→published transitions produce a publish notice.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oddmarket/listing-notify/internal/notify"
)

const (
	channel          = "listing_status_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// StatusEvent is the JSON payload from pg_notify('listing_status_changed', ...).
type StatusEvent struct {
	ListingID int64  `json:"listing_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// Start opens a dedicated connection and listens for lifecycle transitions.
// It reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, orch *notify.Orchestrator, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, orch, logger)
		if ctx.Err() != nil {
			logger.Info("lifecycle listener stopped (context cancelled)")
			return
		}

		logger.Error("lifecycle listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, orch *notify.Orchestrator, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("lifecycle listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event StatusEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("failed to parse lifecycle event",
				"payload", notification.Payload, "error", err)
			continue
		}

		if event.OldStatus != "pending" || event.NewStatus != notify.StatusPublished {
			continue
		}

		logger.Info("listing published", "listing_id", event.ListingID)

		// Process asynchronously to avoid blocking the listener
		go orch.MaybeSendPublishNotification(ctx, event.ListingID)
	}
}
