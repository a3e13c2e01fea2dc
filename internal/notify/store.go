package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// --------------------------------------------------------------------------
// Postgres-backed state store
// --------------------------------------------------------------------------

// PGStateStore persists the dedup ledger in listing_notification_state.
// Writes are upserts with field-level idempotent semantics: OR for flags,
// set-union for milestones, increment + GREATEST for reminder fields.
type PGStateStore struct {
	pool *pgxpool.Pool
}

// NewPGStateStore creates a store over a pool.
func NewPGStateStore(pool *pgxpool.Pool) *PGStateStore {
	return &PGStateStore{pool: pool}
}

// Get returns the ledger for a listing, or DefaultState when no row exists.
func (s *PGStateStore) Get(ctx context.Context, listingID int64) (*State, error) {
	var (
		st         State
		milestones []int32
		lastAt     *time.Time
	)
	err := s.pool.QueryRow(ctx, "notification_state", listingID).Scan(
		&st.ContactClickSent, &milestones, &st.ReminderCount, &lastAt, &st.PublishSent,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification state %d: %w", listingID, err)
	}
	st.ViewMilestones = make([]int, len(milestones))
	for i, m := range milestones {
		st.ViewMilestones[i] = int(m)
	}
	st.LastReminderAt = lastAt
	return &st, nil
}

// MarkContactClickSent sets the one-shot contact-click flag.
func (s *PGStateStore) MarkContactClickSent(ctx context.Context, listingID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listing_notification_state (listing_id, contact_click_sent)
		VALUES ($1, true)
		ON CONFLICT (listing_id)
		DO UPDATE SET contact_click_sent = true, updated_at = NOW()`,
		listingID)
	if err != nil {
		return fmt.Errorf("mark contact click sent %d: %w", listingID, err)
	}
	return nil
}

// AddViewMilestone adds a milestone to the sent set. Re-adding a present
// milestone is a no-op.
func (s *PGStateStore) AddViewMilestone(ctx context.Context, listingID int64, milestone int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listing_notification_state (listing_id, view_milestones)
		VALUES ($1, ARRAY[$2]::int[])
		ON CONFLICT (listing_id)
		DO UPDATE SET
			view_milestones = (
				SELECT ARRAY(
					SELECT DISTINCT m
					FROM unnest(listing_notification_state.view_milestones || EXCLUDED.view_milestones) AS m
					ORDER BY m
				)
			),
			updated_at = NOW()`,
		listingID, int32(milestone))
	if err != nil {
		return fmt.Errorf("add view milestone %d/%d: %w", listingID, milestone, err)
	}
	return nil
}

// RecordReminder increments the reminder count and stamps the send time.
func (s *PGStateStore) RecordReminder(ctx context.Context, listingID int64, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listing_notification_state (listing_id, reminder_count, last_reminder_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (listing_id)
		DO UPDATE SET
			reminder_count = listing_notification_state.reminder_count + 1,
			last_reminder_at = GREATEST(COALESCE(listing_notification_state.last_reminder_at, EXCLUDED.last_reminder_at), EXCLUDED.last_reminder_at),
			updated_at = NOW()`,
		listingID, at)
	if err != nil {
		return fmt.Errorf("record reminder %d: %w", listingID, err)
	}
	return nil
}

// MarkPublishSent sets the one-shot publish-notice flag.
func (s *PGStateStore) MarkPublishSent(ctx context.Context, listingID int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO listing_notification_state (listing_id, publish_sent)
		VALUES ($1, true)
		ON CONFLICT (listing_id)
		DO UPDATE SET publish_sent = true, updated_at = NOW()`,
		listingID)
	if err != nil {
		return fmt.Errorf("mark publish sent %d: %w", listingID, err)
	}
	return nil
}

// PurgeOrphans deletes ledger rows whose listing no longer exists. The FK
// cascade already covers normal deletes; this sweeps rows left behind by
// out-of-band listing removal.
func (s *PGStateStore) PurgeOrphans(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM listing_notification_state s
		WHERE NOT EXISTS (SELECT 1 FROM listings l WHERE l.id = s.listing_id)`)
	if err != nil {
		return 0, fmt.Errorf("purge orphan state: %w", err)
	}
	return tag.RowsAffected(), nil
}

// --------------------------------------------------------------------------
// Postgres-backed preference store
// --------------------------------------------------------------------------

// PGPrefStore persists raw preference values in owner_prefs.
type PGPrefStore struct {
	pool *pgxpool.Pool
}

// NewPGPrefStore creates a store over a pool.
func NewPGPrefStore(pool *pgxpool.Pool) *PGPrefStore {
	return &PGPrefStore{pool: pool}
}

// Get returns the stored value for a preference key, or "" when unset.
func (s *PGPrefStore) Get(ctx context.Context, ownerID int64, key string) (string, error) {
	var v string
	err := s.pool.QueryRow(ctx, "owner_pref_get", ownerID, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pref %d/%s: %w", ownerID, key, err)
	}
	return v, nil
}

// Set upserts a preference value.
func (s *PGPrefStore) Set(ctx context.Context, ownerID int64, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO owner_prefs (owner_id, pref_key, pref_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, pref_key)
		DO UPDATE SET pref_value = EXCLUDED.pref_value, updated_at = NOW()`,
		ownerID, key, value)
	if err != nil {
		return fmt.Errorf("set pref %d/%s: %w", ownerID, key, err)
	}
	return nil
}
