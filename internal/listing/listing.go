// Package listing provides read access to listings, owners, and the
// engagement counters kept as listing_meta key/value rows. The string-typed
// meta boundary ("1"/"0" flags, numeric counters, RFC3339 dates) is decoded
// here and nowhere else.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddmarket/listing-notify/internal/notify"
)

// Meta keys under listing_meta.
const (
	MetaViews         = "views_total"
	MetaClicksPhone   = "clicks_phone"
	MetaClicksMessage = "clicks_message"
	MetaSold          = "is_sold"
	MetaRefreshedAt   = "refreshed_at"
)

// Store reads listings, owners, and meta rows. Implements the engine's
// ListingSource, OwnerSource, and CounterSource contracts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over a pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetListing returns a listing by id, or nil when it does not exist.
func (s *Store) GetListing(ctx context.Context, id int64) (*notify.Listing, error) {
	var l notify.Listing
	err := s.pool.QueryRow(ctx, "listing_by_id", id).Scan(
		&l.ID, &l.OwnerID, &l.Status, &l.Type, &l.Title,
		&l.CreatedAt, &l.UpdatedAt, &l.PublishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	return &l, nil
}

// GetOwner returns an owner by id, or nil when it does not exist.
func (s *Store) GetOwner(ctx context.Context, id int64) (*notify.Owner, error) {
	var o notify.Owner
	err := s.pool.QueryRow(ctx, "owner_by_id", id).Scan(&o.Email, &o.Verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get owner %d: %w", id, err)
	}
	return &o, nil
}

// Meta returns a raw meta value, or "" when the key is absent.
func (s *Store) Meta(ctx context.Context, listingID int64, key string) (string, error) {
	var v string
	err := s.pool.QueryRow(ctx, "listing_meta_get", listingID, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %d/%s: %w", listingID, key, err)
	}
	return v, nil
}

// TotalViews returns the cumulative view count.
func (s *Store) TotalViews(ctx context.Context, listingID int64) (int, error) {
	return s.metaInt(ctx, listingID, MetaViews)
}

// ContactClicks returns phone and messaging channel clicks summed.
func (s *Store) ContactClicks(ctx context.Context, listingID int64) (int, error) {
	phone, err := s.metaInt(ctx, listingID, MetaClicksPhone)
	if err != nil {
		return 0, err
	}
	msg, err := s.metaInt(ctx, listingID, MetaClicksMessage)
	if err != nil {
		return 0, err
	}
	return phone + msg, nil
}

// Sold reports whether the listing carries a truthy sold flag. Absent,
// empty, and "0" values all count as not sold.
func (s *Store) Sold(ctx context.Context, listingID int64) (bool, error) {
	v, err := s.Meta(ctx, listingID, MetaSold)
	if err != nil {
		return false, err
	}
	return v != "" && v != "0", nil
}

// IncrementCounter atomically bumps a numeric meta counter and returns the
// new value. Missing keys start at 1.
func (s *Store) IncrementCounter(ctx context.Context, listingID int64, key string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO listing_meta (listing_id, meta_key, meta_value)
		VALUES ($1, $2, '1')
		ON CONFLICT (listing_id, meta_key)
		DO UPDATE SET meta_value = ((listing_meta.meta_value)::bigint + 1)::text, updated_at = NOW()
		RETURNING (meta_value)::bigint`,
		listingID, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment %d/%s: %w", listingID, key, err)
	}
	return n, nil
}

func (s *Store) metaInt(ctx context.Context, listingID int64, key string) (int, error) {
	v, err := s.Meta(ctx, listingID, key)
	if err != nil || v == "" {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("meta %d/%s is not numeric: %w", listingID, key, err)
	}
	return n, nil
}

// ParseMetaTime decodes an RFC3339 meta value. Returns nil for empty or
// malformed values.
func ParseMetaTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
