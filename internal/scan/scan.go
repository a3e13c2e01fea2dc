// Package scan drives the periodic reminder batch: it selects stale, unsold
// listings, applies the cadence gate, and hands each survivor to the
// notification orchestrator. The gate is date arithmetic, so running the
// scan more than once a day sends nothing new.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oddmarket/listing-notify/internal/listing"
	"github.com/oddmarket/listing-notify/internal/notify"
)

const defaultBatchSize = 25

// Candidate is a reminder-eligible listing row joined with its ledger.
type Candidate struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    *time.Time
	RefreshedAt    *time.Time
	LastReminderAt *time.Time
}

// Result tracks the outcome of one scan run.
type Result struct {
	CandidatesFound int
	Gated           int // skipped by the cadence gate
	Sent            int
	Skipped         int // orchestrator declined (cap, prefs, eligibility)
	Duration        time.Duration
	Errors          []string
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("found=%d gated=%d sent=%d skipped=%d dur=%s",
		r.CandidatesFound, r.Gated, r.Sent, r.Skipped,
		r.Duration.Round(time.Millisecond))
}

// Scanner runs reminder scans.
type Scanner struct {
	pool        *pgxpool.Pool
	orch        *notify.Orchestrator
	links       notify.Links
	listingType string
	batchSize   int
	now         func() time.Time
	log         *slog.Logger
}

// New creates a Scanner. A zero batchSize falls back to the default.
func New(pool *pgxpool.Pool, orch *notify.Orchestrator, links notify.Links, listingType string, batchSize int, logger *slog.Logger) *Scanner {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Scanner{
		pool:        pool,
		orch:        orch,
		links:       links,
		listingType: listingType,
		batchSize:   batchSize,
		now:         time.Now,
		log:         logger,
	}
}

// Run executes one scan: query candidates, gate by cadence, drive the
// orchestrator for each listing that passes.
func (s *Scanner) Run(ctx context.Context) Result {
	start := s.now()
	var result Result

	candidates, err := Candidates(ctx, s.pool, s.listingType, s.batchSize)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Duration = s.now().Sub(start)
		s.log.Error("reminder candidate query failed", "error", err)
		return result
	}

	result.CandidatesFound = len(candidates)
	now := s.now()

	for _, c := range candidates {
		if !dueForReminder(c, now, notify.ReminderInterval) {
			result.Gated++
			continue
		}
		sent := s.orch.MaybeSendReminderNotification(ctx, c.ID,
			s.links.Refresh(c.ID), s.links.MarkSold(c.ID))
		if sent {
			result.Sent++
		} else {
			result.Skipped++
		}
	}

	result.Duration = s.now().Sub(start)
	s.log.Info("reminder scan complete", "summary", result.Summary())
	return result
}

// Candidates returns up to limit published, unsold listings of the given
// type, newest first.
func Candidates(ctx context.Context, pool *pgxpool.Pool, listingType string, limit int) ([]Candidate, error) {
	rows, err := pool.Query(ctx, "reminder_candidates", listingType, limit)
	if err != nil {
		return nil, fmt.Errorf("query reminder candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var (
			c           Candidate
			refreshedAt *string
		)
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
			&refreshedAt, &c.LastReminderAt); err != nil {
			return nil, fmt.Errorf("scan reminder candidate: %w", err)
		}
		if refreshedAt != nil {
			c.RefreshedAt = listing.ParseMetaTime(*refreshedAt)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// dueForReminder applies the cadence gate: the reference point is the most
// recent of the last reminder and the last listing activity (publish,
// refresh, modification, falling back to creation). No reference at all
// means no temporal anchor — skip rather than guess.
func dueForReminder(c Candidate, now time.Time, interval time.Duration) bool {
	activity := latest(c.PublishedAt, c.RefreshedAt, nonZero(c.UpdatedAt))
	if activity == nil {
		activity = nonZero(c.CreatedAt)
	}

	reference := latest(activity, c.LastReminderAt)
	if reference == nil {
		return false
	}
	return now.Sub(*reference) >= interval
}

func latest(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t == nil {
			continue
		}
		if out == nil || t.After(*out) {
			out = t
		}
	}
	return out
}

func nonZero(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
