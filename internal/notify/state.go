package notify

import (
	"context"
	"slices"
	"time"
)

// State is the per-listing dedup ledger: what has already been sent.
// Flags only transition false→true; the milestone set only grows;
// ReminderCount never exceeds the cap.
type State struct {
	ContactClickSent bool
	ViewMilestones   []int // milestone values already sent, ascending
	ReminderCount    int
	LastReminderAt   *time.Time
	PublishSent      bool
}

// DefaultState is the implicit all-unset state for a listing with no ledger
// row. Stores return it instead of nil so call sites never null-coalesce.
func DefaultState() *State {
	return &State{}
}

// HasMilestone reports whether a milestone was already sent.
func (s *State) HasMilestone(m int) bool {
	return slices.Contains(s.ViewMilestones, m)
}

// StateStore persists the ledger. Each write is idempotent at the field
// level: re-marking a sent flag or re-adding a present milestone is a no-op.
// Each trigger kind only mutates its own fields, so no cross-field
// transaction is needed.
type StateStore interface {
	Get(ctx context.Context, listingID int64) (*State, error)
	MarkContactClickSent(ctx context.Context, listingID int64) error
	AddViewMilestone(ctx context.Context, listingID int64, milestone int) error
	RecordReminder(ctx context.Context, listingID int64, at time.Time) error
	MarkPublishSent(ctx context.Context, listingID int64) error
}
