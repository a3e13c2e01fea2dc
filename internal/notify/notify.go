// Package notify implements the engagement notification engine for
// marketplace listings: milestone and contact-click alerts, publish notices,
// and refresh reminders, each sent at most once (or a capped number of times)
// per listing.
//
// Pipeline per trigger: eligibility gate → preference gate → dedup/threshold
// check → build message → deliver → commit state on success. State commits
// only after a successful delivery, so a failed send is naturally retried by
// the next qualifying trigger.
package notify

import (
	"context"
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// contactClickMin is the minimum contact-click count before the
	// contact-click alert fires. Isolated single clicks are not newsworthy.
	contactClickMin = 3

	// reminderCap is the lifetime maximum of refresh reminders per listing.
	reminderCap = 3

	// ReminderInterval is the minimum spacing between a listing's last
	// relevant activity (or last reminder) and the next reminder.
	ReminderInterval = 7 * 24 * time.Hour
)

// viewMilestones are evaluated in descending order; the first qualifying,
// unsent milestone triggers exactly one send per evaluation. A listing that
// jumps several thresholds between checks gets one email, not several.
var viewMilestones = []int{150, 100, 50, 20}

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Listing is the read-only view of a listing the engine consumes.
type Listing struct {
	ID          int64
	OwnerID     int64
	Status      string
	Type        string
	Title       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// StatusPublished is the lifecycle status a listing must be in for any
// notification to fire.
const StatusPublished = "published"

// Owner is the read-only view of a listing owner.
type Owner struct {
	Email    string
	Verified bool
}

// Message is an ephemeral subject/HTML/plain-text triple. Never persisted.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// --------------------------------------------------------------------------
// Collaborator contracts
// --------------------------------------------------------------------------

// ListingSource provides listing reference data.
type ListingSource interface {
	GetListing(ctx context.Context, id int64) (*Listing, error)
}

// OwnerSource provides owner identity data.
type OwnerSource interface {
	GetOwner(ctx context.Context, id int64) (*Owner, error)
}

// CounterSource provides cumulative engagement counters. Counts are
// monotonically non-decreasing from the engine's perspective.
type CounterSource interface {
	TotalViews(ctx context.Context, listingID int64) (int, error)
	ContactClicks(ctx context.Context, listingID int64) (int, error)
}

// Sender delivers a composed message. Any non-nil error is a delivery
// failure; the caller leaves state untouched so the send can be retried.
type Sender interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// --------------------------------------------------------------------------
// Action links
// --------------------------------------------------------------------------

// Links builds listing-scoped action URLs embedded in notification emails.
type Links struct {
	Base string // site base URL without trailing slash
}

// Listing returns the public URL of a listing.
func (l Links) Listing(id int64) string {
	return fmt.Sprintf("%s/listings/%d", l.Base, id)
}

// Refresh returns the URL that bumps a listing back to the top.
func (l Links) Refresh(id int64) string {
	return fmt.Sprintf("%s/listings/%d/refresh", l.Base, id)
}

// MarkSold returns the URL that flags a listing as sold.
func (l Links) MarkSold(id int64) string {
	return fmt.Sprintf("%s/listings/%d/mark-sold", l.Base, id)
}
