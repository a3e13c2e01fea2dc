package notify

import (
	"context"
	"log/slog"
	"time"
)

// Orchestrator evaluates engagement triggers against the dedup ledger and
// sends at most one notification per call. It is constructed once at the
// composition root and is safe for concurrent use; the check-then-commit
// window is deliberately not atomic (see MaybeSend* docs), which bounds the
// worst case at one duplicate send per race.
//
// Every operation returns only "did a send happen". Ineligibility, satisfied
// dedup conditions, and delivery failures all come back as false; delivery
// failures are logged and leave state untouched so the next qualifying
// trigger retries naturally.
type Orchestrator struct {
	listings    ListingSource
	counters    CounterSource
	state       StateStore
	prefs       *Prefs
	contacts    *ContactResolver
	sender      Sender
	links       Links
	listingType string
	now         func() time.Time
	log         *slog.Logger
}

// Deps are the collaborators an Orchestrator is built from.
type Deps struct {
	Listings    ListingSource
	Owners      OwnerSource
	Counters    CounterSource
	State       StateStore
	Prefs       *Prefs
	Sender      Sender
	Links       Links
	ListingType string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewOrchestrator wires an Orchestrator from its collaborators.
func NewOrchestrator(d Deps) *Orchestrator {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		listings:    d.Listings,
		counters:    d.Counters,
		state:       d.State,
		prefs:       d.Prefs,
		contacts:    NewContactResolver(d.Owners),
		sender:      d.Sender,
		links:       d.Links,
		listingType: d.ListingType,
		now:         now,
		log:         d.Logger,
	}
}

// eligible runs the shared fail-fast gate: valid id, listing exists and is a
// published listing of the configured type, and the owner resolves to a
// verified contact address.
func (o *Orchestrator) eligible(ctx context.Context, listingID int64) (*Listing, string, bool) {
	if listingID <= 0 {
		return nil, "", false
	}
	l, err := o.listings.GetListing(ctx, listingID)
	if err != nil || l == nil {
		return nil, "", false
	}
	if l.Status != StatusPublished || l.Type != o.listingType {
		return nil, "", false
	}
	contact, ok := o.contacts.ResolveVerifiedContact(ctx, l.OwnerID)
	if !ok {
		return nil, "", false
	}
	return l, contact, true
}

// MaybeSendContactClickNotification sends the one-shot "buyers are reaching
// out" alert once total contact clicks reach the minimum threshold.
func (o *Orchestrator) MaybeSendContactClickNotification(ctx context.Context, listingID int64) bool {
	l, contact, ok := o.eligible(ctx, listingID)
	if !ok {
		return false
	}
	if !o.prefs.ActivityEnabled(ctx, l.OwnerID) {
		return false
	}

	st, err := o.state.Get(ctx, listingID)
	if err != nil {
		o.log.Warn("read notification state failed", "listing_id", listingID, "error", err)
		return false
	}
	if st.ContactClickSent {
		return false
	}

	clicks, err := o.counters.ContactClicks(ctx, listingID)
	if err != nil {
		o.log.Warn("read contact clicks failed", "listing_id", listingID, "error", err)
		return false
	}
	if clicks < contactClickMin {
		return false
	}

	msg := ContactClickMessage(l.Title, clicks)
	if err := o.sender.Send(ctx, contact, msg.Subject, msg.HTML, msg.Text); err != nil {
		o.log.Warn("contact-click notification send failed",
			"listing_id", listingID, "error", err)
		return false
	}
	if err := o.state.MarkContactClickSent(ctx, listingID); err != nil {
		o.log.Error("commit contact-click state failed",
			"listing_id", listingID, "error", err)
	}
	o.log.Info("contact-click notification sent", "listing_id", listingID, "clicks", clicks)
	return true
}

// MaybeSendViewMilestoneNotification sends at most one milestone alert per
// call: milestones are walked in descending order and the first qualifying,
// unsent one wins. A listing that jumps several thresholds between checks
// gets the highest; a later evaluation catches the next.
func (o *Orchestrator) MaybeSendViewMilestoneNotification(ctx context.Context, listingID int64) bool {
	l, contact, ok := o.eligible(ctx, listingID)
	if !ok {
		return false
	}
	if !o.prefs.ActivityEnabled(ctx, l.OwnerID) {
		return false
	}

	st, err := o.state.Get(ctx, listingID)
	if err != nil {
		o.log.Warn("read notification state failed", "listing_id", listingID, "error", err)
		return false
	}

	views, err := o.counters.TotalViews(ctx, listingID)
	if err != nil {
		o.log.Warn("read total views failed", "listing_id", listingID, "error", err)
		return false
	}

	for _, m := range viewMilestones {
		if views < m || st.HasMilestone(m) {
			continue
		}
		msg := ViewMilestoneMessage(l.Title, views, m)
		if err := o.sender.Send(ctx, contact, msg.Subject, msg.HTML, msg.Text); err != nil {
			o.log.Warn("view-milestone notification send failed",
				"listing_id", listingID, "milestone", m, "error", err)
			return false
		}
		if err := o.state.AddViewMilestone(ctx, listingID, m); err != nil {
			o.log.Error("commit view-milestone state failed",
				"listing_id", listingID, "milestone", m, "error", err)
		}
		o.log.Info("view-milestone notification sent",
			"listing_id", listingID, "milestone", m, "views", views)
		return true
	}
	return false
}

// MaybeSendReminderNotification sends the next refresh reminder, up to the
// lifetime cap. Cadence spacing is the scan scheduler's concern; the cap
// check here is the hard ceiling.
func (o *Orchestrator) MaybeSendReminderNotification(ctx context.Context, listingID int64, refreshURL, markSoldURL string) bool {
	l, contact, ok := o.eligible(ctx, listingID)
	if !ok {
		return false
	}
	if !o.prefs.ReminderEnabled(ctx, l.OwnerID) {
		return false
	}

	st, err := o.state.Get(ctx, listingID)
	if err != nil {
		o.log.Warn("read notification state failed", "listing_id", listingID, "error", err)
		return false
	}
	if st.ReminderCount >= reminderCap {
		return false
	}

	ordinal := st.ReminderCount + 1
	msg := ReminderMessage(l.Title, ordinal, refreshURL, markSoldURL)
	if err := o.sender.Send(ctx, contact, msg.Subject, msg.HTML, msg.Text); err != nil {
		o.log.Warn("reminder notification send failed",
			"listing_id", listingID, "ordinal", ordinal, "error", err)
		return false
	}
	if err := o.state.RecordReminder(ctx, listingID, o.now()); err != nil {
		o.log.Error("commit reminder state failed",
			"listing_id", listingID, "error", err)
	}
	o.log.Info("reminder notification sent", "listing_id", listingID, "ordinal", ordinal)
	return true
}

// MaybeSendPublishNotification sends the one-shot "your listing is live"
// notice, fired from the pending→published lifecycle transition.
func (o *Orchestrator) MaybeSendPublishNotification(ctx context.Context, listingID int64) bool {
	l, contact, ok := o.eligible(ctx, listingID)
	if !ok {
		return false
	}
	if !o.prefs.ActivityEnabled(ctx, l.OwnerID) {
		return false
	}

	st, err := o.state.Get(ctx, listingID)
	if err != nil {
		o.log.Warn("read notification state failed", "listing_id", listingID, "error", err)
		return false
	}
	if st.PublishSent {
		return false
	}

	msg := PublishMessage(l.Title, o.links.Listing(listingID))
	if err := o.sender.Send(ctx, contact, msg.Subject, msg.HTML, msg.Text); err != nil {
		o.log.Warn("publish notification send failed",
			"listing_id", listingID, "error", err)
		return false
	}
	if err := o.state.MarkPublishSent(ctx, listingID); err != nil {
		o.log.Error("commit publish state failed",
			"listing_id", listingID, "error", err)
	}
	o.log.Info("publish notification sent", "listing_id", listingID)
	return true
}
