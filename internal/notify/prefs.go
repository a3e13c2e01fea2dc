package notify

import (
	"context"
	"log/slog"
	"strconv"
)

// Preference keys stored in owner_prefs.
const (
	prefActivity = "notify_activity"
	prefReminder = "notify_reminder"
)

// PrefStore reads and writes raw per-owner preference values. Get returns
// "" when no value is stored.
type PrefStore interface {
	Get(ctx context.Context, ownerID int64, key string) (string, error)
	Set(ctx context.Context, ownerID int64, key, value string) error
}

// Prefs is the preference gate. Absent or unparseable toggles count as
// enabled (fail-open): owners who never touch settings still get alerts.
type Prefs struct {
	store PrefStore
	log   *slog.Logger
}

// NewPrefs creates the preference gate over a raw store.
func NewPrefs(store PrefStore, logger *slog.Logger) *Prefs {
	return &Prefs{store: store, log: logger}
}

// ActivityEnabled reports whether milestone/click alerts are enabled.
func (p *Prefs) ActivityEnabled(ctx context.Context, ownerID int64) bool {
	return p.enabled(ctx, ownerID, prefActivity)
}

// ReminderEnabled reports whether refresh reminder emails are enabled.
func (p *Prefs) ReminderEnabled(ctx context.Context, ownerID int64) bool {
	return p.enabled(ctx, ownerID, prefReminder)
}

// SetActivityEnabled persists the activity toggle.
func (p *Prefs) SetActivityEnabled(ctx context.Context, ownerID int64, enabled bool) error {
	return p.store.Set(ctx, ownerID, prefActivity, strconv.FormatBool(enabled))
}

// SetReminderEnabled persists the reminder toggle.
func (p *Prefs) SetReminderEnabled(ctx context.Context, ownerID int64, enabled bool) error {
	return p.store.Set(ctx, ownerID, prefReminder, strconv.FormatBool(enabled))
}

func (p *Prefs) enabled(ctx context.Context, ownerID int64, key string) bool {
	v, err := p.store.Get(ctx, ownerID, key)
	if err != nil {
		p.log.Warn("preference read failed, defaulting to enabled",
			"owner_id", ownerID, "key", key, "error", err)
		return true
	}
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}
