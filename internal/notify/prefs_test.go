package notify

import (
	"context"
	"fmt"
	"testing"
)

type errPrefStore struct{}

func (errPrefStore) Get(context.Context, int64, string) (string, error) {
	return "", fmt.Errorf("db down")
}

func (errPrefStore) Set(context.Context, int64, string, string) error {
	return fmt.Errorf("db down")
}

func TestPrefsFailOpen(t *testing.T) {
	ctx := context.Background()
	store := fakePrefStore{}
	p := NewPrefs(store, discardLogger())

	// Nothing stored: both toggles read as enabled.
	if !p.ActivityEnabled(ctx, 1) || !p.ReminderEnabled(ctx, 1) {
		t.Fatalf("expected absent toggles to read as enabled")
	}

	// Empty and garbage values also read as enabled.
	store["1/"+prefActivity] = ""
	store["1/"+prefReminder] = "banana"
	if !p.ActivityEnabled(ctx, 1) || !p.ReminderEnabled(ctx, 1) {
		t.Fatalf("expected empty/garbage toggles to read as enabled")
	}

	// A store error also fails open.
	pErr := NewPrefs(errPrefStore{}, discardLogger())
	if !pErr.ActivityEnabled(ctx, 1) {
		t.Fatalf("expected store error to fail open")
	}
}

func TestPrefsExplicitValues(t *testing.T) {
	ctx := context.Background()
	store := fakePrefStore{}
	p := NewPrefs(store, discardLogger())

	for _, v := range []string{"0", "false"} {
		store["2/"+prefActivity] = v
		if p.ActivityEnabled(ctx, 2) {
			t.Fatalf("value %q should disable", v)
		}
	}
	for _, v := range []string{"1", "true"} {
		store["2/"+prefActivity] = v
		if !p.ActivityEnabled(ctx, 2) {
			t.Fatalf("value %q should enable", v)
		}
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := fakePrefStore{}
	p := NewPrefs(store, discardLogger())

	if err := p.SetActivityEnabled(ctx, 3, false); err != nil {
		t.Fatalf("SetActivityEnabled: %v", err)
	}
	if p.ActivityEnabled(ctx, 3) {
		t.Fatalf("expected activity disabled after set")
	}
	// The other toggle is untouched.
	if !p.ReminderEnabled(ctx, 3) {
		t.Fatalf("reminder toggle should still be enabled")
	}

	if err := p.SetActivityEnabled(ctx, 3, true); err != nil {
		t.Fatalf("SetActivityEnabled: %v", err)
	}
	if !p.ActivityEnabled(ctx, 3) {
		t.Fatalf("expected activity enabled after re-set")
	}
}
