package scan

import (
	"testing"
	"time"

	"github.com/oddmarket/listing-notify/internal/notify"
)

func ts(t time.Time) *time.Time { return &t }

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	week := notify.ReminderInterval

	cases := []struct {
		name string
		c    Candidate
		want bool
	}{
		{
			"stale listing, never reminded",
			Candidate{CreatedAt: now.Add(-30 * 24 * time.Hour), UpdatedAt: now.Add(-10 * 24 * time.Hour)},
			true,
		},
		{
			"published 8 days ago, no reminder",
			Candidate{
				CreatedAt:   now.Add(-9 * 24 * time.Hour),
				UpdatedAt:   now.Add(-9 * 24 * time.Hour),
				PublishedAt: ts(now.Add(-8 * 24 * time.Hour)),
			},
			true,
		},
		{
			"reminded yesterday",
			Candidate{
				CreatedAt:      now.Add(-30 * 24 * time.Hour),
				UpdatedAt:      now.Add(-30 * 24 * time.Hour),
				LastReminderAt: ts(now.Add(-24 * time.Hour)),
			},
			false,
		},
		{
			"refreshed 2 days ago overrides old reminder",
			Candidate{
				CreatedAt:      now.Add(-60 * 24 * time.Hour),
				UpdatedAt:      now.Add(-60 * 24 * time.Hour),
				RefreshedAt:    ts(now.Add(-2 * 24 * time.Hour)),
				LastReminderAt: ts(now.Add(-20 * 24 * time.Hour)),
			},
			false,
		},
		{
			"modified recently",
			Candidate{
				CreatedAt: now.Add(-30 * 24 * time.Hour),
				UpdatedAt: now.Add(-time.Hour),
			},
			false,
		},
		{
			"exactly at the interval boundary",
			Candidate{
				CreatedAt: now.Add(-week),
				UpdatedAt: now.Add(-week),
			},
			true,
		},
		{
			"no temporal anchor at all",
			Candidate{},
			false,
		},
		{
			"creation-time fallback when no activity dates",
			Candidate{CreatedAt: now.Add(-8 * 24 * time.Hour)},
			true,
		},
	}

	for _, tc := range cases {
		if got := dueForReminder(tc.c, now, week); got != tc.want {
			t.Fatalf("%s: dueForReminder = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDueForReminderSameDayRerun(t *testing.T) {
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	c := Candidate{
		CreatedAt: now.Add(-30 * 24 * time.Hour),
		UpdatedAt: now.Add(-30 * 24 * time.Hour),
	}
	if !dueForReminder(c, now, notify.ReminderInterval) {
		t.Fatalf("expected stale listing to be due")
	}

	// After a reminder is recorded, re-running the scan the same day gates.
	c.LastReminderAt = ts(now)
	if dueForReminder(c, now.Add(2*time.Hour), notify.ReminderInterval) {
		t.Fatalf("expected same-day rerun to be gated")
	}
}

func TestResultSummary(t *testing.T) {
	r := Result{CandidatesFound: 10, Gated: 6, Sent: 3, Skipped: 1, Duration: 42 * time.Millisecond}
	want := "found=10 gated=6 sent=3 skipped=1 dur=42ms"
	if got := r.Summary(); got != want {
		t.Fatalf("Summary = %q, want %q", got, want)
	}
}
