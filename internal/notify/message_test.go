package notify

import (
	"strings"
	"testing"
)

func TestContactClickMessage(t *testing.T) {
	m := ContactClickMessage("Vintage road bike", 5)
	if !strings.Contains(m.Subject, "Vintage road bike") {
		t.Fatalf("subject missing title: %q", m.Subject)
	}
	if !strings.Contains(m.Text, "5 contact clicks") {
		t.Fatalf("text missing click count: %q", m.Text)
	}
	if !strings.Contains(m.HTML, "<strong>5</strong>") {
		t.Fatalf("html missing click count: %q", m.HTML)
	}
}

func TestViewMilestoneMessage(t *testing.T) {
	m := ViewMilestoneMessage("Garden shed", 57, 50)
	if !strings.Contains(m.Subject, "passed 50 views") {
		t.Fatalf("subject missing milestone: %q", m.Subject)
	}
	if !strings.Contains(m.Text, "viewed 57 times") {
		t.Fatalf("text missing view count: %q", m.Text)
	}
}

func TestReminderMessageEmbedsActionLinks(t *testing.T) {
	refresh := "https://market.test/listings/9/refresh"
	sold := "https://market.test/listings/9/mark-sold"
	m := ReminderMessage("Garden shed", 2, refresh, sold)

	if !strings.Contains(m.HTML, refresh) || !strings.Contains(m.HTML, sold) {
		t.Fatalf("html missing action links: %q", m.HTML)
	}
	if !strings.Contains(m.Text, refresh) || !strings.Contains(m.Text, sold) {
		t.Fatalf("text missing action links: %q", m.Text)
	}
	if !strings.Contains(m.Text, "reminder 2 of 3") {
		t.Fatalf("text missing ordinal: %q", m.Text)
	}
}

func TestPublishMessage(t *testing.T) {
	m := PublishMessage("Garden shed", "https://market.test/listings/9")
	if !strings.Contains(m.Subject, "now live") {
		t.Fatalf("unexpected subject: %q", m.Subject)
	}
	if !strings.Contains(m.HTML, "https://market.test/listings/9") {
		t.Fatalf("html missing listing link: %q", m.HTML)
	}
}

func TestMessageHTMLEscapesTitle(t *testing.T) {
	m := ContactClickMessage(`Bike <script>"deal"</script>`, 3)
	if strings.Contains(m.HTML, "<script>") {
		t.Fatalf("title not escaped in html: %q", m.HTML)
	}
	// The plain-text variant keeps the raw title.
	if !strings.Contains(m.Text, "<script>") {
		t.Fatalf("text variant should not be escaped: %q", m.Text)
	}
}

func TestLinks(t *testing.T) {
	l := Links{Base: "https://market.test"}
	if got := l.Refresh(42); got != "https://market.test/listings/42/refresh" {
		t.Fatalf("Refresh = %q", got)
	}
	if got := l.MarkSold(42); got != "https://market.test/listings/42/mark-sold" {
		t.Fatalf("MarkSold = %q", got)
	}
	if got := l.Listing(42); got != "https://market.test/listings/42" {
		t.Fatalf("Listing = %q", got)
	}
}
