package listing

import (
	"testing"
	"time"
)

func TestParseMetaTime(t *testing.T) {
	want := time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC)
	got := ParseMetaTime("2026-08-20T10:30:00Z")
	if got == nil || !got.Equal(want) {
		t.Fatalf("ParseMetaTime = %v, want %v", got, want)
	}

	for _, v := range []string{"", "not-a-date", "1692528600"} {
		if got := ParseMetaTime(v); got != nil {
			t.Fatalf("ParseMetaTime(%q) = %v, want nil", v, got)
		}
	}
}
