package notify

import (
	"context"
	"testing"
)

func TestResolveVerifiedContact(t *testing.T) {
	owners := fakeOwners{
		1: {Email: "bob@mailbox.test", Verified: true},
		2: {Email: "bob@mailbox.test", Verified: false},
		3: {Email: "", Verified: true},
		4: {Email: "listing-77@example.com", Verified: true},
		5: {Email: "import-77@EXAMPLE.ORG", Verified: true},
		6: {Email: "ghost@placeholder.invalid", Verified: true},
		7: {Email: "  bob@mailbox.test  ", Verified: true},
	}
	r := NewContactResolver(owners)
	ctx := context.Background()

	cases := []struct {
		name    string
		ownerID int64
		want    string
		wantOK  bool
	}{
		{"verified", 1, "bob@mailbox.test", true},
		{"unverified", 2, "", false},
		{"empty address", 3, "", false},
		{"placeholder example.com", 4, "", false},
		{"placeholder example.org uppercase", 5, "", false},
		{"placeholder .invalid", 6, "", false},
		{"whitespace trimmed", 7, "bob@mailbox.test", true},
		{"unknown owner", 99, "", false},
		{"zero id", 0, "", false},
		{"negative id", -1, "", false},
	}
	for _, tc := range cases {
		got, ok := r.ResolveVerifiedContact(ctx, tc.ownerID)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tc.name, got, ok, tc.want, tc.wantOK)
		}
		if r.HasVerifiedContact(ctx, tc.ownerID) != tc.wantOK {
			t.Fatalf("%s: HasVerifiedContact disagrees with ResolveVerifiedContact", tc.name)
		}
	}
}
