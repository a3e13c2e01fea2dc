package notify

import (
	"context"
	"strings"
)

// placeholderSuffixes mark synthetic, undeliverable addresses assigned to
// imported or unclaimed listings. Sending to them is bounce and spam risk.
var placeholderSuffixes = []string{
	"@example.com",
	"@example.org",
	"@example.net",
	".invalid",
}

// ContactResolver decides whether an owner has a verified, deliverable
// contact address. This is the gate no notification ever bypasses.
type ContactResolver struct {
	owners OwnerSource
}

// NewContactResolver creates a resolver over an owner source.
func NewContactResolver(owners OwnerSource) *ContactResolver {
	return &ContactResolver{owners: owners}
}

// ResolveVerifiedContact returns the owner's address and true when the owner
// exists, the address is non-empty and not a placeholder, and the owner's
// verification flag is set. Otherwise ("", false).
func (r *ContactResolver) ResolveVerifiedContact(ctx context.Context, ownerID int64) (string, bool) {
	if ownerID <= 0 {
		return "", false
	}
	owner, err := r.owners.GetOwner(ctx, ownerID)
	if err != nil || owner == nil {
		return "", false
	}
	addr := strings.TrimSpace(owner.Email)
	if addr == "" || isPlaceholder(addr) {
		return "", false
	}
	if !owner.Verified {
		return "", false
	}
	return addr, true
}

// HasVerifiedContact is the boolean convenience over ResolveVerifiedContact.
func (r *ContactResolver) HasVerifiedContact(ctx context.Context, ownerID int64) bool {
	_, ok := r.ResolveVerifiedContact(ctx, ownerID)
	return ok
}

func isPlaceholder(addr string) bool {
	lower := strings.ToLower(addr)
	for _, suffix := range placeholderSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
