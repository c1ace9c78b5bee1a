// Package ownership implements the optional multi-instance ownership
// registry that lets several adapter instances share one Seedr account
// without deleting each other's cloud state.
package ownership

import "context"

// Tri is a three-valued result: known-true, known-false, or unknown. Unknown
// arises whenever the registry itself cannot answer (not configured,
// unreachable) and callers must treat it as "do not delete" — fail-safe for
// shared cloud state.
type Tri int

const (
	Unknown Tri = iota
	True
	False
)

// Registry coordinates ownership claims over info-hashes across peer
// adapter instances. All operations degrade to a no-op or Unknown when
// multi-tenancy is not configured; the component never panics, and only
// ClaimOwnership and TestConnection return a Go error — the membership and
// release queries log their errors internally and fold them into Unknown.
type Registry interface {
	// ClaimOwnership adds this instance's tag to infoHash's owner set and
	// refreshes its TTL.
	ClaimOwnership(ctx context.Context, infoHash string) error

	// IsOwnedByMe reports whether this instance's tag is a member of
	// infoHash's owner set.
	IsOwnedByMe(ctx context.Context, infoHash string) Tri

	// ReleaseOwnership atomically removes this instance's tag from the
	// owner set. Returns True if this instance was the last owner (the key
	// was deleted), False if other owners remain, Unknown on registry
	// error.
	ReleaseOwnership(ctx context.Context, infoHash string) Tri

	// TestConnection is a health probe used by the Test operation.
	TestConnection(ctx context.Context) error
}
