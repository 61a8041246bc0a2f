package button

import (
	"context"

	"github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/query"
)

// Repository is the persistence boundary for button records.
//
// Error contract: Insert fails with a conflict error when the id already
// exists (the unique index is the authoritative uniqueness guard; the
// allocator's probe is only an optimization). Lookups fail with not-found.
// Owner-scoped mutations fail with forbidden on an ownership mismatch, and
// every operation fails with unavailable when the backing store is
// unreachable. The shared errors package defines the taxonomy.
type Repository interface {
	// Insert persists a new record. The id must already be allocated.
	Insert(ctx context.Context, b *Button) error

	// GetByID returns the record regardless of archival state; callers
	// decide whether archived rows are acceptable.
	GetByID(ctx context.Context, id string) (*Button, error)

	// Update persists the mutable fields of the aggregate, scoped to rows
	// whose owner matches ownerAddress case-insensitively.
	Update(ctx context.Context, b *Button, ownerAddress string) error

	// Archive soft-deletes the record; Unarchive restores it. Both are
	// owner-scoped.
	Archive(ctx context.Context, id, ownerAddress string) error
	Unarchive(ctx context.Context, id, ownerAddress string) error

	// HardDelete removes the row permanently. Associated images are the
	// caller's responsibility (best-effort, before the row goes away).
	HardDelete(ctx context.Context, id, ownerAddress string) error

	// ListByOwner returns one archival partition of an owner's buttons,
	// newest first, plus the exact total for that partition.
	ListByOwner(ctx context.Context, ownerAddress string, filter query.ListFilter) ([]*Button, int64, error)

	// IncrementUsage atomically bumps current_uses by one. Called only after
	// an on-chain confirmation.
	IncrementUsage(ctx context.Context, id string) error
}
