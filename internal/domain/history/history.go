// Package history defines the local record of mutations this client has
// performed against the remote feed. It is an audit trail of the client's
// own actions, not a cache of remote state.
package history

import (
	"context"
	"time"
)

// Op classifies a recorded mutation.
type Op string

const (
	OpCardAdded      Op = "card_added"
	OpCardDeleted    Op = "card_deleted"
	OpCardLiked      Op = "card_liked"
	OpCardUnliked    Op = "card_unliked"
	OpProfileUpdated Op = "profile_updated"
	OpAvatarUpdated  Op = "avatar_updated"
)

// Record is one confirmed mutation. Records are written only after the
// server acknowledged the operation.
type Record struct {
	// ID is a client-generated unique identifier.
	ID string
	// At is when the mutation was confirmed (UTC).
	At time.Time
	// Op is the mutation kind.
	Op Op
	// Subject is the affected resource, typically a card ID.
	Subject string
	// Detail is a short human-readable summary, e.g. the card name.
	Detail string
}

// Store persists mutation records.
// Implementations: sqlite (default), in-memory (test).
type Store interface {
	// Append stores a record. Old records beyond the store's bound may be
	// evicted, oldest first.
	Append(ctx context.Context, rec Record) error

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases the underlying storage.
	Close() error
}
