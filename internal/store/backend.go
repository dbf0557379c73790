package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// Backend is an indexed key-value store. Records are opaque JSON blobs
// addressed by namespace and id; every namespace keeps one index listing
// its ids in insertion order.
type Backend interface {
	// Get returns the record or ErrNotFound
	Get(ctx context.Context, ns, id string) ([]byte, error)
	// Put upserts a record. A new id is appended to the index; an existing
	// id keeps its position.
	Put(ctx context.Context, ns, id string, data []byte) error
	// Delete removes a record and its index entry and reports whether it existed
	Delete(ctx context.Context, ns, id string) (bool, error)
	// IDs lists the index in insertion order
	IDs(ctx context.Context, ns string) ([]string, error)
	Exists(ctx context.Context, ns, id string) (bool, error)
	Count(ctx context.Context, ns string) (int, error)
	// MarkSeeded records that ns was seeded. It returns false when the
	// marker was already set.
	MarkSeeded(ctx context.Context, ns string) (bool, error)
	// UnmarkSeeded clears the marker so a failed seed can be retried
	UnmarkSeeded(ctx context.Context, ns string) error
	Close() error
}
