package index

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("index store closed")
)

// Store is the repository interface for the file catalog. The store
// exclusively owns entries; all writes go through it. Implementations must
// allow concurrent readers during a rebuild and publish each root's
// rebuild atomically: readers observe either the prior complete snapshot
// or the new one, never a partial state.
type Store interface {
	// ReplaceRoot atomically replaces every entry at or below root with
	// the given entries.
	ReplaceRoot(ctx context.Context, root string, entries []Entry) error

	// Upsert inserts or refreshes a single entry. Idempotent.
	Upsert(ctx context.Context, entry Entry) error

	// Remove deletes the entry for path if present. Idempotent.
	Remove(ctx context.Context, path string) error

	// Search returns entries matching the query in canonical order,
	// truncated at the query limit.
	Search(ctx context.Context, q Query) ([]Entry, error)

	// Count reports how many entries exist at or below scope. An empty
	// scope counts everything.
	Count(ctx context.Context, scope string) (int, error)

	// Roots lists the roots that have been built into the store.
	Roots(ctx context.Context) ([]string, error)

	// Close releases store resources.
	Close() error
}
