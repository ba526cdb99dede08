// Package memory provides in-memory storage implementations.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/fsagent/domain/index"
)

// IndexStore is an in-memory implementation of index.Store, used for
// tests and as the fallback backend.
type IndexStore struct {
	mu      sync.RWMutex
	entries map[string]index.Entry
	roots   map[string]struct{}
	closed  bool
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		entries: make(map[string]index.Entry),
		roots:   make(map[string]struct{}),
	}
}

// ReplaceRoot atomically replaces every entry under root.
func (s *IndexStore) ReplaceRoot(ctx context.Context, root string, entries []index.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return index.ErrClosed
	}

	for path := range s.entries {
		if index.UnderScope(path, root) {
			delete(s.entries, path)
		}
	}
	for _, e := range entries {
		s.entries[e.Path] = e
	}
	s.roots[root] = struct{}{}
	return nil
}

// Upsert inserts or refreshes a single entry.
func (s *IndexStore) Upsert(ctx context.Context, entry index.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return index.ErrClosed
	}
	s.entries[entry.Path] = entry
	return nil
}

// Remove deletes the entry for path if present.
func (s *IndexStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return index.ErrClosed
	}
	delete(s.entries, path)
	return nil
}

// Search returns matching entries in canonical order.
func (s *IndexStore) Search(ctx context.Context, q index.Query) ([]index.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, index.ErrClosed
	}

	var out []index.Entry
	for _, e := range s.entries {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	index.Sort(out)
	return q.Truncate(out), nil
}

// Count reports entries at or below scope.
func (s *IndexStore) Count(ctx context.Context, scope string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, index.ErrClosed
	}

	n := 0
	for path := range s.entries {
		if index.UnderScope(path, scope) {
			n++
		}
	}
	return n, nil
}

// Roots lists the roots built into the store.
func (s *IndexStore) Roots(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, index.ErrClosed
	}

	roots := make([]string, 0, len(s.roots))
	for root := range s.roots {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots, nil
}

// Close marks the store closed.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
