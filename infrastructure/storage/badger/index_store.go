package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/felixgeelhaar/fsagent/domain/index"
)

const (
	filePrefix = "file:"
	rootPrefix = "root:"
)

// IndexStore is a BadgerDB-backed implementation of index.Store. Each
// root rebuild runs in a single transaction so readers observe either
// the prior snapshot or the new one.
type IndexStore struct {
	db *badger.DB
}

// NewIndexStore creates a new BadgerDB index store with the given
// configuration.
func NewIndexStore(cfg Config, opts ...Option) (*IndexStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &IndexStore{db: db}, nil
}

func fileKey(path string) []byte {
	return []byte(filePrefix + path)
}

// ReplaceRoot atomically replaces every entry under root.
func (s *IndexStore) ReplaceRoot(ctx context.Context, root string, entries []index.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Seek([]byte(filePrefix)); it.ValidForPrefix([]byte(filePrefix)); it.Next() {
			key := it.Item().KeyCopy(nil)
			path := strings.TrimPrefix(string(key), filePrefix)
			if index.UnderScope(path, root) {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, e := range entries {
			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if err := txn.Set(fileKey(e.Path), data); err != nil {
				return err
			}
		}

		var builtAt [8]byte
		binary.BigEndian.PutUint64(builtAt[:], uint64(time.Now().UnixNano()))
		return txn.Set([]byte(rootPrefix+root), builtAt[:])
	})
}

// Upsert inserts or refreshes a single entry.
func (s *IndexStore) Upsert(ctx context.Context, e index.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(fileKey(e.Path), data)
	})
}

// Remove deletes the entry for path if present.
func (s *IndexStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(fileKey(path))
	})
}

// Search scans entries, filters with the query, and returns the
// canonical ordering.
func (s *IndexStore) Search(ctx context.Context, q index.Query) ([]index.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []index.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(filePrefix)
		if q.Scope != "" {
			prefix = fileKey(q.Scope)
		}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e index.Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return err
			}
			if q.Match(e) {
				out = append(out, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	index.Sort(out)
	return q.Truncate(out), nil
}

// Count reports entries at or below scope.
func (s *IndexStore) Count(ctx context.Context, scope string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(filePrefix)
		if scope != "" {
			prefix = fileKey(scope)
		}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			path := strings.TrimPrefix(string(it.Item().Key()), filePrefix)
			if index.UnderScope(path, scope) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Roots lists the roots built into the store.
func (s *IndexStore) Roots(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var roots []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(rootPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			roots = append(roots, strings.TrimPrefix(string(it.Item().Key()), rootPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(roots)
	return roots, nil
}

// Close releases the database.
func (s *IndexStore) Close() error {
	return s.db.Close()
}
