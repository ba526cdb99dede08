// Package indexer builds and maintains the file catalog.
package indexer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
)

// Builder populates an index store by recursive directory traversal.
type Builder struct {
	store     index.Store
	protected *policy.ProtectedPathSet
}

// NewBuilder creates a builder writing into store. Protected prefixes are
// skipped during traversal.
func NewBuilder(store index.Store, protected *policy.ProtectedPathSet) *Builder {
	return &Builder{store: store, protected: protected}
}

// Result reports the outcome of a build.
type Result struct {
	// Indexed is the number of entries published.
	Indexed int `json:"indexed"`

	// Skipped counts objects that could not be statted or were filtered
	// by protected prefixes.
	Skipped int `json:"skipped"`

	// Roots are the canonical roots that were built.
	Roots []string `json:"roots"`
}

// Build enumerates each root and replaces its entries in the store. A
// single unreadable object is counted as skipped, never failing the
// build. Cancelling the context aborts the walk and leaves the prior
// snapshot intact.
func (b *Builder) Build(ctx context.Context, roots []string) (Result, error) {
	var res Result
	for _, root := range roots {
		canonical, err := filepath.EvalSymlinks(root)
		if err != nil {
			if os.IsNotExist(err) {
				return res, fsop.ErrPathNotFound
			}
			return res, err
		}

		info, err := os.Stat(canonical)
		if err != nil || !info.IsDir() {
			return res, fsop.ErrInvalidArgument
		}

		entries, skipped, err := b.walk(ctx, canonical)
		if err != nil {
			return res, err
		}

		if err := b.store.ReplaceRoot(ctx, canonical, entries); err != nil {
			return res, err
		}

		res.Indexed += len(entries)
		res.Skipped += skipped
		res.Roots = append(res.Roots, canonical)

		logging.Info().
			Add(logging.Root(canonical)).
			Add(logging.Count(len(entries))).
			Add(logging.Skipped(skipped)).
			Msg("index root built")
	}
	return res, nil
}

// walk collects entries under root without publishing them.
func (b *Builder) walk(ctx context.Context, root string) ([]index.Entry, int, error) {
	var (
		entries []index.Entry
		skipped int
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			skipped++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if b.protected.Contains(path) {
			skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			skipped++
			return nil
		}

		entries = append(entries, EntryFromInfo(path, info))
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, skipped, nil
}

// EntryFromInfo builds an index entry from stat data for a canonical path.
func EntryFromInfo(path string, info fs.FileInfo) index.Entry {
	kind := index.KindFile
	if info.IsDir() {
		kind = index.KindDirectory
	}
	e := index.NewEntry(path, info.Size(), info.ModTime(), kind)
	if created, ok := birthTime(path); ok {
		e.CreatedAt = &created
	}
	return e
}
