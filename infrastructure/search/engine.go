// Package search evaluates queries against the index store, falling back
// to a bounded live walk for unindexed scopes.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
)

// errWalkBudget marks a live walk stopped at its node bound.
var errWalkBudget = errors.New("walk budget exhausted")

// Engine answers search queries. Results are best-effort snapshots;
// callers needing guaranteed-fresh state re-stat before acting.
type Engine struct {
	store        index.Store
	protected    *policy.ProtectedPathSet
	maxWalkNodes int
}

// New creates an engine over store. maxWalkNodes bounds the live-walk
// fallback.
func New(store index.Store, protected *policy.ProtectedPathSet, maxWalkNodes int) *Engine {
	if maxWalkNodes <= 0 {
		maxWalkNodes = 50000
	}
	return &Engine{store: store, protected: protected, maxWalkNodes: maxWalkNodes}
}

// Search evaluates the query against the index when the scope is
// indexed, otherwise walks the scope live without persisting results.
func (e *Engine) Search(ctx context.Context, q index.Query) ([]index.Entry, error) {
	if e.store != nil {
		n, err := e.store.Count(ctx, q.Scope)
		if err == nil && n > 0 {
			entries, err := e.store.Search(ctx, q)
			if err == nil {
				return entries, nil
			}
			logging.Warn().Add(logging.Scope(q.Scope)).Add(logging.Err(err)).Msg("index search failed, walking live")
		} else if err != nil {
			logging.Warn().Add(logging.Scope(q.Scope)).Add(logging.Err(err)).Msg("index count failed, walking live")
		}
	}
	if q.Scope == "" {
		return nil, fmt.Errorf("%w: no index built and no scope to walk", fsop.ErrIndexUnavailable)
	}
	return e.walk(ctx, q)
}

// walk is the bounded live traversal fallback.
func (e *Engine) walk(ctx context.Context, q index.Query) ([]index.Entry, error) {
	var (
		entries []index.Entry
		visited int
	)

	err := filepath.WalkDir(q.Scope, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == q.Scope {
			return nil
		}
		if e.protected.Contains(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		visited++
		if visited > e.maxWalkNodes {
			return errWalkBudget
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		entry := indexer.EntryFromInfo(path, info)
		if q.Match(entry) {
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errWalkBudget) {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", fsop.ErrPathNotFound, q.Scope)
		}
		return nil, err
	}

	index.Sort(entries)
	return q.Truncate(entries), nil
}

// FindLatest returns the most recently modified entry matching pattern
// under scope. Ties break by longest common prefix with the pattern,
// then smallest path, so the result is deterministic.
func (e *Engine) FindLatest(ctx context.Context, pattern, scope string) (index.Entry, error) {
	matches, err := e.Search(ctx, index.Query{NamePattern: pattern, Scope: scope})
	if err != nil {
		return index.Entry{}, err
	}
	if len(matches) == 0 {
		return index.Entry{}, fmt.Errorf("%w: no file matching %q", fsop.ErrPathNotFound, pattern)
	}

	best := matches[0]
	for _, candidate := range matches[1:] {
		if candidate.ModifiedAt.Before(best.ModifiedAt) {
			// Sorted by modified descending; the rest are older.
			break
		}
		if latestLess(pattern, best, candidate) {
			best = candidate
		}
	}
	return best, nil
}

// latestLess reports whether candidate beats best under the tie-break
// rules for entries with equal modification times.
func latestLess(pattern string, best, candidate index.Entry) bool {
	bp := commonPrefixLen(strings.ToLower(pattern), best.NameLower)
	cp := commonPrefixLen(strings.ToLower(pattern), candidate.NameLower)
	if cp != bp {
		return cp > bp
	}
	return candidate.Path < best.Path
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
