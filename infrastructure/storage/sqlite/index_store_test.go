package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/sqlite"
)

func newStore(t *testing.T) *sqlite.IndexStore {
	t.Helper()

	store, err := sqlite.NewIndexStore(sqlite.FileConfig(filepath.Join(t.TempDir(), "index.db")))
	if err != nil {
		t.Fatalf("NewIndexStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store *sqlite.IndexStore) {
	t.Helper()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []index.Entry{
		index.NewEntry("/data/report.pdf", 4096, base.Add(2*time.Hour), index.KindFile),
		index.NewEntry("/data/script.py", 512, base.Add(3*time.Hour), index.KindFile),
		index.NewEntry("/data/old_script.py", 512, base, index.KindFile),
		index.NewEntry("/data/sub", 0, base, index.KindDirectory),
		index.NewEntry("/data/sub/notes.txt", 64, base.Add(time.Hour), index.KindFile),
	}
	if err := store.ReplaceRoot(context.Background(), "/data", entries); err != nil {
		t.Fatalf("ReplaceRoot() error = %v", err)
	}
}

func TestIndexStore_SubstringSearch(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	seed(t, store)

	entries, err := store.Search(context.Background(), index.Query{NamePattern: "SCRIPT"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Search(SCRIPT) returned %d entries, want 2", len(entries))
	}
	// Most recently modified first.
	if entries[0].Path != "/data/script.py" || entries[1].Path != "/data/old_script.py" {
		t.Errorf("ordering = %q, %q", entries[0].Path, entries[1].Path)
	}
}

func TestIndexStore_GlobSearch(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	seed(t, store)

	entries, err := store.Search(context.Background(), index.Query{NamePattern: "*.py", Limit: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Search(*.py) returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Extension != "py" {
			t.Errorf("glob returned %q", e.Path)
		}
	}
}

func TestIndexStore_AttributeFilters(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	seed(t, store)
	ctx := context.Background()

	minSize := int64(1024)
	entries, err := store.Search(ctx, index.Query{MinSize: &minSize})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/data/report.pdf" {
		t.Errorf("Search(min_size) = %+v", entries)
	}

	entries, err = store.Search(ctx, index.Query{Extension: "txt", Scope: "/data/sub"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "/data/sub/notes.txt" {
		t.Errorf("scoped extension search = %+v", entries)
	}
}

func TestIndexStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	store, err := sqlite.NewIndexStore(sqlite.FileConfig(path))
	if err != nil {
		t.Fatalf("NewIndexStore() error = %v", err)
	}
	if err := store.ReplaceRoot(ctx, "/data", []index.Entry{
		index.NewEntry("/data/kept.txt", 7, time.Now().UTC(), index.KindFile),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := sqlite.NewIndexStore(sqlite.FileConfig(path))
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Count(ctx, "/data")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}

	roots, err := reopened.Roots(ctx)
	if err != nil {
		t.Fatalf("Roots() error = %v", err)
	}
	if len(roots) != 1 || roots[0] != "/data" {
		t.Errorf("Roots() after reopen = %v", roots)
	}
}

func TestIndexStore_RebuildKeepsPathsUnique(t *testing.T) {
	t.Parallel()

	store := newStore(t)
	seed(t, store)
	seed(t, store)

	entries, err := store.Search(context.Background(), index.Query{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.Path] {
			t.Errorf("duplicate path after rebuild: %s", e.Path)
		}
		seen[e.Path] = true
	}
	if len(entries) != 5 {
		t.Errorf("entry count after double build = %d, want 5", len(entries))
	}
}
