package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/memory"
)

func TestIndexStore_ReplaceRootIsSnapshot(t *testing.T) {
	t.Parallel()

	store := memory.NewIndexStore()
	ctx := context.Background()
	now := time.Now()

	first := []index.Entry{
		index.NewEntry("/data/a.txt", 1, now, index.KindFile),
		index.NewEntry("/data/b.txt", 2, now, index.KindFile),
	}
	if err := store.ReplaceRoot(ctx, "/data", first); err != nil {
		t.Fatalf("ReplaceRoot() error = %v", err)
	}

	// A rebuild drops entries that vanished and keeps paths unique.
	second := []index.Entry{
		index.NewEntry("/data/a.txt", 10, now, index.KindFile),
		index.NewEntry("/data/c.txt", 3, now, index.KindFile),
	}
	if err := store.ReplaceRoot(ctx, "/data", second); err != nil {
		t.Fatalf("ReplaceRoot() rebuild error = %v", err)
	}

	entries, err := store.Search(ctx, index.Query{Scope: "/data"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Search() returned %d entries, want 2", len(entries))
	}
	seen := map[string]int64{}
	for _, e := range entries {
		seen[e.Path] = e.SizeBytes
	}
	if seen["/data/a.txt"] != 10 || seen["/data/c.txt"] != 3 {
		t.Errorf("rebuilt entries = %v", seen)
	}
}

func TestIndexStore_RebuildOfOneRootLeavesOthers(t *testing.T) {
	t.Parallel()

	store := memory.NewIndexStore()
	ctx := context.Background()
	now := time.Now()

	if err := store.ReplaceRoot(ctx, "/a", []index.Entry{
		index.NewEntry("/a/one.txt", 1, now, index.KindFile),
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceRoot(ctx, "/b", []index.Entry{
		index.NewEntry("/b/two.txt", 1, now, index.KindFile),
	}); err != nil {
		t.Fatal(err)
	}

	if err := store.ReplaceRoot(ctx, "/a", nil); err != nil {
		t.Fatal(err)
	}

	n, err := store.Count(ctx, "/b")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count(/b) = %d after rebuilding /a, want 1", n)
	}

	roots, err := store.Roots(ctx)
	if err != nil {
		t.Fatalf("Roots() error = %v", err)
	}
	if len(roots) != 2 {
		t.Errorf("Roots() = %v, want both roots", roots)
	}
}

func TestIndexStore_UpsertRemove(t *testing.T) {
	t.Parallel()

	store := memory.NewIndexStore()
	ctx := context.Background()
	e := index.NewEntry("/data/x.txt", 1, time.Now(), index.KindFile)

	// Upsert is idempotent.
	for i := 0; i < 2; i++ {
		if err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}
	if n, _ := store.Count(ctx, ""); n != 1 {
		t.Errorf("Count() = %d after double upsert, want 1", n)
	}

	// So is Remove.
	for i := 0; i < 2; i++ {
		if err := store.Remove(ctx, e.Path); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
	}
	if n, _ := store.Count(ctx, ""); n != 0 {
		t.Errorf("Count() = %d after remove, want 0", n)
	}
}

func TestIndexStore_Closed(t *testing.T) {
	t.Parallel()

	store := memory.NewIndexStore()
	ctx := context.Background()
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := store.Search(ctx, index.Query{}); !errors.Is(err, index.ErrClosed) {
		t.Errorf("Search() on closed store error = %v, want ErrClosed", err)
	}
	if err := store.Upsert(ctx, index.Entry{Path: "/x"}); !errors.Is(err, index.ErrClosed) {
		t.Errorf("Upsert() on closed store error = %v, want ErrClosed", err)
	}
}
