package indexer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/memory"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBuild_IndexesTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":       "one",
		"sub/b.txt":   "two",
		"sub/c.md":    "three",
		"deep/d/e.go": "four",
	})

	store := memory.NewIndexStore()
	builder := indexer.NewBuilder(store, nil)

	res, err := builder.Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// 4 files plus 3 directories.
	if res.Indexed != 7 {
		t.Errorf("Indexed = %d, want 7", res.Indexed)
	}
	if res.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", res.Skipped)
	}

	entries, err := store.Search(context.Background(), index.Query{Extension: "txt"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("indexed txt files = %d, want 2", len(entries))
	}
}

func TestBuild_SkipsProtectedSubtrees(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"visible.txt":       "x",
		"vault/secret.txt":  "x",
		"vault/more/s2.txt": "x",
	})

	protected := policy.NewProtectedPathSet([]string{filepath.Join(root, "vault")})
	store := memory.NewIndexStore()

	res, err := indexer.NewBuilder(store, protected).Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Skipped == 0 {
		t.Error("protected subtree not counted as skipped")
	}

	entries, err := store.Search(context.Background(), index.Query{NamePattern: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("protected entries were indexed: %+v", entries)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	t.Parallel()

	store := memory.NewIndexStore()
	_, err := indexer.NewBuilder(store, nil).Build(context.Background(),
		[]string{filepath.Join(t.TempDir(), "absent")})
	if !errors.Is(err, fsop.ErrPathNotFound) {
		t.Errorf("Build(missing root) error = %v, want ErrPathNotFound", err)
	}
}

func TestBuild_FileRootRejected(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := indexer.NewBuilder(memory.NewIndexStore(), nil).Build(context.Background(), []string{file})
	if !errors.Is(err, fsop.ErrInvalidArgument) {
		t.Errorf("Build(file root) error = %v, want ErrInvalidArgument", err)
	}
}

func TestBuild_CancelledContextLeavesPriorSnapshot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x"})

	store := memory.NewIndexStore()
	builder := indexer.NewBuilder(store, nil)

	if _, err := builder.Build(context.Background(), []string{root}); err != nil {
		t.Fatal(err)
	}
	before, _ := store.Count(context.Background(), root)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := builder.Build(cancelled, []string{root}); err == nil {
		t.Fatal("Build() with cancelled context succeeded")
	}

	after, _ := store.Count(context.Background(), root)
	if after != before {
		t.Errorf("count changed %d -> %d after aborted build", before, after)
	}
}
