package executor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/executor"
)

func newExecutor(protected ...string) *executor.Executor {
	return executor.New(executor.Config{
		Protected:    policy.NewProtectedPathSet(protected),
		MaxReadBytes: 1024,
	})
}

func TestCreateReadAppendRoundTrip(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.txt")

	if _, err := e.Create(ctx, path, "X", false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := e.Read(ctx, path, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Content != "X" {
		t.Errorf("Read() content = %q, want %q", got.Content, "X")
	}

	if _, err := e.Append(ctx, path, "Y"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	got, err = e.Read(ctx, path, 0)
	if err != nil {
		t.Fatalf("Read() after append error = %v", err)
	}
	if got.Content != "XY" {
		t.Errorf("Read() after append = %q, want %q", got.Content, "XY")
	}
}

func TestCreate_ExistingWithoutOverwrite(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.txt")

	if _, err := e.Create(ctx, path, "first", false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := e.Create(ctx, path, "second", false); !errors.Is(err, fsop.ErrAlreadyExists) {
		t.Errorf("Create(existing) error = %v, want ErrAlreadyExists", err)
	}

	got, _ := e.Read(ctx, path, 0)
	if got.Content != "first" {
		t.Errorf("content changed to %q after rejected create", got.Content)
	}
}

func TestRead_FileTooLarge(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "big.txt")

	if err := os.WriteFile(path, make([]byte, 2048), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Read(ctx, path, 0); !errors.Is(err, fsop.ErrFileTooLarge) {
		t.Errorf("Read(oversize) error = %v, want ErrFileTooLarge", err)
	}
}

func TestRead_Directory(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	if _, err := e.Read(context.Background(), t.TempDir(), 0); !errors.Is(err, fsop.ErrInvalidArgument) {
		t.Errorf("Read(dir) error = %v, want ErrInvalidArgument", err)
	}
}

func TestProtectedPathsRejectMutation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := newExecutor(dir)
	ctx := context.Background()
	target := filepath.Join(dir, "guarded.txt")

	if err := os.WriteFile(target, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	mutations := map[string]func() error{
		"create": func() error { _, err := e.Create(ctx, target, "x", false); return err },
		"write":  func() error { _, err := e.Write(ctx, target, "x"); return err },
		"append": func() error { _, err := e.Append(ctx, target, "x"); return err },
		"delete": func() error { _, err := e.Delete(ctx, target, false); return err },
		"move src": func() error {
			_, err := e.Move(ctx, target, filepath.Join(t.TempDir(), "out.txt"))
			return err
		},
	}

	for name, op := range mutations {
		if err := op(); !errors.Is(err, fsop.ErrProtectedPath) {
			t.Errorf("%s error = %v, want ErrProtectedPath", name, err)
		}
	}

	data, err := os.ReadFile(target)
	if err != nil || string(data) != "keep" {
		t.Errorf("protected file changed: content %q, err %v", data, err)
	}
}

func TestDelete_DirectoryRails(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "full")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o750); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Delete(ctx, dir, false); !errors.Is(err, fsop.ErrInvalidArgument) {
		t.Fatalf("Delete(non-empty) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal("directory removed despite rejected delete")
	}

	res, err := e.Delete(ctx, dir, true)
	if err != nil {
		t.Fatalf("Delete(recursive) error = %v", err)
	}
	if !res.WasDir {
		t.Error("Delete() did not report a directory")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory still present after recursive delete")
	}
}

func TestMove_SameFilesystem(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "nested", "b.txt")

	if err := os.WriteFile(src, []byte("payload"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := e.Move(ctx, src, dst)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if res.CopyUsed {
		t.Error("same-filesystem move reported a copy")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still present after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Errorf("destination content = %q, err %v", data, err)
	}
}

func TestStat_Metadata(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	meta, err := e.Stat(ctx, path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if meta.SizeBytes != 5 || meta.Extension != "md" || !meta.Permissions.Readable {
		t.Errorf("Stat() = %+v", meta)
	}

	dirMeta, err := e.Stat(ctx, dir)
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if dirMeta.Dir == nil || dirMeta.Dir.Files != 1 {
		t.Errorf("Stat(dir).Dir = %+v", dirMeta.Dir)
	}

	if _, err := e.Stat(ctx, filepath.Join(dir, "gone")); !errors.Is(err, fsop.ErrPathNotFound) {
		t.Errorf("Stat(missing) error = %v, want ErrPathNotFound", err)
	}
}

func TestList_HiddenAndSorting(t *testing.T) {
	t.Parallel()

	e := newExecutor()
	ctx := context.Background()
	dir := t.TempDir()

	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := e.List(ctx, dir, false, executor.SortByName)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 || entries[0].Name != "a.txt" || entries[1].Name != "b.txt" {
		t.Errorf("List() = %+v", entries)
	}

	withHidden, err := e.List(ctx, dir, true, executor.SortByName)
	if err != nil {
		t.Fatalf("List(hidden) error = %v", err)
	}
	if len(withHidden) != 3 {
		t.Errorf("List(hidden) returned %d entries, want 3", len(withHidden))
	}
}
