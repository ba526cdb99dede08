package resolver_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
)

func TestResolve_AliasExpansion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := resolver.New(policy.NewAliasTable(map[string]string{"desktop": dir}))

	got, err := r.Resolve("desktop/todo.txt", resolver.ModeExisting)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(dir, "todo.txt"))
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolve_MissingPathByMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "new.txt")
	r := resolver.New(nil)

	if _, err := r.Resolve(missing, resolver.ModeExisting); !errors.Is(err, fsop.ErrPathNotFound) {
		t.Errorf("ModeExisting error = %v, want ErrPathNotFound", err)
	}

	got, err := r.Resolve(missing, resolver.ModeCreate)
	if err != nil {
		t.Fatalf("ModeCreate error = %v", err)
	}
	canonicalDir, _ := filepath.EvalSymlinks(dir)
	if got != filepath.Join(canonicalDir, "new.txt") {
		t.Errorf("ModeCreate = %q", got)
	}
}

func TestResolve_CreateRequiresParent(t *testing.T) {
	t.Parallel()

	r := resolver.New(nil)
	missing := filepath.Join(t.TempDir(), "absent", "new.txt")

	if _, err := r.Resolve(missing, resolver.ModeCreate); !errors.Is(err, fsop.ErrPathNotFound) {
		t.Errorf("ModeCreate with missing parent error = %v, want ErrPathNotFound", err)
	}
}

func TestResolve_EmptyPath(t *testing.T) {
	t.Parallel()

	r := resolver.New(nil)
	for _, input := range []string{"", "   "} {
		if _, err := r.Resolve(input, resolver.ModeExisting); !errors.Is(err, fsop.ErrInvalidArgument) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidArgument", input, err)
		}
	}
}

func TestResolve_CanonicalizesSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.MkdirAll(target, 0o750); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := resolver.New(nil).Resolve(link, resolver.ModeExisting)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if got != want {
		t.Errorf("Resolve(symlink) = %q, want %q", got, want)
	}
}

func TestResolve_RelativeSegments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}

	got, err := resolver.New(nil).Resolve(filepath.Join(dir, "sub", "..", "sub"), resolver.ModeExisting)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(sub)
	if got != want {
		t.Errorf("Resolve(dot-dot) = %q, want %q", got, want)
	}
}
