// Package resolver normalizes user-supplied path fragments into canonical
// absolute paths.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/policy"
)

// Mode selects the existence requirement for resolution.
type Mode int

const (
	// ModeExisting requires the final canonical path to exist.
	ModeExisting Mode = iota

	// ModeCreate requires only the parent directory to exist; the leaf
	// may be new.
	ModeCreate
)

// Resolver expands aliases and canonicalizes paths. It performs no
// mutations, only existence checks.
type Resolver struct {
	aliases *policy.AliasTable
}

// New creates a resolver over the given alias table.
func New(aliases *policy.AliasTable) *Resolver {
	if aliases == nil {
		aliases = policy.NewAliasTable(nil)
	}
	return &Resolver{aliases: aliases}
}

// Aliases returns the underlying alias table.
func (r *Resolver) Aliases() *policy.AliasTable {
	return r.aliases
}

// Resolve expands a leading alias, makes the path absolute, and resolves
// symlinks and relative segments. In ModeExisting a missing path yields
// ErrPathNotFound; in ModeCreate only the parent must exist.
func (r *Resolver) Resolve(raw string, mode Mode) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", fsop.ErrInvalidArgument)
	}

	expanded, _ := r.aliases.Expand(trimmed)
	expanded = expandHome(expanded)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %s", fsop.ErrInvalidArgument, raw)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return canonical, nil
	}
	if !os.IsNotExist(err) {
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", fsop.ErrPermissionDenied, abs)
		}
		return "", err
	}

	if mode == ModeExisting {
		return "", fmt.Errorf("%w: %s", fsop.ErrPathNotFound, abs)
	}

	// Creation mode: canonicalize the parent, reattach the leaf.
	parent, leaf := filepath.Split(filepath.Clean(abs))
	canonicalParent, err := filepath.EvalSymlinks(filepath.Clean(parent))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: parent directory %s", fsop.ErrPathNotFound, parent)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", fsop.ErrPermissionDenied, parent)
		}
		return "", err
	}
	return filepath.Join(canonicalParent, leaf), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
