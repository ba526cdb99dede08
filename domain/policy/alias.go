// Package policy provides path aliasing and protected path rules.
package policy

import (
	"path/filepath"
	"sort"
	"strings"
)

// AliasTable maps short names like "desktop" to root directories. It is
// static configuration, read-only after construction.
type AliasTable struct {
	roots map[string]string
	names []string
}

// NewAliasTable builds a table from alias name to root path. Names are
// matched case-insensitively; roots are made absolute.
func NewAliasTable(aliases map[string]string) *AliasTable {
	t := &AliasTable{roots: make(map[string]string, len(aliases))}
	for name, root := range aliases {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		t.roots[strings.ToLower(name)] = abs
	}
	t.names = make([]string, 0, len(t.roots))
	for name := range t.roots {
		t.names = append(t.names, name)
	}
	// Longest names first so "downloads-archive" wins over "downloads".
	sort.Slice(t.names, func(i, j int) bool {
		if len(t.names[i]) != len(t.names[j]) {
			return len(t.names[i]) > len(t.names[j])
		}
		return t.names[i] < t.names[j]
	})
	return t
}

// Root returns the root for an exact alias name.
func (t *AliasTable) Root(name string) (string, bool) {
	root, ok := t.roots[strings.ToLower(name)]
	return root, ok
}

// Names returns all alias names, longest first.
func (t *AliasTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Roots returns every configured root directory.
func (t *AliasTable) Roots() []string {
	out := make([]string, 0, len(t.roots))
	for _, root := range t.roots {
		out = append(out, root)
	}
	sort.Strings(out)
	return out
}

// Expand rewrites a leading alias segment to its root. The longest
// matching alias wins; input without a leading alias is returned
// unchanged with ok=false.
func (t *AliasTable) Expand(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, name := range t.names {
		if lower == name {
			return t.roots[name], true
		}
		for _, sep := range []string{"/", string(filepath.Separator)} {
			if strings.HasPrefix(lower, name+sep) {
				rest := trimmed[len(name)+len(sep):]
				return filepath.Join(t.roots[name], rest), true
			}
		}
	}
	return trimmed, false
}
