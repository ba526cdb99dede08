package policy

import (
	"path/filepath"
	"strings"
)

// ProtectedPathSet is a set of path prefixes that mutating operations must
// never touch. Loaded once at startup, read-only afterwards.
type ProtectedPathSet struct {
	prefixes []string
}

// NewProtectedPathSet builds a set from configured prefixes. Prefixes are
// made absolute and cleaned; empty entries are dropped.
func NewProtectedPathSet(prefixes []string) *ProtectedPathSet {
	s := &ProtectedPathSet{}
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		s.prefixes = append(s.prefixes, filepath.Clean(abs))
	}
	return s
}

// Contains reports whether path equals a protected prefix or lies beneath
// one. The path must already be canonical.
func (s *ProtectedPathSet) Contains(path string) bool {
	if s == nil {
		return false
	}
	path = filepath.Clean(path)
	for _, prefix := range s.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Prefixes returns the configured prefixes.
func (s *ProtectedPathSet) Prefixes() []string {
	out := make([]string, len(s.prefixes))
	copy(out, s.prefixes)
	return out
}
