package index

import (
	"path"
	"sort"
	"strings"
	"time"
)

// Query describes a conjunctive filter over index entries. Zero-valued
// fields impose no constraint; size and time bounds are inclusive.
type Query struct {
	// NamePattern matches the base name: glob semantics when it contains
	// metacharacters, case-insensitive substring otherwise.
	NamePattern string

	// Extension filters on the derived extension (no leading dot).
	Extension string

	MinSize *int64
	MaxSize *int64

	ModifiedAfter  *time.Time
	ModifiedBefore *time.Time

	// Scope restricts results to entries at or below this canonical path.
	Scope string

	// Limit truncates the result set; zero means no truncation.
	Limit int
}

// HasGlob reports whether the pattern uses glob metacharacters.
func HasGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// MatchName applies the query pattern semantics to a base name.
func MatchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	lower := strings.ToLower(name)
	if HasGlob(pattern) {
		ok, err := path.Match(strings.ToLower(pattern), lower)
		return err == nil && ok
	}
	return strings.Contains(lower, strings.ToLower(pattern))
}

// Match reports whether the entry passes every supplied filter.
func (q Query) Match(e Entry) bool {
	if !UnderScope(e.Path, q.Scope) {
		return false
	}
	if !MatchName(q.NamePattern, e.Name) {
		return false
	}
	if q.Extension != "" && e.Extension != strings.ToLower(strings.TrimPrefix(q.Extension, ".")) {
		return false
	}
	if q.MinSize != nil && e.SizeBytes < *q.MinSize {
		return false
	}
	if q.MaxSize != nil && e.SizeBytes > *q.MaxSize {
		return false
	}
	if q.ModifiedAfter != nil && e.ModifiedAt.Before(*q.ModifiedAfter) {
		return false
	}
	if q.ModifiedBefore != nil && e.ModifiedAt.After(*q.ModifiedBefore) {
		return false
	}
	return true
}

// Less defines the canonical result ordering: modified time descending,
// then name ascending, then path ascending.
func Less(a, b Entry) bool {
	if !a.ModifiedAt.Equal(b.ModifiedAt) {
		return a.ModifiedAt.After(b.ModifiedAt)
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Path < b.Path
}

// Sort orders entries canonically in place.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Truncate applies the query limit to a sorted result set.
func (q Query) Truncate(entries []Entry) []Entry {
	if q.Limit > 0 && len(entries) > q.Limit {
		return entries[:q.Limit]
	}
	return entries
}
