// Package index provides the domain model for the persistent file catalog.
package index

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind distinguishes indexed filesystem objects.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry is one record in the index. Path is canonical (symlinks and
// relative segments resolved) and is the unique key.
type Entry struct {
	Path       string     `json:"path"`
	Name       string     `json:"name"`
	NameLower  string     `json:"name_lower"`
	SizeBytes  int64      `json:"size_bytes"`
	ModifiedAt time.Time  `json:"modified_at"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Kind       Kind       `json:"kind"`
	Extension  string     `json:"extension,omitempty"`
	IndexedAt  time.Time  `json:"indexed_at"`
}

// NewEntry builds an entry from a canonical path and stat data, deriving
// the lower-cased name and extension.
func NewEntry(path string, size int64, modified time.Time, kind Kind) Entry {
	name := filepath.Base(path)
	return Entry{
		Path:       path,
		Name:       name,
		NameLower:  strings.ToLower(name),
		SizeBytes:  size,
		ModifiedAt: modified,
		Kind:       kind,
		Extension:  ExtensionOf(name),
		IndexedAt:  time.Now(),
	}
}

// ExtensionOf returns the lower-cased extension without the leading dot,
// or the empty string for extensionless names.
func ExtensionOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// UnderScope reports whether path equals scope or lies beneath it.
// An empty scope matches everything.
func UnderScope(path, scope string) bool {
	if scope == "" {
		return true
	}
	if path == scope {
		return true
	}
	return strings.HasPrefix(path, scope+string(filepath.Separator))
}
