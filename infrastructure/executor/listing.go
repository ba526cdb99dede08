package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
)

// ListEntry is one immediate child of a listed directory.
type ListEntry struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Kind       index.Kind `json:"kind"`
	SizeBytes  int64      `json:"size_bytes"`
	SizeHuman  string     `json:"size_human,omitempty"`
	ModifiedAt string     `json:"modified_at"`
	Extension  string     `json:"extension,omitempty"`
}

// ListSort selects the ordering of a directory listing.
type ListSort string

const (
	SortByName     ListSort = "name"
	SortBySize     ListSort = "size"
	SortByModified ListSort = "modified"
	SortByKind     ListSort = "kind"
)

// List returns the immediate children of a directory. Hidden entries are
// skipped unless includeHidden is set; unreadable children are skipped
// silently.
func (e *Executor) List(ctx context.Context, path string, includeHidden bool, sortBy ListSort) ([]ListEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, wrapOSError(err, path)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", fsop.ErrInvalidArgument, path)
	}

	children, err := os.ReadDir(path)
	if err != nil {
		return nil, wrapOSError(err, path)
	}

	entries := make([]ListEntry, 0, len(children))
	for _, child := range children {
		if !includeHidden && strings.HasPrefix(child.Name(), ".") {
			continue
		}
		ci, err := child.Info()
		if err != nil {
			continue
		}

		entry := ListEntry{
			Name:       child.Name(),
			Path:       filepath.Join(path, child.Name()),
			Kind:       index.KindFile,
			ModifiedAt: ci.ModTime().Format(time.RFC3339),
		}
		if child.IsDir() {
			entry.Kind = index.KindDirectory
		} else {
			entry.SizeBytes = ci.Size()
			entry.SizeHuman = fsop.FormatSize(ci.Size())
			entry.Extension = index.ExtensionOf(child.Name())
		}
		entries = append(entries, entry)
	}

	sortListing(entries, sortBy)
	return entries, nil
}

func sortListing(entries []ListEntry, by ListSort) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch by {
		case SortBySize:
			if a.SizeBytes != b.SizeBytes {
				return a.SizeBytes < b.SizeBytes
			}
		case SortByModified:
			if a.ModifiedAt != b.ModifiedAt {
				return a.ModifiedAt < b.ModifiedAt
			}
		case SortByKind:
			if a.Kind != b.Kind {
				return a.Kind == index.KindDirectory
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
