package executor

import (
	"context"
	"os"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
)

// PermissionSummary is a platform-neutral coarse access classification.
type PermissionSummary struct {
	Readable   bool `json:"readable"`
	Writable   bool `json:"writable"`
	Executable bool `json:"executable"`
}

// DirStats summarizes the immediate children of a directory.
type DirStats struct {
	Total          int `json:"total"`
	Files          int `json:"files"`
	Subdirectories int `json:"subdirectories"`
}

// Metadata describes a filesystem object at call time.
type Metadata struct {
	Path        string            `json:"path"`
	Name        string            `json:"name"`
	SizeBytes   int64             `json:"size_bytes"`
	SizeHuman   string            `json:"size_human"`
	ModifiedAt  time.Time         `json:"modified_at"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	Kind        index.Kind        `json:"kind"`
	Extension   string            `json:"extension,omitempty"`
	Permissions PermissionSummary `json:"permissions"`
	Dir         *DirStats         `json:"dir,omitempty"`
}

// Stat always re-stats the live filesystem; it never trusts the index.
func (e *Executor) Stat(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Metadata{}, wrapOSError(err, path)
	}

	entry := indexer.EntryFromInfo(path, info)
	md := Metadata{
		Path:        entry.Path,
		Name:        entry.Name,
		SizeBytes:   entry.SizeBytes,
		SizeHuman:   fsop.FormatSize(entry.SizeBytes),
		ModifiedAt:  entry.ModifiedAt,
		CreatedAt:   entry.CreatedAt,
		Kind:        entry.Kind,
		Extension:   entry.Extension,
		Permissions: permissionsOf(info.Mode()),
	}

	if info.IsDir() {
		md.Extension = ""
		// Child counts are best-effort; an unreadable directory still
		// reports its own metadata.
		if children, err := os.ReadDir(path); err == nil {
			stats := DirStats{Total: len(children)}
			for _, child := range children {
				if child.IsDir() {
					stats.Subdirectories++
				} else {
					stats.Files++
				}
			}
			md.Dir = &stats
		}
	}

	return md, nil
}

func permissionsOf(mode os.FileMode) PermissionSummary {
	perm := mode.Perm()
	return PermissionSummary{
		Readable:   perm&0o444 != 0,
		Writable:   perm&0o222 != 0,
		Executable: perm&0o111 != 0,
	}
}
