// Package executor performs guarded filesystem mutations and reads.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/domain/policy"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
)

// Config configures the executor.
type Config struct {
	// Protected are prefixes that mutating operations must never touch.
	Protected *policy.ProtectedPathSet

	// MaxReadBytes is the largest file Read will return.
	MaxReadBytes int64

	// TextExtensions is the allowlist of readable extensions (no dot).
	// Empty allows any extension.
	TextExtensions []string
}

// Executor performs file operations against canonical paths. Paths are
// re-validated immediately before each mutation; index staleness never
// drives a destructive action.
type Executor struct {
	protected    *policy.ProtectedPathSet
	maxReadBytes int64
	textExts     map[string]struct{}

	// rename and removeSource perform the two halves of a move.
	// Overridable in tests to exercise the cross-filesystem fallback and
	// partial-move reporting.
	rename       func(src, dst string) error
	removeSource func(string) error
}

// New creates an executor with the given configuration.
func New(cfg Config) *Executor {
	e := &Executor{
		protected:    cfg.Protected,
		maxReadBytes: cfg.MaxReadBytes,
		rename:       os.Rename,
		removeSource: os.Remove,
	}
	if e.maxReadBytes <= 0 {
		e.maxReadBytes = 5 * 1024 * 1024
	}
	if len(cfg.TextExtensions) > 0 {
		e.textExts = make(map[string]struct{}, len(cfg.TextExtensions))
		for _, ext := range cfg.TextExtensions {
			e.textExts[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
	}
	return e
}

// guard rejects mutations under protected prefixes.
func (e *Executor) guard(path string) error {
	if e.protected.Contains(path) {
		return fmt.Errorf("%w: %s", fsop.ErrProtectedPath, path)
	}
	return nil
}

// Guard exposes the protected-path check so callers can reject a
// destructive request before parking it behind a confirmation.
func (e *Executor) Guard(path string) error {
	return e.guard(path)
}

func wrapOSError(err error, path string) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", fsop.ErrPathNotFound, path)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", fsop.ErrPermissionDenied, path)
	default:
		return err
	}
}

// ReadResult is the outcome of a read.
type ReadResult struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	SizeBytes int64  `json:"size_bytes"`
	Truncated bool   `json:"truncated,omitempty"`
}

// Read returns up to maxBytes of a text file. Files over the configured
// size limit fail with ErrFileTooLarge rather than truncating silently.
func (e *Executor) Read(ctx context.Context, path string, maxBytes int64) (ReadResult, error) {
	if err := ctx.Err(); err != nil {
		return ReadResult{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return ReadResult{}, wrapOSError(err, path)
	}
	if info.IsDir() {
		return ReadResult{}, fmt.Errorf("%w: %s is a directory", fsop.ErrInvalidArgument, path)
	}
	if e.textExts != nil {
		ext := index.ExtensionOf(info.Name())
		if _, ok := e.textExts[ext]; !ok {
			return ReadResult{}, fmt.Errorf("%w: unsupported file type %q", fsop.ErrInvalidArgument, ext)
		}
	}
	if info.Size() > e.maxReadBytes {
		return ReadResult{}, fmt.Errorf("%w: %s is %d bytes, limit %d",
			fsop.ErrFileTooLarge, path, info.Size(), e.maxReadBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, wrapOSError(err, path)
	}
	defer f.Close()

	limit := e.maxReadBytes
	if maxBytes > 0 && maxBytes < limit {
		limit = maxBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return ReadResult{}, wrapOSError(err, path)
	}

	return ReadResult{
		Path:      path,
		Content:   string(data),
		SizeBytes: info.Size(),
		Truncated: int64(len(data)) < info.Size(),
	}, nil
}

// WriteResult is the outcome of a create, write, or append.
type WriteResult struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
	Created      bool   `json:"created,omitempty"`
}

// Create writes a new file. An existing target fails with
// ErrAlreadyExists unless overwrite is set; overwriting callers must
// hold a confirmation before reaching here.
func (e *Executor) Create(ctx context.Context, path, content string, overwrite bool) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}
	if err := e.guard(path); err != nil {
		return WriteResult{}, err
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return WriteResult{}, fmt.Errorf("%w: %s", fsop.ErrAlreadyExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}

	logging.Info().Add(logging.Path(path)).Add(logging.Count(len(content))).Msg("file created")
	return WriteResult{Path: path, BytesWritten: len(content), Created: true}, nil
}

// Write replaces a file's content entirely.
func (e *Executor) Write(ctx context.Context, path, content string) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}
	if err := e.guard(path); err != nil {
		return WriteResult{}, err
	}

	_, statErr := os.Stat(path)
	created := os.IsNotExist(statErr)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}
	return WriteResult{Path: path, BytesWritten: len(content), Created: created}, nil
}

// Append adds content to the end of an existing file.
func (e *Executor) Append(ctx context.Context, path, content string) (WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return WriteResult{}, err
	}
	if err := e.guard(path); err != nil {
		return WriteResult{}, err
	}

	if _, err := os.Stat(path); err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}
	defer f.Close()

	n, err := f.WriteString(content)
	if err != nil {
		return WriteResult{}, wrapOSError(err, path)
	}
	return WriteResult{Path: path, BytesWritten: n}, nil
}

// DeleteResult is the outcome of a delete.
type DeleteResult struct {
	Path   string `json:"path"`
	WasDir bool   `json:"was_dir,omitempty"`
}

// Delete removes a file, or a directory when it is empty or recursive is
// set. Callers must hold a confirmation before reaching here.
func (e *Executor) Delete(ctx context.Context, path string, recursive bool) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, err
	}
	if err := e.guard(path); err != nil {
		return DeleteResult{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return DeleteResult{}, wrapOSError(err, path)
	}

	if info.IsDir() {
		if recursive {
			if err := os.RemoveAll(path); err != nil {
				return DeleteResult{}, wrapOSError(err, path)
			}
			return DeleteResult{Path: path, WasDir: true}, nil
		}
		children, err := os.ReadDir(path)
		if err != nil {
			return DeleteResult{}, wrapOSError(err, path)
		}
		if len(children) > 0 {
			return DeleteResult{}, fmt.Errorf("%w: directory %s is not empty (set recursive)",
				fsop.ErrInvalidArgument, path)
		}
	}

	if err := os.Remove(path); err != nil {
		return DeleteResult{}, wrapOSError(err, path)
	}
	return DeleteResult{Path: path, WasDir: info.IsDir()}, nil
}

// MoveResult is the outcome of a move.
type MoveResult struct {
	From     string `json:"from"`
	To       string `json:"to"`
	CopyUsed bool   `json:"copy_used,omitempty"`
}

// Move renames src to dst. Same-filesystem moves are atomic. Across
// filesystems the move degrades to copy plus remove; a failed remove
// yields a PartialMoveError naming both resulting copies, without
// rolling back the copy.
func (e *Executor) Move(ctx context.Context, src, dst string) (MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return MoveResult{}, err
	}
	if err := e.guard(src); err != nil {
		return MoveResult{}, err
	}
	if err := e.guard(dst); err != nil {
		return MoveResult{}, err
	}

	if _, err := os.Stat(src); err != nil {
		return MoveResult{}, wrapOSError(err, src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return MoveResult{}, wrapOSError(err, dst)
	}

	err := e.rename(src, dst)
	if err == nil {
		return MoveResult{From: src, To: dst}, nil
	}
	if !isCrossDevice(err) {
		return MoveResult{}, wrapOSError(err, src)
	}

	if err := copyFile(src, dst); err != nil {
		return MoveResult{}, wrapOSError(err, dst)
	}
	if err := e.removeSource(src); err != nil {
		return MoveResult{}, &fsop.PartialMoveError{Source: src, Copy: dst, Err: err}
	}
	return MoveResult{From: src, To: dst, CopyUsed: true}, nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
