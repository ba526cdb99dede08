package fsop

import (
	"errors"
	"io/fs"
	"os"
)

// Kind is the stable string identifier for an error category. These strings
// are part of the dispatcher contract and must not change.
type Kind string

const (
	KindPathNotFound     Kind = "path_not_found"
	KindInvalidArgument  Kind = "invalid_argument"
	KindUnknownTool      Kind = "unknown_tool"
	KindAlreadyExists    Kind = "already_exists"
	KindFileTooLarge     Kind = "file_too_large"
	KindProtectedPath    Kind = "protected_path"
	KindExpired          Kind = "expired"
	KindMismatch         Kind = "mismatch"
	KindPartialMove      Kind = "partial_move"
	KindPermissionDenied Kind = "permission_denied"
	KindIndexUnavailable Kind = "index_unavailable"
)

// Classify maps an error to its taxonomy kind. Raw OS errors are folded
// into the nearest kind; anything unclassifiable reports as
// permission_denied so no failure escapes the taxonomy.
func Classify(err error) Kind {
	var pm *PartialMoveError
	switch {
	case errors.As(err, &pm):
		return KindPartialMove
	case errors.Is(err, ErrPathNotFound), errors.Is(err, fs.ErrNotExist):
		return KindPathNotFound
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrUnknownTool):
		return KindUnknownTool
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	case errors.Is(err, ErrFileTooLarge):
		return KindFileTooLarge
	case errors.Is(err, ErrProtectedPath):
		return KindProtectedPath
	case errors.Is(err, ErrExpired):
		return KindExpired
	case errors.Is(err, ErrMismatch):
		return KindMismatch
	case errors.Is(err, ErrIndexUnavailable):
		return KindIndexUnavailable
	case errors.Is(err, ErrPermissionDenied), os.IsPermission(err):
		return KindPermissionDenied
	default:
		return KindPermissionDenied
	}
}
