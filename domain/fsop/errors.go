// Package fsop defines the shared error taxonomy for filesystem tool calls.
//
// Every failure surfaced through the dispatcher is classified into exactly
// one Kind; components wrap these sentinels so errors.Is works across
// package boundaries.
package fsop

import (
	"errors"
	"fmt"
)

// Sentinel errors for the tool call taxonomy.
var (
	// ErrPathNotFound indicates the target path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidArgument indicates malformed or out-of-contract arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownTool indicates the requested tool is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrAlreadyExists indicates the target already exists and overwrite
	// was not requested.
	ErrAlreadyExists = errors.New("already exists")

	// ErrFileTooLarge indicates the target exceeds the configured read limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrProtectedPath indicates the target falls under a protected prefix.
	ErrProtectedPath = errors.New("protected path")

	// ErrExpired indicates a confirmation token was presented after its
	// timeout window.
	ErrExpired = errors.New("confirmation expired")

	// ErrMismatch indicates a confirmation token does not match the current
	// pending request.
	ErrMismatch = errors.New("confirmation token mismatch")

	// ErrPermissionDenied indicates the operating system refused access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIndexUnavailable indicates the index store cannot serve requests.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// PartialMoveError reports a cross-filesystem move that copied the source
// but could not remove it. Both paths hold a complete copy afterwards; the
// caller must reconcile manually.
type PartialMoveError struct {
	Source string
	Copy   string
	Err    error
}

// Error implements the error interface.
func (e *PartialMoveError) Error() string {
	return fmt.Sprintf("partial move: source %s still present, copy at %s: %v", e.Source, e.Copy, e.Err)
}

// Unwrap returns the underlying removal error.
func (e *PartialMoveError) Unwrap() error {
	return e.Err
}
