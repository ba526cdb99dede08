// Package confirm provides the domain model for the destructive-operation
// confirmation gate.
package confirm

import (
	"context"
	"encoding/json"
	"time"
)

// Action is the deferred execution of a confirmed destructive operation.
type Action func(ctx context.Context) (json.RawMessage, error)

// Request describes a destructive intent awaiting confirmation.
type Request struct {
	// Operation is the tool-level name of the deferred operation.
	Operation string

	// Targets are the canonical paths the operation will touch.
	Targets []string

	// Action executes the operation once confirmed.
	Action Action
}

// Pending is the transient record for the single in-flight confirmation.
// A later request replaces it; it is consumed by a matching confirm call
// or expires after its window.
type Pending struct {
	Token     string    `json:"token"`
	Operation string    `json:"operation"`
	Targets   []string  `json:"targets"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the pending record has passed its window.
func (p Pending) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Gate mediates between proposing a destructive operation and executing
// it. Implementations must enforce at-most-once execution per token.
type Gate interface {
	// Request stores a new pending confirmation, replacing any prior one,
	// and returns its record.
	Request(req Request) Pending

	// Confirm consumes the pending record if the token matches and is
	// unexpired, then executes the deferred action exactly once.
	Confirm(ctx context.Context, token string) (json.RawMessage, error)

	// Cancel clears the pending record without executing. It reports
	// whether anything was pending.
	Cancel() bool

	// Current returns the pending record, if any.
	Current() (Pending, bool)
}
