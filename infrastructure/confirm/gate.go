// Package confirm implements the destructive-operation confirmation gate
// as a statechart.
package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/fsagent/domain/confirm"
	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
)

// Gate states and events.
const (
	stateNone    statekit.StateID = "none"
	statePending statekit.StateID = "pending"

	eventRequest statekit.EventType = "REQUEST"
	eventConfirm statekit.EventType = "CONFIRM"
	eventCancel  statekit.EventType = "CANCEL"
	eventExpire  statekit.EventType = "EXPIRE"
)

type gateContext struct{}

// newGateMachine builds the NONE/PENDING statechart. A new request from
// PENDING self-transitions, replacing the prior intent; confirm, cancel,
// and expiry all resolve back to NONE.
func newGateMachine() (*statekit.MachineConfig[*gateContext], error) {
	return statekit.NewMachine[*gateContext]("confirmation-gate").
		WithInitial(stateNone).
		WithContext(&gateContext{}).
		State(stateNone).
		On(eventRequest).Target(statePending).
		Done().
		State(statePending).
		On(eventRequest).Target(statePending).
		On(eventConfirm).Target(stateNone).
		On(eventCancel).Target(stateNone).
		On(eventExpire).Target(stateNone).
		Done().
		Build()
}

type pendingRecord struct {
	confirm.Pending
	action confirm.Action
}

// Gate holds at most one pending confirmation per session. Token
// consumption is mutually exclusive, so a confirmed action executes at
// most once even under near-simultaneous confirm calls.
type Gate struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending *pendingRecord
	interp  *statekit.Interpreter[*gateContext]
}

// Option configures the gate.
type Option func(*Gate)

// WithTTL sets the confirmation window.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		g.ttl = ttl
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate creates a gate with a 60 second default window.
func NewGate(opts ...Option) (*Gate, error) {
	machine, err := newGateMachine()
	if err != nil {
		return nil, fmt.Errorf("build gate machine: %w", err)
	}

	interp := statekit.NewInterpreter(machine)
	interp.Start()

	g := &Gate{
		ttl:    60 * time.Second,
		now:    time.Now,
		interp: interp,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Request stores a new pending confirmation, replacing any prior one.
func (g *Gate) Request(req confirm.Request) confirm.Pending {
	g.mu.Lock()
	defer g.mu.Unlock()

	issued := g.now()
	record := &pendingRecord{
		Pending: confirm.Pending{
			Token:     uuid.NewString(),
			Operation: req.Operation,
			Targets:   req.Targets,
			IssuedAt:  issued,
			ExpiresAt: issued.Add(g.ttl),
		},
		action: req.Action,
	}

	if g.pending != nil {
		logging.Debug().
			Add(logging.Operation(g.pending.Operation)).
			Msg("pending confirmation replaced")
	}
	g.pending = record
	g.interp.Send(statekit.Event{Type: eventRequest})

	return record.Pending
}

// Confirm consumes the pending record and executes its action exactly
// once. The token must match the current pending request and be inside
// its window.
func (g *Gate) Confirm(ctx context.Context, token string) (json.RawMessage, error) {
	g.mu.Lock()
	pending := g.pending

	if pending == nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: no pending confirmation", fsop.ErrMismatch)
	}
	if pending.Expired(g.now()) {
		g.pending = nil
		g.interp.Send(statekit.Event{Type: eventExpire})
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: token issued at %s", fsop.ErrExpired, pending.IssuedAt.Format(time.RFC3339))
	}
	if pending.Token != token {
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: token does not match pending request", fsop.ErrMismatch)
	}

	// Consume before executing: the token is single use even if the
	// action fails.
	g.pending = nil
	g.interp.Send(statekit.Event{Type: eventConfirm})
	g.mu.Unlock()

	logging.Info().Add(logging.Operation(pending.Operation)).Msg("destructive operation confirmed")
	return pending.action(ctx)
}

// Cancel clears the pending record without executing.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return false
	}
	g.pending = nil
	g.interp.Send(statekit.Event{Type: eventCancel})
	return true
}

// Current returns the pending record, if any. An expired record is
// cleared and reported as absent.
func (g *Gate) Current() (confirm.Pending, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return confirm.Pending{}, false
	}
	if g.pending.Expired(g.now()) {
		g.pending = nil
		g.interp.Send(statekit.Event{Type: eventExpire})
		return confirm.Pending{}, false
	}
	return g.pending.Pending, true
}

// State returns the current statechart state, for inspection.
func (g *Gate) State() string {
	return string(g.interp.State().Value)
}
