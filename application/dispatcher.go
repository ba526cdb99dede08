// Package application wires tool calls from the external agent to the
// filesystem components.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
	"github.com/felixgeelhaar/fsagent/infrastructure/resilience"
)

// Response is the structured result of a dispatched tool call. Exactly
// one of Result and Error is set.
type Response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is a caller-facing structured failure.
type Error struct {
	Kind    fsop.Kind `json:"kind"`
	Message string    `json:"message"`
}

// Dispatcher is the single entry point the external agent talks to. It
// routes tool calls, validates arguments before any handler runs, and
// maps every failure into the error taxonomy; raw errors and panics
// never escape to the caller.
type Dispatcher struct {
	registry tool.Registry
	exec     *resilience.Executor
}

// Option configures the dispatcher.
type Option func(*Dispatcher)

// WithResilience overrides the resilient executor.
func WithResilience(exec *resilience.Executor) Option {
	return func(d *Dispatcher) {
		d.exec = exec
	}
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry tool.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		exec:     resilience.NewDefaultExecutor(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the underlying tool registry.
func (d *Dispatcher) Registry() tool.Registry {
	return d.registry
}

// Dispatch routes a tool call and always returns a structured response.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) Response {
	start := time.Now()

	t, ok := d.registry.Get(name)
	if !ok {
		return errorResponse(fmt.Errorf("%w: %s", fsop.ErrUnknownTool, name))
	}

	if err := t.InputSchema().Validate(args); err != nil {
		return errorResponse(fmt.Errorf("%w: %v", fsop.ErrInvalidArgument, err))
	}

	result, err := d.execute(ctx, t, args)

	logging.Debug().
		Add(logging.ToolName(name)).
		Add(logging.Duration(time.Since(start))).
		Add(logging.Err(err)).
		Msg("tool dispatched")

	if err != nil {
		return errorResponse(err)
	}
	return Response{OK: true, Result: result.Output}
}

// execute runs the tool, converting panics into ordinary errors so no
// tool failure can terminate the host.
func (d *Dispatcher) execute(ctx context.Context, t tool.Tool, args json.RawMessage) (result tool.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Add(logging.ToolName(t.Name())).Msg(fmt.Sprintf("tool panicked: %v", r))
			err = fmt.Errorf("%w: tool %s failed internally", fsop.ErrInvalidArgument, t.Name())
		}
	}()
	return d.exec.Execute(ctx, t, args)
}

func errorResponse(err error) Response {
	return Response{
		OK: false,
		Error: &Error{
			Kind:    fsop.Classify(err),
			Message: err.Error(),
		},
	}
}
