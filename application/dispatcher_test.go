package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/fsagent/application"
	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/tool"
	"github.com/felixgeelhaar/fsagent/infrastructure/storage/memory"
)

func newDispatcher(t *testing.T, tools ...tool.Tool) *application.Dispatcher {
	t.Helper()

	registry := memory.NewToolRegistry()
	for _, tl := range tools {
		if err := registry.Register(tl); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	return application.NewDispatcher(registry)
}

func echoTool(t *testing.T) tool.Tool {
	t.Helper()

	return tool.NewBuilder("echo").
		WithDescription("Echo the input back").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"message": tool.StringProperty("text to echo"),
		}, []string{"message"})).
		ReadOnly().
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return tool.NewResult(input), nil
		}).
		MustBuild()
}

func TestDispatch_Success(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, echoTool(t))

	resp := d.Dispatch(context.Background(), "echo", json.RawMessage(`{"message":"hi"}`))
	if !resp.OK {
		t.Fatalf("Dispatch() = %+v, want ok", resp)
	}
	if resp.Error != nil {
		t.Errorf("Error = %+v on success", resp.Error)
	}
	if string(resp.Result) != `{"message":"hi"}` {
		t.Errorf("Result = %s", resp.Result)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t)

	resp := d.Dispatch(context.Background(), "nope", nil)
	if resp.OK || resp.Error == nil {
		t.Fatalf("Dispatch(unknown) = %+v", resp)
	}
	if resp.Error.Kind != fsop.KindUnknownTool {
		t.Errorf("Error.Kind = %v, want unknown_tool", resp.Error.Kind)
	}
}

func TestDispatch_InvalidArgumentsBeforeHandler(t *testing.T) {
	t.Parallel()

	handlerRan := false
	strict := tool.NewBuilder("strict").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"path": tool.StringProperty("required"),
		}, []string{"path"})).
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			handlerRan = true
			return tool.Result{}, nil
		}).
		MustBuild()

	d := newDispatcher(t, strict)

	resp := d.Dispatch(context.Background(), "strict", json.RawMessage(`{}`))
	if resp.OK || resp.Error == nil {
		t.Fatalf("Dispatch(bad args) = %+v", resp)
	}
	if resp.Error.Kind != fsop.KindInvalidArgument {
		t.Errorf("Error.Kind = %v, want invalid_argument", resp.Error.Kind)
	}
	if handlerRan {
		t.Error("handler ran despite failed validation")
	}
}

func TestDispatch_MapsHandlerErrors(t *testing.T) {
	t.Parallel()

	failing := tool.NewBuilder("failing").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			return tool.Result{}, fsop.ErrProtectedPath
		}).
		MustBuild()

	d := newDispatcher(t, failing)

	resp := d.Dispatch(context.Background(), "failing", nil)
	if resp.OK || resp.Error == nil {
		t.Fatalf("Dispatch(failing) = %+v", resp)
	}
	if resp.Error.Kind != fsop.KindProtectedPath {
		t.Errorf("Error.Kind = %v, want protected_path", resp.Error.Kind)
	}
}

func TestDispatch_RecoversPanics(t *testing.T) {
	t.Parallel()

	panicking := tool.NewBuilder("panicking").
		WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			panic("handler exploded")
		}).
		MustBuild()

	d := newDispatcher(t, panicking)

	resp := d.Dispatch(context.Background(), "panicking", nil)
	if resp.OK || resp.Error == nil {
		t.Fatalf("Dispatch(panicking) = %+v, want structured error", resp)
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	registry := memory.NewToolRegistry()
	if err := registry.Register(echoTool(t)); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(echoTool(t)); !errors.Is(err, tool.ErrToolExists) {
		t.Errorf("duplicate Register() error = %v, want ErrToolExists", err)
	}
}
