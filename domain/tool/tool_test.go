package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/fsagent/domain/tool"
)

func TestToolBuilder_Basic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		toolName    string
		description string
		wantErr     error
	}{
		{
			name:        "valid tool",
			toolName:    "read_file",
			description: "Read a file",
			wantErr:     nil,
		},
		{
			name:        "empty name fails",
			toolName:    "",
			description: "Should fail",
			wantErr:     tool.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			builder := tool.NewBuilder(tt.toolName).
				WithDescription(tt.description).
				WithHandler(func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
					return tool.Result{Output: input}, nil
				})

			built, err := builder.Build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr == nil {
				if built.Name() != tt.toolName {
					t.Errorf("Name() = %v, want %v", built.Name(), tt.toolName)
				}
				if built.Description() != tt.description {
					t.Errorf("Description() = %v, want %v", built.Description(), tt.description)
				}
			}
		})
	}
}

func TestToolBuilder_Annotations(t *testing.T) {
	t.Parallel()

	readOnly := tool.NewBuilder("lookup").
		ReadOnly().
		WithHandler(echoHandler).
		MustBuild()
	if ann := readOnly.Annotations(); !ann.ReadOnly || !ann.CanRetry() || ann.RiskLevel != tool.RiskNone {
		t.Errorf("ReadOnly annotations = %+v", ann)
	}

	destructive := tool.NewBuilder("wipe").
		Destructive().
		WithHandler(echoHandler).
		MustBuild()
	ann := destructive.Annotations()
	if !ann.Destructive || !ann.RequiresConfirmation || ann.RiskLevel != tool.RiskHigh {
		t.Errorf("Destructive annotations = %+v", ann)
	}
	if ann.CanRetry() {
		t.Error("destructive tool reported retryable")
	}
}

func TestExecute_NoHandler(t *testing.T) {
	t.Parallel()

	built, err := tool.NewBuilder("handlerless").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := built.Execute(context.Background(), nil); !errors.Is(err, tool.ErrNoHandler) {
		t.Errorf("Execute() error = %v, want ErrNoHandler", err)
	}
}

func echoHandler(ctx context.Context, input json.RawMessage) (tool.Result, error) {
	return tool.Result{Output: input}, nil
}
