package tool_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/fsagent/domain/tool"
)

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	schema := tool.ObjectSchema(map[string]json.RawMessage{
		"path":  tool.StringProperty("target path"),
		"limit": tool.IntegerProperty("result cap"),
	}, []string{"path"})

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"required present", `{"path":"/tmp/a"}`, nil},
		{"optional omitted", `{"path":"/tmp/a","limit":5}`, nil},
		{"missing required", `{"limit":5}`, tool.ErrInvalidInput},
		{"not an object", `[1,2]`, tool.ErrInvalidInput},
		{"invalid json", `{"path":`, tool.ErrInvalidInput},
		{"empty input fails required", ``, tool.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := schema.Validate(json.RawMessage(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestEmptySchemaAcceptsAnything(t *testing.T) {
	t.Parallel()

	schema := tool.EmptySchema()
	for _, input := range []string{``, `{}`, `{"anything":1}`} {
		if err := schema.Validate(json.RawMessage(input)); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", input, err)
		}
	}
}
