package tool

import (
	"encoding/json"
	"fmt"
)

// Schema wraps JSON Schema for input validation.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) Schema {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// StringProperty returns a string property definition with a description.
func StringProperty(description string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"type": "string", "description": description})
	return raw
}

// IntegerProperty returns an integer property definition with a description.
func IntegerProperty(description string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"type": "integer", "description": description})
	return raw
}

// BooleanProperty returns a boolean property definition with a description.
func BooleanProperty(description string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"type": "boolean", "description": description})
	return raw
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// Validate checks data against the schema: it must be valid JSON, an
// object when the schema requires one, and carry every required property.
func (s Schema) Validate(data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: input is not valid JSON", ErrInvalidInput)
	}
	if s.IsEmpty() {
		return nil
	}

	var schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(s.raw, &schema); err != nil {
		return nil
	}
	if schema.Type != "object" {
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: input must be a JSON object", ErrInvalidInput)
	}
	for _, name := range schema.Required {
		if _, ok := obj[name]; !ok {
			return fmt.Errorf("%w: missing required property %q", ErrInvalidInput, name)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = data
	return nil
}
