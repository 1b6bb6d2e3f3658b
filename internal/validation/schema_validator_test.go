package validation

import (
	"strings"
	"testing"
	"testing/fstest"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0},
		"pays": {
			"type": "object",
			"propertyNames": {"pattern": "^[0-9]+$"},
			"additionalProperties": {"type": "string"}
		}
	},
	"required": ["name"],
	"additionalProperties": false
}`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"schemas/person.schema.json": {Data: []byte(personSchema)},
		"schemas/broken.schema.json": {Data: []byte(`{"type": `)},
	}
}

func TestSchemaValidator_ValidateBytes(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name:      "valid data",
			data:      `{"name": "John", "age": 30}`,
			wantError: false,
		},
		{
			name:      "valid data without optional field",
			data:      `{"name": "Jane"}`,
			wantError: false,
		},
		{
			name:      "missing required field",
			data:      `{"age": 25}`,
			wantError: true,
			errorMsg:  "required",
		},
		{
			name:      "wrong type",
			data:      `{"name": "John", "age": "thirty"}`,
			wantError: true,
			errorMsg:  "/age",
		},
		{
			name:      "constraint violation",
			data:      `{"name": "John", "age": -5}`,
			wantError: true,
			errorMsg:  "minimum",
		},
		{
			name:      "unknown field",
			data:      `{"name": "John", "nickname": "J"}`,
			wantError: true,
			errorMsg:  "additionalProperties",
		},
		{
			name:      "invalid JSON",
			data:      `{"name": "John", "age": }`,
			wantError: true,
			errorMsg:  "parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes([]byte(tt.data), "schemas/person.schema.json")

			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain %q, got: %v", tt.errorMsg, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaValidator_ValidateYAML(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	tests := []struct {
		name      string
		data      string
		wantError bool
	}{
		{
			name: "valid document",
			data: "name: John\nage: 30\n",
		},
		{
			name: "integer mapping keys",
			data: "name: John\npays: {3: \"0.5\", 4: \"1\"}\n",
		},
		{
			name:      "unknown field",
			data:      "name: John\nreels: 5\n",
			wantError: true,
		},
		{
			name:      "empty document misses required name",
			data:      "",
			wantError: true,
		},
		{
			name:      "malformed YAML",
			data:      "name: [John\n",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateYAML([]byte(tt.data), "schemas/person.schema.json")
			if tt.wantError && err == nil {
				t.Errorf("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaValidator_MissingSchema(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	err := validator.ValidateBytes([]byte(`{}`), "schemas/nonexistent.schema.json")
	if err == nil {
		t.Fatal("Expected error for non-existent schema file")
	}
	if !strings.Contains(err.Error(), "failed to load schema") {
		t.Errorf("Expected 'failed to load schema' error, got: %v", err)
	}
}

func TestSchemaValidator_BrokenSchema(t *testing.T) {
	validator := NewSchemaValidator(testFS())

	err := validator.ValidateBytes([]byte(`{}`), "schemas/broken.schema.json")
	if err == nil {
		t.Fatal("Expected error for malformed schema")
	}
	if !strings.Contains(err.Error(), "parse schema JSON") {
		t.Errorf("Expected parse error, got: %v", err)
	}
}

func TestSchemaValidator_CachesCompiledSchema(t *testing.T) {
	v := NewSchemaValidator(testFS()).(*validator)

	for i := 0; i < 3; i++ {
		if err := v.ValidateBytes([]byte(`{"name": "x"}`), "schemas/person.schema.json"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if len(v.schemas) != 1 {
		t.Errorf("Expected one cached schema, got %d", len(v.schemas))
	}
}
