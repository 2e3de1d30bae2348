// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result aggregates the outcome of validating a payload against a schema.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// FirstError renders a compact single-line summary for API error bodies.
func (r *Result) FirstError() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	e := r.Errors[0]
	if e.Field == "" || e.Field == "(root)" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateJSON validates a raw JSON document against a JSON-schema string.
// Schema compilation errors are programmer errors and are returned as-is.
func ValidateJSON(schema string, document []byte) (*Result, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return &Result{Valid: true}, nil
	}

	out := &Result{Valid: false}
	for _, desc := range result.Errors() {
		field := desc.Field()
		// gojsonschema reports required-property misses at the parent.
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			if field == "(root)" {
				field = prop
			} else {
				field = strings.Join([]string{field, prop}, ".")
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return out, nil
}
