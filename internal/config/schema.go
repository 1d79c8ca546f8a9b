package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// Schema returns the embedded JSON schema used to validate configuration files.
func Schema() string {
	return schemaJSON
}

// ValidationError represents a schema validation error with field paths.
type ValidationError struct {
	Path   string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: invalid configuration:\n", ve.Path)
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// validate checks a decoded YAML document against the schema.
func validate(path string, doc map[string]any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%s: schema check: %w", path, err)
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Path:   path,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
