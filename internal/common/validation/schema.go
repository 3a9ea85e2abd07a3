// internal/common/validation/schema.go

// Package validation checks request payloads against JSON schemas before
// they reach the stores.
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"opera-backend/internal/common/errors"
)

// Schema is a compiled JSON schema reusable across requests.
type Schema struct {
	loader gojsonschema.JSONLoader
}

// MustCompile wraps a schema document. The document is trusted source code;
// a malformed one surfaces on first use.
func MustCompile(document string) *Schema {
	return &Schema{loader: gojsonschema.NewStringLoader(document)}
}

// Validate checks payload against the schema. Violations come back as one
// INVALID_REQUEST error listing every failed constraint.
func (s *Schema) Validate(payload []byte) error {
	result, err := gojsonschema.Validate(s.loader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "payload is not valid JSON", err)
	}
	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.New(errors.ErrCodeInvalidRequest, strings.Join(details, "; "))
}
