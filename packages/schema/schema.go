// Package schema validates response bodies against JSON Schema documents.
package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid is wrapped when a document does not satisfy its schema.
var ErrInvalid = errors.New("schema validation failed")

// RPCResponseSchema describes a JSON-RPC 2.0 response envelope: exactly
// one of result or error, and a well-formed error member.
const RPCResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["jsonrpc", "id"],
  "properties": {
    "jsonrpc": {"const": "2.0"},
    "id": {"type": ["string", "number", "null"]},
    "error": {
      "type": "object",
      "required": ["code", "message"],
      "properties": {
        "code": {"type": "integer"},
        "message": {"type": "string"}
      }
    }
  },
  "oneOf": [
    {"required": ["result"], "not": {"required": ["error"]}},
    {"required": ["error"], "not": {"required": ["result"]}}
  ]
}`

// Validator checks documents against one compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles a schema given as JSON text.
func New(schemaJSON string) (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// FromFile compiles the schema stored at path.
func FromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return New(string(data))
}

// RPCResponse returns a validator for JSON-RPC 2.0 response envelopes.
func RPCResponse() *Validator {
	v, err := New(RPCResponseSchema)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks the JSON document in body. A document that does not
// satisfy the schema yields an error wrapping ErrInvalid listing every
// violation.
func (v *Validator) Validate(body []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
