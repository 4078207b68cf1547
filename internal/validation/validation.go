// Package validation holds the request schemas shared by the HTTP handlers
// and the typed client, and the error type both report.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://todo.local/schemas/"

// Schema names, one per request body.
const (
	CreateTask = "create_task"
	UpdateTask = "update_task"
	ToggleTask = "toggle_task"
)

var schemaNames = []string{CreateTask, UpdateTask, ToggleTask}

// Error is a rejected input. Field is a JSON pointer into the request body
// ("" for the body itself) or the name of a path parameter.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// IsValidationError reports whether err is, or wraps, an *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	for _, name := range schemaNames {
		data, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(schemaBaseURL+name+".json", bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(schemaNames))
	for _, name := range schemaNames {
		schema, err := compiler.Compile(schemaBaseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}

	return &Validator{schemas: schemas}, nil
}

// MustNew is New for package-level initialisation; the schemas are embedded,
// so a failure is a build defect.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// ValidateJSON checks a raw request body against the named schema.
func (v *Validator) ValidateJSON(name string, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return NewError("", "invalid JSON: "+err.Error())
	}
	if dec.More() {
		return NewError("", "invalid JSON: multiple JSON values")
	}

	return v.Validate(name, doc)
}

// Validate checks an already decoded document (maps, slices, json.Number or
// float64) against the named schema.
func (v *Validator) Validate(name string, doc any) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	if err := schema.Validate(doc); err != nil {
		return mapSchemaError(err)
	}
	return nil
}

// ValidateValue marshals a Go request value and validates the result, so a
// client can check what it is about to send.
func (v *Validator) ValidateValue(name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	return v.ValidateJSON(name, data)
}

func mapSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return NewError("", err.Error())
	}

	leaf := firstLeaf(ve)
	return NewError(leaf.InstanceLocation, leaf.Message)
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// ParseID parses a task id path parameter.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewError("id", "must be a positive integer")
	}
	return id, nil
}

// ValidateTitle rejects titles that are empty once surrounding whitespace is
// removed and returns the trimmed title.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewError("/title", "must not be empty")
	}
	return trimmed, nil
}
