// Package schemas validates candidate and job documents against the embedded
// JSON Schemas before they are decoded into domain types.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	schemafiles "github.com/jonathan/fit-scorer/schemas"
)

// Embedded schema names
const (
	CandidateSchema = "candidate.schema.json"
	JobSchema       = "job.schema.json"
)

// FieldError is one schema violation at a JSON path
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation of a document against one schema
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("document does not match %s: %s", e.Schema, strings.Join(parts, "; "))
}

// LoadError indicates the schema or the document could not be loaded at all
type LoadError struct {
	Schema string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Schema, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// compile returns the embedded schema called name, compiling it on first use.
func compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := schemafiles.FS.ReadFile(name)
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Schema: name, Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateDocument validates an already decoded document, such as a YAML
// entry unmarshalled into any.
func ValidateDocument(schemaName string, doc any) error {
	return validate(schemaName, gojsonschema.NewGoLoader(doc))
}

// ValidateBytes validates a raw JSON document.
func ValidateBytes(schemaName string, data []byte) error {
	return validate(schemaName, gojsonschema.NewBytesLoader(data))
}

func validate(schemaName string, doc gojsonschema.JSONLoader) error {
	schema, err := compile(schemaName)
	if err != nil {
		return err
	}
	result, err := schema.Validate(doc)
	if err != nil {
		return &LoadError{Schema: schemaName, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: schemaName, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}
