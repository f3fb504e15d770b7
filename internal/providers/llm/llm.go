package llm

import "context"

// FieldType enumerates the field kinds that structured note schemas use.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeObject  FieldType = "object"
)

// Field describes one optional property of a structured output schema.
type Field struct {
	Name        string
	Type        FieldType
	Description string

	// Minimum/Maximum constrain integer fields, inclusive.
	Minimum *int
	Maximum *int
}

// Schema is a provider-agnostic descriptor for structured completion.
// Every field is optional; providers translate it to their native
// constrained-generation format.
type Schema struct {
	Name   string
	Fields []Field
}

type Provider interface {
	// Complete returns the model's plain-text completion for prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteStructured constrains generation to schema and returns the
	// decoded object, or nil when the model produced no payload.
	CompleteStructured(ctx context.Context, prompt string, schema Schema) (map[string]any, error)

	Close() error
}
