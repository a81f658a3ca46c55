package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Write errors

	ErrUndeclaredKey = errors.New("undeclared key")
	ErrReadOnly      = errors.New("member is read-only")
	ErrNotDeletable  = errors.New("member cannot be deleted")
	ErrFieldType     = errors.New("field type mismatch")

	// Validation errors

	ErrValidation  = errors.New("validation failed")
	ErrInvalidRule = errors.New("invalid schema rule")

	// Shape and dispatch errors

	ErrShape       = errors.New("unsupported shape")
	ErrNotCallable = errors.New("member is not callable")
)

// SchemaError rejects a single write of a key the kind does not declare.
type SchemaError struct {
	Key  string
	Kind string
	msg  string
}

func (e *SchemaError) Error() string { return e.msg }

func (e *SchemaError) Unwrap() error { return ErrUndeclaredKey }

// PropertyError describes one failed check of one key. Check is one of
// "declared", "type", "tag", "validator" or "rule".
type PropertyError struct {
	Key   string
	Kind  string
	Value any
	Check string
	msg   string
	cause []error
}

func (e *PropertyError) Error() string { return e.msg }

func (e *PropertyError) Unwrap() []error { return e.cause }

// ValidationError aggregates the failures of a full validation pass.
type ValidationError struct {
	Kind     string
	Failures []*PropertyError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Kind, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Messages returns the failure messages in key order.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Error()
	}
	return out
}

func strictSchemaError(kind, key string) *SchemaError {
	return &SchemaError{
		Key:  key,
		Kind: kind,
		msg:  "Cannot set undefined properties on a model with a strict schema: " + key,
	}
}

func definitionError(kind, key string) *SchemaError {
	return &SchemaError{
		Key:  key,
		Kind: kind,
		msg:  "Cannot set property on model: " + key,
	}
}

func undeclaredError(kind, key string, value any) *PropertyError {
	return &PropertyError{
		Key:   key,
		Kind:  kind,
		Value: value,
		Check: "declared",
		msg:   "Key should be defined in schema: " + key,
		cause: []error{ErrValidation, ErrUndeclaredKey},
	}
}

func typeError(kind, key string, value any, expected string) *PropertyError {
	return &PropertyError{
		Key:   key,
		Kind:  kind,
		Value: value,
		Check: "type",
		msg: fmt.Sprintf("Cannot set '%s' on %s with value '%s', '%s' should be a %s",
			key, kind, formatValue(value), key, expected),
		cause: []error{ErrValidation},
	}
}

func tagError(kind, key string, value any, tag string, err error) *PropertyError {
	return &PropertyError{
		Key:   key,
		Kind:  kind,
		Value: value,
		Check: "tag",
		msg: fmt.Sprintf("Cannot set '%s' on %s with value '%s', '%s' failed '%s'",
			key, kind, formatValue(value), key, tag),
		cause: []error{ErrValidation, err},
	}
}

func validatorError(kind, key string, value any, result string, err error) *PropertyError {
	cause := []error{ErrValidation}
	if err != nil {
		cause = append(cause, err)
	}
	return &PropertyError{
		Key:   key,
		Kind:  kind,
		Value: value,
		Check: "validator",
		msg: fmt.Sprintf("Cannot set '%s' on %s with value '%s', validator returned: '%s'",
			key, kind, formatValue(value), result),
		cause: cause,
	}
}

func ruleError(kind, key string, value any, reason string) *PropertyError {
	return &PropertyError{
		Key:   key,
		Kind:  kind,
		Value: value,
		Check: "rule",
		msg:   fmt.Sprintf("Invalid schema rule for '%s' on %s: %s", key, kind, reason),
		cause: []error{ErrInvalidRule},
	}
}
