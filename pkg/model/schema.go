package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/zeusync/modelkit/internal/core/observability/log"
	"github.com/zeusync/modelkit/pkg/concurrent"
)

// tags is the validator instance shared by every Rule.Tag check
var tags = validator.New()

// Predicate validates a single value. A value passes only when the
// predicate returns true and no error.
type Predicate func(ctx context.Context, value any) (bool, error)

// Check adapts a plain boolean function to a Predicate.
func Check(fn func(value any) bool) Predicate {
	return func(_ context.Context, value any) (bool, error) {
		return fn(value), nil
	}
}

// Rule constrains the values of one key. Checks run in field order and
// stop at the first failure: Type, then Tag, then Validator. A rule with
// none of them set is a configuration error.
type Rule struct {
	// Type is a type tag as reported by TypeOf ("string", "number", ...),
	// or "array" for slices and collections.
	Type string
	// Tag is a go-playground/validator tag such as "email" or "min=3".
	Tag string
	// Validator is a custom predicate.
	Validator Predicate
}

// TypeRule is a rule that only checks the value's type tag.
func TypeRule(typ string) Rule { return Rule{Type: typ} }

// TagRule is a rule that only runs a validator tag.
func TagRule(tag string) Rule { return Rule{Tag: tag} }

// ValidatorRule is a rule that only runs fn.
func ValidatorRule(fn Predicate) Rule { return Rule{Validator: fn} }

func (r Rule) empty() bool {
	return r.Type == "" && r.Tag == "" && r.Validator == nil
}

// Schema declares the keys of a kind. Strict schemas (Lenient == false)
// reject writes of undeclared keys and fail their validation.
type Schema struct {
	Rules   map[string]Rule
	Lenient bool
}

// NewSchema returns a strict schema over rules.
func NewSchema(rules map[string]Rule) *Schema {
	if rules == nil {
		rules = make(map[string]Rule)
	}
	return &Schema{Rules: rules}
}

// Rule returns the rule declared for key.
func (s *Schema) Rule(key string) (Rule, bool) {
	if s == nil {
		return Rule{}, false
	}
	r, ok := s.Rules[key]
	return r, ok
}

// ValidateProperty checks value against the rule declared for key. The
// returned error is a *PropertyError whose message names the key, the kind
// and the rejected value.
func (e *Entity) ValidateProperty(ctx context.Context, key string, value any) error {
	kind := e.kindOf()
	schema := kind.schema
	if schema == nil {
		return nil
	}

	rule, ok := schema.Rule(key)
	if !ok {
		if schema.Lenient {
			return nil
		}
		return undeclaredError(kind.name, key, value)
	}
	if rule.empty() {
		return ruleError(kind.name, key, value, "rule declares no type, tag or validator")
	}

	if rule.Type != "" {
		tag, known := normalizeType(rule.Type)
		if !known {
			return ruleError(kind.name, key, value, fmt.Sprintf("unknown type '%s'", rule.Type))
		}
		if !matchesType(value, tag) {
			return typeError(kind.name, key, value, tag)
		}
	}

	if rule.Tag != "" {
		if err := checkTag(value, rule.Tag); err != nil {
			var invalid *invalidTagError
			if errors.As(err, &invalid) {
				return ruleError(kind.name, key, value, invalid.Error())
			}
			return tagError(kind.name, key, value, rule.Tag, err)
		}
	}

	if rule.Validator != nil {
		passed, err := rule.Validator(ctx, value)
		switch {
		case err != nil:
			return validatorError(kind.name, key, value, err.Error(), err)
		case !passed:
			return validatorError(kind.name, key, value, "false", nil)
		}
	}
	return nil
}

type invalidTagError struct {
	tag    string
	reason any
}

func (e *invalidTagError) Error() string {
	return fmt.Sprintf("invalid tag '%s': %v", e.tag, e.reason)
}

// checkTag runs a validator tag. The validator panics on malformed tags;
// that panic is reported as an *invalidTagError.
func checkTag(value any, tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &invalidTagError{tag: tag, reason: r}
		}
	}()
	return tags.Var(value, tag)
}

type property struct {
	key   string
	value any
}

// Validate checks every key of the store concurrently and records every
// failure message in Errors, in store key order. It returns a
// *ValidationError when at least one key failed.
func (e *Entity) Validate(ctx context.Context) error {
	kind := e.kindOf()
	e.errors = nil

	props := make([]property, 0, e.store.Len())
	for key, value := range e.store.All() {
		props = append(props, property{key: key, value: value})
	}

	results := concurrent.Settle(ctx, props, func(ctx context.Context, p property) error {
		return e.ValidateProperty(ctx, p.key, p.value)
	})

	var failures []*PropertyError
	for idx, err := range results {
		if err == nil {
			continue
		}
		var failure *PropertyError
		if !errors.As(err, &failure) {
			failure = &PropertyError{
				Key:   props[idx].key,
				Kind:  kind.name,
				Value: props[idx].value,
				Check: "validator",
				msg:   err.Error(),
				cause: []error{ErrValidation, err},
			}
		}
		failures = append(failures, failure)
		e.errors = append(e.errors, failure.Error())
	}

	if len(failures) == 0 {
		return nil
	}
	kind.log().Debug("validation failed", log.Int("failures", len(failures)), log.Strings("errors", e.errors))
	return &ValidationError{Kind: kind.name, Failures: failures}
}

// ValidateAsync starts Validate in the background. The promise resolves to
// nil or rejects with the *ValidationError.
func (e *Entity) ValidateAsync(ctx context.Context) *Promise {
	return Async(func() (any, error) {
		return nil, e.Validate(ctx)
	})
}
