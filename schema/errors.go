package schema

import (
	"errors"
	"fmt"
)

// ErrNoItems reports a document that normalized to nothing.
var ErrNoItems = errors.New("no valid slide items found")

// FatalInputError is returned when the input cannot be decoded at all.
type FatalInputError struct {
	Err error
}

func (e *FatalInputError) Error() string {
	return fmt.Sprintf("failed to parse input: %v", e.Err)
}

func (e *FatalInputError) Unwrap() error {
	return e.Err
}

// Require returns a *FatalInputError wrapping ErrNoItems when items is empty.
func (items Items) Require() error {
	if len(items) == 0 {
		return &FatalInputError{Err: ErrNoItems}
	}
	return nil
}

// ItemCoercionError describes why one element could not be coerced into a SlideItem.
type ItemCoercionError struct {
	Path   string
	Value  any
	Reason string
}

func (e *ItemCoercionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s, got %s", e.Reason, describe(e.Value))
	}
	return fmt.Sprintf("%s: %s, got %s", e.Path, e.Reason, describe(e.Value))
}

func describe(v any) string {
	switch vv := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", vv)
	case Map:
		return "object"
	case []any:
		return "array"
	case bool:
		return fmt.Sprintf("boolean %v", vv)
	default:
		return fmt.Sprintf("%v", vv)
	}
}

func coercionError(path string, v any, reason string) error {
	return &ItemCoercionError{Path: path, Value: v, Reason: reason}
}
