package order

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrNullRequest = errors.New("order request is nil")
	ErrValidation  = errors.New("order validation failed")
	ErrStore       = errors.New("order store failure")
	ErrInvalidSide = errors.New("invalid order side")
)

// FieldError is a single violated rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError lists every violated rule, in struct field order
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Is makes errors.Is(err, ErrValidation) hold
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HasField reports whether the named field failed validation
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// StoreError wraps a persistence failure with the operation and symbol involved
type StoreError struct {
	Op     string
	Side   Side
	Symbol string
	Err    error
}

func (e *StoreError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s %s orders: %v", e.Op, strings.ToLower(string(e.Side)), e.Err)
	}
	return fmt.Sprintf("%s %s order %s: %v", e.Op, strings.ToLower(string(e.Side)), e.Symbol, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStore) hold
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// IsClientError checks if the error was caused by the caller's input
func IsClientError(err error) bool {
	return errors.Is(err, ErrNullRequest) || errors.Is(err, ErrValidation)
}
