package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNoActiveEdit  = errors.New("no record is being edited")
	ErrNotFound      = errors.New("record not found")
	ErrUnknownField  = errors.New("unknown field")
	ErrNotAFlag      = errors.New("field is not a flag")
	ErrIDCollision   = errors.New("generated id is already in use")
	ErrInvalidSchema = errors.New("invalid schema")
)

// ValidationError ties a rejected field to one of the sentinel errors above.
// Message is what the user gets to see.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
