package rolemapping

import "errors"

var (
	// ErrInvalidPattern is returned when a rule's regex cannot be compiled.
	ErrInvalidPattern = errors.New("invalid rule pattern")

	// ErrInvalidEntry is returned by Validate for an entry failing struct validation.
	ErrInvalidEntry = errors.New("invalid role mapping entry")
)
