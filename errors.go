package sysraw

import "errors"

// Descriptor-level errors. Subpackages surface these when an operation is
// handed a Descriptor whose Validity probe came back negative.
var (
	// ErrInvalid indicates a value that is not a handle at all.
	ErrInvalid = errors.New("sysraw: invalid descriptor")

	// ErrClosed indicates a handle that has already been invalidated.
	ErrClosed = errors.New("sysraw: descriptor closed")

	// ErrExhausted indicates a handle value beyond the process limit.
	ErrExhausted = errors.New("sysraw: descriptor table exhausted")
)
