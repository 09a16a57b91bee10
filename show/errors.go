package show

import "errors"

var (
	// ErrValidation is returned when a cue's name, runtime or category is not acceptable.
	ErrValidation = errors.New("validation error")

	// ErrSelection is returned when a mutation needs a selected cue and none, or one
	// out of range, was given.
	ErrSelection = errors.New("selection error")

	// ErrFormat is returned for malformed show documents and unparsable display times.
	ErrFormat = errors.New("format error")
)
