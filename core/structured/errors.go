package structured

import "errors"

var (
	// ErrAttemptsExhausted is returned when every attempt in the budget failed.
	// It is always joined with the failure class of the last attempt.
	ErrAttemptsExhausted = errors.New("all attempts exhausted")

	// ErrTransport marks a generator error or an empty reply.
	ErrTransport = errors.New("generation failed")

	// ErrNoJSON marks a reply with no extractable, non-empty JSON value.
	ErrNoJSON = errors.New("no extractable JSON")

	// ErrShapeMismatch marks JSON of the wrong top-level shape.
	ErrShapeMismatch = errors.New("unexpected JSON shape")
)
