package schema

import "errors"

var (
	// ErrIrreparable indicates a project record missing its id, name or components array.
	ErrIrreparable = errors.New("irreparable project record")
	// ErrMalformed indicates a stored value that is not JSON of the expected shape.
	ErrMalformed = errors.New("malformed project data")
)
