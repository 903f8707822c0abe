package catalog

import "errors"

var (
	// ErrInvalidInterface indicates a catalog entry that fails validation.
	ErrInvalidInterface = errors.New("invalid interface definition")
	// ErrDuplicateInterface indicates an id that is already in the catalog.
	ErrDuplicateInterface = errors.New("interface definition already exists")
	// ErrInvalidRule indicates a compatibility rule that fails validation.
	ErrInvalidRule = errors.New("invalid compatibility rule")
)
