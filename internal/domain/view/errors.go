package view

import "errors"

var (
	// ErrDefaultViewRemoval indicates an attempt to remove the project's default view.
	ErrDefaultViewRemoval = errors.New("default view cannot be removed")
	// ErrLastView indicates an attempt to remove the only remaining view.
	ErrLastView = errors.New("project must keep at least one view")
)
