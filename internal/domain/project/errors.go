package project

import "errors"

var (
	// ErrInterfaceNotFound indicates a connection endpoint that does not resolve
	// to an interface of the named component.
	ErrInterfaceNotFound = errors.New("invalid interface ids")
	// ErrInterfaceInUse indicates a connection endpoint that is already connected
	// while the store rejects reconnects.
	ErrInterfaceInUse = errors.New("interface already connected")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
)
