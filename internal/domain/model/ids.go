package model

import "github.com/google/uuid"

// IDGenerator produces unique entity ids.
type IDGenerator func() string

// NewID is the default IDGenerator.
func NewID() string {
	return uuid.NewString()
}
