package repository

import "context"

// KVStore is the durable key-value substrate values are persisted to.
// Values are opaque bytes; a missing key returns ErrNotFound.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
