package persist

import (
	"context"
	"errors"
	"sync"
)

// Flusher is a cache as seen by the Hub.
type Flusher interface {
	Key() string
	Flush(ctx context.Context) error
	Close() error
}

// Hub tracks every cache of a process so pending writes can be flushed on
// exit or teardown.
type Hub struct {
	mu     sync.Mutex
	caches []Flusher
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Register adds caches to the hub.
func (h *Hub) Register(caches ...Flusher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.caches = append(h.caches, caches...)
}

// FlushAll writes every pending value. It is the process-exit hook.
func (h *Hub) FlushAll(ctx context.Context) error {
	var errs []error
	for _, c := range h.snapshot() {
		if err := c.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close tears down every registered cache.
func (h *Hub) Close() error {
	var errs []error
	for _, c := range h.snapshot() {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Hub) snapshot() []Flusher {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Flusher(nil), h.caches...)
}
