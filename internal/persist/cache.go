// Package persist keeps values in memory and writes them to a durable
// key-value store, coalescing bursts of writes.
package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/repository"
)

// DefaultWindow is the minimum spacing between two physical writes of one key.
const DefaultWindow = 150 * time.Millisecond

// State is the write state of a cache.
type State int

const (
	// StateIdle means nothing has been written since the cache was loaded.
	StateIdle State = iota
	// StatePersisted means the stored value matches memory.
	StatePersisted
	// StateDirty means a write is pending.
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePersisted:
		return "persisted"
	case StateDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Config holds the collaborators shared by every cache.
type Config struct {
	Clock   clock.Clock
	Window  time.Duration
	Logger  *slog.Logger
	Metrics *Metrics
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Cache is the in-memory value of one key.
//
// The first write and any write arriving at least one window after the last
// physical write go straight to the store, even while a value is pending. A
// write inside the window marks the cache dirty and arms a timer; each further
// write inside the window replaces the pending value and re-arms the timer. Flush and Close write a pending value synchronously.
type Cache[T any] struct {
	key     string
	store   repository.KVStore
	codec   Codec[T]
	clock   clock.Clock
	window  time.Duration
	logger  *slog.Logger
	metrics *Metrics

	mu         sync.Mutex
	value      T
	state      State
	lastWrite  time.Time
	hasWritten bool
	timer      clock.Timer
	generation uint64
}

// NewCache loads key from store. A missing key yields def. A stored value that
// cannot be read or decoded is logged and replaced by def in memory; the
// stored bytes stay untouched until the next write.
func NewCache[T any](ctx context.Context, store repository.KVStore, key string, def T, codec Codec[T], cfg Config) *Cache[T] {
	cfg = cfg.withDefaults()
	if codec == nil {
		codec = JSONCodec[T]{}
	}
	c := &Cache[T]{
		key:     key,
		store:   store,
		codec:   codec,
		clock:   cfg.Clock,
		window:  cfg.Window,
		logger:  cfg.Logger.With("key", key),
		metrics: cfg.Metrics,
		value:   def,
	}

	raw, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		c.logger.Error("failed to read stored value, using default", "error", err)
	default:
		value, err := codec.Decode(raw)
		if err != nil {
			c.metrics.parseFailed(key)
			c.logger.Warn("failed to decode stored value, using default", "error", err)
			break
		}
		c.value = value
	}
	return c
}

// Key returns the store key.
func (c *Cache[T]) Key() string {
	return c.key
}

// Get returns the current in-memory value.
func (c *Cache[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// State reports the write state.
func (c *Cache[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Set replaces the value and schedules it for persistence.
func (c *Cache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(value)
}

// Update applies fn to the current value under the cache lock and stores the
// result. It returns the new value.
func (c *Cache[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	value := fn(c.value)
	c.setLocked(value)
	return value
}

// TryUpdate is Update for fallible edits. When fn returns an error the value
// is left alone, nothing is scheduled, and the error is returned.
func (c *Cache[T]) TryUpdate(fn func(T) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, err := fn(c.value)
	if err != nil {
		return c.value, err
	}
	c.setLocked(value)
	return value, nil
}

// Flush writes a pending value now.
func (c *Cache[T]) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushPendingLocked(ctx, TriggerManual)
}

// Close writes a pending value and disarms the timer. It is safe to call more
// than once; the cache stays readable and writable afterwards.
func (c *Cache[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushPendingLocked(context.Background(), TriggerClose)
}

// setLocked writes through when a full window has passed since the last
// physical write, pending or not, so a steady stream of edits still reaches
// the store once per window.
func (c *Cache[T]) setLocked(value T) {
	c.value = value
	if c.hasWritten && c.clock.Now().Sub(c.lastWrite) < c.window {
		c.state = StateDirty
		c.armLocked()
		return
	}
	if err := c.writeLocked(context.Background(), TriggerImmediate); err != nil {
		c.state = StateDirty
		c.armLocked()
	}
}

func (c *Cache[T]) flushPendingLocked(ctx context.Context, trigger string) error {
	if c.state != StateDirty {
		return nil
	}
	return c.writeLocked(ctx, trigger)
}

func (c *Cache[T]) armLocked() {
	c.disarmLocked()
	gen := c.generation
	c.timer = c.clock.AfterFunc(c.window, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.generation {
			return
		}
		c.timer = nil
		_ = c.flushPendingLocked(context.Background(), TriggerTimer)
	})
}

func (c *Cache[T]) disarmLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// writeLocked performs one physical write. On failure the value stays pending.
func (c *Cache[T]) writeLocked(ctx context.Context, trigger string) error {
	raw, err := c.codec.Encode(c.value)
	if err != nil {
		c.metrics.writeFailed(c.key)
		c.logger.Error("failed to encode value", "error", err)
		return err
	}
	if err := c.store.Put(ctx, c.key, raw); err != nil {
		c.metrics.writeFailed(c.key)
		c.logger.Error("failed to persist value", "trigger", trigger, "error", err)
		return err
	}

	c.disarmLocked()
	c.state = StatePersisted
	c.lastWrite = c.clock.Now()
	c.hasWritten = true
	c.metrics.flushed(c.key, trigger)
	c.logger.Debug("value persisted", "trigger", trigger, "bytes", len(raw))
	return nil
}
