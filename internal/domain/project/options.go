package project

import (
	"log/slog"

	"github.com/rpggio/require/internal/clock"
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/domain/template"
)

// ReconnectPolicy decides what CreateConnection does with an endpoint that is
// already connected.
type ReconnectPolicy int

const (
	// ReconnectOverwrite repoints the interface at the new connection and leaves
	// the previous connection in place.
	ReconnectOverwrite ReconnectPolicy = iota
	// ReconnectReject fails with ErrInterfaceInUse.
	ReconnectReject
)

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id source.
func WithIDGenerator(ids model.IDGenerator) Option {
	return func(s *Store) { s.ids = ids }
}

// WithClock overrides the time source used for view timestamps.
func WithClock(clk clock.Clock) Option {
	return func(s *Store) { s.clock = clk }
}

// WithChecker overrides the compatibility rule.
func WithChecker(checker model.Checker) Option {
	return func(s *Store) { s.checker = checker }
}

// WithTemplates sets the template registry used by CreateFromTemplate.
func WithTemplates(reg *template.Registry) Option {
	return func(s *Store) { s.templates = reg }
}

// WithReconnectPolicy sets how already-connected endpoints are handled.
func WithReconnectPolicy(policy ReconnectPolicy) Option {
	return func(s *Store) { s.reconnect = policy }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// RemoveOptions controls RemoveComponent.
type RemoveOptions struct {
	// Cascade also removes every descendant (parentId chain) of the component.
	// Without it, direct children are re-parented to the removed component's parent.
	Cascade bool
}
