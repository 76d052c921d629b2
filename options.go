package regtest

import (
	"log/slog"

	"github.com/YuminosukeSato/regtest/comm"
	"github.com/YuminosukeSato/regtest/store"
	"github.com/YuminosukeSato/regtest/tolerance"
)

// SessionOption configures a session at construction.
type SessionOption func(*Session)

// WithComm injects the communicator for parallel recording. The default
// is the serial single-rank communicator.
func WithComm(c comm.Communicator) SessionOption {
	return func(s *Session) { s.comm = c }
}

// WithStore injects the persistence backend. The default is the YAML
// file store.
func WithStore(st store.Store) SessionOption {
	return func(s *Session) { s.store = st }
}

// WithLogger injects the structured logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

// AddOption configures a single recording call.
type AddOption func(*addConfig)

type addConfig struct {
	compare bool
	tolOpts []tolerance.Option
}

// Compare marks a training-mode registration as an idempotent confirmation
// against a previously stored value instead of a new entry.
func Compare() AddOption {
	return func(c *addConfig) { c.compare = true }
}

// Tol sets both tolerance axes for this call.
func Tol(v float64) AddOption {
	return func(c *addConfig) { c.tolOpts = append(c.tolOpts, tolerance.Tol(v)) }
}

// RTol sets the relative tolerance for this call.
func RTol(v float64) AddOption {
	return func(c *addConfig) { c.tolOpts = append(c.tolOpts, tolerance.RTol(v)) }
}

// ATol sets the absolute tolerance for this call.
func ATol(v float64) AddOption {
	return func(c *addConfig) { c.tolOpts = append(c.tolOpts, tolerance.ATol(v)) }
}

func resolveAddConfig(opts []AddOption) (addConfig, tolerance.Tolerance) {
	var c addConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c, tolerance.Resolve(c.tolOpts...)
}
