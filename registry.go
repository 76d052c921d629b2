package regtest

import (
	"github.com/YuminosukeSato/regtest/pkg/errors"
	"github.com/YuminosukeSato/regtest/tolerance"
	"github.com/YuminosukeSato/regtest/value"
)

// Registry is the in-memory key-to-value mapping for the current run. In
// training mode it enforces key uniqueness; confirmation re-registrations
// and testing-mode checks compare against a stored value by key.
type Registry struct {
	entries *value.Map
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: value.NewMap()}
}

// Add stores a new entry. Reusing a key fails with DuplicateKeyError; the
// stored value is never overwritten.
func (r *Registry) Add(key string, v value.Value) error {
	if _, ok := r.entries.Get(key); ok {
		return errors.NewDuplicateKeyError(key)
	}
	r.entries.Set(key, v)
	return nil
}

// Confirm checks v against a previously stored entry without adding one.
// The key must already exist (KeyNotFoundError otherwise); a value outside
// tol of the stored one fails with MismatchError. On success the stored
// value is left untouched.
func (r *Registry) Confirm(key string, v value.Value, tol tolerance.Tolerance) error {
	stored, ok := r.entries.Get(key)
	if !ok {
		return errors.NewKeyNotFoundError(key)
	}
	return value.Compare(key, v, stored, tol)
}

// Check compares v against the entry for key in a loaded reference
// snapshot, leaf by leaf for nested values.
func Check(ref *value.Map, key string, v value.Value, tol tolerance.Tolerance) error {
	stored, ok := ref.Get(key)
	if !ok {
		return errors.NewKeyNotFoundError(key)
	}
	return value.Compare(key, v, stored, tol)
}

// Entries returns the underlying ordered mapping.
func (r *Registry) Entries() *value.Map {
	return r.entries
}

// Len returns the number of recorded entries.
func (r *Registry) Len() int {
	return r.entries.Len()
}
