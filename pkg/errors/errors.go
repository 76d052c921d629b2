// Package errors provides the failure taxonomy for the regression-test
// value store. Every failure a recording or comparison can produce maps to
// a distinct error type so that callers can discriminate them with As,
// and every constructor attaches a stack trace via cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// DuplicateKeyError is raised when a TRAIN-mode registration reuses a key
// that was already recorded in the same session without compare set.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("regtest: key %q is already registered in this training session", e.Key)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DuplicateKeyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Str("type", "DuplicateKeyError")
}

// NewDuplicateKeyError creates a DuplicateKeyError with a stack trace.
func NewDuplicateKeyError(key string) error {
	err := &DuplicateKeyError{Key: key}
	return errors.WithStack(err)
}

// MismatchError is raised when a compared value falls outside the resolved
// tolerance of its reference, or when the compared structures disagree on
// shape (missing or extra nested keys, vector length, kind).
type MismatchError struct {
	Key      string
	Path     string // leaf path within a nested value, "" for the top level
	Actual   float64
	Expected float64
	Rel      float64
	Abs      float64
	Reason   string // set for structural mismatches instead of Actual/Expected
}

func (e *MismatchError) Error() string {
	loc := e.Key
	if e.Path != "" {
		loc = e.Key + "." + e.Path
	}
	if e.Reason != "" {
		return fmt.Sprintf("regtest: value mismatch for %q: %s", loc, e.Reason)
	}
	return fmt.Sprintf("regtest: value mismatch for %q: got %v, reference %v (rtol=%v, atol=%v)",
		loc, e.Actual, e.Expected, e.Rel, e.Abs)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Str("path", e.Path).
		Float64("actual", e.Actual).
		Float64("expected", e.Expected).
		Float64("rtol", e.Rel).
		Float64("atol", e.Abs).
		Str("reason", e.Reason).
		Str("type", "MismatchError")
}

// NewMismatchError creates a numeric MismatchError with a stack trace.
func NewMismatchError(key, path string, actual, expected, rel, abs float64) error {
	err := &MismatchError{Key: key, Path: path, Actual: actual, Expected: expected, Rel: rel, Abs: abs}
	return errors.WithStack(err)
}

// NewStructuralMismatchError creates a MismatchError describing a shape
// disagreement rather than a numeric one.
func NewStructuralMismatchError(key, path, reason string) error {
	err := &MismatchError{Key: key, Path: path, Reason: reason}
	return errors.WithStack(err)
}

// KeyNotFoundError is raised when a TEST-mode check names a key absent from
// the loaded reference, or a TRAIN-mode compare names a key never stored in
// the session.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("regtest: key %q not found in the reference", e.Key)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *KeyNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Str("type", "KeyNotFoundError")
}

// NewKeyNotFoundError creates a KeyNotFoundError with a stack trace.
func NewKeyNotFoundError(key string) error {
	err := &KeyNotFoundError{Key: key}
	return errors.WithStack(err)
}

// ReferenceNotFoundError is raised by the persistence backend when the
// reference file does not exist at the given path.
type ReferenceNotFoundError struct {
	Path string
	Err  error
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("regtest: reference file %q not found", e.Path)
}

func (e *ReferenceNotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ReferenceNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("type", "ReferenceNotFoundError")
}

// NewReferenceNotFoundError creates a ReferenceNotFoundError with a stack trace.
func NewReferenceNotFoundError(path string, err error) error {
	refErr := &ReferenceNotFoundError{Path: path, Err: err}
	return errors.WithStack(refErr)
}

// CorruptReferenceError is raised when a reference file exists but cannot
// be parsed into the expected document shape.
type CorruptReferenceError struct {
	Path string
	Err  error
}

func (e *CorruptReferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("regtest: reference file %q is corrupt: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("regtest: reference file %q is corrupt", e.Path)
}

func (e *CorruptReferenceError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *CorruptReferenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		AnErr("cause", e.Err).
		Str("type", "CorruptReferenceError")
}

// NewCorruptReferenceError creates a CorruptReferenceError with a stack trace.
func NewCorruptReferenceError(path string, err error) error {
	corruptErr := &CorruptReferenceError{Path: path, Err: err}
	return errors.WithStack(corruptErr)
}

// InvalidValueError is raised when a registered value cannot be represented
// as a recorded value: a dictionary leaf that is neither numeric nor a
// nested mapping, or an unsupported leaf type.
type InvalidValueError struct {
	Key    string
	Path   string
	Reason string
}

func (e *InvalidValueError) Error() string {
	loc := e.Key
	if e.Path != "" {
		loc = e.Key + "." + e.Path
	}
	return fmt.Sprintf("regtest: invalid value for %q: %s", loc, e.Reason)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *InvalidValueError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("key", e.Key).
		Str("path", e.Path).
		Str("reason", e.Reason).
		Str("type", "InvalidValueError")
}

// NewInvalidValueError creates an InvalidValueError with a stack trace.
func NewInvalidValueError(key, path, reason string) error {
	err := &InvalidValueError{Key: key, Path: path, Reason: reason}
	return errors.WithStack(err)
}

// SessionClosedError is raised when a recording operation is attempted on
// a session whose scope has already been released.
type SessionClosedError struct {
	Op string
}

func (e *SessionClosedError) Error() string {
	return fmt.Sprintf("regtest: %s called on a closed session", e.Op)
}

// NewSessionClosedError creates a SessionClosedError with a stack trace.
func NewSessionClosedError(op string) error {
	err := &SessionClosedError{Op: op}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches the target error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As reports whether err can be assigned to the target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack attaches a stack trace to an error.
func WithStack(err error) error {
	return errors.WithStack(err)
}
