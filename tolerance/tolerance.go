// Package tolerance resolves optional tol/rtol/atol overrides into the
// effective (relative, absolute) tolerance pair used for every numeric
// comparison against a stored reference.
package tolerance

import "math"

// DefaultFloor is the tolerance applied on any axis that is left
// unconfigured. With both axes at the floor, a comparison is effectively
// an exact match.
const DefaultFloor = 1e-12

// Tolerance is an effective (relative, absolute) tolerance pair.
type Tolerance struct {
	Rel float64
	Abs float64
}

// Option overrides one axis of the resolved tolerance.
type Option func(*config)

type config struct {
	tol  *float64
	rtol *float64
	atol *float64
}

// Tol sets both the relative and the absolute tolerance, unless the axis
// is individually overridden by RTol or ATol.
func Tol(v float64) Option {
	return func(c *config) { c.tol = &v }
}

// RTol sets the relative tolerance.
func RTol(v float64) Option {
	return func(c *config) { c.rtol = &v }
}

// ATol sets the absolute tolerance.
func ATol(v float64) Option {
	return func(c *config) { c.atol = &v }
}

// Resolve computes the effective tolerance pair. Explicit RTol/ATol always
// win on their axis; Tol fills both axes; anything left unset falls back to
// DefaultFloor.
func Resolve(opts ...Option) Tolerance {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	t := Tolerance{Rel: DefaultFloor, Abs: DefaultFloor}
	if c.tol != nil {
		t.Rel = *c.tol
		t.Abs = *c.tol
	}
	if c.rtol != nil {
		t.Rel = *c.rtol
	}
	if c.atol != nil {
		t.Abs = *c.atol
	}
	return t
}

// Within reports whether actual matches expected under the combined test
// |actual-expected| <= Abs + Rel*|expected|. NaN never matches anything,
// equal infinities match.
func (t Tolerance) Within(actual, expected float64) bool {
	if actual == expected {
		return true
	}
	return math.Abs(actual-expected) <= t.Abs+t.Rel*math.Abs(expected)
}
