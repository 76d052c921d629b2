// Package value defines the recorded-value variant stored in a regression
// reference: a scalar float, an ordered vector of per-rank floats, or a
// nested mapping from string keys to further recorded values. Comparison
// and serialization are structural recursion over the variant.
package value

import (
	"fmt"
	"sort"

	"github.com/YuminosukeSato/regtest/pkg/errors"
)

// Kind discriminates the recorded-value variant.
type Kind int

const (
	// KindScalar is a single float64.
	KindScalar Kind = iota
	// KindVector is an ordered sequence of float64, one per rank.
	KindVector
	// KindMap is an ordered mapping from string keys to nested values.
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMap:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is one recorded value. The zero Value is the scalar 0.
type Value struct {
	kind   Kind
	scalar float64
	vector []float64
	m      *Map
}

// Map is a string-keyed mapping that preserves insertion order, so the
// serialized reference stays readable in the order values were recorded.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap creates an empty ordered mapping.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set inserts or overwrites a key. A new key is appended to the order.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value for key and whether it exists.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// Scalar wraps a float64.
func Scalar(v float64) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Vector wraps a slice of float64. The slice is copied.
func Vector(v []float64) Value {
	out := make([]float64, len(v))
	copy(out, v)
	return Value{kind: KindVector, vector: out}
}

// FromMap wraps an ordered mapping.
func FromMap(m *Map) Value {
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant discriminator.
func (v Value) Kind() Kind {
	return v.kind
}

// AsScalar returns the scalar payload. Valid only for KindScalar.
func (v Value) AsScalar() float64 {
	return v.scalar
}

// AsVector returns a copy of the vector payload. Valid only for KindVector.
func (v Value) AsVector() []float64 {
	out := make([]float64, len(v.vector))
	copy(out, v.vector)
	return out
}

// AsMap returns the mapping payload. Valid only for KindMap.
func (v Value) AsMap() *Map {
	return v.m
}

// FromAny converts a dynamically-typed value into the recorded variant.
// Accepted leaves are numeric Go types and numeric slices; mappings may be
// map[string]any or map[string]float64 and are converted recursively with
// keys sorted for determinism, since Go map iteration carries no order.
// Anything else yields an InvalidValueError naming the offending path.
func FromAny(key string, raw any) (Value, error) {
	return fromAny(key, "", raw)
}

func fromAny(key, path string, raw any) (Value, error) {
	switch x := raw.(type) {
	case float64:
		return Scalar(x), nil
	case float32:
		return Scalar(float64(x)), nil
	case int:
		return Scalar(float64(x)), nil
	case int32:
		return Scalar(float64(x)), nil
	case int64:
		return Scalar(float64(x)), nil
	case []float64:
		return Vector(x), nil
	case []any:
		vec := make([]float64, len(x))
		for i, elem := range x {
			ev, err := fromAny(key, childPath(path, fmt.Sprintf("[%d]", i)), elem)
			if err != nil {
				return Value{}, err
			}
			if ev.Kind() != KindScalar {
				return Value{}, errors.NewInvalidValueError(key, path,
					fmt.Sprintf("sequence element %d is %s, want numeric", i, ev.Kind()))
			}
			vec[i] = ev.AsScalar()
		}
		return Value{kind: KindVector, vector: vec}, nil
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(x) {
			child, err := fromAny(key, childPath(path, k), x[k])
			if err != nil {
				return Value{}, err
			}
			m.Set(k, child)
		}
		return FromMap(m), nil
	case map[string]float64:
		m := NewMap()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, Scalar(x[k]))
		}
		return FromMap(m), nil
	case Value:
		return x, nil
	default:
		return Value{}, errors.NewInvalidValueError(key, path,
			fmt.Sprintf("leaf is %T, want numeric or nested mapping", raw))
	}
}

// ToAny exports the value as plain Go types: float64, []float64, or
// map[string]any, recursively.
func (v Value) ToAny() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindVector:
		return v.AsVector()
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for _, k := range v.m.keys {
			out[k] = v.m.vals[k].ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal reports exact structural and numeric equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.scalar == other.scalar
	case KindVector:
		if len(v.vector) != len(other.vector) {
			return false
		}
		for i := range v.vector {
			if v.vector[i] != other.vector[i] {
				return false
			}
		}
		return true
	case KindMap:
		if v.m.Len() != other.m.Len() {
			return false
		}
		for _, k := range v.m.keys {
			ov, ok := other.m.Get(k)
			if !ok || !v.m.vals[k].Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
