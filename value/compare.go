package value

import (
	"fmt"

	"github.com/YuminosukeSato/regtest/pkg/errors"
	"github.com/YuminosukeSato/regtest/tolerance"
)

// Compare checks actual against ref leaf by leaf under the given tolerance.
// Nested mappings must agree on their key sets at every level; a missing or
// extra key is a mismatch in its own right. The first failing leaf aborts
// the walk with a MismatchError naming the key and path.
func Compare(key string, actual, ref Value, tol tolerance.Tolerance) error {
	return compare(key, "", actual, ref, tol)
}

func compare(key, path string, actual, ref Value, tol tolerance.Tolerance) error {
	if actual.kind != ref.kind {
		return errors.NewStructuralMismatchError(key, path,
			fmt.Sprintf("got %s, reference is %s", actual.kind, ref.kind))
	}

	switch ref.kind {
	case KindScalar:
		if !tol.Within(actual.scalar, ref.scalar) {
			return errors.NewMismatchError(key, path, actual.scalar, ref.scalar, tol.Rel, tol.Abs)
		}
		return nil

	case KindVector:
		if len(actual.vector) != len(ref.vector) {
			return errors.NewStructuralMismatchError(key, path,
				fmt.Sprintf("got %d elements, reference has %d", len(actual.vector), len(ref.vector)))
		}
		for i := range ref.vector {
			if !tol.Within(actual.vector[i], ref.vector[i]) {
				return errors.NewMismatchError(key, childPath(path, fmt.Sprintf("[%d]", i)),
					actual.vector[i], ref.vector[i], tol.Rel, tol.Abs)
			}
		}
		return nil

	case KindMap:
		for _, k := range ref.m.keys {
			av, ok := actual.m.Get(k)
			if !ok {
				return errors.NewStructuralMismatchError(key, path, fmt.Sprintf("missing key %q", k))
			}
			if err := compare(key, childPath(path, k), av, ref.m.vals[k], tol); err != nil {
				return err
			}
		}
		for _, k := range actual.m.keys {
			if _, ok := ref.m.Get(k); !ok {
				return errors.NewStructuralMismatchError(key, path, fmt.Sprintf("unexpected key %q", k))
			}
		}
		return nil

	default:
		return errors.Newf("regtest: unknown value kind %d", ref.kind)
	}
}
