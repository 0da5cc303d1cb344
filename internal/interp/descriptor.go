// Package interp provides the call sites built on callable resolution: the
// call_user_func family, the array higher-order functions, and descriptor
// conversion from dynamic values.
package interp

import (
	"github.com/hazel-lang/hazel/internal/callable"
	"github.com/hazel-lang/hazel/internal/runtime"
)

// FromValue converts a dynamic value into a callable descriptor:
// a string resolves by name (optionally "Class::method"), a two-element
// array is a [target, method] pair, a routine value is already bound.
// Everything else is invalid.
func FromValue(v runtime.Value) *callable.Callable {
	switch val := v.(type) {
	case *runtime.String:
		return callable.FromName(val.Value)
	case *runtime.RoutineValue:
		return callable.FromRoutine(val.Fn)
	case *runtime.Array:
		if val.Len() != 2 {
			return callable.Invalid()
		}
		return callable.FromPair(val.At(0).Val, val.At(1).Val)
	}
	return callable.Invalid()
}
