package interp

import (
	"sort"
	"strings"

	"github.com/hazel-lang/hazel/internal/config"
	"github.com/hazel-lang/hazel/internal/runtime"
	"github.com/hazel-lang/hazel/internal/symbols"
)

// RegisterBuiltins seeds a symbol table with the callable-driven builtins
// plus a few core routines.
func RegisterBuiltins(t *symbols.Table) error {
	builtins := map[string]runtime.Routine{
		config.CallUserFuncName:      builtinCallUserFunc,
		config.CallUserFuncArrayName: builtinCallUserFuncArray,
		config.IsCallableFuncName:    builtinIsCallable,
		config.ArrayMapFuncName:      builtinArrayMap,
		config.ArrayFilterFuncName:   builtinArrayFilter,
		config.ArrayWalkFuncName:     builtinArrayWalk,
		config.UsortFuncName:         builtinUsort,
		config.StrlenFuncName:        builtinStrlen,
		config.StrtoupperFuncName:    builtinStrtoupper,
	}
	for name, fn := range builtins {
		if err := t.DefineFunction(name, fn); err != nil {
			return err
		}
	}
	return nil
}

// argError reports a bad builtin invocation and returns null. Unlike a
// failed callable resolution this is about the builtin's own arguments,
// so the result is null rather than false.
func argError(ctx *runtime.Context, format string, args ...interface{}) runtime.Value {
	ctx.Diag.Warningf(format, args...)
	return runtime.NullValue
}

// call_user_func(callback, arg...): resolve the descriptor and invoke it.
func builtinCallUserFunc(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 1 {
		return argError(ctx, "%s() expects at least 1 argument, %d given", config.CallUserFuncName, len(args))
	}
	return FromValue(args[0]).Invoke(ctx, args[1:])
}

// call_user_func_array(callback, args): like call_user_func, with the
// arguments supplied as an array in insertion order.
func builtinCallUserFuncArray(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 2 {
		return argError(ctx, "%s() expects exactly 2 arguments, %d given", config.CallUserFuncArrayName, len(args))
	}
	arr, ok := args[1].(*runtime.Array)
	if !ok {
		return argError(ctx, "%s() expects argument 2 to be an array", config.CallUserFuncArrayName)
	}
	return FromValue(args[0]).Invoke(ctx, arr.Values())
}

// is_callable(value): a cheap shape check, no resolution side effect.
func builtinIsCallable(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 1 {
		return argError(ctx, "%s() expects exactly 1 argument, %d given", config.IsCallableFuncName, len(args))
	}
	return runtime.BoolOf(FromValue(args[0]).IsValid())
}

// array_map(callback, array): apply the callback to every value, keys
// preserved. The callback resolves once for the whole traversal.
func builtinArrayMap(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 2 {
		return argError(ctx, "%s() expects exactly 2 arguments, %d given", config.ArrayMapFuncName, len(args))
	}
	arr, ok := args[1].(*runtime.Array)
	if !ok {
		return argError(ctx, "%s() expects argument 2 to be an array", config.ArrayMapFuncName)
	}
	cb := FromValue(args[0])
	out := runtime.NewArray()
	for _, e := range arr.Entries() {
		out.Set(e.Key, cb.Invoke(ctx, []runtime.Value{e.Val}))
	}
	return out
}

// array_filter(array, callback?): keep entries whose callback result is
// truthy; without a callback, keep truthy values. Keys preserved.
func builtinArrayFilter(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) < 1 || len(args) > 2 {
		return argError(ctx, "%s() expects 1 or 2 arguments, %d given", config.ArrayFilterFuncName, len(args))
	}
	arr, ok := args[0].(*runtime.Array)
	if !ok {
		return argError(ctx, "%s() expects argument 1 to be an array", config.ArrayFilterFuncName)
	}
	keep := runtime.Truthy
	if len(args) == 2 {
		cb := FromValue(args[1])
		keep = func(v runtime.Value) bool {
			return runtime.Truthy(cb.Invoke(ctx, []runtime.Value{v}))
		}
	}
	out := runtime.NewArray()
	for _, e := range arr.Entries() {
		if keep(e.Val) {
			out.Set(e.Key, e.Val)
		}
	}
	return out
}

// array_walk(array, callback): invoke callback(value, key) for every
// entry. Returns true.
func builtinArrayWalk(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 2 {
		return argError(ctx, "%s() expects exactly 2 arguments, %d given", config.ArrayWalkFuncName, len(args))
	}
	arr, ok := args[0].(*runtime.Array)
	if !ok {
		return argError(ctx, "%s() expects argument 1 to be an array", config.ArrayWalkFuncName)
	}
	cb := FromValue(args[1])
	for _, e := range arr.Entries() {
		cb.Invoke(ctx, []runtime.Value{e.Val, e.Key})
	}
	return runtime.TrueValue
}

// usort(array, comparator): sort values by the comparator, reindexed from
// zero. Values are immutable here, so the sorted array is returned rather
// than written back through a reference.
func builtinUsort(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 2 {
		return argError(ctx, "%s() expects exactly 2 arguments, %d given", config.UsortFuncName, len(args))
	}
	arr, ok := args[0].(*runtime.Array)
	if !ok {
		return argError(ctx, "%s() expects argument 1 to be an array", config.UsortFuncName)
	}
	cb := FromValue(args[1])
	vals := arr.Values()
	sort.SliceStable(vals, func(i, j int) bool {
		return compareResult(cb.Invoke(ctx, []runtime.Value{vals[i], vals[j]})) < 0
	})
	return runtime.NewArrayOf(vals...)
}

func compareResult(v runtime.Value) int64 {
	switch r := v.(type) {
	case *runtime.Integer:
		return r.Value
	case *runtime.Float:
		switch {
		case r.Value < 0:
			return -1
		case r.Value > 0:
			return 1
		}
	}
	return 0
}

func builtinStrlen(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 1 {
		return argError(ctx, "%s() expects exactly 1 argument, %d given", config.StrlenFuncName, len(args))
	}
	s, ok := args[0].(*runtime.String)
	if !ok {
		return argError(ctx, "%s() expects argument 1 to be a string", config.StrlenFuncName)
	}
	return &runtime.Integer{Value: int64(len(s.Value))}
}

func builtinStrtoupper(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	if len(args) != 1 {
		return argError(ctx, "%s() expects exactly 1 argument, %d given", config.StrtoupperFuncName, len(args))
	}
	s, ok := args[0].(*runtime.String)
	if !ok {
		return argError(ctx, "%s() expects argument 1 to be a string", config.StrtoupperFuncName)
	}
	return &runtime.String{Value: strings.ToUpper(s.Value)}
}
