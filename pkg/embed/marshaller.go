package hazel

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/hazel-lang/hazel/internal/runtime"
)

// Marshaller handles conversion between Go and hazel values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
var valueType = reflect.TypeOf((*runtime.Value)(nil)).Elem()

// ToValue converts a Go value to a hazel value.
func (m *Marshaller) ToValue(val interface{}) (runtime.Value, error) {
	if val == nil {
		return runtime.NullValue, nil
	}
	if v, ok := val.(runtime.Value); ok {
		return v, nil
	}
	if o, ok := val.(*Object); ok {
		return o.inst, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return runtime.BoolOf(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &runtime.Integer{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &runtime.Integer{Value: int64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &runtime.Float{Value: v.Float()}, nil
	case reflect.String:
		return &runtime.String{Value: v.String()}, nil
	case reflect.Slice, reflect.Array:
		arr := runtime.NewArray()
		for i := 0; i < v.Len(); i++ {
			elem, err := m.ToValue(v.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			arr.Append(elem)
		}
		return arr, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		arr := runtime.NewArray()
		for _, k := range keys {
			elem, err := m.ToValue(v.MapIndex(reflect.ValueOf(k)).Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			arr.Set(&runtime.String{Value: k}, elem)
		}
		return arr, nil
	case reflect.Func:
		return &runtime.RoutineValue{Fn: m.goFuncRoutine("", v)}, nil
	}
	return nil, fmt.Errorf("unsupported Go type %T", val)
}

// FromValue converts a hazel value to a Go value. targetType is optional;
// when provided, numeric and string results are converted to it.
func (m *Marshaller) FromValue(v runtime.Value, targetType reflect.Type) (interface{}, error) {
	if targetType != nil && targetType == valueType {
		return v, nil
	}
	var out interface{}
	switch val := v.(type) {
	case nil, *runtime.Nil:
		return nil, nil
	case *runtime.Boolean:
		out = val.Value
	case *runtime.Integer:
		out = val.Value
	case *runtime.Float:
		out = val.Value
	case *runtime.String:
		out = val.Value
	case *runtime.Array:
		return m.arrayToGo(val)
	case *runtime.Instance:
		return &Object{inst: val, m: m}, nil
	case *runtime.RoutineValue:
		// Routines round-trip as opaque values the host can hand back
		// to Call as a descriptor.
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported hazel type %s", v.Type())
	}
	if targetType == nil {
		return out, nil
	}
	rv := reflect.ValueOf(out)
	if rv.Type() == targetType {
		return out, nil
	}
	if rv.Type().ConvertibleTo(targetType) {
		return rv.Convert(targetType).Interface(), nil
	}
	if targetType.Kind() == reflect.Interface && rv.Type().Implements(targetType) {
		return out, nil
	}
	return nil, fmt.Errorf("cannot convert %s to %s", v.Type(), targetType)
}

// arrayToGo maps a list-shaped array (sequential integer keys from zero)
// to a slice and everything else to a string-keyed map.
func (m *Marshaller) arrayToGo(arr *runtime.Array) (interface{}, error) {
	isList := true
	for i, e := range arr.Entries() {
		k, ok := e.Key.(*runtime.Integer)
		if !ok || k.Value != int64(i) {
			isList = false
			break
		}
	}
	if isList {
		out := make([]interface{}, 0, arr.Len())
		for _, e := range arr.Entries() {
			elem, err := m.FromValue(e.Val, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
		return out, nil
	}
	out := make(map[string]interface{}, arr.Len())
	for _, e := range arr.Entries() {
		key, ok := runtime.ToText(e.Key)
		if !ok {
			return nil, fmt.Errorf("unsupported array key %s", e.Key.Type())
		}
		elem, err := m.FromValue(e.Val, nil)
		if err != nil {
			return nil, err
		}
		out[key] = elem
	}
	return out, nil
}

// goFuncRoutine wraps a Go function as a hazel routine. Argument and
// result conversion failures surface as warnings plus a null result; a
// trailing non-nil error return becomes a warning plus false.
func (m *Marshaller) goFuncRoutine(name string, fn reflect.Value) runtime.Routine {
	fnType := fn.Type()
	display := name
	if display == "" {
		display = "{closure}"
	}
	return func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		numIn := fnType.NumIn()
		isVariadic := fnType.IsVariadic()
		if isVariadic {
			if len(args) < numIn-1 {
				ctx.Diag.Warningf("%s() expects at least %d arguments, %d given", display, numIn-1, len(args))
				return runtime.NullValue
			}
		} else if len(args) != numIn {
			ctx.Diag.Warningf("%s() expects exactly %d arguments, %d given", display, numIn, len(args))
			return runtime.NullValue
		}

		goArgs := make([]reflect.Value, len(args))
		for i, arg := range args {
			var targetType reflect.Type
			if isVariadic && i >= numIn-1 {
				targetType = fnType.In(numIn - 1).Elem()
			} else {
				targetType = fnType.In(i)
			}
			val, err := m.FromValue(arg, targetType)
			if err != nil {
				ctx.Diag.Warningf("%s() argument %d: %v", display, i+1, err)
				return runtime.NullValue
			}
			if val == nil {
				goArgs[i] = reflect.Zero(targetType)
			} else {
				goArgs[i] = reflect.ValueOf(val)
			}
		}

		results := fn.Call(goArgs)
		if n := len(results); n > 0 && fnType.Out(n-1) == errorType {
			if errVal := results[n-1]; !errVal.IsNil() {
				ctx.Diag.Warningf("%s(): %v", display, errVal.Interface().(error))
				return runtime.FalseValue
			}
			results = results[:n-1]
		}
		if len(results) == 0 {
			return runtime.NullValue
		}
		out, err := m.ToValue(results[0].Interface())
		if err != nil {
			ctx.Diag.Warningf("%s() result: %v", display, err)
			return runtime.NullValue
		}
		return out
	}
}
