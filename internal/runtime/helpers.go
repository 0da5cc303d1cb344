package runtime

import "strconv"

// Truthy implements the host language's boolean coercion: null, false,
// zero, the empty string, and the empty array are falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *Nil:
		return false
	case *Boolean:
		return val.Value
	case *Integer:
		return val.Value != 0
	case *Float:
		return val.Value != 0
	case *String:
		return val.Value != "" && val.Value != "0"
	case *Array:
		return val.Len() > 0
	case nil:
		return false
	}
	return true
}

// ToText converts a value to its textual form for use as a class or method
// name. Values with no sensible text form report false.
func ToText(v Value) (string, bool) {
	switch val := v.(type) {
	case *String:
		return val.Value, true
	case *Integer:
		return strconv.FormatInt(val.Value, 10), true
	case *Float:
		return strconv.FormatFloat(val.Value, 'g', -1, 64), true
	}
	return "", false
}
