package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Nil
type Nil struct{}

func (n *Nil) Type() ValueType { return NIL_VALUE }
func (n *Nil) Inspect() string { return "null" }
func (n *Nil) Hash() uint32    { return 0 }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType { return BOOLEAN_VALUE }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Boolean) Hash() uint32 {
	if b.Value {
		return 1
	}
	return 2
}

// Integer
type Integer struct {
	Value int64
}

func (i *Integer) Type() ValueType { return INTEGER_VALUE }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Hash() uint32    { return uint32(i.Value) ^ uint32(i.Value>>32) }

// Float
type Float struct {
	Value float64
}

func (f *Float) Type() ValueType { return FLOAT_VALUE }
func (f *Float) Inspect() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (f *Float) Hash() uint32 {
	bits := math.Float64bits(f.Value)
	return uint32(bits) ^ uint32(bits>>32)
}

// String
type String struct {
	Value string
}

func (s *String) Type() ValueType { return STRING_VALUE }
func (s *String) Inspect() string { return fmt.Sprintf("%q", s.Value) }
func (s *String) Hash() uint32    { return hashString(s.Value) }

// Shared immutable singletons. Scalar values are never mutated after
// construction, so call sites may alias these freely.
var (
	NullValue  = &Nil{}
	TrueValue  = &Boolean{Value: true}
	FalseValue = &Boolean{Value: false}
)

// BoolOf returns the shared Boolean for b.
func BoolOf(b bool) *Boolean {
	if b {
		return TrueValue
	}
	return FalseValue
}
