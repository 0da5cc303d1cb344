package runtime

import (
	"fmt"
	"strings"
)

// Entry is one key/value slot of an Array.
type Entry struct {
	Key Value // *Integer or *String
	Val Value
}

// Array is an insertion-ordered map with integer and string keys, the
// host language's single sequence/dictionary type. Appends without an
// explicit key take the next free integer index.
type Array struct {
	entries   []Entry
	index     map[string]int
	nextIndex int64
}

func NewArray() *Array {
	return &Array{index: make(map[string]int)}
}

// NewArrayOf builds an integer-indexed array from vals.
func NewArrayOf(vals ...Value) *Array {
	a := NewArray()
	for _, v := range vals {
		a.Append(v)
	}
	return a
}

func keySlot(key Value) (string, bool) {
	switch k := key.(type) {
	case *Integer:
		return fmt.Sprintf("i:%d", k.Value), true
	case *String:
		return "s:" + k.Value, true
	}
	return "", false
}

// Append inserts v at the next free integer index.
func (a *Array) Append(v Value) {
	a.Set(&Integer{Value: a.nextIndex}, v)
}

// Set inserts or replaces the entry for key. Keys other than Integer or
// String are ignored, matching the host language's array coercion rules
// for unsupported key types.
func (a *Array) Set(key Value, v Value) {
	slot, ok := keySlot(key)
	if !ok {
		return
	}
	if i, exists := a.index[slot]; exists {
		a.entries[i].Val = v
		return
	}
	a.index[slot] = len(a.entries)
	a.entries = append(a.entries, Entry{Key: key, Val: v})
	if ik, ok := key.(*Integer); ok && ik.Value >= a.nextIndex {
		a.nextIndex = ik.Value + 1
	}
}

// Get returns the value for key.
func (a *Array) Get(key Value) (Value, bool) {
	slot, ok := keySlot(key)
	if !ok {
		return nil, false
	}
	i, exists := a.index[slot]
	if !exists {
		return nil, false
	}
	return a.entries[i].Val, true
}

// At returns the i-th entry in insertion order.
func (a *Array) At(i int) Entry { return a.entries[i] }

func (a *Array) Len() int { return len(a.entries) }

// Entries returns the backing slice in insertion order. Callers must not
// mutate it.
func (a *Array) Entries() []Entry { return a.entries }

// Values returns the values in insertion order.
func (a *Array) Values() []Value {
	vals := make([]Value, len(a.entries))
	for i, e := range a.entries {
		vals[i] = e.Val
	}
	return vals
}

func (a *Array) Type() ValueType { return ARRAY_VALUE }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.entries))
	for i, e := range a.entries {
		parts[i] = fmt.Sprintf("%s => %s", e.Key.Inspect(), e.Val.Inspect())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) Hash() uint32 {
	h := uint32(17)
	for _, e := range a.entries {
		h = 31*h + e.Key.Hash()
		h = 31*h + e.Val.Hash()
	}
	return h
}
