// Package symbols implements the live symbol environment: the registry of
// declared functions and classes that callable resolution queries.
// Function, class, and method names are case-insensitive; the declared
// spelling is preserved for display.
package symbols

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hazel-lang/hazel/internal/runtime"
)

// function is a declared routine plus its declared spelling.
type function struct {
	name string
	fn   runtime.Routine
}

// Table is the symbol environment. Declarations may arrive at any point
// during execution; lookups and definitions are safe to interleave.
type Table struct {
	mu        sync.RWMutex
	functions map[string]*function
	classes   map[string]*Class
}

func NewTable() *Table {
	return &Table{
		functions: make(map[string]*function),
		classes:   make(map[string]*Class),
	}
}

func fold(name string) string { return strings.ToLower(name) }

// DefineFunction declares a function. Redeclaring an existing name is an
// error, as in the host language.
func (t *Table) DefineFunction(name string, fn runtime.Routine) error {
	if name == "" {
		return fmt.Errorf("cannot declare function with empty name")
	}
	if fn == nil {
		return fmt.Errorf("cannot declare function %s with nil routine", name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := fold(name)
	if existing, ok := t.functions[key]; ok {
		return fmt.Errorf("cannot redeclare function %s()", existing.name)
	}
	t.functions[key] = &function{name: name, fn: fn}
	return nil
}

// DefineClass declares a class, optionally extending parentName. The
// parent must already be declared, which keeps base chains acyclic by
// construction.
func (t *Table) DefineClass(name string, parentName string) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("cannot declare class with empty name")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	key := fold(name)
	if existing, ok := t.classes[key]; ok {
		return nil, fmt.Errorf("cannot redeclare class %s", existing.name)
	}
	var parent *Class
	if parentName != "" {
		p, ok := t.classes[fold(parentName)]
		if !ok {
			return nil, fmt.Errorf("class %s extends undeclared class %s", name, parentName)
		}
		parent = p
	}
	cls := newClass(name, parent)
	t.classes[key] = cls
	return cls, nil
}

// LookupFunction implements runtime.SymbolSource.
func (t *Table) LookupFunction(name string) (runtime.Routine, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.functions[fold(name)]
	if !ok {
		return nil, false
	}
	return f.fn, true
}

// LookupClass implements runtime.SymbolSource.
func (t *Table) LookupClass(name string) (runtime.ClassRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cls, ok := t.classes[fold(name)]
	if !ok {
		return nil, false
	}
	return cls, true
}
