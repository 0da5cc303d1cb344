package runtime

import (
	"github.com/hazel-lang/hazel/internal/config"
	"github.com/hazel-lang/hazel/internal/diag"
)

// Routine is the uniform bound-routine shape every call site invokes.
// When a routine originates from an instance method, the target is already
// captured inside the closure (see MethodRecord.Bind).
type Routine func(ctx *Context, args []Value) Value

// SymbolSource is the live table of declared functions and classes queried
// during callable resolution. Declarations may keep arriving while lookups
// run; implementations must be safe for that.
type SymbolSource interface {
	LookupFunction(name string) (Routine, bool)
	LookupClass(name string) (ClassRecord, bool)
}

// ClassRecord exposes a class's own method table and its single optional
// base class. Method consults the own table only; inheritance is the
// caller's walk. The symbol environment guarantees base chains are acyclic.
type ClassRecord interface {
	Name() string
	Method(name string) (MethodRecord, bool)
	Base() (ClassRecord, bool)
}

// MethodRecord is a declared method before binding.
type MethodRecord interface {
	Name() string
	// Bind fixes the execution target, producing the uniform Routine shape.
	// A nil target yields a static-style binding.
	Bind(target *Instance) Routine
}

// Context is the per-script execution context threaded through every
// invocation.
type Context struct {
	Symbols  SymbolSource
	Diag     *diag.Reporter
	Settings *config.Settings
}

// NewContext wires a context over a symbol source with default settings.
func NewContext(symbols SymbolSource, reporter *diag.Reporter) *Context {
	return &Context{
		Symbols:  symbols,
		Diag:     reporter,
		Settings: config.Default(),
	}
}
