// Package callable implements late-bound callable resolution: turning a
// descriptor of something invocable (a name, a "Class::method" string, a
// [target, method] pair, or an already-bound routine) into a concrete
// routine, resolved against the live symbol environment exactly once per
// call site and cached.
//
// Resolution failures are cached too: a callable that failed to resolve
// keeps returning its fallback routine even if the missing symbol is
// declared later. Call sites that want to observe new declarations must
// construct a fresh Callable. This is a deliberate contract, not a cache
// bug.
//
// A Callable instance belongs to one execution context. Sharing an
// instance across contexts with different symbol tables is not supported:
// the cache holds a single routine, resolved against whichever context got
// there first. The resolve transition itself is mutex-guarded, so
// concurrent first invocations from the same context are safe and observe
// the routine only after it is fully constructed.
package callable

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hazel-lang/hazel/internal/config"
	"github.com/hazel-lang/hazel/internal/runtime"
)

type kind int

const (
	kindResolved kind = iota
	kindName
	kindClassMethod
	kindPair
	kindInvalid
)

// Callable is a resolvable descriptor of an invocable routine. Immutable
// except for the one-time transition from unresolved to resolved.
type Callable struct {
	kind kind

	funcName   string
	className  string
	methodName string
	first      runtime.Value
	second     runtime.Value

	mu      sync.Mutex
	routine runtime.Routine
}

// FromRoutine wraps an already-bound routine. The result is resolved at
// construction; its resolution step is unreachable.
func FromRoutine(r runtime.Routine) *Callable {
	if r == nil {
		return Invalid()
	}
	return &Callable{kind: kindResolved, routine: r}
}

// FromName builds a callable from a plain name. A "Class::method" string
// becomes a class-method descriptor; anything else names a function. The
// empty string is never callable.
func FromName(text string) *Callable {
	if text == "" {
		return Invalid()
	}
	if i := strings.Index(text, config.MethodSeparator); i >= 0 {
		return &Callable{
			kind:       kindClassMethod,
			className:  text[:i],
			methodName: text[i+len(config.MethodSeparator):],
		}
	}
	return &Callable{kind: kindName, funcName: text}
}

// FromPair builds a callable from a [target, method] pair. The payload is
// held verbatim; validation happens at resolution.
func FromPair(first, second runtime.Value) *Callable {
	return &Callable{kind: kindPair, first: first, second: second}
}

// Invalid returns a callable that never resolves.
func Invalid() *Callable {
	return &Callable{kind: kindInvalid}
}

// IsValid reports whether the descriptor has a callable shape. It never
// triggers resolution.
func (c *Callable) IsValid() bool {
	return c.kind != kindInvalid
}

// Name returns a display form of the descriptor for diagnostics.
func (c *Callable) Name() string {
	switch c.kind {
	case kindName:
		return c.funcName
	case kindClassMethod:
		return c.className + config.MethodSeparator + c.methodName
	case kindPair:
		cls, method := c.pairNames()
		return cls + config.MethodSeparator + method
	case kindResolved:
		return "{routine}"
	}
	return "{invalid}"
}

// Invoke resolves the callable if needed and calls the bound routine.
// Resolution failure never surfaces as an abrupt error: the cached
// fallback routine reports a warning and returns false.
func (c *Callable) Invoke(ctx *runtime.Context, args []runtime.Value) runtime.Value {
	return c.ensure(ctx)(ctx, args)
}

// ensure returns the bound routine, resolving on first use.
func (c *Callable) ensure(ctx *runtime.Context) runtime.Routine {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.routine != nil {
		return c.routine
	}

	var (
		r     runtime.Routine
		found bool
	)
	switch c.kind {
	case kindResolved:
		// Routine is assigned at construction; getting here means the
		// embedding runtime corrupted the callable.
		panic("callable: resolved callable reached resolution")
	case kindName:
		r, found = c.resolveName(ctx)
	case kindClassMethod:
		r, found = c.resolveClassMethod(ctx)
	case kindPair:
		r, found = c.resolvePair(ctx)
	case kindInvalid:
		// Never resolvable, never touches the symbol environment.
	}

	if !found {
		r = c.fallback()
	}
	c.routine = r
	return c.routine
}

func (c *Callable) resolveName(ctx *runtime.Context) (runtime.Routine, bool) {
	return ctx.Symbols.LookupFunction(c.funcName)
}

func (c *Callable) resolveClassMethod(ctx *runtime.Context) (runtime.Routine, bool) {
	cls, ok := ctx.Symbols.LookupClass(c.className)
	if !ok {
		return nil, false
	}
	m, ok := lookupMethod(cls, c.methodName)
	if !ok {
		return nil, false
	}
	// No instance was supplied, so the binding is static-style.
	return m.Bind(nil), true
}

func (c *Callable) resolvePair(ctx *runtime.Context) (runtime.Routine, bool) {
	var (
		cls    runtime.ClassRecord
		target *runtime.Instance
	)
	if inst, ok := c.first.(*runtime.Instance); ok {
		cls = inst.Class()
		target = inst
	} else {
		name, ok := runtime.ToText(c.first)
		if !ok {
			return nil, false
		}
		if cls, ok = ctx.Symbols.LookupClass(name); !ok {
			return nil, false
		}
	}
	methodName, ok := runtime.ToText(c.second)
	if !ok {
		return nil, false
	}
	m, ok := lookupMethod(cls, methodName)
	if !ok {
		return nil, false
	}
	return m.Bind(target), true
}

// lookupMethod walks the base-class chain for name, own tables first.
// The chain is acyclic per the symbol environment's contract; the depth
// bound guards against a broken external SymbolSource.
func lookupMethod(cls runtime.ClassRecord, name string) (runtime.MethodRecord, bool) {
	for depth := 0; cls != nil && depth < config.MaxInheritanceDepth; depth++ {
		if m, ok := cls.Method(name); ok {
			return m, true
		}
		base, ok := cls.Base()
		if !ok {
			break
		}
		cls = base
	}
	return nil, false
}

// fallback builds the cached stand-in for a failed resolution: a warning
// plus the canonical false result, never an abort.
func (c *Callable) fallback() runtime.Routine {
	msg := c.failureMessage()
	return func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		ctx.Diag.Warningf("%s", msg)
		return runtime.FalseValue
	}
}

func (c *Callable) failureMessage() string {
	switch c.kind {
	case kindName:
		return fmt.Sprintf("Call to undefined function %s()", c.funcName)
	case kindClassMethod:
		return fmt.Sprintf("Call to undefined method %s::%s()", c.className, c.methodName)
	case kindPair:
		cls, method := c.pairNames()
		if cls == "" || method == "" {
			return "Value is not callable"
		}
		return fmt.Sprintf("Call to undefined method %s::%s()", cls, method)
	}
	return "Value is not callable"
}

func (c *Callable) pairNames() (string, string) {
	var cls, method string
	if inst, ok := c.first.(*runtime.Instance); ok {
		cls = inst.Class().Name()
	} else if text, ok := runtime.ToText(c.first); ok {
		cls = text
	}
	if text, ok := runtime.ToText(c.second); ok {
		method = text
	}
	return cls, method
}
