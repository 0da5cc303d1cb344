package symbols

import (
	"fmt"
	"sync"

	"github.com/hazel-lang/hazel/internal/runtime"
)

// MethodImpl is the raw shape of a declared method body. The target is nil
// for static-style calls.
type MethodImpl func(ctx *runtime.Context, target *runtime.Instance, args []runtime.Value) runtime.Value

// Class is a declared class: an own-method table plus a single optional
// parent link. Implements runtime.ClassRecord.
type Class struct {
	name   string
	parent *Class

	mu      sync.RWMutex
	methods map[string]*Method
}

func newClass(name string, parent *Class) *Class {
	return &Class{name: name, parent: parent, methods: make(map[string]*Method)}
}

func (c *Class) Name() string { return c.name }

// DefineMethod declares a method on this class's own table.
func (c *Class) DefineMethod(name string, impl MethodImpl) (*Method, error) {
	if name == "" {
		return nil, fmt.Errorf("class %s: cannot declare method with empty name", c.name)
	}
	if impl == nil {
		return nil, fmt.Errorf("class %s: cannot declare method %s with nil body", c.name, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fold(name)
	if existing, ok := c.methods[key]; ok {
		return nil, fmt.Errorf("cannot redeclare method %s::%s()", c.name, existing.name)
	}
	m := &Method{name: name, class: c, impl: impl}
	c.methods[key] = m
	return m, nil
}

// Method implements runtime.ClassRecord: own table only, no inheritance.
func (c *Class) Method(name string) (runtime.MethodRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.methods[fold(name)]
	if !ok {
		return nil, false
	}
	return m, true
}

// Base implements runtime.ClassRecord.
func (c *Class) Base() (runtime.ClassRecord, bool) {
	if c.parent == nil {
		return nil, false
	}
	return c.parent, true
}

// New constructs an instance of this class.
func (c *Class) New() *runtime.Instance {
	return runtime.NewInstance(c)
}

// Method is a declared method before binding.
type Method struct {
	name  string
	class *Class
	impl  MethodImpl
}

func (m *Method) Name() string { return m.name }

// Bind curries the target into the method body, producing the uniform
// routine shape used by every call site.
func (m *Method) Bind(target *runtime.Instance) runtime.Routine {
	return func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		return m.impl(ctx, target, args)
	}
}
