// Package hazel is the embedding API for the hazel runtime core: build a
// VM, declare functions and classes, and invoke callables by descriptor.
package hazel

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/hazel-lang/hazel/internal/config"
	"github.com/hazel-lang/hazel/internal/diag"
	"github.com/hazel-lang/hazel/internal/interp"
	"github.com/hazel-lang/hazel/internal/runtime"
	"github.com/hazel-lang/hazel/internal/symbols"
)

// VM holds one execution context: a symbol table seeded with the builtins,
// a diagnostic reporter, and the Go value marshaller.
type VM struct {
	table      *symbols.Table
	ctx        *runtime.Context
	reporter   *diag.Reporter
	marshaller *Marshaller
}

// Option configures a VM at construction.
type Option func(*vmOptions)

type vmOptions struct {
	settings *config.Settings
	diagOut  io.Writer
}

// WithSettings supplies runtime settings (see config.Load).
func WithSettings(s *config.Settings) Option {
	return func(o *vmOptions) { o.settings = s }
}

// WithDiagWriter redirects diagnostics away from stderr.
func WithDiagWriter(w io.Writer) Option {
	return func(o *vmOptions) { o.diagOut = w }
}

// New creates a VM instance.
func New(opts ...Option) (*VM, error) {
	o := vmOptions{settings: config.Default(), diagOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	level, err := diag.ParseLevel(o.settings.DiagLevel)
	if err != nil {
		return nil, err
	}
	reporter := diag.NewReporter(o.diagOut, level)
	switch o.settings.Color {
	case "always":
		reporter.SetColor(true)
	case "never":
		reporter.SetColor(false)
	}

	table := symbols.NewTable()
	if err := interp.RegisterBuiltins(table); err != nil {
		return nil, err
	}
	ctx := runtime.NewContext(table, reporter)
	ctx.Settings = o.settings

	return &VM{
		table:      table,
		ctx:        ctx,
		reporter:   reporter,
		marshaller: NewMarshaller(),
	}, nil
}

// Reporter exposes the VM's diagnostic reporter.
func (v *VM) Reporter() *diag.Reporter { return v.reporter }

// Version reports the runtime core version.
func (v *VM) Version() string { return config.Version }

// RegisterFunction declares a Go function under name. Arguments and the
// return value are marshalled; a trailing error return becomes a warning
// plus a false result when non-nil.
func (v *VM) RegisterFunction(name string, fn interface{}) error {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return fmt.Errorf("RegisterFunction %s: not a function", name)
	}
	return v.table.DefineFunction(name, v.marshaller.goFuncRoutine(name, rv))
}

// DefineClass starts declaring a class; parent may be empty.
func (v *VM) DefineClass(name, parent string) *ClassBuilder {
	cls, err := v.table.DefineClass(name, parent)
	return &ClassBuilder{vm: v, cls: cls, err: err}
}

// ClassBuilder declares methods on a class fluently; the first error wins
// and surfaces from Err.
type ClassBuilder struct {
	vm  *VM
	cls *symbols.Class
	err error
}

// Method declares a method. The implementation receives the bound target
// (nil for static-style calls) and marshalled arguments.
func (b *ClassBuilder) Method(name string, impl func(target *Object, args []interface{}) interface{}) *ClassBuilder {
	if b.err != nil {
		return b
	}
	m := b.vm.marshaller
	_, b.err = b.cls.DefineMethod(name, func(ctx *runtime.Context, target *runtime.Instance, args []runtime.Value) runtime.Value {
		var obj *Object
		if target != nil {
			obj = &Object{inst: target, m: m}
		}
		goArgs := make([]interface{}, len(args))
		for i, a := range args {
			goArgs[i], _ = m.FromValue(a, nil)
		}
		out, err := m.ToValue(impl(obj, goArgs))
		if err != nil {
			ctx.Diag.Warningf("method %s::%s: %v", b.cls.Name(), name, err)
			return runtime.NullValue
		}
		return out
	})
	return b
}

// Err returns the first declaration error, if any.
func (b *ClassBuilder) Err() error { return b.err }

// NewObject instantiates a declared class.
func (v *VM) NewObject(className string) (*Object, error) {
	cls, ok := v.table.LookupClass(className)
	if !ok {
		return nil, fmt.Errorf("class %s is not declared", className)
	}
	return &Object{inst: runtime.NewInstance(cls), m: v.marshaller}, nil
}

// Object wraps a runtime instance for the host.
type Object struct {
	inst *runtime.Instance
	m    *Marshaller
}

// Handle returns the instance's unique identity string.
func (o *Object) Handle() string { return o.inst.Handle() }

// ClassName returns the declared class name.
func (o *Object) ClassName() string { return o.inst.Class().Name() }

// Get reads a property as a Go value.
func (o *Object) Get(name string) (interface{}, bool) {
	v, ok := o.inst.GetProp(name)
	if !ok {
		return nil, false
	}
	out, err := o.m.FromValue(v, nil)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Set writes a property from a Go value.
func (o *Object) Set(name string, val interface{}) error {
	v, err := o.m.ToValue(val)
	if err != nil {
		return err
	}
	o.inst.SetProp(name, v)
	return nil
}

// Call resolves a callable descriptor and invokes it. The descriptor is a
// name string ("strlen", "Class::method"), a two-element pair
// ([]interface{}{target, "method"}), a Go function, or a routine value
// handed back from an earlier call.
func (v *VM) Call(descriptor interface{}, args ...interface{}) (interface{}, error) {
	desc, err := v.marshaller.ToValue(descriptor)
	if err != nil {
		return nil, fmt.Errorf("callable descriptor: %w", err)
	}
	vals := make([]runtime.Value, len(args))
	for i, a := range args {
		if vals[i], err = v.marshaller.ToValue(a); err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	result := interp.FromValue(desc).Invoke(v.ctx, vals)
	return v.marshaller.FromValue(result, nil)
}
