package callable

import (
	"bytes"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hazel-lang/hazel/internal/diag"
	"github.com/hazel-lang/hazel/internal/runtime"
	"github.com/hazel-lang/hazel/internal/symbols"
)

// countingSource wraps a symbol table and counts lookups, so tests can
// observe how often resolution actually hits the environment.
type countingSource struct {
	table        *symbols.Table
	funcLookups  atomic.Int64
	classLookups atomic.Int64
}

func (s *countingSource) LookupFunction(name string) (runtime.Routine, bool) {
	s.funcLookups.Add(1)
	return s.table.LookupFunction(name)
}

func (s *countingSource) LookupClass(name string) (runtime.ClassRecord, bool) {
	s.classLookups.Add(1)
	return s.table.LookupClass(name)
}

func newTestEnv(t *testing.T) (*countingSource, *runtime.Context, *bytes.Buffer) {
	t.Helper()
	src := &countingSource{table: symbols.NewTable()}
	out := &bytes.Buffer{}
	ctx := runtime.NewContext(src, diag.NewReporter(out, diag.Notice))
	return src, ctx, out
}

func defineDouble(t *testing.T, table *symbols.Table) {
	t.Helper()
	err := table.DefineFunction("double", func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		n := args[0].(*runtime.Integer)
		return &runtime.Integer{Value: n.Value * 2}
	})
	if err != nil {
		t.Fatalf("DefineFunction: %v", err)
	}
}

func TestFromNameSplitting(t *testing.T) {
	tests := []struct {
		input      string
		wantKind   kind
		funcName   string
		className  string
		methodName string
	}{
		{input: "strlen", wantKind: kindName, funcName: "strlen"},
		{input: "Foo::bar", wantKind: kindClassMethod, className: "Foo", methodName: "bar"},
		{input: "Foo::bar::baz", wantKind: kindClassMethod, className: "Foo", methodName: "bar::baz"},
		{input: "", wantKind: kindInvalid},
	}
	for _, tt := range tests {
		c := FromName(tt.input)
		if c.kind != tt.wantKind {
			t.Errorf("FromName(%q) kind = %d, want %d", tt.input, c.kind, tt.wantKind)
			continue
		}
		if c.funcName != tt.funcName || c.className != tt.className || c.methodName != tt.methodName {
			t.Errorf("FromName(%q) = {%q %q %q}, want {%q %q %q}",
				tt.input, c.funcName, c.className, c.methodName,
				tt.funcName, tt.className, tt.methodName)
		}
	}
}

func TestNameResolution(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	defineDouble(t, src.table)

	result := FromName("double").Invoke(ctx, []runtime.Value{&runtime.Integer{Value: 21}})
	n, ok := result.(*runtime.Integer)
	if !ok || n.Value != 42 {
		t.Fatalf("double(21) = %s, want 42", result.Inspect())
	}
}

func TestIdempotentCaching(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	defineDouble(t, src.table)

	c := FromName("double")
	for i := 0; i < 3; i++ {
		result := c.Invoke(ctx, []runtime.Value{&runtime.Integer{Value: 21}})
		if n, ok := result.(*runtime.Integer); !ok || n.Value != 42 {
			t.Fatalf("invocation %d = %s, want 42", i, result.Inspect())
		}
	}
	if got := src.funcLookups.Load(); got != 1 {
		t.Errorf("function lookups = %d, want 1", got)
	}
}

func TestFallbackPermanence(t *testing.T) {
	// A symbol declared after a failed resolution is never found by the
	// same callable instance. Current contract, asserted on purpose.
	src, ctx, out := newTestEnv(t)

	c := FromName("later")
	if got := c.Invoke(ctx, nil); got != runtime.FalseValue {
		t.Fatalf("unresolved invoke = %s, want false", got.Inspect())
	}
	if !strings.Contains(out.String(), "Call to undefined function later()") {
		t.Errorf("missing diagnostic, got %q", out.String())
	}

	defineDouble(t, src.table)
	if err := src.table.DefineFunction("later", func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		return runtime.TrueValue
	}); err != nil {
		t.Fatalf("DefineFunction: %v", err)
	}

	if got := c.Invoke(ctx, nil); got != runtime.FalseValue {
		t.Errorf("invoke after declaration = %s, want cached fallback false", got.Inspect())
	}
	if got := src.funcLookups.Load(); got != 1 {
		t.Errorf("function lookups = %d, want 1 (failure cached)", got)
	}

	// A fresh callable for the same name does see the declaration.
	if got := FromName("later").Invoke(ctx, nil); got != runtime.TrueValue {
		t.Errorf("fresh callable = %s, want true", got.Inspect())
	}
}

func TestInvalidIsAlwaysInvalid(t *testing.T) {
	src, ctx, _ := newTestEnv(t)

	c := Invalid()
	if c.IsValid() {
		t.Error("Invalid().IsValid() = true")
	}
	if got := c.Invoke(ctx, nil); got != runtime.FalseValue {
		t.Errorf("Invalid().Invoke = %s, want false", got.Inspect())
	}
	if got := ctx.Diag.Count(diag.Warning); got != 1 {
		t.Errorf("warning count = %d, want 1", got)
	}
	if src.funcLookups.Load() != 0 || src.classLookups.Load() != 0 {
		t.Error("invalid callable touched the symbol environment")
	}
}

func TestEmptyNameNeverCallsSymbols(t *testing.T) {
	src, ctx, _ := newTestEnv(t)

	c := FromName("")
	if c.IsValid() {
		t.Error(`FromName("").IsValid() = true`)
	}
	if got := c.Invoke(ctx, nil); got != runtime.FalseValue {
		t.Errorf(`FromName("").Invoke = %s, want false`, got.Inspect())
	}
	if src.funcLookups.Load() != 0 || src.classLookups.Load() != 0 {
		t.Error("empty-name callable touched the symbol environment")
	}
}

func TestIsValidHasNoResolutionSideEffect(t *testing.T) {
	src, _, _ := newTestEnv(t)

	for _, c := range []*Callable{
		FromName("anything"),
		FromName("Foo::bar"),
		FromPair(&runtime.String{Value: "Foo"}, &runtime.String{Value: "bar"}),
	} {
		if !c.IsValid() {
			t.Errorf("%s: IsValid() = false", c.Name())
		}
	}
	if src.funcLookups.Load() != 0 || src.classLookups.Load() != 0 {
		t.Error("IsValid touched the symbol environment")
	}
}

// defineGreeter declares Greeter with hello(name), recording the bound
// target of the last call in *seen.
func defineGreeter(t *testing.T, table *symbols.Table, seen **runtime.Instance) *symbols.Class {
	t.Helper()
	cls, err := table.DefineClass("Greeter", "")
	if err != nil {
		t.Fatalf("DefineClass: %v", err)
	}
	_, err = cls.DefineMethod("hello", func(ctx *runtime.Context, target *runtime.Instance, args []runtime.Value) runtime.Value {
		*seen = target
		name := args[0].(*runtime.String)
		return &runtime.String{Value: "Hello, " + name.Value}
	})
	if err != nil {
		t.Fatalf("DefineMethod: %v", err)
	}
	return cls
}

func TestClassMethodStaticBinding(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	var seen *runtime.Instance
	defineGreeter(t, src.table, &seen)

	result := FromName("Greeter::hello").Invoke(ctx, []runtime.Value{&runtime.String{Value: "World"}})
	s, ok := result.(*runtime.String)
	if !ok || s.Value != "Hello, World" {
		t.Fatalf("Greeter::hello = %s, want \"Hello, World\"", result.Inspect())
	}
	if seen != nil {
		t.Error("static-style binding passed a target")
	}
}

func TestPairDisambiguation(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	var seen *runtime.Instance
	cls := defineGreeter(t, src.table, &seen)

	// First element a class-name string: no target.
	result := FromPair(&runtime.String{Value: "Greeter"}, &runtime.String{Value: "hello"}).
		Invoke(ctx, []runtime.Value{&runtime.String{Value: "World"}})
	if s, ok := result.(*runtime.String); !ok || s.Value != "Hello, World" {
		t.Fatalf("pair by class name = %s", result.Inspect())
	}
	if seen != nil {
		t.Error("class-name pair bound a target")
	}

	// First element an instance: its runtime class, bound to it.
	g := cls.New()
	result = FromPair(g, &runtime.String{Value: "hello"}).
		Invoke(ctx, []runtime.Value{&runtime.String{Value: "World"}})
	if s, ok := result.(*runtime.String); !ok || s.Value != "Hello, World" {
		t.Fatalf("pair by instance = %s", result.Inspect())
	}
	if seen != g {
		t.Error("instance pair did not bind the instance as target")
	}
}

func TestInheritanceWalk(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	var seen *runtime.Instance

	a, err := src.table.DefineClass("A", "")
	if err != nil {
		t.Fatalf("DefineClass A: %v", err)
	}
	if _, err := a.DefineMethod("m", func(ctx *runtime.Context, target *runtime.Instance, args []runtime.Value) runtime.Value {
		seen = target
		return &runtime.String{Value: "A::m"}
	}); err != nil {
		t.Fatalf("DefineMethod: %v", err)
	}
	b, err := src.table.DefineClass("B", "A")
	if err != nil {
		t.Fatalf("DefineClass B: %v", err)
	}

	inst := b.New()
	result := FromPair(inst, &runtime.String{Value: "m"}).Invoke(ctx, nil)
	if s, ok := result.(*runtime.String); !ok || s.Value != "A::m" {
		t.Fatalf("inherited m = %s, want A::m", result.Inspect())
	}
	if seen != inst {
		t.Error("inherited method not bound to the subclass instance")
	}
}

func TestUndefinedMethodFallback(t *testing.T) {
	src, ctx, out := newTestEnv(t)
	var seen *runtime.Instance
	cls := defineGreeter(t, src.table, &seen)

	tests := []struct {
		name string
		c    *Callable
		want string
	}{
		{"class method", FromName("Greeter::goodbye"), "Call to undefined method Greeter::goodbye()"},
		{"unknown class", FromName("Ghost::hello"), "Call to undefined method Ghost::hello()"},
		{"instance pair", FromPair(cls.New(), &runtime.String{Value: "goodbye"}), "Call to undefined method Greeter::goodbye()"},
		{"malformed pair", FromPair(runtime.NullValue, runtime.NullValue), "Value is not callable"},
	}
	for _, tt := range tests {
		out.Reset()
		if got := tt.c.Invoke(ctx, nil); got != runtime.FalseValue {
			t.Errorf("%s: result = %s, want false", tt.name, got.Inspect())
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("%s: diagnostic = %q, want substring %q", tt.name, out.String(), tt.want)
		}
	}
}

func TestFromRoutineNeverResolves(t *testing.T) {
	src, ctx, _ := newTestEnv(t)

	c := FromRoutine(func(ctx *runtime.Context, args []runtime.Value) runtime.Value {
		return &runtime.Integer{Value: 7}
	})
	if got := c.Invoke(ctx, nil); got.(*runtime.Integer).Value != 7 {
		t.Errorf("FromRoutine invoke = %s, want 7", got.Inspect())
	}
	if src.funcLookups.Load() != 0 || src.classLookups.Load() != 0 {
		t.Error("resolved callable touched the symbol environment")
	}

	// A nil routine has no callable shape at all.
	if FromRoutine(nil).IsValid() {
		t.Error("FromRoutine(nil).IsValid() = true")
	}
}

func TestCorruptedResolvedCallablePanics(t *testing.T) {
	_, ctx, _ := newTestEnv(t)

	defer func() {
		if recover() == nil {
			t.Error("resolution of a corrupted resolved callable did not panic")
		}
	}()
	c := &Callable{kind: kindResolved} // routine missing: embedding defect
	c.Invoke(ctx, nil)
}

func TestConcurrentFirstInvocation(t *testing.T) {
	src, ctx, _ := newTestEnv(t)
	defineDouble(t, src.table)

	c := FromName("double")
	const workers = 16
	var wg sync.WaitGroup
	results := make([]runtime.Value, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Invoke(ctx, []runtime.Value{&runtime.Integer{Value: 21}})
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if n, ok := r.(*runtime.Integer); !ok || n.Value != 42 {
			t.Errorf("worker %d = %s, want 42", i, r.Inspect())
		}
	}
	if got := src.funcLookups.Load(); got != 1 {
		t.Errorf("function lookups = %d, want 1", got)
	}
}
