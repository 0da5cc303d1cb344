package runtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Instance is a class instance: a property bag plus a reference to its
// runtime class record. The handle is unique per instance and stable for
// its lifetime, usable as an identity key by embedders.
type Instance struct {
	handle string
	class  ClassRecord

	mu    sync.RWMutex
	props map[string]Value
}

// NewInstance creates an instance of class with an empty property bag.
func NewInstance(class ClassRecord) *Instance {
	return &Instance{
		handle: uuid.NewString(),
		class:  class,
		props:  make(map[string]Value),
	}
}

// Handle returns the instance's unique identity string.
func (in *Instance) Handle() string { return in.handle }

// Class returns the instance's runtime class record.
func (in *Instance) Class() ClassRecord { return in.class }

// GetProp reads a property.
func (in *Instance) GetProp(name string) (Value, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, ok := in.props[name]
	return v, ok
}

// SetProp writes a property.
func (in *Instance) SetProp(name string, v Value) {
	in.mu.Lock()
	in.props[name] = v
	in.mu.Unlock()
}

func (in *Instance) Type() ValueType { return INSTANCE_VALUE }
func (in *Instance) Inspect() string {
	return fmt.Sprintf("object(%s)#%s", in.class.Name(), in.handle[:8])
}
func (in *Instance) Hash() uint32 { return hashString(in.handle) }

// RoutineValue is a first-class routine: a bound routine carried as a
// dynamic value (closures, already-resolved callbacks).
type RoutineValue struct {
	Name string // empty for anonymous routines
	Fn   Routine
}

func (r *RoutineValue) Type() ValueType { return ROUTINE_VALUE }
func (r *RoutineValue) Inspect() string {
	if r.Name != "" {
		return fmt.Sprintf("routine(%s)", r.Name)
	}
	return "routine"
}
func (r *RoutineValue) Hash() uint32 { return hashString(r.Name) }
