// Package accessors implements the engine's native property accessors:
// descriptors installed on prototype templates whose reads and writes run
// Go code instead of touching a data slot. It covers array and string
// length, the function reflection properties (prototype, length, name,
// arguments, caller), script metadata projection and module export
// bindings.
package accessors

import (
	"fmt"

	"kestrel/pkg/vm"
)

// Getter computes a property read. receiver is the value the lookup started
// from; aux is the descriptor's payload (the slot index for module exports,
// undefined otherwise).
type Getter func(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error)

// Setter intercepts a property write and returns the write's result value.
// A nil Setter on a descriptor means writes are silently ignored.
type Setter func(ix *vm.Isolate, receiver vm.Value, value vm.Value, aux vm.Value) (vm.Value, error)

// Attributes carries the property attribute flags plus the cross-realm
// grants. AllCanRead and AllCanWrite open the accessor to receivers from a
// foreign realm; without the grant a cross-realm lookup behaves as if the
// property did not exist.
type Attributes struct {
	Writable     bool
	Enumerable   bool
	Configurable bool
	AllCanRead   bool
	AllCanWrite  bool
}

// Descriptor is one installed native accessor.
type Descriptor struct {
	Name  string
	Get   Getter
	Set   Setter
	Attrs Attributes
	Aux   vm.Value
}

// Registry maps prototype templates to their installed descriptors. Value
// identity keys the table, so each realm's templates carry their own
// installations.
type Registry struct {
	byTemplate map[vm.Value]map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTemplate: make(map[vm.Value]map[string]*Descriptor)}
}

// Install registers a descriptor on a template. Reinstalling the same
// descriptor is a no-op; installing a different descriptor under an already
// taken name is a programming error and panics.
func (r *Registry) Install(template vm.Value, d *Descriptor) {
	table := r.byTemplate[template]
	if table == nil {
		table = make(map[string]*Descriptor)
		r.byTemplate[template] = table
	}
	if existing, ok := table[d.Name]; ok {
		if existing == d {
			return
		}
		panic(fmt.Sprintf("accessor %q already installed on this template", d.Name))
	}
	table[d.Name] = d
}

// Installed returns the descriptor registered under name directly on
// template, if any.
func (r *Registry) Installed(template vm.Value, name string) (*Descriptor, bool) {
	if table := r.byTemplate[template]; table != nil {
		if d, ok := table[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// lookup walks the receiver and its prototype chain for an installed
// descriptor. Returns the descriptor and the chain link it was found on.
func (r *Registry) lookup(ix *vm.Isolate, receiver vm.Value, name string) (*Descriptor, vm.Value, bool) {
	for v := receiver; !v.IsNull() && !v.IsUndefined(); v = ix.ImmediatePrototype(v) {
		if d, ok := r.Installed(v, name); ok {
			return d, v, true
		}
	}
	return nil, vm.Undefined, false
}

// allowed applies the cross-realm gate: same-realm receivers always pass,
// foreign ones only with the descriptor's grant.
func allowed(ix *vm.Isolate, receiver vm.Value, grant bool) bool {
	if ix.RealmOf(receiver) == ix.CurrentRealm().ID() {
		return true
	}
	return grant
}

// GetProperty performs an accessor-aware property read. If no descriptor is
// reachable (or the cross-realm gate denies it) the lookup reports absence
// by returning undefined with a false flag; the caller falls back to the
// ordinary property machinery.
func (r *Registry) GetProperty(ix *vm.Isolate, receiver vm.Value, name string) (vm.Value, bool, error) {
	d, _, ok := r.lookup(ix, receiver, name)
	if !ok || !allowed(ix, receiver, d.Attrs.AllCanRead) {
		return vm.Undefined, false, nil
	}
	v, err := d.Get(ix, receiver, d.Aux)
	return v, true, err
}

// SetProperty performs an accessor-aware property write. A reachable
// descriptor without a setter swallows the write silently; the write's
// value is still returned as the expression result.
func (r *Registry) SetProperty(ix *vm.Isolate, receiver vm.Value, name string, value vm.Value) (vm.Value, bool, error) {
	d, _, ok := r.lookup(ix, receiver, name)
	if !ok || !allowed(ix, receiver, d.Attrs.AllCanWrite) {
		return value, false, nil
	}
	if d.Set == nil {
		return value, true, nil
	}
	v, err := d.Set(ix, receiver, value, d.Aux)
	return v, true, err
}

// ReadOnlySetter ignores the write and returns the value, the behavior of
// every metadata projection setter.
func ReadOnlySetter(ix *vm.Isolate, receiver vm.Value, value vm.Value, aux vm.Value) (vm.Value, error) {
	return value, nil
}

// IllegalSetter marks a property the engine must never route writes to.
func IllegalSetter(ix *vm.Isolate, receiver vm.Value, value vm.Value, aux vm.Value) (vm.Value, error) {
	panic(fmt.Sprintf("illegal write through accessor (value %s)", value.Inspect()))
}
