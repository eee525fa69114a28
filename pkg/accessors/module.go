package accessors

import (
	"fmt"

	"kestrel/pkg/vm"
)

// findModule resolves the receiver to its module environment.
func findModule(ix *vm.Isolate, receiver vm.Value) *vm.ModuleObject {
	for v := receiver; !v.IsNull() && !v.IsUndefined(); v = ix.ImmediatePrototype(v) {
		if m := v.AsModule(); m != nil {
			return m
		}
	}
	return nil
}

// MakeModuleExport builds the accessor descriptor binding an exported name
// to a module environment slot. Reads before the slot is initialized raise
// a reference error carrying the export's name; writes to a read-only
// export are silently ignored.
func MakeModuleExport(name string, index int, writable bool) *Descriptor {
	aux := vm.IntegerValue(int32(index))

	getter := func(ix *vm.Isolate, receiver vm.Value, a vm.Value) (vm.Value, error) {
		m := findModule(ix, receiver)
		if m == nil {
			return vm.Undefined, nil
		}
		v := m.Slot(int(a.AsInteger()))
		if v.Type() == vm.TypeUninitialized {
			return vm.Undefined, vm.NewReferenceError(name, fmt.Sprintf("%s is not defined", name))
		}
		return v, nil
	}

	d := &Descriptor{
		Name: name,
		Get:  getter,
		Aux:  aux,
		Attrs: Attributes{
			Writable:   writable,
			Enumerable: true,
		},
	}
	if writable {
		d.Set = func(ix *vm.Isolate, receiver vm.Value, value vm.Value, a vm.Value) (vm.Value, error) {
			m := findModule(ix, receiver)
			if m == nil {
				return value, nil
			}
			slot := int(a.AsInteger())
			if m.Slot(slot).Type() == vm.TypeUninitialized {
				return vm.Undefined, vm.NewReferenceError(name, fmt.Sprintf("%s is not defined", name))
			}
			m.SetSlot(slot, value)
			return value, nil
		}
	}
	return d
}
