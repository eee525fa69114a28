package accessors

import "kestrel/pkg/vm"

// frameFunctionIterator flattens the physical frame walk into a stream of
// logical activations, innermost first, including inlined ones.
type frameFunctionIterator struct {
	it    *vm.FrameIterator
	fns   []*vm.FunctionObject
	index int
}

func newFrameFunctionIterator(ix *vm.Isolate) *frameFunctionIterator {
	f := &frameFunctionIterator{it: ix.NewFrameIterator()}
	f.load()
	return f
}

func (f *frameFunctionIterator) load() {
	if f.it.Done() {
		f.fns = nil
		f.index = -1
		return
	}
	f.fns = f.it.Frame().Functions()
	f.index = len(f.fns) - 1
}

// next returns the next logical activation outward, or nil past the oldest
// frame.
func (f *frameFunctionIterator) next() *vm.FunctionObject {
	for {
		if f.index >= 0 {
			fn := f.fns[f.index]
			f.index--
			return fn
		}
		if f.it.Done() {
			return nil
		}
		f.it.Advance()
		f.load()
		if f.fns == nil {
			return nil
		}
	}
}

// find advances until it has returned fn, leaving the iterator positioned
// just outward of fn's innermost activation.
func (f *frameFunctionIterator) find(fn *vm.FunctionObject) bool {
	for {
		next := f.next()
		if next == nil {
			return false
		}
		if next == fn {
			return true
		}
	}
}

// callerIsCensored is the caller-visibility policy: bound functions never
// expose themselves as callers, and neither do strict functions.
func callerIsCensored(fn *vm.FunctionObject) bool {
	return fn.Bound || fn.Strict
}

// functionCallerGetter attributes a caller to fn's innermost live
// activation, or null when none can be attributed.
func functionCallerGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	if fn == nil {
		return vm.Undefined, nil
	}
	if fn.Builtin {
		return vm.Null, nil
	}

	region := ix.Heap().DisallowAllocation()
	defer region.Close()

	it := newFrameFunctionIterator(ix)
	if !it.find(fn) {
		// Not currently executing.
		return vm.Null, nil
	}

	// The caller is the next activation outward that is not a toplevel
	// script function.
	caller := it.next()
	if caller == nil {
		return vm.Null, nil
	}
	for caller.Toplevel {
		caller = it.next()
		if caller == nil {
			return vm.Null, nil
		}
	}

	// Skip any contiguous run of builtin activations: the caller is
	// attributed to user code, never to internal plumbing.
	for caller.Builtin {
		caller = it.next()
		if caller == nil {
			return vm.Null, nil
		}
	}

	if callerIsCensored(caller) {
		return vm.Null, nil
	}
	return vm.FunctionValue(caller), nil
}
