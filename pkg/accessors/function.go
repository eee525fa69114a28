package accessors

import "kestrel/pkg/vm"

// functionPrototypeGetter reads a function's "prototype" property,
// materializing it lazily on first access. Non-constructible functions
// (builtins, bound functions) step up the chain to the nearest
// constructible ancestor; with no such ancestor the read is undefined.
func functionPrototypeGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	for fn != nil && !fn.Constructible {
		fn = findFunction(ix, ix.ImmediatePrototype(vm.FunctionValue(fn)))
	}
	if fn == nil {
		return vm.Undefined, nil
	}
	if !fn.HasPrototype() {
		fn.SetFunctionPrototype(ix.NewFunctionPrototype(fn))
	}
	return fn.FunctionPrototype(), nil
}

// functionPrototypeSetter commits a new "prototype" binding. For an
// observed function the old value is captured before the commit, which may
// itself materialize a prototype that is then immediately replaced; a
// change record is emitted only when old and new differ under SameValue.
func functionPrototypeSetter(ix *vm.Isolate, receiver vm.Value, value vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	if fn == nil || !fn.Constructible {
		// Receivers that only inherit the accessor get an own data property.
		if obj := receiver.AsPlainObject(); obj != nil {
			obj.DefineOwn("prototype", value)
		}
		return value, nil
	}

	observed := fn.Observed && receiver.AsFunction() == fn
	if !observed {
		fn.SetFunctionPrototype(value)
		return value, nil
	}

	// The old value may be a fresh allocation held across further allocating
	// calls, so it lives in a scoped handle rather than a raw local.
	scope := ix.Heap().OpenScope()
	defer scope.Close()
	old := scope.Acquire(vm.Undefined)
	if fn.HasPrototype() {
		old.Set(fn.FunctionPrototype())
	} else {
		old.Set(ix.NewFunctionPrototype(fn))
	}
	fn.SetFunctionPrototype(value)
	if !old.Get().SameValue(value) {
		ix.Notify(vm.FunctionValue(fn), "update", "prototype", old.Get())
	}
	return value, nil
}

// functionLengthGetter reads the formal parameter count. The count is only
// authoritative once the function is compiled, so the read may trigger
// compilation; a compilation failure propagates to the reader.
func functionLengthGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	if fn == nil {
		return vm.IntegerValue(0), nil
	}
	if !fn.IsCompiled() {
		if err := ix.EnsureCompiled(fn); err != nil {
			return vm.Undefined, err
		}
	}
	return vm.IntegerValue(int32(fn.ParamCount())), nil
}

// functionNameGetter projects the declared name; unnamed functions read as
// undefined rather than the empty string.
func functionNameGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	if fn == nil || fn.Name == "" {
		return vm.Undefined, nil
	}
	return vm.NewString(fn.Name), nil
}
