package accessors

import "kestrel/pkg/vm"

// functionArgumentsGetter reconstructs the argument list of a function's
// innermost live activation, or null when the function is not executing.
func functionArgumentsGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	fn := findFunction(ix, receiver)
	if fn == nil {
		return vm.Undefined, nil
	}
	return functionArguments(ix, fn), nil
}

// functionArguments walks the live frames for fn's innermost activation.
// The walk holds raw frame slices, so it runs under a no-allocation region;
// the region is closed before any arguments object is materialized.
func functionArguments(ix *vm.Isolate, fn *vm.FunctionObject) vm.Value {
	region := ix.Heap().DisallowAllocation()
	defer region.Close()

	for it := ix.NewFrameIterator(); !it.Done(); it.Advance() {
		frame := it.Frame()
		fns := frame.Functions()
		// Logical activations are ordered outermost first, so scanning
		// backwards finds the innermost occurrence of fn.
		for i := len(fns) - 1; i >= 0; i-- {
			if fns[i] != fn {
				continue
			}

			if i > 0 {
				// Inlined activation: its raw slots are gone, rebuild the
				// formals from the frame's deopt metadata. The result has
				// exactly the declared parameter count regardless of how
				// many arguments the call site passed.
				slots := ix.ResolveDeoptSlots(frame, i, fn.DeclaredParamCount())
				region.Close()
				return ix.NewArgumentsObject(fn, slots)
			}

			if !frame.IsOptimized() {
				// The function may have a local aliasing "arguments"; if the
				// slot was materialized, hand that object out instead of
				// building a fresh one.
				if slot := fn.ScopeInfo().StackSlotIndex("arguments"); slot >= 0 {
					if v := frame.Expression(slot); v.Type() != vm.TypeHole {
						return v
					}
				}
			}

			// Build a fresh arguments object from the frame that actually
			// holds the raw slots, which for adapted calls is the adaptor
			// frame directly outward.
			it.AdvanceToArgumentsFrame()
			argFrame := it.Frame()
			slots := make([]vm.Value, argFrame.ParametersCount())
			for j := range slots {
				slots[j] = argFrame.Parameter(j)
			}
			region.Close()
			return ix.NewArgumentsObject(fn, slots)
		}
	}

	// No live activation.
	return vm.Null
}
