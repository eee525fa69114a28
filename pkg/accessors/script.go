package accessors

import "kestrel/pkg/vm"

// findScript unwraps the receiver (or a chain ancestor) to its script
// record. Script accessors are installed on the script template, so the
// receiver is normally the host wrapper itself.
func findScript(ix *vm.Isolate, receiver vm.Value) *vm.ScriptObject {
	for v := receiver; !v.IsNull() && !v.IsUndefined(); v = ix.ImmediatePrototype(v) {
		if w := v.AsWrapper(); w != nil {
			if s := w.Value().AsScript(); s != nil {
				return s
			}
		}
	}
	return nil
}

func scriptIDGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(s.ID())), nil
}

func scriptNameGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return s.Name(), nil
}

func scriptSourceGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.NewString(s.Source().Content), nil
}

func scriptTypeGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(s.ScriptType())), nil
}

func scriptCompilationTypeGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(s.CompilationType())), nil
}

func scriptLineOffsetGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(s.LineOffset)), nil
}

func scriptColumnOffsetGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(s.ColumnOffset)), nil
}

func scriptContextDataGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	return s.ContextData, nil
}

// scriptLineEndsGetter projects the memoized line-terminator offsets into a
// fresh array on every read, so callers can never mutate the cache.
func scriptLineEndsGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	ends := s.LineEnds()
	arrVal := ix.NewArray(len(ends))
	arr := arrVal.AsArray()
	for i, end := range ends {
		arr.Set(i, vm.IntegerValue(int32(end)))
	}
	return arrVal, nil
}

// scriptEvalFromScriptGetter resolves the script whose code invoked the
// eval that produced this unit.
func scriptEvalFromScriptGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	if fn := s.EvalFromFunction; fn != nil && fn.Script != nil {
		return ix.ScriptWrapper(fn.Script), nil
	}
	return vm.Undefined, nil
}

// scriptEvalFromScriptPositionGetter maps the recorded call-site code
// offset back to a source position within the invoking function. Only
// eval-typed units carry one.
func scriptEvalFromScriptPositionGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil || s.CompilationType() != vm.CompilationTypeEval {
		return vm.Undefined, nil
	}
	fn := s.EvalFromFunction
	if fn == nil {
		return vm.Undefined, nil
	}
	return vm.IntegerValue(int32(fn.SourcePosition(s.EvalFromPosition))), nil
}

// scriptEvalFromFunctionNameGetter names the function that invoked the
// eval, falling back to the inferred name for anonymous functions.
func scriptEvalFromFunctionNameGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	s := findScript(ix, receiver)
	if s == nil {
		return vm.Undefined, nil
	}
	fn := s.EvalFromFunction
	if fn == nil {
		return vm.Undefined, nil
	}
	name := fn.Name
	if name == "" {
		name = fn.InferredName
	}
	return vm.NewString(name), nil
}
