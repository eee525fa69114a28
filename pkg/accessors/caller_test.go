package accessors

import (
	"testing"

	"kestrel/pkg/vm"
)

func pushPlain(ix *vm.Isolate, fn *vm.FunctionObject) {
	ix.PushFrame(vm.NewFrame(fn, nil))
}

func TestCallerNullWhenNotExecuting(t *testing.T) {
	ix, reg := newEnv(t)
	fnVal := ix.NewFunction("idle", 0)

	v := mustGet(t, ix, reg, fnVal, "caller")
	if !v.IsNull() {
		t.Errorf("caller of a non-executing function = %s, want null", v.Inspect())
	}
}

func TestCallerAttribution(t *testing.T) {
	ix, reg := newEnv(t)
	callerVal := ix.NewFunction("outer", 0)
	calleeVal := ix.NewFunction("inner", 0)

	pushPlain(ix, callerVal.AsFunction())
	pushPlain(ix, calleeVal.AsFunction())
	defer func() {
		ix.PopFrame()
		ix.PopFrame()
	}()

	v := mustGet(t, ix, reg, calleeVal, "caller")
	if !v.Is(callerVal) {
		t.Errorf("caller = %s, want outer", v.Inspect())
	}

	// The outermost function has no caller.
	v = mustGet(t, ix, reg, callerVal, "caller")
	if !v.IsNull() {
		t.Errorf("caller of the outermost function = %s, want null", v.Inspect())
	}
}

func TestCallerSkipsToplevel(t *testing.T) {
	ix, reg := newEnv(t)
	real := ix.NewFunction("real", 0)
	scriptFn := ix.NewFunction("", 0)
	scriptFn.AsFunction().Toplevel = true
	calleeVal := ix.NewFunction("callee", 0)

	pushPlain(ix, real.AsFunction())
	pushPlain(ix, scriptFn.AsFunction())
	pushPlain(ix, calleeVal.AsFunction())
	defer func() {
		ix.PopFrame()
		ix.PopFrame()
		ix.PopFrame()
	}()

	v := mustGet(t, ix, reg, calleeVal, "caller")
	if !v.Is(real) {
		t.Errorf("caller = %s, want the non-toplevel function below the script", v.Inspect())
	}
}

func TestCallerCensorsStrictAndBound(t *testing.T) {
	ix, reg := newEnv(t)

	for _, mark := range []func(*vm.FunctionObject){
		func(fn *vm.FunctionObject) { fn.Strict = true },
		func(fn *vm.FunctionObject) { fn.Bound = true },
	} {
		callerVal := ix.NewFunction("secret", 0)
		mark(callerVal.AsFunction())
		calleeVal := ix.NewFunction("callee", 0)

		pushPlain(ix, callerVal.AsFunction())
		pushPlain(ix, calleeVal.AsFunction())

		v := mustGet(t, ix, reg, calleeVal, "caller")
		if !v.IsNull() {
			t.Errorf("censored caller leaked: %s", v.Inspect())
		}

		ix.PopFrame()
		ix.PopFrame()
	}
}

func TestCallerOfBuiltinReceiverIsNull(t *testing.T) {
	ix, reg := newEnv(t)
	builtin := ix.NewNativeFunction("parseInt", 2, func(ix *vm.Isolate, this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, nil
	})
	caller := ix.NewFunction("user", 0)

	pushPlain(ix, caller.AsFunction())
	pushPlain(ix, builtin.AsFunction())
	defer func() {
		ix.PopFrame()
		ix.PopFrame()
	}()

	v := mustGet(t, ix, reg, builtin, "caller")
	if !v.IsNull() {
		t.Errorf("caller of a builtin = %s, want null", v.Inspect())
	}
}

// A run of builtin activations between callee and its user-code caller is
// skipped entirely: builtins are never attributed as callers.
func TestCallerSkipsBuiltinRun(t *testing.T) {
	ix, reg := newEnv(t)
	user := ix.NewFunction("user", 0)
	b1 := ix.NewNativeFunction("map", 1, nil)
	b2 := ix.NewNativeFunction("forEach", 1, nil)
	calleeVal := ix.NewFunction("callback", 0)

	pushPlain(ix, user.AsFunction())
	pushPlain(ix, b1.AsFunction())
	pushPlain(ix, b2.AsFunction())
	pushPlain(ix, calleeVal.AsFunction())
	defer func() {
		for i := 0; i < 4; i++ {
			ix.PopFrame()
		}
	}()

	v := mustGet(t, ix, reg, calleeVal, "caller")
	if !v.Is(user) {
		t.Errorf("caller = %s, want the user function past the run", v.Inspect())
	}
}

// A stack that ends inside a builtin run attributes no caller at all.
func TestCallerNullWhenOnlyBuiltinsRemain(t *testing.T) {
	ix, reg := newEnv(t)
	b := ix.NewNativeFunction("setTimeout", 2, nil)
	calleeVal := ix.NewFunction("callback", 0)

	pushPlain(ix, b.AsFunction())
	pushPlain(ix, calleeVal.AsFunction())
	defer func() {
		ix.PopFrame()
		ix.PopFrame()
	}()

	v := mustGet(t, ix, reg, calleeVal, "caller")
	if !v.IsNull() {
		t.Errorf("caller = %s, want null", v.Inspect())
	}
}

func TestCallerSeesInlinedActivations(t *testing.T) {
	ix, reg := newEnv(t)
	physical := ix.NewFunction("physical", 0).AsFunction()
	inlined := ix.NewFunction("inlined", 0)
	calleeVal := ix.NewFunction("callee", 0)

	ix.PushFrame(vm.NewOptimizedFrame(
		[]*vm.FunctionObject{physical, inlined.AsFunction()},
		nil,
		nil,
	))
	pushPlain(ix, calleeVal.AsFunction())
	defer func() {
		ix.PopFrame()
		ix.PopFrame()
	}()

	v := mustGet(t, ix, reg, calleeVal, "caller")
	if !v.Is(inlined) {
		t.Errorf("caller = %s, want the inlined activation", v.Inspect())
	}
}
