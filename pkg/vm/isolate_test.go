package vm

import (
	"math"
	"testing"

	"kestrel/pkg/source"
)

func newTestScript(ix *Isolate, content string) *ScriptObject {
	return ix.NewScript(source.NewSourceFile("test.js", "", content), ScriptTypeNormal, CompilationTypeHost)
}

func TestToNumberPrimitives(t *testing.T) {
	ix := NewIsolate(Options{})

	n, err := ix.ToNumber(NewString("12"))
	if err != nil || n != 12 {
		t.Errorf("ToNumber(\"12\") = %v, %v", n, err)
	}
	n, err = ix.ToNumber(True)
	if err != nil || n != 1 {
		t.Errorf("ToNumber(true) = %v, %v", n, err)
	}
	n, err = ix.ToNumber(Undefined)
	if err != nil || !math.IsNaN(n) {
		t.Errorf("ToNumber(undefined) = %v, %v, want NaN", n, err)
	}
}

func TestToNumberInvokesValueOf(t *testing.T) {
	ix := NewIsolate(Options{})

	calls := 0
	valueOf := ix.NewNativeFunction("valueOf", 0, func(ix *Isolate, this Value, args []Value) (Value, error) {
		calls++
		return IntegerValue(7), nil
	})
	obj := ix.NewPlainObject(ix.CurrentRealm().ObjectPrototype)
	obj.AsPlainObject().SetOwn("valueOf", valueOf)

	n, err := ix.ToNumber(obj)
	if err != nil {
		t.Fatalf("ToNumber returned error: %v", err)
	}
	if n != 7 {
		t.Errorf("ToNumber = %v, want 7", n)
	}
	if calls != 1 {
		t.Errorf("valueOf called %d times, want 1", calls)
	}
}

func TestToNumberFallsBackToToString(t *testing.T) {
	ix := NewIsolate(Options{})

	toString := ix.NewNativeFunction("toString", 0, func(ix *Isolate, this Value, args []Value) (Value, error) {
		return NewString("31"), nil
	})
	obj := ix.NewPlainObject(ix.CurrentRealm().ObjectPrototype)
	obj.AsPlainObject().SetOwn("toString", toString)

	n, err := ix.ToNumber(obj)
	if err != nil || n != 31 {
		t.Errorf("ToNumber via toString = %v, %v, want 31", n, err)
	}
}

func TestToNumberUnwrapsWrapper(t *testing.T) {
	ix := NewIsolate(Options{})
	w := ix.NewNumberWrapper(2.5)
	n, err := ix.ToNumber(w)
	if err != nil || n != 2.5 {
		t.Errorf("ToNumber(wrapper) = %v, %v, want 2.5", n, err)
	}
}

func TestToNumberRejectsOpaqueObject(t *testing.T) {
	ix := NewIsolate(Options{})
	obj := ix.NewPlainObject(Null)
	_, err := ix.ToNumber(obj)
	if !IsExceptionKind(err, TypeErrorKind) {
		t.Errorf("ToNumber on an opaque object = %v, want TypeError", err)
	}
}

func TestImmediatePrototype(t *testing.T) {
	ix := NewIsolate(Options{})
	realm := ix.CurrentRealm()

	arr := ix.NewArray(0)
	if got := ix.ImmediatePrototype(arr); !got.Is(realm.ArrayPrototype) {
		t.Errorf("array prototype link = %s", got.Inspect())
	}
	if got := ix.ImmediatePrototype(NewString("x")); !got.Is(realm.StringPrototype) {
		t.Errorf("string resolves to %s, want StringPrototype", got.Inspect())
	}
	if got := ix.ImmediatePrototype(IntegerValue(1)); !got.Is(realm.NumberPrototype) {
		t.Errorf("number resolves to %s, want NumberPrototype", got.Inspect())
	}
	if got := ix.ImmediatePrototype(realm.ObjectPrototype); !got.IsNull() {
		t.Errorf("chain does not terminate at null: %s", got.Inspect())
	}
	if got := ix.ImmediatePrototype(True); !got.IsNull() {
		t.Errorf("boolean resolves to %s, want null", got.Inspect())
	}
}

func TestFactoriesBumpAllocationEpoch(t *testing.T) {
	ix := NewIsolate(Options{})
	before := ix.Heap().Allocations()
	ix.NewPlainObject(Null)
	ix.NewArray(3)
	ix.NewFunction("f", 2)
	if got := ix.Heap().Allocations() - before; got != 3 {
		t.Errorf("epoch advanced by %d, want 3", got)
	}
}

func TestFactoriesPanicInsideNoAllocationRegion(t *testing.T) {
	ix := NewIsolate(Options{})
	region := ix.Heap().DisallowAllocation()
	defer region.Close()

	defer func() {
		if recover() == nil {
			t.Errorf("factory inside a no-allocation region did not panic")
		}
	}()
	ix.NewPlainObject(Null)
}

func TestRealmsAreIsolated(t *testing.T) {
	ix := NewIsolate(Options{})
	first := ix.CurrentRealm()
	second := ix.AddRealm()

	if first.ID() == second.ID() {
		t.Fatalf("realm ids collide")
	}
	if first.ObjectPrototype.Is(second.ObjectPrototype) {
		t.Errorf("realms share an object prototype")
	}

	obj := ix.NewPlainObject(first.ObjectPrototype)
	if ix.RealmOf(obj) != first.ID() {
		t.Errorf("RealmOf = %d, want %d", ix.RealmOf(obj), first.ID())
	}

	prev := ix.EnterRealm(second)
	if ix.CurrentRealm() != second {
		t.Errorf("EnterRealm did not switch realms")
	}
	if ix.RealmOf(obj) != first.ID() {
		t.Errorf("object changed realms on EnterRealm")
	}
	ix.EnterRealm(prev)
}

func TestScriptWrapperIsCached(t *testing.T) {
	ix := NewIsolate(Options{})
	s := newTestScript(ix, "x")
	a := ix.ScriptWrapper(s)
	b := ix.ScriptWrapper(s)
	if !a.Is(b) {
		t.Errorf("script wrapper was recreated on second request")
	}
	if got := a.AsWrapper().Value().AsScript(); got != s {
		t.Errorf("wrapper does not box the script")
	}
}

func TestTrivialCompilerFinalizesDeclaredCount(t *testing.T) {
	ix := NewIsolate(Options{})
	fn := ix.NewFunction("f", 3).AsFunction()
	if fn.IsCompiled() {
		t.Fatalf("fresh function is already compiled")
	}
	if err := ix.EnsureCompiled(fn); err != nil {
		t.Fatalf("EnsureCompiled: %v", err)
	}
	if !fn.IsCompiled() || fn.ParamCount() != 3 {
		t.Errorf("compiled = %v, param count = %d, want true, 3", fn.IsCompiled(), fn.ParamCount())
	}
}
