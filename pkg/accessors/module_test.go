package accessors

import (
	"strings"
	"testing"

	"kestrel/pkg/vm"
)

func moduleEnv(t *testing.T) (*vm.Isolate, *Registry, vm.Value) {
	t.Helper()
	ix, reg := newEnv(t)
	mod := ix.NewModule(2)
	reg.Install(mod, MakeModuleExport("counter", 0, true))
	reg.Install(mod, MakeModuleExport("VERSION", 1, false))
	return ix, reg, mod
}

func TestModuleExportReadBeforeInitialization(t *testing.T) {
	ix, reg, mod := moduleEnv(t)

	_, _, err := reg.GetProperty(ix, mod, "counter")
	if !vm.IsExceptionKind(err, vm.ReferenceErrorKind) {
		t.Fatalf("TDZ read = %v, want ReferenceError", err)
	}
	exc := err.(*vm.Exception)
	if exc.Property != "counter" {
		t.Errorf("error names %q, want counter", exc.Property)
	}
	if !strings.Contains(exc.Msg, "counter") {
		t.Errorf("message %q does not mention the export", exc.Msg)
	}
}

func TestModuleExportAfterInitialization(t *testing.T) {
	ix, reg, mod := moduleEnv(t)
	mod.AsModule().SetSlot(0, vm.IntegerValue(1))

	v := mustGet(t, ix, reg, mod, "counter")
	if !v.Is(vm.IntegerValue(1)) {
		t.Errorf("counter = %s, want 1", v.Inspect())
	}

	if _, err := mustSet(t, ix, reg, mod, "counter", vm.IntegerValue(2)); err != nil {
		t.Fatalf("export write: %v", err)
	}
	if v := mustGet(t, ix, reg, mod, "counter"); !v.Is(vm.IntegerValue(2)) {
		t.Errorf("counter after write = %s, want 2", v.Inspect())
	}
}

func TestModuleExportWriteBeforeInitialization(t *testing.T) {
	ix, reg, mod := moduleEnv(t)

	_, _, err := reg.SetProperty(ix, mod, "counter", vm.IntegerValue(5))
	if !vm.IsExceptionKind(err, vm.ReferenceErrorKind) {
		t.Fatalf("TDZ write = %v, want ReferenceError", err)
	}
	if got := mod.AsModule().Slot(0); got.Type() != vm.TypeUninitialized {
		t.Errorf("failed write initialized the slot: %s", got.Inspect())
	}
}

func TestModuleReadOnlyExportIgnoresWrites(t *testing.T) {
	ix, reg, mod := moduleEnv(t)
	mod.AsModule().SetSlot(1, vm.NewString("1.0"))

	res, handled, err := reg.SetProperty(ix, mod, "VERSION", vm.NewString("2.0"))
	if err != nil || !handled {
		t.Fatalf("write = handled %v, err %v", handled, err)
	}
	if res.AsString() != "2.0" {
		t.Errorf("swallowed write returned %s", res.Inspect())
	}
	if v := mustGet(t, ix, reg, mod, "VERSION"); v.AsString() != "1.0" {
		t.Errorf("read-only export changed: %s", v.Inspect())
	}
}

func TestModuleExportsAreIndependent(t *testing.T) {
	ix, reg, mod := moduleEnv(t)
	if got := mod.AsModule().SlotCount(); got != 2 {
		t.Fatalf("slot count = %d, want 2", got)
	}
	mod.AsModule().SetSlot(0, vm.IntegerValue(7))

	// Slot 1 is still uninitialized; slot 0 reads fine.
	if v := mustGet(t, ix, reg, mod, "counter"); !v.Is(vm.IntegerValue(7)) {
		t.Errorf("counter = %s, want 7", v.Inspect())
	}
	_, _, err := reg.GetProperty(ix, mod, "VERSION")
	if !vm.IsExceptionKind(err, vm.ReferenceErrorKind) {
		t.Errorf("uninitialized sibling export read = %v, want ReferenceError", err)
	}
}
