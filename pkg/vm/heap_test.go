package vm

import "testing"

func TestHandleSurvivesRelocation(t *testing.T) {
	h := NewHeap(2)
	scope := h.OpenScope()
	defer scope.Close()

	hd := scope.Acquire(NumberValue(42))

	// Force the backing array to relocate several times.
	for i := 0; i < 100; i++ {
		scope.Acquire(IntegerValue(int32(i)))
	}

	if got := hd.Get().Number(); got != 42 {
		t.Errorf("handle target after relocation = %v, want 42", got)
	}

	hd.Set(NewString("moved"))
	if got := hd.Get().AsString(); got != "moved" {
		t.Errorf("handle target after Set = %q, want %q", got, "moved")
	}
}

func TestHandleScopeReleasesOnClose(t *testing.T) {
	h := NewHeap(4)

	outer := h.OpenScope()
	outer.Acquire(True)

	inner := h.OpenScope()
	inner.Acquire(False)
	inner.Acquire(Null)
	if h.Size() != 3 {
		t.Fatalf("size with both scopes open = %d, want 3", h.Size())
	}

	inner.Close()
	if h.Size() != 1 {
		t.Errorf("size after inner close = %d, want 1", h.Size())
	}

	// Close is idempotent.
	inner.Close()
	if h.Size() != 1 {
		t.Errorf("size after double close = %d, want 1", h.Size())
	}

	outer.Close()
	if h.Size() != 0 {
		t.Errorf("size after outer close = %d, want 0", h.Size())
	}
}

func TestAcquireOnClosedScopePanics(t *testing.T) {
	h := NewHeap(4)
	scope := h.OpenScope()
	scope.Close()

	defer func() {
		if recover() == nil {
			t.Errorf("Acquire on a closed scope did not panic")
		}
	}()
	scope.Acquire(Undefined)
}

func TestNoAllocationRegionBlocksAllocation(t *testing.T) {
	h := NewHeap(4)
	region := h.DisallowAllocation()
	defer region.Close()

	if h.AllocationAllowed() {
		t.Errorf("AllocationAllowed = true inside a region")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("OnAllocate inside a region did not panic")
		}
	}()
	h.OnAllocate()
}

func TestNoAllocationRegionsNest(t *testing.T) {
	h := NewHeap(4)
	outer := h.DisallowAllocation()
	inner := h.DisallowAllocation()

	inner.Close()
	if h.AllocationAllowed() {
		t.Errorf("inner close released the outer region")
	}

	// Closing the inner region twice must not release the outer one.
	inner.Close()
	if h.AllocationAllowed() {
		t.Errorf("double close released the outer region")
	}

	outer.Close()
	if !h.AllocationAllowed() {
		t.Errorf("allocation still blocked after all regions closed")
	}
}

func TestHandleAcquisitionIsNotAnAllocation(t *testing.T) {
	h := NewHeap(1)
	region := h.DisallowAllocation()
	defer region.Close()

	scope := h.OpenScope()
	defer scope.Close()

	// Acquiring handles (even forcing cell growth) is legal in a region.
	for i := 0; i < 10; i++ {
		scope.Acquire(IntegerValue(int32(i)))
	}
	if h.Size() != 10 {
		t.Errorf("size = %d, want 10", h.Size())
	}
}

func TestAllocationEpoch(t *testing.T) {
	h := NewHeap(4)
	before := h.Allocations()
	h.OnAllocate()
	h.OnAllocate()
	if got := h.Allocations() - before; got != 2 {
		t.Errorf("epoch advanced by %d, want 2", got)
	}
}
