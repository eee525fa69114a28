package vm

import "fmt"

// Heap is the allocator collaborator for the accessor layer. It owns a
// growable cell store used as handle targets: growth relocates the backing
// array, so a raw *Value into it is invalid across any allocating call.
// A Handle holds a slot index and survives relocation.
//
// It also tracks the isolate's allocation epoch and no-allocation regions:
// every object construction routed through the isolate's factory methods
// bumps the epoch, and panics if a no-allocation region is active.
type Heap struct {
	cells []Value
	size  int

	allocs  uint64 // allocation epoch
	noAlloc int    // depth of active no-allocation regions
}

// NewHeap creates a new heap with the specified initial cell capacity.
func NewHeap(initialCapacity int) *Heap {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &Heap{
		cells: make([]Value, initialCapacity),
		size:  0,
	}
}

// resize ensures the cell store can accommodate at least newSize slots.
// Growing relocates the backing array.
func (h *Heap) resize(newSize int) {
	if newSize > len(h.cells) {
		capacity := len(h.cells) * 2
		if capacity < newSize {
			capacity = newSize
		}
		newCells := make([]Value, capacity)
		copy(newCells, h.cells)
		h.cells = newCells
	}
}

// Size returns the number of live handle cells.
func (h *Heap) Size() int { return h.size }

// Allocations returns the allocation epoch: the count of allocating
// operations performed so far. Any raw reference derived before an epoch
// change must be re-derived through a handle.
func (h *Heap) Allocations() uint64 { return h.allocs }

// OnAllocate records one allocating operation. It panics if a
// no-allocation region is active; the region discipline is primarily
// enforced by scoping at entry/exit, this check is the backstop.
func (h *Heap) OnAllocate() {
	if h.noAlloc > 0 {
		panic(fmt.Sprintf("allocation inside a no-allocation region (depth %d)", h.noAlloc))
	}
	h.allocs++
}

// AllocationAllowed reports whether an allocating operation may run now.
func (h *Heap) AllocationAllowed() bool { return h.noAlloc == 0 }

// Handle is an owning, relocation-safe reference to a value cell. It stays
// valid for the lifetime of the HandleScope it was acquired in.
type Handle struct {
	h    *Heap
	slot int
}

// Get returns the handle's current target.
func (hd Handle) Get() Value { return hd.h.cells[hd.slot] }

// Set redirects the handle to a new target.
func (hd Handle) Set(v Value) { hd.h.cells[hd.slot] = v }

// HandleScope batches handle lifetimes: every handle acquired through a
// scope is released when the scope closes. Scopes nest; close them in
// reverse order of opening (defer at acquisition site).
type HandleScope struct {
	h      *Heap
	base   int
	closed bool
}

// OpenScope opens a new handle scope.
func (h *Heap) OpenScope() *HandleScope {
	return &HandleScope{h: h, base: h.size}
}

// Acquire registers value in a fresh cell and returns a handle to it.
// Acquiring a handle is not an allocating operation: it is legal inside a
// no-allocation region.
func (s *HandleScope) Acquire(v Value) Handle {
	if s.closed {
		panic("Acquire on a closed handle scope")
	}
	slot := s.h.size
	s.h.resize(slot + 1)
	s.h.cells[slot] = v
	s.h.size = slot + 1
	return Handle{h: s.h, slot: slot}
}

// Close releases every handle acquired in this scope. Idempotent, so it is
// safe to defer and also call early on a fast path.
func (s *HandleScope) Close() {
	if s.closed {
		return
	}
	for i := s.base; i < s.h.size; i++ {
		s.h.cells[i] = Undefined
	}
	s.h.size = s.base
	s.closed = true
}

// NoAllocationRegion marks a dynamic scope in which no collaborator capable
// of triggering a collection may run, because raw frame and cell addresses
// are held.
type NoAllocationRegion struct {
	h        *Heap
	released bool
}

// DisallowAllocation enters a no-allocation region. Regions nest.
func (h *Heap) DisallowAllocation() *NoAllocationRegion {
	h.noAlloc++
	return &NoAllocationRegion{h: h}
}

// Close exits the region. Idempotent: callers defer it and may also close
// early at an explicit allocation boundary.
func (r *NoAllocationRegion) Close() {
	if r.released {
		return
	}
	r.h.noAlloc--
	r.released = true
}
