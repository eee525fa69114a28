package vm

// Frame is one physical call-stack frame. An optimized frame may fold
// several logical activations into itself via inlining: fns[0] is the
// frame's own function and later entries are inlined callees, deepest
// last. Frame descriptors reference raw slices into engine storage, so
// walks over live frames run under a no-allocation region.
type Frame struct {
	fns       []*FunctionObject
	optimized bool

	// adaptor frames carry the raw parameter slots for the frame pushed
	// above them when the call site's argument count had to be adapted.
	adaptor     bool
	adaptedArgs bool

	params      []Value
	expressions []Value

	// inlinedSlots is the frame's deoptimization metadata: the
	// reconstructed formal slots for each logical activation index. The
	// default slot resolver reads it; a custom DeoptResolver may ignore it.
	inlinedSlots [][]Value
}

// NewFrame creates a non-optimized frame for fn with the given raw
// parameter slots. Named stack slots start out as the hole marker.
func NewFrame(fn *FunctionObject, params []Value) *Frame {
	expressions := make([]Value, fn.ScopeInfo().SlotCount())
	for i := range expressions {
		expressions[i] = Hole
	}
	return &Frame{
		fns:         []*FunctionObject{fn},
		params:      params,
		expressions: expressions,
	}
}

// NewOptimizedFrame creates an optimized frame folding the given logical
// activations; fns[0] is the physical function. inlinedSlots supplies the
// deopt metadata for each logical index (entries for index 0 are unused).
func NewOptimizedFrame(fns []*FunctionObject, params []Value, inlinedSlots [][]Value) *Frame {
	if len(fns) == 0 {
		panic("optimized frame needs at least its physical function")
	}
	expressions := make([]Value, fns[0].ScopeInfo().SlotCount())
	for i := range expressions {
		expressions[i] = Hole
	}
	return &Frame{
		fns:          fns,
		optimized:    true,
		params:       params,
		expressions:  expressions,
		inlinedSlots: inlinedSlots,
	}
}

// NewAdaptorFrame creates an argument adaptor frame holding the raw
// parameter slots for the activation pushed above it.
func NewAdaptorFrame(params []Value) *Frame {
	return &Frame{adaptor: true, params: params}
}

// Functions returns the frame's logical activations: index 0 is the
// physical function, later entries are inlined callees, deepest last.
func (f *Frame) Functions() []*FunctionObject { return f.fns }

// IsOptimized reports whether the frame was produced by the optimizing
// compiler.
func (f *Frame) IsOptimized() bool { return f.optimized }

// IsAdaptor reports whether this is an argument adaptor frame.
func (f *Frame) IsAdaptor() bool { return f.adaptor }

// HasAdaptedArguments marks that the frame's raw argument slots live in the
// adaptor frame directly outward of it.
func (f *Frame) HasAdaptedArguments() bool { return f.adaptedArgs }

// SetAdaptedArguments flags the frame as argument-adapted.
func (f *Frame) SetAdaptedArguments() { f.adaptedArgs = true }

// ParametersCount returns the number of raw parameter slots the frame holds.
func (f *Frame) ParametersCount() int { return len(f.params) }

// Parameter reads raw parameter slot i.
func (f *Frame) Parameter(i int) Value {
	if i < 0 || i >= len(f.params) {
		return Undefined
	}
	return f.params[i]
}

// Expression reads named stack slot i. Slots that were never materialized
// hold the hole marker.
func (f *Frame) Expression(i int) Value {
	if i < 0 || i >= len(f.expressions) {
		return Hole
	}
	return f.expressions[i]
}

// SetExpression writes named stack slot i.
func (f *Frame) SetExpression(i int, v Value) {
	if i >= 0 && i < len(f.expressions) {
		f.expressions[i] = v
	}
}

// FrameIterator walks the live physical frames innermost to outermost,
// skipping adaptor frames the way ordinary stack walks do.
type FrameIterator struct {
	ix  *Isolate
	idx int
}

// NewFrameIterator positions an iterator at the innermost non-adaptor
// frame.
func (ix *Isolate) NewFrameIterator() *FrameIterator {
	it := &FrameIterator{ix: ix, idx: len(ix.frames) - 1}
	it.skipAdaptors()
	return it
}

func (it *FrameIterator) skipAdaptors() {
	for it.idx >= 0 && it.ix.frames[it.idx].adaptor {
		it.idx--
	}
}

// Done reports whether the walk ran off the outermost frame.
func (it *FrameIterator) Done() bool { return it.idx < 0 }

// Frame returns the current frame.
func (it *FrameIterator) Frame() *Frame { return it.ix.frames[it.idx] }

// Advance moves one physical frame outward, skipping adaptor frames.
func (it *FrameIterator) Advance() {
	it.idx--
	it.skipAdaptors()
}

// AdvanceToArgumentsFrame moves to the physical frame that actually holds
// the current activation's raw argument list. For an argument-adapted call
// that is the adaptor frame directly outward; otherwise the iterator stays
// put.
func (it *FrameIterator) AdvanceToArgumentsFrame() {
	if it.Done() {
		return
	}
	if it.ix.frames[it.idx].adaptedArgs && it.idx > 0 && it.ix.frames[it.idx-1].adaptor {
		it.idx--
	}
}
