package vm

import (
	"fmt"
	"math"

	"kestrel/pkg/errors"
	"kestrel/pkg/source"
)

// Compiler is the on-demand compilation collaborator. EnsureCompiled is
// called before reading metadata that is only authoritative after
// compilation (the parameter count); failures propagate to the accessor's
// caller as exceptions.
type Compiler interface {
	EnsureCompiled(ix *Isolate, fn *FunctionObject) error
}

// DeoptResolver reconstructs the formal parameter slots of an inlined
// logical activation from a frame's deoptimization metadata. The returned
// values are in declaration order and exactly paramCount long.
type DeoptResolver interface {
	Resolve(frame *Frame, logicalIndex int, paramCount int) []Value
}

// Notifier receives change records for observed objects. Notification is
// fire-and-forget: implementations must not raise.
type Notifier interface {
	Notify(object Value, kind string, property string, oldValue Value)
}

// TrivialCompiler finalizes the declared parameter count without doing any
// real compilation. It is the default collaborator; embedders with a real
// pipeline install their own.
type TrivialCompiler struct{}

func (TrivialCompiler) EnsureCompiled(ix *Isolate, fn *FunctionObject) error {
	fn.FinalizeParameterCount(fn.DeclaredParamCount())
	return nil
}

// FailingCompiler always fails; useful where compilation is known to be
// impossible (native-only isolates) and in tests.
type FailingCompiler struct {
	Msg string
}

func (c FailingCompiler) EnsureCompiled(ix *Isolate, fn *FunctionObject) error {
	msg := c.Msg
	if msg == "" {
		msg = fmt.Sprintf("cannot compile %q", fn.Name)
	}
	return &errors.CompileError{Msg: msg}
}

// frameDeoptResolver reads the deopt metadata attached to the frame itself.
type frameDeoptResolver struct{}

func (frameDeoptResolver) Resolve(frame *Frame, logicalIndex int, paramCount int) []Value {
	slots := make([]Value, paramCount)
	var recorded []Value
	if logicalIndex >= 0 && logicalIndex < len(frame.inlinedSlots) {
		recorded = frame.inlinedSlots[logicalIndex]
	}
	for i := 0; i < paramCount; i++ {
		if i < len(recorded) {
			slots[i] = recorded[i]
		} else {
			slots[i] = Undefined
		}
	}
	return slots
}

type noopNotifier struct{}

func (noopNotifier) Notify(object Value, kind string, property string, oldValue Value) {}

// Options tunes isolate limits.
type Options struct {
	MaxFrames    int // max physical call-stack depth
	HeapCapacity int // initial handle cell capacity
}

// DefaultOptions returns the stock limits.
func DefaultOptions() Options {
	return Options{MaxFrames: 64, HeapCapacity: 64}
}

// Isolate is one single-threaded execution environment. Every accessor call
// receives an explicit isolate; there is no ambient engine singleton.
type Isolate struct {
	heap *Heap

	realms       []*Realm
	currentRealm *Realm

	frames    []*Frame
	maxFrames int

	compiler Compiler
	deopt    DeoptResolver
	notifier Notifier

	nextScriptID int
}

// NewIsolate creates an isolate with one initialized realm and the default
// collaborators.
func NewIsolate(opts Options) *Isolate {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultOptions().MaxFrames
	}
	if opts.HeapCapacity <= 0 {
		opts.HeapCapacity = DefaultOptions().HeapCapacity
	}
	ix := &Isolate{
		heap:         NewHeap(opts.HeapCapacity),
		maxFrames:    opts.MaxFrames,
		compiler:     TrivialCompiler{},
		deopt:        frameDeoptResolver{},
		notifier:     noopNotifier{},
		nextScriptID: 1,
	}
	realm := NewRealm(0)
	realm.InitializePrototypes()
	ix.realms = append(ix.realms, realm)
	ix.currentRealm = realm
	return ix
}

// Heap returns the isolate's allocator.
func (ix *Isolate) Heap() *Heap { return ix.heap }

// CurrentRealm returns the realm executing right now.
func (ix *Isolate) CurrentRealm() *Realm { return ix.currentRealm }

// AddRealm creates, initializes and registers an additional realm.
func (ix *Isolate) AddRealm() *Realm {
	realm := NewRealm(len(ix.realms))
	realm.InitializePrototypes()
	ix.realms = append(ix.realms, realm)
	return realm
}

// EnterRealm switches the current realm and returns the previous one so
// callers can restore it.
func (ix *Isolate) EnterRealm(r *Realm) *Realm {
	prev := ix.currentRealm
	ix.currentRealm = r
	return prev
}

// SetCompiler installs the compilation collaborator.
func (ix *Isolate) SetCompiler(c Compiler) { ix.compiler = c }

// SetDeoptResolver installs the deoptimization slot resolver.
func (ix *Isolate) SetDeoptResolver(d DeoptResolver) { ix.deopt = d }

// SetNotifier installs the change-observation notifier.
func (ix *Isolate) SetNotifier(n Notifier) { ix.notifier = n }

// EnsureCompiled compiles fn on demand through the compiler collaborator.
func (ix *Isolate) EnsureCompiled(fn *FunctionObject) error {
	if fn.IsCompiled() {
		return nil
	}
	return ix.compiler.EnsureCompiled(ix, fn)
}

// ResolveDeoptSlots reconstructs an inlined activation's formal slots.
func (ix *Isolate) ResolveDeoptSlots(frame *Frame, logicalIndex int, paramCount int) []Value {
	return ix.deopt.Resolve(frame, logicalIndex, paramCount)
}

// Notify emits a change record. Best effort; never raises.
func (ix *Isolate) Notify(object Value, kind string, property string, oldValue Value) {
	ix.notifier.Notify(object, kind, property, oldValue)
}

// --- Frame stack ---

// PushFrame pushes a physical frame. Exceeding the configured depth is a
// programming error in the embedder, not a script-visible condition.
func (ix *Isolate) PushFrame(f *Frame) {
	if len(ix.frames) >= ix.maxFrames {
		panic(fmt.Sprintf("frame stack overflow (max %d)", ix.maxFrames))
	}
	ix.frames = append(ix.frames, f)
}

// PopFrame pops the innermost physical frame.
func (ix *Isolate) PopFrame() {
	if len(ix.frames) == 0 {
		panic("PopFrame on empty stack")
	}
	ix.frames = ix.frames[:len(ix.frames)-1]
}

// FrameCount returns the current physical stack depth.
func (ix *Isolate) FrameCount() int { return len(ix.frames) }

// --- Prototype walking ---

// ImmediatePrototype is the prototype walker collaborator: one step up the
// chain, ending at the null sentinel. Primitive receivers resolve to the
// current realm's templates.
func (ix *Isolate) ImmediatePrototype(v Value) Value {
	switch v.Type() {
	case TypeObject:
		return v.AsPlainObject().prototype
	case TypeWrapper:
		return v.AsWrapper().prototype
	case TypeArray:
		return v.AsArray().prototype
	case TypeArguments:
		return v.AsArguments().prototype
	case TypeFunction:
		return v.AsFunction().proto
	case TypeModule:
		return v.AsModule().prototype
	case TypeString:
		return ix.currentRealm.StringPrototype
	case TypeFloatNumber, TypeIntegerNumber:
		return ix.currentRealm.NumberPrototype
	default:
		return Null
	}
}

// RealmOf reports which realm a receiver belongs to. Primitives belong to
// the current realm.
func (ix *Isolate) RealmOf(v Value) int {
	switch v.Type() {
	case TypeObject:
		return v.AsPlainObject().realmID
	case TypeWrapper:
		return v.AsWrapper().realmID
	case TypeArray:
		return v.AsArray().realmID
	case TypeArguments:
		return v.AsArguments().realmID
	case TypeFunction:
		return v.AsFunction().realmID
	case TypeModule:
		return v.AsModule().realmID
	default:
		return ix.currentRealm.ID()
	}
}

// GetProperty walks own properties and then the prototype chain. Only
// plain-object hosts can carry own properties in this layer.
func (ix *Isolate) GetProperty(v Value, name string) Value {
	cur := v
	for !cur.IsNull() && !cur.IsUndefined() {
		if obj := cur.AsPlainObject(); obj != nil {
			if val, ok := obj.GetOwn(name); ok {
				return val
			}
		}
		cur = ix.ImmediatePrototype(cur)
	}
	return Undefined
}

// Call invokes a callable value with an explicit this.
func (ix *Isolate) Call(callee Value, this Value, args []Value) (Value, error) {
	fn := callee.AsFunction()
	if fn == nil || fn.Call == nil {
		return Undefined, NewTypeError("value is not callable")
	}
	return fn.Call(ix, this, args)
}

// --- Coercions ---

// ToNumber implements the generic number coercion. Object inputs are
// converted through their valueOf/toString methods, so custom conversion
// behavior is observable once per call.
func (ix *Isolate) ToNumber(v Value) (float64, error) {
	if !v.IsObject() {
		return v.ToFloat(), nil
	}
	prim, err := ix.toPrimitive(v)
	if err != nil {
		return math.NaN(), err
	}
	return prim.ToFloat(), nil
}

// ToUint32 implements the canonical unsigned-32-bit coercion: a full
// ToNumber (observable on objects) followed by the modulo-2^32 conversion.
func (ix *Isolate) ToUint32(v Value) (uint32, error) {
	n, err := ix.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return toUint32(n), nil
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	m := math.Mod(t, 4294967296.0)
	if m < 0 {
		m += 4294967296.0
	}
	return uint32(m)
}

// toPrimitive converts an object to a primitive with number hint: valueOf
// first, then toString, then the wrapper's boxed value as a fallback.
func (ix *Isolate) toPrimitive(v Value) (Value, error) {
	for _, name := range []string{"valueOf", "toString"} {
		method := ix.GetProperty(v, name)
		if fn := method.AsFunction(); fn != nil && fn.Call != nil {
			res, err := fn.Call(ix, v, nil)
			if err != nil {
				return Undefined, err
			}
			if !res.IsObject() {
				return res, nil
			}
		}
	}
	if w := v.AsWrapper(); w != nil && !w.Value().IsObject() {
		return w.Value(), nil
	}
	return Undefined, NewTypeError("cannot convert object to primitive value")
}

// --- Factories ---
// Every factory is an allocating operation: it bumps the allocation epoch
// and panics inside a no-allocation region.

// NewPlainObject allocates a plain object in the current realm.
func (ix *Isolate) NewPlainObject(prototype Value) Value {
	ix.heap.OnAllocate()
	obj := NewObject(prototype)
	obj.realmID = ix.currentRealm.ID()
	return NewValueFromPlainObject(obj)
}

// NewArray allocates an array of the given length in the current realm.
func (ix *Isolate) NewArray(length int) Value {
	ix.heap.OnAllocate()
	arr := NewArrayObject(uint32(length))
	arr.prototype = ix.currentRealm.ArrayPrototype
	arr.realmID = ix.currentRealm.ID()
	return NewValueFromArray(arr)
}

// NewFunction allocates a constructible, uncompiled function.
func (ix *Isolate) NewFunction(name string, declaredParams int) Value {
	ix.heap.OnAllocate()
	fn := NewFunctionObject(name, declaredParams)
	fn.proto = ix.currentRealm.FunctionPrototype
	fn.realmID = ix.currentRealm.ID()
	return FunctionValue(fn)
}

// NewNativeFunction allocates a builtin function backed by a Go
// implementation.
func (ix *Isolate) NewNativeFunction(name string, arity int, call NativeFn) Value {
	v := ix.NewFunction(name, arity)
	fn := v.AsFunction()
	fn.Builtin = true
	fn.Constructible = false
	fn.FinalizeParameterCount(arity)
	fn.Call = call
	return v
}

// NewFunctionPrototype materializes the fresh object a constructible
// function exposes as its "prototype" property.
func (ix *Isolate) NewFunctionPrototype(fn *FunctionObject) Value {
	ix.heap.OnAllocate()
	proto := NewObject(ix.currentRealm.ObjectPrototype)
	proto.realmID = ix.currentRealm.ID()
	proto.SetOwn("constructor", FunctionValue(fn))
	return NewValueFromPlainObject(proto)
}

// NewArgumentsObject materializes a fresh arguments object for fn from the
// given slots.
func (ix *Isolate) NewArgumentsObject(fn *FunctionObject, slots []Value) Value {
	ix.heap.OnAllocate()
	a := &ArgumentsObject{
		prototype: ix.currentRealm.ObjectPrototype,
		callee:    fn,
		elements:  make([]Value, len(slots)),
		realmID:   ix.currentRealm.ID(),
	}
	copy(a.elements, slots)
	return NewValueFromArguments(a)
}

// NewNumberWrapper allocates a Number wrapper object.
func (ix *Isolate) NewNumberWrapper(f float64) Value {
	return ix.NewWrapperValue(ix.currentRealm.NumberPrototype, NumberValue(f))
}

// NewStringWrapper allocates a String wrapper object.
func (ix *Isolate) NewStringWrapper(s string) Value {
	return ix.NewWrapperValue(ix.currentRealm.StringPrototype, NewString(s))
}

// NewWrapperValue allocates a wrapper around value with the given
// prototype.
func (ix *Isolate) NewWrapperValue(prototype Value, value Value) Value {
	ix.heap.OnAllocate()
	w := NewWrapper(prototype, value)
	w.realmID = ix.currentRealm.ID()
	return NewValueFromWrapper(w)
}

// NewScript registers a compilation unit and assigns it an id.
func (ix *Isolate) NewScript(src *source.SourceFile, st ScriptType, ct CompilationType) *ScriptObject {
	ix.heap.OnAllocate()
	s := &ScriptObject{
		id:              ix.nextScriptID,
		src:             src,
		scriptType:      st,
		compilationType: ct,
		ContextData:     Undefined,
	}
	ix.nextScriptID++
	if src.Name != "" {
		s.name = NewString(src.Name)
	} else {
		s.name = Undefined
	}
	return s
}

// ScriptWrapper returns the host wrapper for a script, creating and caching
// it on first request.
func (ix *Isolate) ScriptWrapper(s *ScriptObject) Value {
	if s.wrapper.Type() != TypeWrapper {
		s.wrapper = ix.NewWrapperValue(ix.currentRealm.ScriptTemplate, ScriptValue(s))
	}
	return s.wrapper
}

// NewModule allocates a module environment with slotCount uninitialized
// slots.
func (ix *Isolate) NewModule(slotCount int) Value {
	ix.heap.OnAllocate()
	m := NewModuleObject(slotCount)
	m.prototype = ix.currentRealm.ObjectPrototype
	m.realmID = ix.currentRealm.ID()
	return ModuleValue(m)
}
