package vm

// NativeFn is the Go implementation backing a builtin function value.
type NativeFn func(ix *Isolate, this Value, args []Value) (Value, error)

// ScopeInfo describes the named stack slots of a function's frame layout.
// The accessor layer only consults it to locate a local that aliases the
// "arguments" identifier.
type ScopeInfo struct {
	stackSlots []string
}

// StackSlotIndex returns the slot index of name, or -1 if the function has
// no such named slot.
func (s *ScopeInfo) StackSlotIndex(name string) int {
	for i, n := range s.stackSlots {
		if n == name {
			return i
		}
	}
	return -1
}

// SlotCount returns the number of named stack slots.
func (s *ScopeInfo) SlotCount() int { return len(s.stackSlots) }

// PositionTableEntry maps a code offset to a source position. Tables are
// sorted by code offset.
type PositionTableEntry struct {
	CodeOffset int
	SourcePos  int
}

// FunctionObject is the runtime function: identity for stack walks, compiled
// metadata for the pure projections, and flags consulted by the caller
// censoring policy.
type FunctionObject struct {
	proto   Value // [[Prototype]] chain link
	realmID int

	Name         string
	InferredName string

	// declaredParams is the parser's count; it becomes authoritative only
	// once the function is compiled.
	declaredParams int
	paramCount     int
	compiled       bool

	Constructible bool // whether the function should carry a "prototype" property
	Builtin       bool // engine-provided; never attributed as a caller
	Strict        bool
	Bound         bool
	Toplevel      bool
	Observed      bool // change observation enabled for this function

	// The "prototype" property, materialized lazily on first read.
	prototype    Value
	hasPrototype bool

	scopeInfo ScopeInfo
	Script    *ScriptObject
	positions []PositionTableEntry

	// Call is the native implementation for builtin functions (custom
	// valueOf and the like); nil for functions that exist only as stack
	// walk subjects.
	Call NativeFn
}

// NewFunctionObject creates a constructible, uncompiled function.
func NewFunctionObject(name string, declaredParams int) *FunctionObject {
	return &FunctionObject{
		Name:           name,
		declaredParams: declaredParams,
		Constructible:  true,
	}
}

// Proto returns the function's [[Prototype]] chain link.
func (f *FunctionObject) Proto() Value { return f.proto }

// SetProto replaces the function's [[Prototype]] chain link.
func (f *FunctionObject) SetProto(p Value) { f.proto = p }

// RealmID reports which realm the function was created in.
func (f *FunctionObject) RealmID() int { return f.realmID }

// DeclaredParamCount returns the parser's parameter count. It is not
// authoritative until the function is compiled.
func (f *FunctionObject) DeclaredParamCount() int { return f.declaredParams }

// IsCompiled reports whether compiled metadata is available.
func (f *FunctionObject) IsCompiled() bool { return f.compiled }

// ParamCount returns the compiled parameter count. Callers must ensure the
// function is compiled first; for an uncompiled function this returns the
// declared count.
func (f *FunctionObject) ParamCount() int {
	if f.compiled {
		return f.paramCount
	}
	return f.declaredParams
}

// FinalizeParameterCount is called by the compiler collaborator when
// compilation completes; it fixes the authoritative parameter count.
func (f *FunctionObject) FinalizeParameterCount(n int) {
	f.paramCount = n
	f.compiled = true
}

// HasPrototype reports whether the "prototype" property has been
// materialized yet.
func (f *FunctionObject) HasPrototype() bool { return f.hasPrototype }

// FunctionPrototype returns the materialized "prototype" property.
func (f *FunctionObject) FunctionPrototype() Value { return f.prototype }

// SetFunctionPrototype commits a new "prototype" property binding.
func (f *FunctionObject) SetFunctionPrototype(v Value) {
	f.prototype = v
	f.hasPrototype = true
}

// ScopeInfo returns the function's frame slot layout.
func (f *FunctionObject) ScopeInfo() *ScopeInfo { return &f.scopeInfo }

// AddStackSlot appends a named stack slot and returns its index.
func (f *FunctionObject) AddStackSlot(name string) int {
	f.scopeInfo.stackSlots = append(f.scopeInfo.stackSlots, name)
	return len(f.scopeInfo.stackSlots) - 1
}

// AddPosition appends a position table entry. Entries must be appended in
// increasing code-offset order.
func (f *FunctionObject) AddPosition(codeOffset, sourcePos int) {
	f.positions = append(f.positions, PositionTableEntry{CodeOffset: codeOffset, SourcePos: sourcePos})
}

// SourcePosition maps a code offset back to a source position via the
// position table: the entry with the greatest code offset not beyond the
// query wins. Returns 0 when the table has no covering entry.
func (f *FunctionObject) SourcePosition(codeOffset int) int {
	pos := 0
	for _, e := range f.positions {
		if e.CodeOffset > codeOffset {
			break
		}
		pos = e.SourcePos
	}
	return pos
}

// ArgumentsObject is a materialized arguments list for one activation.
type ArgumentsObject struct {
	prototype Value
	callee    *FunctionObject
	elements  []Value
	realmID   int
}

// Prototype returns the arguments object's [[Prototype]] link.
func (a *ArgumentsObject) Prototype() Value { return a.prototype }

// Callee returns the function the arguments belong to.
func (a *ArgumentsObject) Callee() *FunctionObject { return a.callee }

// Length returns the number of argument slots.
func (a *ArgumentsObject) Length() int { return len(a.elements) }

// Get reads argument slot i.
func (a *ArgumentsObject) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Undefined
	}
	return a.elements[i]
}

// RealmID reports which realm the arguments object was created in.
func (a *ArgumentsObject) RealmID() int { return a.realmID }
