package vm

// ModuleObject is a module instance's lexical environment: a fixed-size
// slot array indexed by export position. Slots start out as the
// uninitialized marker; reading or writing a slot before its binding is
// initialized is an error at the accessor layer, never a silent no-op.
type ModuleObject struct {
	prototype Value
	slots     []Value
	realmID   int
}

// NewModuleObject creates a module environment with slotCount uninitialized
// slots.
func NewModuleObject(slotCount int) *ModuleObject {
	slots := make([]Value, slotCount)
	for i := range slots {
		slots[i] = Uninitialized
	}
	return &ModuleObject{slots: slots}
}

// Prototype returns the module's [[Prototype]] link.
func (m *ModuleObject) Prototype() Value { return m.prototype }

// RealmID reports which realm the module was instantiated in.
func (m *ModuleObject) RealmID() int { return m.realmID }

// SlotCount returns the number of lexical slots.
func (m *ModuleObject) SlotCount() int { return len(m.slots) }

// Slot reads lexical slot i. Out-of-range reads return the uninitialized
// marker so callers hit the same error path as a genuine TDZ read.
func (m *ModuleObject) Slot(i int) Value {
	if i < 0 || i >= len(m.slots) {
		return Uninitialized
	}
	return m.slots[i]
}

// SetSlot writes lexical slot i.
func (m *ModuleObject) SetSlot(i int, v Value) {
	if i < 0 || i >= len(m.slots) {
		return
	}
	m.slots[i] = v
}
