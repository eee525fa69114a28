package vm

// Realm is one isolated execution environment: its own built-in prototype
// templates and identity. Accessor descriptors are installed against a
// realm's templates; cross-realm access is gated by the descriptor's
// cross-boundary flags.
type Realm struct {
	id int

	ObjectPrototype   Value
	FunctionPrototype Value
	ArrayPrototype    Value
	StringPrototype   Value
	NumberPrototype   Value
	ScriptTemplate    Value

	initialized bool
}

// NewRealm creates a realm with uninitialized templates. Call
// InitializePrototypes before installing accessors.
func NewRealm(id int) *Realm {
	return &Realm{id: id}
}

// ID returns the realm's identifier.
func (r *Realm) ID() int { return r.id }

// InitializePrototypes creates the prototype chain for this realm.
func (r *Realm) InitializePrototypes() {
	objectProto := NewObject(Null)
	objectProto.realmID = r.id
	r.ObjectPrototype = NewValueFromPlainObject(objectProto)

	for _, slot := range []*Value{
		&r.FunctionPrototype,
		&r.ArrayPrototype,
		&r.StringPrototype,
		&r.NumberPrototype,
		&r.ScriptTemplate,
	} {
		proto := NewObject(r.ObjectPrototype)
		proto.realmID = r.id
		*slot = NewValueFromPlainObject(proto)
	}
	r.initialized = true
}

// IsInitialized reports whether the realm's templates exist.
func (r *Realm) IsInitialized() bool { return r.initialized }
