package vm

// Field is one named own property of a PlainObject.
type Field struct {
	name         string
	value        Value
	writable     bool
	enumerable   bool
	configurable bool
}

// PlainObject is the ordinary object: a prototype link plus a small field
// table. The accessor layer only needs enough of the object model to host
// inherited accessors and fallback data properties; shapes, symbols and the
// rest of the property machinery are out of scope here.
type PlainObject struct {
	prototype Value
	fields    []Field
	realmID   int
}

// NewObject creates a plain object with the given prototype value.
func NewObject(prototype Value) *PlainObject {
	return &PlainObject{prototype: prototype}
}

// Prototype returns the object's [[Prototype]] link.
func (o *PlainObject) Prototype() Value { return o.prototype }

// SetPrototype replaces the object's [[Prototype]] link.
func (o *PlainObject) SetPrototype(p Value) { o.prototype = p }

// RealmID reports which realm the object was created in.
func (o *PlainObject) RealmID() int { return o.realmID }

// GetOwn looks up a direct (own) property by name. Returns (value, true) if present.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	for i := range o.fields {
		if o.fields[i].name == name {
			return o.fields[i].value, true
		}
	}
	return Undefined, false
}

// GetOwnDescriptor returns the value and attribute flags for an own property.
// Returns (value, writable, enumerable, configurable, exists).
func (o *PlainObject) GetOwnDescriptor(name string) (Value, bool, bool, bool, bool) {
	for i := range o.fields {
		if o.fields[i].name == name {
			f := &o.fields[i]
			return f.value, f.writable, f.enumerable, f.configurable, true
		}
	}
	return Undefined, false, false, false, false
}

// SetOwn sets or defines an own property with regular assignment semantics.
// If the property exists and is non-writable, this is a no-op.
func (o *PlainObject) SetOwn(name string, v Value) {
	for i := range o.fields {
		if o.fields[i].name == name {
			if o.fields[i].writable {
				o.fields[i].value = v
			}
			return
		}
	}
	o.fields = append(o.fields, Field{
		name: name, value: v,
		writable: true, enumerable: true, configurable: true,
	})
}

// DefineOwn defines an own data property ignoring existing attributes,
// the way accessors degrade when the receiver merely inherits them.
func (o *PlainObject) DefineOwn(name string, v Value) {
	for i := range o.fields {
		if o.fields[i].name == name {
			o.fields[i].value = v
			o.fields[i].writable = true
			o.fields[i].enumerable = true
			o.fields[i].configurable = true
			return
		}
	}
	o.fields = append(o.fields, Field{
		name: name, value: v,
		writable: true, enumerable: true, configurable: true,
	})
}

// OwnNames returns the own property names in definition order.
func (o *PlainObject) OwnNames() []string {
	names := make([]string, len(o.fields))
	for i := range o.fields {
		names[i] = o.fields[i].name
	}
	return names
}

// WrapperObject boxes a primitive or internal value behind an object
// identity, like the host wrappers for numbers, strings and scripts.
type WrapperObject struct {
	prototype Value
	value     Value
	realmID   int
}

// NewWrapper creates a wrapper around value with the given prototype.
func NewWrapper(prototype Value, value Value) *WrapperObject {
	return &WrapperObject{prototype: prototype, value: value}
}

// Prototype returns the wrapper's [[Prototype]] link.
func (w *WrapperObject) Prototype() Value { return w.prototype }

// Value returns the wrapped value.
func (w *WrapperObject) Value() Value { return w.value }

// RealmID reports which realm the wrapper was created in.
func (w *WrapperObject) RealmID() int { return w.realmID }
