package vm

// ArrayObject holds a dense element store plus a length that may exceed it
// (trailing elements read as undefined). Length writes go through SetLength
// so truncation of the backing store is never skipped.
type ArrayObject struct {
	prototype Value
	elements  []Value
	length    uint32
	realmID   int
}

// NewArrayObject creates an array of the given length with an empty store.
func NewArrayObject(length uint32) *ArrayObject {
	return &ArrayObject{length: length}
}

// Prototype returns the array's [[Prototype]] link.
func (a *ArrayObject) Prototype() Value { return a.prototype }

// SetPrototype replaces the array's [[Prototype]] link.
func (a *ArrayObject) SetPrototype(p Value) { a.prototype = p }

// RealmID reports which realm the array was created in.
func (a *ArrayObject) RealmID() int { return a.realmID }

// Length returns the current length.
func (a *ArrayObject) Length() uint32 { return a.length }

// Get reads element i; indices at or beyond the store read as undefined.
func (a *ArrayObject) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Undefined
	}
	return a.elements[i]
}

// Set writes element i, growing the store (and the length) as needed.
func (a *ArrayObject) Set(i int, v Value) {
	if i < 0 {
		return
	}
	for len(a.elements) <= i {
		a.elements = append(a.elements, Undefined)
	}
	a.elements[i] = v
	if uint32(i) >= a.length {
		a.length = uint32(i) + 1
	}
}

// SetLength commits a new length and truncates the element store above the
// new bound. Growing the length does not materialize elements.
func (a *ArrayObject) SetLength(n uint32) {
	if int(n) < len(a.elements) {
		a.elements = a.elements[:n]
	}
	a.length = n
}
