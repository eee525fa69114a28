package accessors

import (
	"math"
	"unicode/utf16"

	"kestrel/pkg/vm"
)

// findArray resolves the receiver to the nearest array on its prototype
// chain, the way an inherited length accessor rebinds to its proper holder.
func findArray(ix *vm.Isolate, receiver vm.Value) *vm.ArrayObject {
	for v := receiver; !v.IsNull() && !v.IsUndefined(); v = ix.ImmediatePrototype(v) {
		if arr := v.AsArray(); arr != nil {
			return arr
		}
	}
	return nil
}

// findFunction resolves the receiver to the nearest function on its
// prototype chain.
func findFunction(ix *vm.Isolate, receiver vm.Value) *vm.FunctionObject {
	for v := receiver; !v.IsNull() && !v.IsUndefined(); v = ix.ImmediatePrototype(v) {
		if fn := v.AsFunction(); fn != nil {
			return fn
		}
	}
	return nil
}

// flattenNumber unwraps a genuine Number wrapper to its boxed primitive.
// Everything else passes through untouched.
func flattenNumber(v vm.Value) vm.Value {
	if w := v.AsWrapper(); w != nil && w.Value().IsNumber() {
		return w.Value()
	}
	return v
}

// lengthValue renders an array length as the narrowest number kind.
func lengthValue(n uint32) vm.Value {
	if n <= math.MaxInt32 {
		return vm.IntegerValue(int32(n))
	}
	return vm.NumberValue(float64(n))
}

func arrayLengthGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	arr := findArray(ix, receiver)
	if arr == nil {
		return vm.IntegerValue(0), nil
	}
	return lengthValue(arr.Length()), nil
}

// arrayLengthSetter implements the dual-coercion length write: the value is
// converted with ToUint32 and, independently, with ToNumber. Both
// conversions run even though each can call user code; only if they agree
// is the new length committed. Custom valueOf side effects are therefore
// observed exactly twice, including on the failure path.
func arrayLengthSetter(ix *vm.Isolate, receiver vm.Value, value vm.Value, aux vm.Value) (vm.Value, error) {
	// Unlike the getter, the setter never rebinds to an ancestor: a receiver
	// that merely inherits the accessor gets an own data property, so the
	// write cannot recurse back into this setter.
	arr := receiver.AsArray()
	if arr == nil {
		if obj := receiver.AsPlainObject(); obj != nil {
			obj.DefineOwn("length", value)
		}
		return value, nil
	}

	flat := flattenNumber(value)
	asUint, err := ix.ToUint32(flat)
	if err != nil {
		return vm.Undefined, err
	}
	asNumber, err := ix.ToNumber(flat)
	if err != nil {
		return vm.Undefined, err
	}
	if float64(asUint) != asNumber {
		return vm.Undefined, vm.NewRangeError("invalid array length")
	}
	arr.SetLength(asUint)
	return value, nil
}

// stringLengthGetter reports a string's length in UTF-16 code units, for
// both primitive receivers and String wrappers. Non-string receivers read
// as zero.
func stringLengthGetter(ix *vm.Isolate, receiver vm.Value, aux vm.Value) (vm.Value, error) {
	v := receiver
	if w := v.AsWrapper(); w != nil {
		v = w.Value()
	}
	if v.Type() != vm.TypeString {
		return vm.IntegerValue(0), nil
	}
	return vm.IntegerValue(int32(utf16Len(v.AsString()))), nil
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}
