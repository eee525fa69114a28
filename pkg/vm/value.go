package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeString

	TypeFloatNumber
	TypeIntegerNumber

	TypeBoolean

	TypeObject
	TypeWrapper
	TypeArray
	TypeArguments
	TypeFunction
	TypeScript
	TypeModule

	TypeHole          // Internal marker: named stack slot not yet materialized
	TypeUninitialized // TDZ marker for module slots before initialization
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeObject:
		return "object"
	case TypeWrapper:
		return "wrapper"
	case TypeArray:
		return "array"
	case TypeArguments:
		return "arguments"
	case TypeFunction:
		return "function"
	case TypeScript:
		return "script"
	case TypeModule:
		return "module"
	case TypeHole:
		return "hole"
	case TypeUninitialized:
		return "uninitialized"
	default:
		return "unknown"
	}
}

type StringObject struct {
	value string
}

// Value is the engine's boxed value representation. Small immediates live in
// payload; everything else hangs off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined     = Value{typ: TypeUndefined}
	Null          = Value{typ: TypeNull}
	Hole          = Value{typ: TypeHole}
	Uninitialized = Value{typ: TypeUninitialized}
	True          = Value{typ: TypeBoolean, payload: 1}
	False         = Value{typ: TypeBoolean, payload: 0}
	NaN           = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(int64(value))}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

// NewValueFromPlainObject wraps an existing PlainObject in a Value.
func NewValueFromPlainObject(obj *PlainObject) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(obj)}
}

// NewValueFromWrapper wraps an existing WrapperObject in a Value.
func NewValueFromWrapper(w *WrapperObject) Value {
	return Value{typ: TypeWrapper, obj: unsafe.Pointer(w)}
}

// NewValueFromArray wraps an existing ArrayObject in a Value.
func NewValueFromArray(arr *ArrayObject) Value {
	return Value{typ: TypeArray, obj: unsafe.Pointer(arr)}
}

// NewValueFromArguments wraps an existing ArgumentsObject in a Value.
func NewValueFromArguments(a *ArgumentsObject) Value {
	return Value{typ: TypeArguments, obj: unsafe.Pointer(a)}
}

// FunctionValue wraps an existing FunctionObject in a Value.
func FunctionValue(fn *FunctionObject) Value {
	return Value{typ: TypeFunction, obj: unsafe.Pointer(fn)}
}

// ScriptValue wraps an existing ScriptObject in a Value.
func ScriptValue(s *ScriptObject) Value {
	return Value{typ: TypeScript, obj: unsafe.Pointer(s)}
}

// ModuleValue wraps an existing ModuleObject in a Value.
func ModuleValue(m *ModuleObject) Value {
	return Value{typ: TypeModule, obj: unsafe.Pointer(m)}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }

// IsNumber reports whether the value is a primitive number of either flavor.
func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}

// IsObject reports whether the value is any heap object kind that can carry
// properties or sit on a prototype chain.
func (v Value) IsObject() bool {
	switch v.typ {
	case TypeObject, TypeWrapper, TypeArray, TypeArguments, TypeFunction, TypeModule:
		return true
	default:
		return false
	}
}

// Is reports identity: same type, same immediate payload, same object.
func (v Value) Is(other Value) bool {
	return v.typ == other.typ && v.payload == other.payload && v.obj == other.obj
}

func (v Value) AsString() string {
	return (*StringObject)(v.obj).value
}

func (v Value) AsFloat() float64 {
	return math.Float64frombits(v.payload)
}

func (v Value) AsInteger() int32 {
	return int32(int64(v.payload))
}

func (v Value) AsBoolean() bool {
	return v.payload != 0
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		return nil
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsWrapper() *WrapperObject {
	if v.typ != TypeWrapper {
		return nil
	}
	return (*WrapperObject)(v.obj)
}

func (v Value) AsArray() *ArrayObject {
	if v.typ != TypeArray {
		return nil
	}
	return (*ArrayObject)(v.obj)
}

func (v Value) AsArguments() *ArgumentsObject {
	if v.typ != TypeArguments {
		return nil
	}
	return (*ArgumentsObject)(v.obj)
}

func (v Value) AsFunction() *FunctionObject {
	if v.typ != TypeFunction {
		return nil
	}
	return (*FunctionObject)(v.obj)
}

func (v Value) AsScript() *ScriptObject {
	if v.typ != TypeScript {
		return nil
	}
	return (*ScriptObject)(v.obj)
}

func (v Value) AsModule() *ModuleObject {
	if v.typ != TypeModule {
		return nil
	}
	return (*ModuleObject)(v.obj)
}

// Number returns the numeric value of either number flavor; NaN otherwise.
func (v Value) Number() float64 {
	switch v.typ {
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	case TypeFloatNumber:
		return v.AsFloat()
	default:
		return math.NaN()
	}
}

// ToFloat converts primitives to a number. Objects convert to NaN here;
// full ToNumber with observable valueOf calls lives on the Isolate.
func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	case TypeFloatNumber:
		return v.AsFloat()
	case TypeNull:
		return 0
	case TypeUndefined:
		return math.NaN()
	case TypeBoolean:
		if v.AsBoolean() {
			return 1
		}
		return 0
	case TypeString:
		return parseStringToNumber(v.AsString())
	default:
		return math.NaN()
	}
}

// SameValue implements the ECMAScript SameValue comparison: NaN equals NaN,
// +0 and -0 are distinct, objects compare by identity.
func (v Value) SameValue(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		a, b := v.Number(), other.Number()
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		if a == 0 && b == 0 {
			return math.Signbit(a) == math.Signbit(b)
		}
		return a == b
	}
	if v.typ != other.typ {
		return false
	}
	if v.typ == TypeString {
		return v.AsString() == other.AsString()
	}
	return v.Is(other)
}

// parseStringToNumber follows the ECMAScript string-to-number rules rather
// than Go's (e.g. "Infinity" parses, "INFINITY" does not).
func parseStringToNumber(str string) float64 {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0
	}
	switch str {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	strLower := strings.ToLower(str)
	if strLower == "infinity" || strLower == "+infinity" || strLower == "-infinity" {
		return math.NaN()
	}
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		if n, err := strconv.ParseUint(str[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		return f
	}
	return math.NaN()
}

// ToString renders the value for display purposes.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return v.AsString()
	case TypeIntegerNumber:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case TypeFloatNumber:
		return formatFloat(v.AsFloat())
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeObject:
		return "[object Object]"
	case TypeWrapper:
		return v.AsWrapper().value.ToString()
	case TypeArray:
		return fmt.Sprintf("[array of %d]", v.AsArray().Length())
	case TypeArguments:
		return fmt.Sprintf("[arguments of %d]", v.AsArguments().Length())
	case TypeFunction:
		name := v.AsFunction().Name
		if name == "" {
			name = "<anonymous>"
		}
		return "function " + name
	case TypeScript:
		return fmt.Sprintf("[script %d]", v.AsScript().ID())
	case TypeModule:
		return "[module]"
	case TypeHole:
		return "<hole>"
	case TypeUninitialized:
		return "<uninitialized>"
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Inspect renders the value with quoting suitable for a REPL.
func (v Value) Inspect() string {
	if v.typ == TypeString {
		return strconv.Quote(v.AsString())
	}
	return v.ToString()
}
