package accessors

import "kestrel/pkg/vm"

// Symbolic field slots for accessors that a fast path may serve with a
// direct load instead of dispatching the native getter. Offsets are stable
// identifiers for inline-cache style callers, not byte offsets.
const (
	StringLengthFieldOffset = iota
	ArrayLengthFieldOffset
)

// FieldAccessorOffset reports whether reading name on this receiver kind is
// equivalent to a direct field load, and which slot serves it. Only the
// side-effect-free length getters qualify; everything else must dispatch.
func FieldAccessorOffset(receiver vm.Value, name string) (int, bool) {
	if name != "length" {
		return 0, false
	}
	switch receiver.Type() {
	case vm.TypeString:
		return StringLengthFieldOffset, true
	case vm.TypeArray:
		return ArrayLengthFieldOffset, true
	default:
		return 0, false
	}
}
