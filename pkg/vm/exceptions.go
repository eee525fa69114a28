package vm

import (
	"errors"
	"fmt"
)

// ExceptionKind discriminates the script-visible exception channels raised
// by accessors. Compile failures are not an ExceptionKind; they propagate
// as *errors.CompileError from pkg/errors.
type ExceptionKind uint8

const (
	RangeErrorKind ExceptionKind = iota
	ReferenceErrorKind
	TypeErrorKind
)

func (k ExceptionKind) String() string {
	switch k {
	case RangeErrorKind:
		return "RangeError"
	case ReferenceErrorKind:
		return "ReferenceError"
	case TypeErrorKind:
		return "TypeError"
	default:
		return "Error"
	}
}

// Exception is a catchable, script-visible error raised by an accessor.
// It is distinguishable by kind; reference errors additionally carry the
// property name that was accessed before initialization.
type Exception struct {
	ExcKind  ExceptionKind
	Msg      string
	Property string // referenced name, set for ReferenceErrorKind
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.ExcKind, e.Msg)
}

// Kind returns the exception's channel discriminator.
func (e *Exception) Kind() ExceptionKind { return e.ExcKind }

// NewRangeError constructs a range-violation exception.
func NewRangeError(msg string) *Exception {
	return &Exception{ExcKind: RangeErrorKind, Msg: msg}
}

// NewReferenceError constructs a named-reference exception carrying the
// offending property name.
func NewReferenceError(property, msg string) *Exception {
	return &Exception{ExcKind: ReferenceErrorKind, Msg: msg, Property: property}
}

// NewTypeError constructs a type exception.
func NewTypeError(msg string) *Exception {
	return &Exception{ExcKind: TypeErrorKind, Msg: msg}
}

// IsExceptionKind reports whether err is (or wraps) an Exception of kind k.
func IsExceptionKind(err error, k ExceptionKind) bool {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.ExcKind == k
	}
	return false
}
