package vm

import (
	"fmt"
	"testing"
)

func TestExceptionKinds(t *testing.T) {
	re := NewRangeError("invalid array length")
	if re.Error() != "RangeError: invalid array length" {
		t.Errorf("range error renders as %q", re.Error())
	}
	if !IsExceptionKind(re, RangeErrorKind) || IsExceptionKind(re, TypeErrorKind) {
		t.Errorf("kind discrimination failed for %v", re)
	}

	ref := NewReferenceError("foo", "foo is not defined")
	if ref.Property != "foo" {
		t.Errorf("reference error lost its property name: %q", ref.Property)
	}

	// Kind checks unwrap.
	wrapped := fmt.Errorf("during property read: %w", ref)
	if !IsExceptionKind(wrapped, ReferenceErrorKind) {
		t.Errorf("wrapped reference error not recognized")
	}
	if IsExceptionKind(nil, TypeErrorKind) {
		t.Errorf("nil error recognized as an exception")
	}
}
