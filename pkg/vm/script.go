package vm

import (
	"github.com/dlclark/regexp2"

	"kestrel/pkg/source"
)

// ScriptType classifies the origin of a compilation unit.
type ScriptType uint8

const (
	ScriptTypeNormal ScriptType = iota
	ScriptTypeNative
	ScriptTypeExtension
)

func (t ScriptType) String() string {
	switch t {
	case ScriptTypeNormal:
		return "normal"
	case ScriptTypeNative:
		return "native"
	case ScriptTypeExtension:
		return "extension"
	default:
		return "unknown"
	}
}

// CompilationType records how the unit reached the compiler.
type CompilationType uint8

const (
	CompilationTypeHost CompilationType = iota
	CompilationTypeEval
)

func (t CompilationType) String() string {
	if t == CompilationTypeEval {
		return "eval"
	}
	return "host"
}

// ScriptObject is one compilation unit's metadata record. Direct fields are
// projected by the script accessors; line ends are derived lazily and
// memoized for the unit's lifetime.
type ScriptObject struct {
	id              int
	name            Value // string, or undefined for anonymous units
	src             *source.SourceFile
	scriptType      ScriptType
	compilationType CompilationType

	LineOffset   int
	ColumnOffset int
	ContextData  Value

	// For eval-typed units: the function whose code invoked eval, and the
	// code offset of that call site within it.
	EvalFromFunction *FunctionObject
	EvalFromPosition int

	lineEnds     []int
	lineEndsDone bool

	wrapper Value // cached host wrapper, created on first request
}

// ID returns the unit's engine-assigned id.
func (s *ScriptObject) ID() int { return s.id }

// Name returns the unit's name value (undefined for anonymous units).
func (s *ScriptObject) Name() Value { return s.name }

// Source returns the unit's source file.
func (s *ScriptObject) Source() *source.SourceFile { return s.src }

// ScriptType returns the unit's origin classification.
func (s *ScriptObject) ScriptType() ScriptType { return s.scriptType }

// CompilationType reports how the unit reached the compiler.
func (s *ScriptObject) CompilationType() CompilationType { return s.compilationType }

// lineTerminators matches the ECMAScript LineTerminatorSequence set; a
// \r\n pair counts as a single terminator.
var lineTerminators = regexp2.MustCompile(`\r\n|[\n\r\x{2028}\x{2029}]`, regexp2.None)

// LineEnds returns the memoized line-terminator offsets for the unit's
// source. Offsets are rune offsets of each terminator's first code point;
// if content follows the last terminator, the source length is appended as
// a final entry. The returned slice is the cache itself; callers that
// expose it must copy first.
func (s *ScriptObject) LineEnds() []int {
	if !s.lineEndsDone {
		s.lineEnds = computeLineEnds(s.src.Content)
		s.lineEndsDone = true
	}
	return s.lineEnds
}

func computeLineEnds(src string) []int {
	var ends []int
	last := 0 // rune offset just past the most recent terminator
	m, err := lineTerminators.FindStringMatch(src)
	for err == nil && m != nil {
		ends = append(ends, m.Index)
		last = m.Index + m.Length
		m, err = lineTerminators.FindNextMatch(m)
	}
	if n := runeLen(src); n > last {
		ends = append(ends, n)
	}
	return ends
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
