// Package driver ties an isolate and its accessor registry into an
// interactive inspection session: named root values whose native properties
// can be read and written from the command line.
package driver

import (
	goerrors "errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"kestrel/pkg/accessors"
	kerrors "kestrel/pkg/errors"
	"kestrel/pkg/source"
	"kestrel/pkg/vm"
)

// Session is one inspection environment. Roots are named values the user
// can address; every property access goes through the accessor registry
// first and falls back to own properties.
type Session struct {
	ix    *vm.Isolate
	reg   *accessors.Registry
	roots map[string]vm.Value
}

// NewSession creates a session with the standard accessors installed and a
// few seed roots to poke at.
func NewSession(opts vm.Options) *Session {
	ix := vm.NewIsolate(opts)
	reg := accessors.NewRegistry()
	accessors.InstallDefaults(ix, reg)

	s := &Session{ix: ix, reg: reg, roots: make(map[string]vm.Value)}
	s.DefineRoot("array", ix.NewArray(3))
	s.DefineRoot("fn", ix.NewFunction("demo", 2))
	return s
}

// Isolate exposes the session's isolate.
func (s *Session) Isolate() *vm.Isolate { return s.ix }

// Registry exposes the session's accessor registry.
func (s *Session) Registry() *accessors.Registry { return s.reg }

// DefineRoot binds a name to a value.
func (s *Session) DefineRoot(name string, v vm.Value) {
	s.roots[name] = v
}

// Root resolves a bound name.
func (s *Session) Root(name string) (vm.Value, bool) {
	v, ok := s.roots[name]
	return v, ok
}

// RootNames returns the bound names, sorted.
func (s *Session) RootNames() []string {
	names := make([]string, 0, len(s.roots))
	for name := range s.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadScript reads a file (decoding BOM-marked sources), registers it as a
// compilation unit and binds its wrapper under the given root name.
func (s *Session) LoadScript(rootName, path string) (vm.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vm.Undefined, err
	}
	src, err := source.FromBytes(path, data)
	if err != nil {
		return vm.Undefined, err
	}
	script := s.ix.NewScript(src, vm.ScriptTypeNormal, vm.CompilationTypeHost)
	w := s.ix.ScriptWrapper(script)
	s.DefineRoot(rootName, w)
	return w, nil
}

// Get reads a property of a root through the accessor registry, falling
// back to own properties.
func (s *Session) Get(rootName, prop string) (vm.Value, error) {
	receiver, ok := s.Root(rootName)
	if !ok {
		return vm.Undefined, fmt.Errorf("unknown root %q", rootName)
	}
	v, found, err := s.reg.GetProperty(s.ix, receiver, prop)
	if err != nil {
		return vm.Undefined, err
	}
	if found {
		return v, nil
	}
	if obj := receiver.AsPlainObject(); obj != nil {
		if own, ok := obj.GetOwn(prop); ok {
			return own, nil
		}
	}
	return vm.Undefined, nil
}

// Set writes a property of a root through the accessor registry, falling
// back to an own property write.
func (s *Session) Set(rootName, prop string, value vm.Value) (vm.Value, error) {
	receiver, ok := s.Root(rootName)
	if !ok {
		return vm.Undefined, fmt.Errorf("unknown root %q", rootName)
	}
	res, handled, err := s.reg.SetProperty(s.ix, receiver, prop, value)
	if err != nil {
		return vm.Undefined, err
	}
	if handled {
		return res, nil
	}
	if obj := receiver.AsPlainObject(); obj != nil {
		obj.SetOwn(prop, value)
		return value, nil
	}
	return vm.Undefined, fmt.Errorf("%s has no settable property %q", rootName, prop)
}

// Interpret evaluates one command line and reports failures to stderr
// against the line treated as REPL input. The boolean reports success; the
// CLI uses this instead of Eval so all error display goes one way.
func (s *Session) Interpret(line string) (string, bool) {
	out, err := s.Eval(line)
	if err == nil {
		return out, true
	}
	kerrors.DisplayErrors(source.NewReplSource(line), EngineErrors(err))
	return "", false
}

// EngineErrors converts an evaluation failure into reportable engine
// errors: structured errors pass through unchanged, everything else is
// wrapped as a runtime error anchored at the start of the input.
func EngineErrors(err error) []kerrors.KestrelError {
	var ke kerrors.KestrelError
	if goerrors.As(err, &ke) {
		return []kerrors.KestrelError{ke}
	}
	wrapped := &kerrors.RuntimeError{
		Position: kerrors.Position{Line: 1, Column: 0},
		Msg:      err.Error(),
	}
	return []kerrors.KestrelError{wrapped.CausedBy(err)}
}

// Eval executes one command line and returns its printable result.
//
//	roots                     list bound roots
//	load <name> <file>        load a script file and bind its wrapper
//	new array <name> <len>    bind a fresh array
//	new fn <name> <arity>     bind a fresh function
//	get <root>.<prop>         accessor read
//	set <root>.<prop> <lit>   accessor write
//	props <root>              list a root's own property names
//	describe <root>.<prop>    show an own property with its attribute flags
func (s *Session) Eval(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch fields[0] {
	case "roots":
		return strings.Join(s.RootNames(), " "), nil

	case "load":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: load <name> <file>")
		}
		w, err := s.LoadScript(fields[1], fields[2])
		if err != nil {
			return "", err
		}
		return w.Inspect(), nil

	case "new":
		if len(fields) != 4 {
			return "", fmt.Errorf("usage: new array|fn <name> <len|arity>")
		}
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return "", fmt.Errorf("bad count %q", fields[3])
		}
		var v vm.Value
		switch fields[1] {
		case "array":
			v = s.ix.NewArray(n)
		case "fn":
			v = s.ix.NewFunction(fields[2], n)
		default:
			return "", fmt.Errorf("unknown kind %q", fields[1])
		}
		s.DefineRoot(fields[2], v)
		return v.Inspect(), nil

	case "get":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: get <root>.<prop>")
		}
		root, prop, err := splitPath(fields[1])
		if err != nil {
			return "", err
		}
		v, err := s.Get(root, prop)
		if err != nil {
			return "", err
		}
		return v.Inspect(), nil

	case "set":
		if len(fields) < 3 {
			return "", fmt.Errorf("usage: set <root>.<prop> <literal>")
		}
		root, prop, err := splitPath(fields[1])
		if err != nil {
			return "", err
		}
		value, err := ParseLiteral(strings.Join(fields[2:], " "))
		if err != nil {
			return "", err
		}
		res, err := s.Set(root, prop, value)
		if err != nil {
			return "", err
		}
		return res.Inspect(), nil

	case "props":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: props <root>")
		}
		receiver, ok := s.Root(fields[1])
		if !ok {
			return "", fmt.Errorf("unknown root %q", fields[1])
		}
		obj := receiver.AsPlainObject()
		if obj == nil {
			return "", nil
		}
		return strings.Join(obj.OwnNames(), " "), nil

	case "describe":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: describe <root>.<prop>")
		}
		root, prop, err := splitPath(fields[1])
		if err != nil {
			return "", err
		}
		receiver, ok := s.Root(root)
		if !ok {
			return "", fmt.Errorf("unknown root %q", root)
		}
		obj := receiver.AsPlainObject()
		if obj == nil {
			return "", fmt.Errorf("%s carries no own properties", root)
		}
		v, writable, enumerable, configurable, exists := obj.GetOwnDescriptor(prop)
		if !exists {
			return "", fmt.Errorf("%s has no own property %q", root, prop)
		}
		return fmt.Sprintf("%s (writable=%v enumerable=%v configurable=%v)",
			v.Inspect(), writable, enumerable, configurable), nil

	default:
		return "", fmt.Errorf("unknown command %q", fields[0])
	}
}

func splitPath(path string) (root, prop string, err error) {
	i := strings.IndexByte(path, '.')
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("expected <root>.<prop>, got %q", path)
	}
	return path[:i], path[i+1:], nil
}

// ParseLiteral turns a command-line literal into a value: quoted strings,
// numbers, true/false/null/undefined.
func ParseLiteral(text string) (vm.Value, error) {
	text = strings.TrimSpace(text)
	switch text {
	case "true":
		return vm.True, nil
	case "false":
		return vm.False, nil
	case "null":
		return vm.Null, nil
	case "undefined":
		return vm.Undefined, nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return vm.Undefined, fmt.Errorf("bad string literal %s", text)
		}
		return vm.NewString(unquoted), nil
	}
	if i, err := strconv.ParseInt(text, 10, 32); err == nil {
		return vm.IntegerValue(int32(i)), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return vm.NumberValue(f), nil
	}
	return vm.Undefined, fmt.Errorf("cannot parse literal %q", text)
}
