package driver

import (
	goerrors "errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "kestrel/pkg/errors"
	"kestrel/pkg/vm"
)

func TestSessionAccessorRoundTrip(t *testing.T) {
	s := NewSession(vm.Options{})

	out, err := s.Eval("get array.length")
	if err != nil || out != "3" {
		t.Errorf("get array.length = %q, %v", out, err)
	}

	if _, err := s.Eval("set array.length 1"); err != nil {
		t.Fatalf("set array.length: %v", err)
	}
	out, err = s.Eval("get array.length")
	if err != nil || out != "1" {
		t.Errorf("length after write = %q, %v", out, err)
	}
}

func TestSessionLengthWriteRangeError(t *testing.T) {
	s := NewSession(vm.Options{})
	_, err := s.Eval("set array.length 1.5")
	if !vm.IsExceptionKind(err, vm.RangeErrorKind) {
		t.Errorf("fractional length write = %v, want RangeError", err)
	}
}

func TestSessionFunctionRoots(t *testing.T) {
	s := NewSession(vm.Options{})

	out, err := s.Eval("get fn.length")
	if err != nil || out != "2" {
		t.Errorf("get fn.length = %q, %v", out, err)
	}
	out, err = s.Eval("get fn.caller")
	if err != nil || out != "null" {
		t.Errorf("caller of an idle function = %q, %v", out, err)
	}
}

func TestSessionNewRoots(t *testing.T) {
	s := NewSession(vm.Options{})

	if _, err := s.Eval("new array nums 7"); err != nil {
		t.Fatalf("new array: %v", err)
	}
	out, err := s.Eval("get nums.length")
	if err != nil || out != "7" {
		t.Errorf("get nums.length = %q, %v", out, err)
	}

	if _, err := s.Eval("new fn add 2"); err != nil {
		t.Fatalf("new fn: %v", err)
	}
	out, err = s.Eval("get add.name")
	if err != nil || out != `"add"` {
		t.Errorf("get add.name = %q, %v", out, err)
	}
}

func TestSessionLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	if err := os.WriteFile(path, []byte("x = 1\ny = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSession(vm.Options{})
	if _, err := s.Eval("load script " + path); err != nil {
		t.Fatalf("load: %v", err)
	}
	out, err := s.Eval("get script.line_ends")
	if err != nil {
		t.Fatalf("get line_ends: %v", err)
	}
	if out != "[array of 2]" {
		t.Errorf("line_ends = %q, want two entries", out)
	}
	out, err = s.Eval("get script.name")
	if err != nil || out != `"a.js"` {
		t.Errorf("script name = %q, %v", out, err)
	}
}

func TestSessionPropsAndDescribe(t *testing.T) {
	s := NewSession(vm.Options{})
	ix := s.Isolate()

	obj := ix.NewPlainObject(ix.CurrentRealm().ObjectPrototype)
	obj.AsPlainObject().SetOwn("x", vm.IntegerValue(1))
	obj.AsPlainObject().SetOwn("y", vm.NewString("two"))
	s.DefineRoot("obj", obj)

	out, err := s.Eval("props obj")
	if err != nil || out != "x y" {
		t.Errorf("props obj = %q, %v", out, err)
	}

	out, err = s.Eval("describe obj.y")
	if err != nil || out != `"two" (writable=true enumerable=true configurable=true)` {
		t.Errorf("describe obj.y = %q, %v", out, err)
	}

	if _, err := s.Eval("describe obj.missing"); err == nil {
		t.Errorf("describe of an absent property succeeded")
	}
}

func TestEngineErrors(t *testing.T) {
	// Structured engine errors pass through unchanged.
	ce := &kerrors.CompileError{Msg: "bad token"}
	errs := EngineErrors(ce)
	if len(errs) != 1 || errs[0] != kerrors.KestrelError(ce) {
		t.Fatalf("compile error was rewrapped: %v", errs)
	}

	// Everything else is wrapped as a runtime error with the cause intact.
	exc := vm.NewRangeError("invalid array length")
	errs = EngineErrors(exc)
	if len(errs) != 1 || errs[0].Kind() != "Runtime" {
		t.Fatalf("errs = %v, want one runtime error", errs)
	}
	var unwrapped *vm.Exception
	if !goerrors.As(errs[0], &unwrapped) || unwrapped != exc {
		t.Errorf("wrapping lost the original exception: %v", errs[0])
	}
	if errs[0].Message() != exc.Error() {
		t.Errorf("message = %q, want %q", errs[0].Message(), exc.Error())
	}
}

func TestSessionInterpret(t *testing.T) {
	s := NewSession(vm.Options{})

	out, ok := s.Interpret("get array.length")
	if !ok || out != "3" {
		t.Errorf("interpret get = %q, ok %v", out, ok)
	}
	if _, ok := s.Interpret("set array.length 1.5"); ok {
		t.Errorf("failing write reported success")
	}
	if _, ok := s.Interpret("get nosuch.length"); ok {
		t.Errorf("unknown root reported success")
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want vm.Value
	}{
		{"42", vm.IntegerValue(42)},
		{"-1", vm.IntegerValue(-1)},
		{"2.5", vm.NumberValue(2.5)},
		{"true", vm.True},
		{"null", vm.Null},
		{`"hi"`, vm.NewString("hi")},
	}
	for _, tt := range tests {
		got, err := ParseLiteral(tt.in)
		if err != nil {
			t.Errorf("ParseLiteral(%q): %v", tt.in, err)
			continue
		}
		if !got.SameValue(tt.want) {
			t.Errorf("ParseLiteral(%q) = %s, want %s", tt.in, got.Inspect(), tt.want.Inspect())
		}
	}

	if _, err := ParseLiteral("nonsense"); err == nil {
		t.Errorf("garbage literal parsed")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kestrel.toml")
	if err := os.WriteFile(path, []byte("max_frames = 16\nheap_capacity = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	opts := cfg.Options()
	if opts.MaxFrames != 16 || opts.HeapCapacity != 8 {
		t.Errorf("options = %+v", opts)
	}
}
