package source

import "testing"

func TestLinesCached(t *testing.T) {
	sf := NewSourceFile("a.js", "", "one\ntwo\nthree")

	first := sf.Lines()
	if len(first) != 3 || first[1] != "two" {
		t.Fatalf("lines = %v, want [one two three]", first)
	}
	second := sf.Lines()
	if &first[0] != &second[0] {
		t.Errorf("second Lines call re-split instead of reusing the cache")
	}
}

func TestReplAndEvalSources(t *testing.T) {
	repl := NewReplSource("get fn.length")
	if repl.Name != "<repl>" || repl.IsFile() {
		t.Errorf("repl source = %q (file %v), want <repl> and not a file", repl.Name, repl.IsFile())
	}
	if repl.DisplayPath() != "<repl>" {
		t.Errorf("repl display path = %q, want <repl>", repl.DisplayPath())
	}

	eval := NewEvalSource("1+1")
	if eval.Name != "<eval>" || eval.IsFile() {
		t.Errorf("eval source = %q (file %v), want <eval> and not a file", eval.Name, eval.IsFile())
	}
}

func TestFromFilePaths(t *testing.T) {
	sf := FromFile("/tmp/scripts/app.js", "var x;")
	if sf.Name != "app.js" {
		t.Errorf("name = %q, want the base name", sf.Name)
	}
	if !sf.IsFile() {
		t.Errorf("file-backed source reports IsFile() = false")
	}
	if sf.DisplayPath() != "/tmp/scripts/app.js" {
		t.Errorf("display path = %q, want the full path", sf.DisplayPath())
	}
}
