package host

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	file := filepath.Join(dir, "page.hm")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	// "file" is a builtin namespace, so the test file is bound as f.
	env := map[string]any{"dir": dir, "f": file}

	tests := []struct {
		source string
		want   any
	}{
		{source: `platform.OS`, want: runtime.GOOS},
		{source: `file.exists(f)`, want: true},
		{source: `file.exists(dir + "/missing")`, want: false},
		{source: `file.isDir(dir)`, want: true},
		{source: `file.isDir(f)`, want: false},
		{source: `file.isRegular(f)`, want: true},
		{source: `path.base(f)`, want: "page.hm"},
		{source: `path.ext(f)`, want: ".hm"},
		{source: `path.cat("a", "b", "c")`, want: filepath.Join("a", "b", "c")},
		{source: `path.rel(dir, f)`, want: "page.hm"},
		{source: `escape("<a>")`, want: "&lt;a&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			got, err := MustCompile(tt.source).Eval(NewScope(env))
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.source, err)
			}

			if got != tt.want {
				t.Errorf("Eval(%q) = %#v, want %#v", tt.source, got, tt.want)
			}
		})
	}
}

func TestBuiltins_Mung(t *testing.T) {
	t.Parallel()

	got, err := MustCompile(`mung.prefix("/usr/bin", "/opt/bin")`).Eval(NewScope(nil))
	if err != nil {
		t.Fatal(err)
	}

	if s, ok := got.(string); !ok || !strings.Contains(s, "/opt/bin") {
		t.Errorf("mung.prefix() = %#v, want a list containing /opt/bin", got)
	}
}

func TestBuiltins_Copy(t *testing.T) {
	t.Parallel()

	b := Builtins()
	b["raw"] = nil

	if Builtins()["raw"] == nil {
		t.Error("Builtins() returned the shared environment")
	}
}
