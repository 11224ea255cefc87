package repl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ardnew/hotmark/log"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{`p { "a" }`, modeRender},
		{"show ast", modeCtrl},
		{`p { "a" }`, modeRender}, // duplicate of last render entry moves to end
		{"vars", modeCtrl},
		{`p { "a" }`, modeRender},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"show ast", modeCtrl},
		{"vars", modeCtrl},
		{`p { "a" }`, modeRender},
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for name, got := range map[string][]HistoryEntry{
		"memory": h.Entries(),
		"file":   reloaded.Entries(),
	} {
		if len(got) != len(want) {
			t.Fatalf("%s: %d entries, want %d: %+v", name, len(got), len(want), got)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s entry %d = %+v, want %+v", name, i, got[i], want[i])
			}
		}
	}

	if _, err := h.Entry(len(want)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry past end: got %v, want ErrOutOfBounds", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "mode: ctrl") {
		t.Errorf("history file = %q, want YAML records", data)
	}
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for i := range maxHistory + 5 {
		if err := h.Add("line "+strconv.Itoa(i), modeRender); err != nil {
			t.Fatal(err)
		}
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	for name, hist := range map[string]*History{"memory": h, "file": reloaded} {
		if hist.Len() != maxHistory {
			t.Fatalf("%s: Len() = %d, want %d", name, hist.Len(), maxHistory)
		}

		if e, _ := hist.Entry(0); e.Line != "line 5" {
			t.Errorf("%s: oldest = %q, want %q", name, e.Line, "line 5")
		}
	}
}

func TestHistory_Memory(t *testing.T) {
	h := NewHistory("")

	for _, line := range []string{"a", "  ", "b", "a"} {
		if err := h.Add(line, modeCtrl); err != nil {
			t.Fatal(err)
		}
	}

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	got := h.Entries()
	if len(got) != 2 || got[0].Line != "b" || got[1].Line != "a" {
		t.Errorf("Entries() = %+v, want [b a]", got)
	}
}

func TestHistory_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("mode: [unclosed\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewHistory(path).Load(); err == nil {
		t.Error("Load on malformed file: expected error")
	}
}

func TestRenderInput(t *testing.T) {
	env := map[string]any{"name": "Ann", "xs": []string{"a", "b"}}

	tests := []struct {
		name  string
		input string
		show  showMode
		want  []string
	}{
		{"html", `p { "Hi " (name) }`, showHTML, []string{"<p>Hi Ann</p>"}},
		{"html loop", `@for x in xs { i { (x) } }`, showHTML, []string{"<i>a</i><i>b</i>"}},
		{"ast", `p { (name) }`, showAST, []string{"Element: p", "Splice: name"}},
		{"plan", `p { (name) }`, showPlan, []string{"<p>{0}</p>", "1 dynamic piece"}},
		{"json", `br;`, showJSON, []string{`"type": "element"`, `"name": "br"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := renderInput(context.Background(), tt.input, env, tt.show, log.Logger{})
			if err != nil {
				t.Fatalf("renderInput: %v", err)
			}

			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output %q does not contain %q", got, want)
				}
			}
		})
	}

	if _, err := renderInput(context.Background(), `p { () }`, env, showHTML, log.Logger{}); err == nil {
		t.Error("expected error for malformed markup")
	}
}

func TestParseShowMode(t *testing.T) {
	for _, name := range []string{"html", "AST", "plan", "json"} {
		mode, err := parseShowMode(name)
		if err != nil {
			t.Errorf("parseShowMode(%q): %v", name, err)
		}

		if !strings.EqualFold(mode.String(), name) {
			t.Errorf("parseShowMode(%q) = %v", name, mode)
		}
	}

	if _, err := parseShowMode("xml"); !errors.Is(err, ErrUnknownShow) {
		t.Errorf("parseShowMode(xml) = %v, want ErrUnknownShow", err)
	}
}

func TestModel_SetVar(t *testing.T) {
	vars := map[string]any{"n": 2}
	m := newModel(context.Background(), vars, NewHistory(""), log.Logger{})

	tests := []struct {
		args string
		name string
		want any
	}{
		{"double n * 2", "double", 4},
		{"greeting = \"hi\"", "greeting", "hi"},
		{"up=upper(greeting)", "up", "HI"},
	}

	for _, tt := range tests {
		name, err := m.setVar(tt.args)
		if err != nil {
			t.Fatalf("setVar(%q): %v", tt.args, err)
		}

		if name != tt.name || m.env[name] != tt.want {
			t.Errorf("setVar(%q) bound %s = %v, want %s = %v", tt.args, name, m.env[name], tt.name, tt.want)
		}
	}

	if _, err := m.setVar("=1"); !errors.Is(err, ErrUsage) {
		t.Errorf("setVar(=1) = %v, want ErrUsage", err)
	}

	if _, ok := vars["double"]; ok {
		t.Error("setVar mutated the caller's variables")
	}
}
