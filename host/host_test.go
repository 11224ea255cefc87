package host

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestCompile_Eval(t *testing.T) {
	tests := []struct {
		name   string
		source string
		env    map[string]any
		want   any
	}{
		{"arithmetic", "a + b", map[string]any{"a": 1, "b": 2}, 3},
		{"concat", `"hello " + name`, map[string]any{"name": "world"}, "hello world"},
		{"member", "user.role", map[string]any{"user": map[string]any{"role": "admin"}}, "admin"},
		{"builtin", `raw("<b>")`, nil, PreEscaped("<b>")},
		{"shadowed builtin", "raw", map[string]any{"raw": 7}, 7},
		{"expr builtin", "len(xs)", map[string]any{"xs": []int{1, 2, 3}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := Compile(tt.source)
			if err != nil {
				t.Fatalf("Compile(%q): %v", tt.source, err)
			}

			got, err := e.Eval(NewScope(tt.env))
			if err != nil {
				t.Fatalf("Eval(%q): %v", tt.source, err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Eval(%q) = %#v, want %#v", tt.source, got, tt.want)
			}
		})
	}
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile("a +")
	if !errors.Is(err, ErrExprCompile) {
		t.Errorf("expected ErrExprCompile, got %v", err)
	}
}

func TestEval_Error(t *testing.T) {
	e := MustCompile("fail()")
	scope := NewScope(map[string]any{
		"fail": func() (string, error) { return "", errors.New("boom") },
	})

	_, err := e.Eval(scope)
	if !errors.Is(err, ErrExprEvaluate) {
		t.Fatalf("expected ErrExprEvaluate, got %v", err)
	}

	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestEvalBool(t *testing.T) {
	scope := NewScope(map[string]any{"n": 3})

	ok, err := MustCompile("n > 2").EvalBool(scope)
	if err != nil || !ok {
		t.Errorf("EvalBool(n > 2) = %v, %v", ok, err)
	}

	_, err = MustCompile("n + 1").EvalBool(scope)
	if !errors.Is(err, ErrNotBoolean) {
		t.Errorf("expected ErrNotBoolean, got %v", err)
	}
}

func TestScope_ChildIsolation(t *testing.T) {
	root := NewScope(map[string]any{"x": 1})
	child := root.Child()
	child.Set("x", 2)
	child.Set("y", 3)

	if v, _ := root.Get("x"); v != 1 {
		t.Errorf("parent x = %v, want 1", v)
	}

	if _, ok := root.Get("y"); ok {
		t.Error("child binding leaked into parent")
	}

	if v, _ := child.Get("x"); v != 2 {
		t.Errorf("child x = %v, want 2", v)
	}

	if !slices.Contains(root.Names(), "path") {
		t.Error("root scope is missing built-ins")
	}
}

type stringer struct{}

func (stringer) String() string { return "<s>" }

type card string

func (c card) RenderHTML(sb *strings.Builder) {
	sb.WriteString(`<div class="card">`)
	sb.WriteString(string(c))
	sb.WriteString(`</div>`)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "<a & b>", "&lt;a &amp; b&gt;"},
		{"bytes", []byte(`"q"`), "&quot;q&quot;"},
		{"pre-escaped", PreEscaped("<br>"), "<br>"},
		{"renderer", card("x"), `<div class="card">x</div>`},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 2.5, "2.5"},
		{"whole float", 3.0, "3"},
		{"error", errors.New("a<b"), "a&lt;b"},
		{"stringer", stringer{}, "&lt;s&gt;"},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderString(tt.in); got != tt.want {
				t.Errorf("RenderString(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIterate(t *testing.T) {
	collect := func(v any, names ...string) ([]string, error) {
		var out []string

		err := Iterate(NewScope(nil), v, names, func(s *Scope) error {
			var parts []string

			for _, n := range names {
				x, _ := s.Get(n)
				parts = append(parts, RenderString(x))
			}

			out = append(out, strings.Join(parts, "="))

			return nil
		})

		return out, err
	}

	tests := []struct {
		name  string
		in    any
		names []string
		want  []string
	}{
		{"slice value", []string{"a", "b"}, []string{"x"}, []string{"a", "b"}},
		{"slice index", []string{"a", "b"}, []string{"i", "x"}, []string{"0=a", "1=b"}},
		{"array", [2]int{5, 6}, []string{"x"}, []string{"5", "6"}},
		{"map keys sorted", map[string]int{"b": 2, "a": 1}, []string{"k"}, []string{"a", "b"}},
		{"map pairs", map[string]int{"b": 2, "a": 1}, []string{"k", "v"}, []string{"a=1", "b=2"}},
		{"int", 3, []string{"i"}, []string{"0", "1", "2"}},
		{"string", "hé", []string{"c"}, []string{"h", "é"}},
		{"nil", nil, []string{"x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := collect(tt.in, tt.names...)
			if err != nil {
				t.Fatal(err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := collect(true, "x"); !errors.Is(err, ErrNotIterable) {
		t.Errorf("expected ErrNotIterable, got %v", err)
	}

	stop := errors.New("stop")

	err := Iterate(NewScope(nil), []int{1, 2, 3}, []string{"x"}, func(*Scope) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected body error to propagate, got %v", err)
	}
}

func TestBuiltinLookup(t *testing.T) {
	top := BuiltinLookup("")
	for _, want := range []string{"raw", "path", "file", "mung", "env"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level built-ins missing %q", want)
		}
	}

	if got := BuiltinLookup("path"); !slices.Contains(got, "abs") {
		t.Errorf("path namespace = %v", got)
	}

	if got := BuiltinLookup("raw"); got != nil {
		t.Errorf("expected nil for non-namespace, got %v", got)
	}
}
