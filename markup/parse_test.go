package markup

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string, opts ...Option) *AST {
	t.Helper()

	ast, err := Parse(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}

	return ast
}

func TestParse_Element(t *testing.T) {
	ast := mustParse(t, `div class="x" id=(y) hidden checked[on] title?[t] data-n=1 { "a" }`)

	if len(ast.Markups) != 1 {
		t.Fatalf("expected 1 markup, got %d", len(ast.Markups))
	}

	el, ok := ast.Markups[0].(*Element)
	if !ok {
		t.Fatalf("expected *Element, got %T", ast.Markups[0])
	}

	if el.Name != "div" || el.Body == nil || len(el.Body.Markups) != 1 {
		t.Fatalf("unexpected element %+v", el)
	}

	want := []struct {
		name string
		kind string
	}{
		{"class", "normal"},
		{"id", "normal"},
		{"hidden", "empty"},
		{"checked", "empty"},
		{"title", "optional"},
		{"data-n", "normal"},
	}

	if len(el.Attrs) != len(want) {
		t.Fatalf("expected %d attrs, got %d", len(want), len(el.Attrs))
	}

	for i, w := range want {
		a := el.Attrs[i]
		if a.Name != w.name {
			t.Errorf("attr %d: name %q, want %q", i, a.Name, w.name)
		}

		if got := nativeAttr(a)["kind"]; got != w.kind {
			t.Errorf("attr %s: kind %v, want %s", a.Name, got, w.kind)
		}
	}

	if v := el.Attrs[1].Type.(AttrNormal).Value; v != (Splice{Expr: "y", Span: v.(Splice).Span}) {
		t.Errorf("id value = %+v", v)
	}

	if tog := el.Attrs[2].Type.(AttrEmpty).Toggler; tog != nil {
		t.Errorf("hidden should have no toggler, got %+v", tog)
	}

	if tog := el.Attrs[3].Type.(AttrEmpty).Toggler; tog == nil || tog.Cond != "on" {
		t.Errorf("checked toggler = %+v", tog)
	}

	if tog := el.Attrs[4].Type.(AttrOptional).Toggler; tog.Cond != "t" {
		t.Errorf("title toggler = %+v", tog)
	}
}

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string // ToNative "type" of each top-level markup
	}{
		{"literals", `"a" 1 2.5`, []string{"literal", "literal", "literal"}},
		{"symbol", `foo`, []string{"symbol"}},
		{"symbol then element", `foo bar;`, []string{"element"}},
		{"void element", `br;`, []string{"element"}},
		{"splice", `(a + b)`, []string{"splice"}},
		{"block", `{ "a" (b) }`, []string{"block"}},
		{"let", `@let x = 1 + 2; (x)`, []string{"let", "splice"}},
		{"if chain", `@if a { "x" } @else if b { "y" } @else { "z" }`, []string{"if"}},
		{"for", `@for x in xs { (x) }`, []string{"for"}},
		{"while", `@while n < 3 { "." }`, []string{"while"}},
		{"match", `@match k { 1 => { "one" }, _ => "many" }`, []string{"match"}},
		{"custom element", `my-widget:x { }`, []string{"element"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ast := mustParse(t, tt.input)

			var got []string
			for _, m := range ast.Markups {
				got = append(got, ToNative(m).(map[string]any)["type"].(string))
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("types = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_Special(t *testing.T) {
	t.Run("if chain", func(t *testing.T) {
		ast := mustParse(t, "@if a > 1 { \"x\" } @else if b { \"y\" } @else { \"z\" }")
		s := ast.Markups[0].(*Special)

		if s.Kind != SpecialIf || len(s.Segments) != 3 {
			t.Fatalf("unexpected special %+v", s)
		}

		for i, want := range []struct{ kw, head, header string }{
			{"if", "a > 1", "@if a > 1"},
			{"else if", "b", "@else if b"},
			{"else", "", "@else"},
		} {
			seg := s.Segments[i]
			if seg.Keyword != want.kw || seg.Head != want.head || seg.Header != want.header {
				t.Errorf("segment %d = {%q %q %q}, want %+v", i, seg.Keyword, seg.Head, seg.Header, want)
			}
		}
	})

	t.Run("for binding", func(t *testing.T) {
		ast := mustParse(t, "@for i, x in items[1:] { (x) }")
		seg := ast.Markups[0].(*Special).Segments[0]

		if !reflect.DeepEqual(seg.Bind, []string{"i", "x"}) || seg.Head != "items[1:]" {
			t.Errorf("unexpected for segment %+v", seg)
		}
	})

	t.Run("match arms", func(t *testing.T) {
		ast := mustParse(t, `@match user.role { "admin" => { b { "A" } }, "guest" => "G", _ => {} }`)
		s := ast.Markups[0].(*Special)

		if s.Subject != "user.role" || len(s.Segments) != 3 {
			t.Fatalf("unexpected match %+v", s)
		}

		heads := []string{s.Segments[0].Head, s.Segments[1].Head, s.Segments[2].Head}
		if !reflect.DeepEqual(heads, []string{`"admin"`, `"guest"`, "_"}) {
			t.Errorf("arm patterns = %q", heads)
		}

		if lit, ok := s.Segments[1].Body.Markups[0].(Literal); !ok || lit.Text != "G" {
			t.Errorf("unexpected single-markup arm %+v", s.Segments[1].Body)
		}
	})

	t.Run("let", func(t *testing.T) {
		ast := mustParse(t, "@let greeting = \"hi \" + name;")
		l := ast.Markups[0].(Let)

		if l.Name != "greeting" || l.Expr != `"hi " + name` {
			t.Errorf("unexpected let %+v", l)
		}
	})
}

func TestParse_ErrorRecovery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		diags int
		after string // a literal expected to survive the error
	}{
		{"empty splice", `p { () "after" }`, 1, "after"},
		{"unknown directive", `@bogus "after"`, 1, "after"},
		{"else without if", `@else { } "after"`, 1, "after"},
		{"stray punct", `= "after"`, 1, "after"},
		{"bad let", `@let = ; "after"`, 1, "after"},
		{"bracket group", `[x] "after"`, 1, "after"},
		{"two errors", `() = "after"`, 2, "after"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ast, err := Parse(context.Background(), tt.input)
			if ast == nil {
				t.Fatalf("expected partial AST, got nil (err %v)", err)
			}

			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}

			if len(ast.Diagnostics) != tt.diags {
				t.Errorf("expected %d diagnostics, got %d: %v", tt.diags, len(ast.Diagnostics), ast.Diagnostics)
			}

			var found bool

			for m := range All(ast.Markups) {
				if lit, ok := m.(Literal); ok && lit.Text == tt.after {
					found = true
				}
			}

			if !found {
				t.Errorf("literal %q did not survive recovery", tt.after)
			}
		})
	}
}

func TestParse_TokenizeError(t *testing.T) {
	ast, err := Parse(context.Background(), `div { "unterminated }`)
	if ast != nil {
		t.Errorf("expected nil AST")
	}

	if !errors.Is(err, ErrLex) {
		t.Errorf("expected ErrLex, got %v", err)
	}
}

func TestParse_Invocation(t *testing.T) {
	src := `html! { p { "x" } }`
	ast := mustParse(t, src)

	if ast.Keyword != DefaultKeyword {
		t.Errorf("keyword = %q", ast.Keyword)
	}

	if got := ast.Body.Of(src); got != ` p { "x" } ` {
		t.Errorf("body = %q", got)
	}

	if len(ast.Markups) != 1 {
		t.Fatalf("expected 1 markup, got %d", len(ast.Markups))
	}

	bare := mustParse(t, `p { "x" }`)
	if bare.Keyword != "" || bare.Body.Of(bare.Source) != bare.Source {
		t.Errorf("bare source should not be unwrapped: %+v", bare)
	}

	custom := mustParse(t, `view!(p;)`, WithKeyword("view!"))
	if custom.Keyword != "view!" || len(custom.Markups) != 1 {
		t.Errorf("custom keyword not unwrapped: %+v", custom)
	}
}

func TestParse_RawBodies(t *testing.T) {
	src := `div { "a" (b) } @if c { span { "d" } }`
	ast := mustParse(t, src, WithRawBodies(true))

	el := ast.Markups[0].(*Element)
	if !el.Body.HasRawBody || el.Body.RawBody != ` "a" (b) ` {
		t.Errorf("element raw body = %q", el.Body.RawBody)
	}

	seg := ast.Markups[1].(*Special).Segments[0]
	if seg.Body.RawBody != ` span { "d" } ` {
		t.Errorf("segment raw body = %q", seg.Body.RawBody)
	}

	plain := mustParse(t, src)
	if plain.Markups[0].(*Element).Body.HasRawBody {
		t.Error("raw body retained without WithRawBodies")
	}
}

func TestParse_FrontEndsAgree(t *testing.T) {
	for _, input := range frontEndInputs {
		t.Run(input, func(t *testing.T) {
			a, errA := Parse(context.Background(), input, WithRawBodies(true))
			b, errB := Parse(context.Background(), input, WithRawBodies(true), WithTokenizer(TextLexer{}))

			if (errA == nil) != (errB == nil) {
				t.Fatalf("errors differ: %v vs %v", errA, errB)
			}

			if !reflect.DeepEqual(a.Markups, b.Markups) {
				t.Errorf("ASTs differ\n go: %#v\ntext: %#v", a.Markups, b.Markups)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		`div class="x" id=(y) hidden checked[on] title?[t] { "a" br; }`,
		`html! { @for i, x in xs { li { (i) ": " (x) } } }`,
		`@if a { "x" } @else if b { "y" } @else { "z" }`,
		`@match k { 1 => { "one" }, _ => { "many" } }`,
		`@let n = 3; @while n > 0 { (n) }`,
	}

	for _, input := range inputs {
		for _, indent := range []int{0, 2} {
			ast := mustParse(t, input)

			var buf bytes.Buffer
			if err := ast.Format(context.Background(), &buf, indent); err != nil {
				t.Fatal(err)
			}

			again := mustParse(t, buf.String())
			if !reflect.DeepEqual(ast.ToMap(), again.ToMap()) {
				t.Errorf("indent %d: round trip changed AST\nformatted: %s", indent, buf.String())
			}
		}
	}
}

func TestAST_Print(t *testing.T) {
	ast := mustParse(t, `ul { @for x in xs { li { (x) } } }`)

	var buf bytes.Buffer
	if err := ast.Print(&buf); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"Element: ul",
		"  Special: for",
		"    Segment: for x in xs:",
		"      Element: li",
		"        Splice: x",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("Print =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestAST_FormatYAML(t *testing.T) {
	ast := mustParse(t, `p { "x" }`)

	var buf bytes.Buffer
	if err := ast.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"markups:", "type: element", "name: p", "text: x"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML output missing %q:\n%s", want, buf.String())
		}
	}
}
