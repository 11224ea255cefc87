package markup

import (
	"errors"
	"reflect"
	"testing"
	"unicode/utf8"
)

// frontEndInputs are accepted identically by both tokenizers.
var frontEndInputs = []string{
	``,
	`div { "hello " (name) }`,
	`html! { p class="lead" { "x" } }`,
	`input type="checkbox" checked[on] title?[t];`,
	"@if x > 1 { b { \"big\" } } @else if x == 1 { \"one\" } @else { \"small\" }",
	"@for i, item in items { li { (item) } }",
	"@match kind { \"a\" => { \"A\" }, _ => \"other\" }",
	"@let total = a + b; (total)",
	"// line comment\na /* block\ncomment */ b",
	"raw `multi\nline` 'c' \"esc\\\"aped\"",
	"0x1F 1e5 1_000 3.25 .5 7i",
	"data-id=1 aria:label=\"x\" a!=b x...y",
	"é → # $ ? @",
	"a\r\n\tb",
}

func TestTokenizers_Equivalent(t *testing.T) {
	for _, input := range frontEndInputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			want, err := GoScanner{}.Tokenize(input)
			if err != nil {
				t.Fatalf("GoScanner: %v", err)
			}

			got, err := TextLexer{}.Tokenize(input)
			if err != nil {
				t.Fatalf("TextLexer: %v", err)
			}

			if !reflect.DeepEqual(got, want) {
				t.Errorf("token trees differ\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestTokenize_Structure(t *testing.T) {
	for _, tok := range []Tokenizer{GoScanner{}, TextLexer{}} {
		t.Run(reflect.TypeOf(tok).Name(), func(t *testing.T) {
			src := `div.x { "a\tb" (f(1)) }`

			toks, err := tok.Tokenize(src)
			if err != nil {
				t.Fatal(err)
			}

			if len(toks) != 4 {
				t.Fatalf("expected 4 top-level tokens, got %d: %+v", len(toks), toks)
			}

			if !toks[0].Is(KindIdent, "div") || !toks[1].IsPunct('.') ||
				!toks[2].Is(KindIdent, "x") {
				t.Errorf("unexpected prefix tokens: %+v", toks[:3])
			}

			g := toks[3]
			if !g.IsGroup('{') {
				t.Fatalf("expected brace group, got %+v", g)
			}

			if g.Span.Of(src) != `{ "a\tb" (f(1)) }` {
				t.Errorf("group span covers %q", g.Span.Of(src))
			}

			if g.Inner().Of(src) != ` "a\tb" (f(1)) ` {
				t.Errorf("group inner covers %q", g.Inner().Of(src))
			}

			if len(g.Children) != 2 {
				t.Fatalf("expected 2 children, got %d", len(g.Children))
			}

			if s := g.Children[0]; s.Kind != KindString || s.Value != "a\tb" || s.Text != `"a\tb"` {
				t.Errorf("unexpected string token %+v", s)
			}

			if s := g.Children[1]; !s.IsGroup('(') || s.Inner().Of(src) != "f(1)" {
				t.Errorf("unexpected splice group %+v", s)
			}

			var n int
			for range Walk(toks) {
				n++
			}

			// div . x { "a\tb" ( f ( 1 ) ) }
			if n != 9 {
				t.Errorf("Walk visited %d tokens, want 9", n)
			}
		})
	}
}

func TestTokenize_Positions(t *testing.T) {
	src := "a\n  bc \"é\" d"

	for _, tok := range []Tokenizer{GoScanner{}, TextLexer{}} {
		toks, err := tok.Tokenize(src)
		if err != nil {
			t.Fatal(err)
		}

		want := []Position{
			{Offset: 0, Line: 1, Column: 1},
			{Offset: 4, Line: 2, Column: 3},
			{Offset: 7, Line: 2, Column: 6},
			{Offset: 12, Line: 2, Column: 11},
		}

		if len(toks) != len(want) {
			t.Fatalf("%T: expected %d tokens, got %d", tok, len(want), len(toks))
		}

		for i, w := range want {
			if toks[i].Pos != w {
				t.Errorf("%T: token %d at %+v, want %+v", tok, i, toks[i].Pos, w)
			}
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `p { "abc }`},
		{"string across lines", "\"ab\ncd\""},
		{"unclosed group", `div { p {}`},
		{"stray closer", `div }`},
		{"mismatched closer", `( ]`},
		{"bad rune literal", `'ab'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, tok := range []Tokenizer{GoScanner{}, TextLexer{}} {
				_, err := tok.Tokenize(tt.input)
				if err == nil {
					t.Errorf("%T: expected error for %q", tok, tt.input)

					continue
				}

				if !errors.Is(err, ErrLex) {
					t.Errorf("%T: expected ErrLex, got %v", tok, err)
				}
			}
		})
	}
}

func FuzzTokenizers(f *testing.F) {
	for _, s := range frontEndInputs {
		f.Add(s)
	}

	f.Add(`"unterminated`)
	f.Add(`((]`)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Neither front end may panic.
		_, _ = GoScanner{}.Tokenize(input)
		_, _ = TextLexer{}.Tokenize(input)
	})
}
