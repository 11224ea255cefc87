package markup

import (
	"iter"
	"log/slog"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIdent        // identifier or keyword
	KindString       // quoted string or character literal
	KindNumber       // integer or floating point literal
	KindPunct        // single punctuation character
	KindGroup        // bracketed token sequence
)

func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindPunct:
		return "punct"
	case KindGroup:
		return "group"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Position identifies a location in source text.
// Line and Column are 1-based; Column counts bytes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Span is a half-open byte range [Start, End) of source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Of returns the text covered by s in src, or "" if s lies outside src.
func (s Span) Of(src string) string {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return ""
	}

	return src[s.Start:s.End]
}

// Token is a node of a token tree.
//
// Groups hold their bracketed contents in Children. For a group, Text is the
// opening delimiter and Span covers both delimiters. For strings, Text is
// the literal as written and Value is its decoded content. For every other
// kind Value equals Text.
type Token struct {
	Text     string
	Value    string
	Children []Token
	Pos      Position
	Span     Span
	Kind     Kind
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct reports whether t is the punctuation character c.
func (t Token) IsPunct(c byte) bool {
	return t.Kind == KindPunct && len(t.Text) == 1 && t.Text[0] == c
}

// IsGroup reports whether t is a group opened by delim.
func (t Token) IsGroup(delim byte) bool {
	return t.Kind == KindGroup && len(t.Text) == 1 && t.Text[0] == delim
}

// Inner returns the span between a group's delimiters.
func (t Token) Inner() Span {
	if t.Kind != KindGroup {
		return t.Span
	}

	return Span{Start: t.Span.Start + 1, End: t.Span.End - 1}
}

// closer returns the closing delimiter matching an opening delimiter.
func closer(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}

	return 0
}

// Tokenizer converts source text into a token tree.
//
// Implementations skip whitespace and comments, split operators into
// single-character punctuation, and fail on unterminated literals or
// unbalanced brackets.
type Tokenizer interface {
	Tokenize(src string) ([]Token, error)
}

// Walk returns an iterator over toks and all nested group children in
// depth-first order.
func Walk(toks []Token) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		walk(toks, yield)
	}
}

func walk(toks []Token, yield func(Token) bool) bool {
	for _, t := range toks {
		if !yield(t) {
			return false
		}

		if t.Kind == KindGroup && !walk(t.Children, yield) {
			return false
		}
	}

	return true
}

// grouper assembles a flat token stream into a token tree.
type grouper struct {
	root  []Token
	stack []Token
}

func (g *grouper) push(t Token) {
	if n := len(g.stack); n > 0 {
		g.stack[n-1].Children = append(g.stack[n-1].Children, t)

		return
	}

	g.root = append(g.root, t)
}

func (g *grouper) open(delim byte, pos Position) {
	g.stack = append(g.stack, Token{
		Kind:  KindGroup,
		Text:  string(delim),
		Value: string(delim),
		Pos:   pos,
		Span:  Span{Start: pos.Offset},
	})
}

func (g *grouper) close(delim byte, pos Position) error {
	n := len(g.stack)
	if n == 0 {
		return ErrLex.With(
			posAttr(pos),
			slog.String("unexpected", string(delim)),
		)
	}

	top := g.stack[n-1]
	if want := closer(top.Text[0]); want != delim {
		return ErrLex.With(
			posAttr(pos),
			slog.String("expected", string(want)),
			slog.String("found", string(delim)),
		)
	}

	top.Span.End = pos.Offset + 1
	g.stack = g.stack[:n-1]
	g.push(top)

	return nil
}

func (g *grouper) finish() ([]Token, error) {
	if n := len(g.stack); n > 0 {
		top := g.stack[n-1]

		return nil, ErrLex.With(
			posAttr(top.Pos),
			slog.String("unclosed", top.Text),
		)
	}

	return g.root, nil
}
