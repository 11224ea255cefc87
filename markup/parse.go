package markup

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/pkg"
)

// AST is the result of parsing one template invocation.
type AST struct {
	// Source is the complete text handed to [Parse].
	Source string
	// Keyword is the invocation keyword that wrapped the markup, or "" if
	// the source was bare markup.
	Keyword string
	// Markups are the top-level nodes.
	Markups []Markup
	// Diagnostics lists every [ParseError] placed in Markups, in source
	// order.
	Diagnostics []ParseError
	// Body is the span of Source holding the markup, excluding the
	// invocation keyword and its brackets.
	Body Span

	logger log.Logger
}

// DefaultKeyword is the invocation keyword recognized when none is given.
const DefaultKeyword = "html!"

// Option configures parsing.
type Option func(*parser)

// WithLogger sets the logger used while parsing. The zero value discards
// all messages.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// WithRawBodies retains the source text of every braced block in
// [Block.RawBody].
func WithRawBodies(keep bool) Option {
	return func(p *parser) { p.raw = keep }
}

// WithTokenizer selects the front end. The default is [GoScanner].
func WithTokenizer(t Tokenizer) Option {
	return func(p *parser) {
		if t != nil {
			p.tokenizer = t
		}
	}
}

// WithKeyword sets the invocation keyword that may wrap the markup.
func WithKeyword(keyword string) Option {
	return func(p *parser) { p.keyword = keyword }
}

// Parse tokenizes and parses src.
//
// Parsing is total: malformed markup becomes a [ParseError] node and
// parsing resumes after it. The returned AST is non-nil unless src cannot be
// tokenized. The error is non-nil if the AST contains diagnostics, in which
// case it wraps the first of them.
func Parse(ctx context.Context, src string, opts ...Option) (*AST, error) {
	p := parser{
		ctx:       ctx,
		src:       src,
		tokenizer: GoScanner{},
		keyword:   DefaultKeyword,
	}

	for _, opt := range opts {
		opt(&p)
	}

	p.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)),
		slog.Bool("raw_bodies", p.raw),
	)

	toks, err := p.tokenizer.Tokenize(src)
	if err != nil {
		p.logger.DebugContext(ctx, "tokenize failed", slog.Any("error", err))

		return nil, err
	}

	ast := &AST{
		Source: src,
		Body:   Span{Start: 0, End: len(src)},
		logger: p.logger,
	}

	if body, ok := p.unwrap(toks); ok {
		ast.Keyword = p.keyword
		ast.Body = body.Inner()
		toks = body.Children
	}

	ast.Markups = p.markups(toks)
	ast.Diagnostics = p.diags

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("markups", len(ast.Markups)),
		slog.Int("diagnostics", len(ast.Diagnostics)),
	)

	if len(p.diags) > 0 {
		first := p.diags[0]

		return ast, ErrParse.Wrap(first).With(
			posAttr(first.Pos),
			slog.Int("diagnostics", len(p.diags)),
			slog.String("snippet", snippet(src, first.Pos)),
		)
	}

	return ast, nil
}

// Errors returns the diagnostics of ast as errors.
func (ast *AST) Errors() []error {
	errs := make([]error, len(ast.Diagnostics))
	for i, d := range ast.Diagnostics {
		errs[i] = d
	}

	return errs
}

type parser struct {
	ctx       context.Context //nolint:containedctx
	tokenizer Tokenizer
	logger    log.Logger
	src       string
	keyword   string
	diags     []ParseError
	raw       bool
}

// cursor walks the tokens of one nesting level.
type cursor struct {
	toks []Token
	i    int
}

func (c *cursor) eof() bool { return c.i >= len(c.toks) }

func (c *cursor) peek() Token { return c.peekAt(0) }

func (c *cursor) peekAt(n int) Token {
	if c.i+n >= len(c.toks) {
		return Token{}
	}

	return c.toks[c.i+n]
}

func (c *cursor) next() Token {
	t := c.peek()
	if !c.eof() {
		c.i++
	}

	return t
}

// last returns the most recently consumed token.
func (c *cursor) last() Token {
	if c.i == 0 {
		return Token{}
	}

	return c.toks[c.i-1]
}

// unwrap recognizes "keyword { ... }" spanning all of toks and returns the
// bracketed group.
func (p *parser) unwrap(toks []Token) (Token, bool) {
	if p.keyword == "" {
		return Token{}, false
	}

	kw, err := p.tokenizer.Tokenize(p.keyword)
	if err != nil || len(kw) == 0 || len(toks) != len(kw)+1 {
		return Token{}, false
	}

	for i, k := range kw {
		if toks[i].Kind != k.Kind || toks[i].Text != k.Text {
			return Token{}, false
		}
	}

	body := toks[len(kw)]
	if body.Kind != KindGroup {
		return Token{}, false
	}

	return body, true
}

func (p *parser) markups(toks []Token) []Markup {
	c := &cursor{toks: toks}

	var out []Markup

	for !c.eof() {
		start := c.i

		out = append(out, p.markup(c))

		if c.i == start {
			c.next()
		}
	}

	return out
}

func (p *parser) markup(c *cursor) Markup {
	t := c.peek()

	switch t.Kind {
	case KindString:
		c.next()

		return Literal{Text: t.Value, Span: t.Span}

	case KindNumber:
		c.next()

		return Literal{Text: t.Text, Span: t.Span}

	case KindIdent:
		return p.element(c)

	case KindGroup:
		c.next()

		switch t.Text {
		case "(":
			return p.splice(t)
		case "{":
			return p.block(t)
		}

	case KindPunct:
		if t.IsPunct('@') {
			return p.special(c)
		}

		c.next()
	}

	return p.fail(t.Pos, "unexpected "+describe(t))
}

func (p *parser) splice(t Token) Markup {
	expr := strings.TrimSpace(t.Inner().Of(p.src))
	if expr == "" {
		return p.fail(t.Pos, "empty splice")
	}

	return Splice{Expr: expr, Span: t.Span}
}

func (p *parser) block(t Token) *Block {
	b := &Block{
		Markups: p.markups(t.Children),
		Span:    t.Span,
	}

	if p.raw {
		b.RawBody = t.Inner().Of(p.src)
		b.HasRawBody = true
	}

	return b
}

// name consumes an element or attribute name: identifiers joined by
// adjacent '-' or ':' with identifier or number parts.
func (p *parser) name(c *cursor) (string, Span) {
	first := c.next()
	span := first.Span

	var sb strings.Builder

	sb.WriteString(first.Text)

	for {
		sep, part := c.peek(), c.peekAt(1)
		if !sep.IsPunct('-') && !sep.IsPunct(':') {
			break
		}

		if part.Kind != KindIdent && part.Kind != KindNumber {
			break
		}

		if sep.Span.Start != span.End || part.Span.Start != sep.Span.End {
			break
		}

		c.next()
		c.next()
		sb.WriteString(sep.Text)
		sb.WriteString(part.Text)

		span.End = part.Span.End
	}

	return sb.String(), span
}

// element parses "name attr* ({...} | ;)". A name that is not followed by a
// body or semicolon is a [Symbol].
func (p *parser) element(c *cursor) Markup {
	name, span := p.name(c)
	after := c.i

	var attrs []Attr

	for {
		t := c.peek()

		switch {
		case t.IsGroup('{'):
			c.next()

			span.End = t.Span.End

			return &Element{Name: name, Attrs: attrs, Body: p.block(t), Span: span}

		case t.IsPunct(';'):
			c.next()

			span.End = t.Span.End

			return &Element{Name: name, Attrs: attrs, Span: span}

		case t.Kind == KindIdent:
			attr, ok := p.attr(c)
			if !ok {
				c.i = after

				return Symbol{Name: name, Span: span}
			}

			attrs = append(attrs, attr)

		default:
			c.i = after

			return Symbol{Name: name, Span: span}
		}
	}
}

func (p *parser) attr(c *cursor) (Attr, bool) {
	name, _ := p.name(c)

	t := c.peek()

	switch {
	case t.IsPunct('='):
		c.next()

		value, ok := p.attrValue(c)
		if !ok {
			return Attr{}, false
		}

		return Attr{Name: name, Type: AttrNormal{Value: value}}, true

	case t.IsPunct('?') && c.peekAt(1).IsGroup('['):
		c.next()

		g := c.next()

		return Attr{Name: name, Type: AttrOptional{Toggler: p.toggler(g)}}, true

	case t.IsGroup('['):
		c.next()

		tog := p.toggler(t)

		return Attr{Name: name, Type: AttrEmpty{Toggler: &tog}}, true
	}

	return Attr{Name: name, Type: AttrEmpty{}}, true
}

func (p *parser) toggler(g Token) Toggler {
	return Toggler{Cond: strings.TrimSpace(g.Inner().Of(p.src)), Span: g.Span}
}

func (p *parser) attrValue(c *cursor) (Markup, bool) {
	t := c.peek()

	switch {
	case t.Kind == KindString:
		c.next()

		return Literal{Text: t.Value, Span: t.Span}, true

	case t.Kind == KindNumber:
		c.next()

		return Literal{Text: t.Text, Span: t.Span}, true

	case t.Kind == KindIdent:
		name, span := p.name(c)

		return Symbol{Name: name, Span: span}, true

	case t.IsGroup('('):
		c.next()

		return p.splice(t), true

	case t.IsGroup('{'):
		c.next()

		return p.block(t), true
	}

	return nil, false
}

// special parses a control directive introduced by '@'.
func (p *parser) special(c *cursor) Markup {
	at := c.next()
	kw := c.peek()

	if kw.Kind != KindIdent {
		return p.fail(at.Pos, "expected directive after @")
	}

	c.next()

	switch kw.Text {
	case "if":
		return p.ifChain(c, at)
	case "for":
		return p.forLoop(c, at)
	case "while":
		seg, ok := p.segment(c, at, "while")
		if !ok {
			return p.fail(at.Pos, "malformed @while")
		}

		return &Special{Kind: SpecialWhile, Segments: []Segment{seg}, Span: p.span(at, c)}
	case "match":
		return p.match(c, at)
	case "let":
		return p.let(c, at)
	case "else":
		return p.fail(kw.Pos, "@else without @if")
	}

	return p.fail(kw.Pos, "unknown directive @"+kw.Text)
}

// segment consumes a head expression followed by a braced body.
func (p *parser) segment(c *cursor, at Token, keyword string) (Segment, bool) {
	var head string

	if keyword != "else" {
		var ok bool
		if head, ok = p.head(c); !ok {
			return Segment{}, false
		}
	}

	body := c.peek()
	if !body.IsGroup('{') {
		return Segment{}, false
	}

	c.next()

	return Segment{
		Keyword: keyword,
		Head:    head,
		Header:  strings.TrimSpace(p.src[at.Span.Start:body.Span.Start]),
		Body:    p.block(body),
		Span:    Span{Start: at.Span.Start, End: body.Span.End},
		Line:    at.Pos.Line,
	}, true
}

// head consumes tokens up to the next brace group and returns their source
// text. The first brace group after at least one token ends the head.
func (p *parser) head(c *cursor) (string, bool) {
	start := c.i

	for !c.eof() {
		if t := c.peek(); t.IsGroup('{') && c.i > start {
			break
		}

		if t := c.peek(); t.IsPunct('@') || t.IsPunct(';') {
			break
		}

		c.next()
	}

	if c.i == start {
		return "", false
	}

	first, last := c.toks[start], c.last()

	return strings.TrimSpace(p.src[first.Span.Start:last.Span.End]), true
}

func (p *parser) ifChain(c *cursor, at Token) Markup {
	seg, ok := p.segment(c, at, "if")
	if !ok {
		return p.fail(at.Pos, "malformed @if")
	}

	s := &Special{Kind: SpecialIf, Segments: []Segment{seg}}

	for c.peek().IsPunct('@') && c.peekAt(1).Is(KindIdent, "else") {
		at := c.next()
		c.next()

		keyword := "else"
		if c.peek().Is(KindIdent, "if") {
			c.next()

			keyword = "else if"
		}

		seg, ok := p.segment(c, at, keyword)
		if !ok {
			return p.fail(at.Pos, "malformed @"+keyword)
		}

		s.Segments = append(s.Segments, seg)

		if keyword == "else" {
			break
		}
	}

	s.Span = Span{Start: s.Segments[0].Span.Start, End: s.Segments[len(s.Segments)-1].Span.End}

	return s
}

func (p *parser) forLoop(c *cursor, at Token) Markup {
	var bind []string

	for {
		t := c.peek()
		if t.Kind != KindIdent || t.Text == "in" {
			break
		}

		c.next()

		bind = append(bind, t.Text)

		if !c.peek().IsPunct(',') {
			break
		}

		c.next()
	}

	if len(bind) == 0 || len(bind) > 2 || !c.peek().Is(KindIdent, "in") {
		return p.fail(at.Pos, "expected @for name[, name] in expr { ... }")
	}

	c.next()

	seg, ok := p.segment(c, at, "for")
	if !ok {
		return p.fail(at.Pos, "malformed @for")
	}

	seg.Bind = bind

	return &Special{Kind: SpecialFor, Segments: []Segment{seg}, Span: seg.Span}
}

func (p *parser) match(c *cursor, at Token) Markup {
	subject, ok := p.head(c)
	if !ok || !c.peek().IsGroup('{') {
		return p.fail(at.Pos, "malformed @match")
	}

	arms := c.next()
	s := &Special{
		Kind:    SpecialMatch,
		Subject: subject,
		Span:    Span{Start: at.Span.Start, End: arms.Span.End},
	}

	ac := &cursor{toks: arms.Children}

	for !ac.eof() {
		start := ac.i

		for !ac.eof() && !(ac.peek().IsPunct('=') && ac.peekAt(1).IsPunct('>')) {
			ac.next()
		}

		if ac.eof() || ac.i == start {
			return p.fail(arms.Pos, "expected pattern => body in @match")
		}

		pat := strings.TrimSpace(
			p.src[ac.toks[start].Span.Start:ac.last().Span.End],
		)

		ac.next()
		ac.next()

		header := strings.TrimSpace(
			p.src[ac.toks[start].Span.Start:ac.last().Span.End],
		)

		var body *Block

		if t := ac.peek(); t.IsGroup('{') {
			ac.next()

			body = p.block(t)
		} else {
			body = &Block{Markups: []Markup{p.markup(ac)}}
		}

		s.Segments = append(s.Segments, Segment{
			Keyword: "case",
			Head:    pat,
			Header:  header,
			Body:    body,
			Line:    ac.toks[start].Pos.Line,
			Span:    Span{Start: ac.toks[start].Span.Start, End: ac.last().Span.End},
		})

		if ac.peek().IsPunct(',') {
			ac.next()
		}
	}

	return s
}

func (p *parser) let(c *cursor, at Token) Markup {
	name := c.peek()
	if name.Kind != KindIdent || !c.peekAt(1).IsPunct('=') {
		// resynchronize after the statement terminator
		for !c.eof() {
			if c.next().IsPunct(';') {
				break
			}
		}

		return p.fail(at.Pos, "expected @let name = expr;")
	}

	c.next()
	c.next()

	start := c.i

	for !c.eof() && !c.peek().IsPunct(';') {
		c.next()
	}

	if c.eof() || c.i == start {
		return p.fail(at.Pos, "expected @let name = expr;")
	}

	expr := strings.TrimSpace(p.src[c.toks[start].Span.Start:c.last().Span.End])
	semi := c.next()

	return Let{
		Name: name.Text,
		Expr: expr,
		Span: Span{Start: at.Span.Start, End: semi.Span.End},
	}
}

func (p *parser) span(at Token, c *cursor) Span {
	return Span{Start: at.Span.Start, End: c.last().Span.End}
}

func (p *parser) fail(pos Position, msg string) ParseError {
	e := ParseError{Pos: pos, Message: msg}
	p.diags = append(p.diags, e)

	p.logger.DebugContext(p.ctx, "parse error",
		slog.String("message", msg),
		posAttr(pos),
	)

	return e
}

func describe(t Token) string {
	switch t.Kind {
	case KindInvalid:
		return "end of input"
	case KindGroup:
		return "'" + t.Text + "'"
	default:
		return t.Kind.String() + " " + t.Text
	}
}

func snippet(src string, pos Position) string {
	if pos.Line == 0 {
		return ""
	}

	return strings.TrimRight(pkg.Snippet(src, pos.Line, pos.Column), "\n")
}
