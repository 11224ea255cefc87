package static

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/host"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
)

// DefaultMaxIterations bounds the number of iterations of a while loop.
const DefaultMaxIterations = 10000

// BodyFunc lowers the body of a special segment. It reports false to fall
// back to the default lowering.
type BodyFunc func(seg markup.Segment) (Evaluator, bool, error)

// Option configures generation.
type Option func(*generator)

// WithLogger sets the logger used during generation and rendering.
func WithLogger(logger log.Logger) Option {
	return func(g *generator) { g.logger = logger }
}

// WithMaxIterations bounds while loops to n iterations. Values less than 1
// select [DefaultMaxIterations].
func WithMaxIterations(n int) Option {
	return func(g *generator) {
		if n < 1 {
			n = DefaultMaxIterations
		}

		g.maxIter = n
	}
}

// WithBody overrides the lowering of special segment bodies.
func WithBody(fn BodyFunc) Option {
	return func(g *generator) { g.body = fn }
}

type generator struct {
	logger  log.Logger
	body    BodyFunc
	ops     []Op
	text    strings.Builder
	maxIter int
}

func newGenerator(opts ...Option) *generator {
	g := &generator{maxIter: DefaultMaxIterations}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// fork returns an empty generator with the settings of g.
func (g *generator) fork() *generator {
	return &generator{logger: g.logger, body: g.body, maxIter: g.maxIter}
}

// Generate lowers markups into a [Program]. sizeHint is the expected output
// length, typically the length of the template source.
//
// A [markup.ParseError] renders nothing. Generation fails on the first host
// expression that does not compile.
func Generate(markups []markup.Markup, sizeHint int, opts ...Option) (*Program, error) {
	g := newGenerator(opts...)

	prog, err := g.program(markups)
	if err != nil {
		return nil, err
	}

	prog.SizeHint = sizeHint

	g.logger.Trace("generate complete",
		slog.Int("markups", len(markups)),
		slog.Int("ops", len(prog.Ops)),
	)

	return prog, nil
}

// LowerSpecial returns an evaluator implementing the control semantics of
// s. It is used by callers that lower the rest of a template differently.
func LowerSpecial(s *markup.Special, opts ...Option) (Evaluator, error) {
	return newGenerator(opts...).special(s)
}

func (g *generator) program(markups []markup.Markup) (*Program, error) {
	for _, m := range markups {
		if err := g.markup(m); err != nil {
			return nil, err
		}
	}

	g.flush()

	return &Program{Ops: g.ops, logger: g.logger}, nil
}

func (g *generator) append(s string) {
	g.text.WriteString(s)
}

func (g *generator) flush() {
	if g.text.Len() > 0 {
		g.ops = append(g.ops, Op{Kind: OpAppend, Text: g.text.String()})
		g.text.Reset()
	}
}

func (g *generator) eval(e Evaluator) {
	g.flush()
	g.ops = append(g.ops, Op{Kind: OpEval, Eval: e})
}

func (g *generator) markup(m markup.Markup) error {
	switch m := m.(type) {
	case markup.Literal:
		g.append(markup.Escape(m.Text))

	case markup.Symbol:
		g.append(markup.Escape(m.Name))

	case markup.Splice:
		x, err := host.Compile(m.Expr)
		if err != nil {
			return err
		}

		g.eval(splice{expr: x})

	case *markup.Element:
		return g.element(m)

	case markup.Let:
		x, err := host.Compile(m.Expr)
		if err != nil {
			return err
		}

		g.eval(let{name: m.Name, expr: x})

	case *markup.Special:
		e, err := g.special(m)
		if err != nil {
			return err
		}

		g.eval(e)

	case *markup.Block:
		return g.block(m)

	case markup.ParseError:
		g.logger.Trace("skip parse error",
			slog.Int("line", m.Pos.Line),
			slog.Int("column", m.Pos.Column),
		)
	}

	return nil
}

// block lowers b inline unless it binds variables, in which case the
// bindings are confined to a child scope.
func (g *generator) block(b *markup.Block) error {
	if !b.ContainsLet() {
		for _, m := range b.Markups {
			if err := g.markup(m); err != nil {
				return err
			}
		}

		return nil
	}

	body, err := g.fork().program(b.Markups)
	if err != nil {
		return err
	}

	g.eval(scoped{body: body})

	return nil
}

func (g *generator) element(el *markup.Element) error {
	name := markup.Escape(el.Name)

	g.append("<" + name)

	for _, a := range el.Attrs {
		if err := g.attr(a); err != nil {
			return err
		}
	}

	g.append(">")

	if el.Body == nil {
		return nil
	}

	if err := g.block(el.Body); err != nil {
		return err
	}

	g.append("</" + name + ">")

	return nil
}

func (g *generator) attr(a markup.Attr) error {
	switch t := a.Type.(type) {
	case markup.AttrNormal:
		g.append(" " + markup.Escape(a.Name) + `="`)

		if err := g.markup(t.Value); err != nil {
			return err
		}

		g.append(`"`)

	case markup.AttrOptional:
		x, err := host.Compile(t.Toggler.Cond)
		if err != nil {
			return err
		}

		g.eval(optionalAttr{name: markup.Escape(a.Name), expr: x})

	case markup.AttrEmpty:
		if t.Toggler == nil {
			g.append(" " + markup.Escape(a.Name))

			return nil
		}

		x, err := host.Compile(t.Toggler.Cond)
		if err != nil {
			return err
		}

		g.eval(toggledAttr{name: markup.Escape(a.Name), cond: x})
	}

	return nil
}

func (g *generator) special(s *markup.Special) (Evaluator, error) {
	segs := make([]segment, len(s.Segments))

	for i, seg := range s.Segments {
		var err error

		if segs[i], err = g.segment(s.Kind, seg); err != nil {
			return nil, err
		}
	}

	switch s.Kind {
	case markup.SpecialIf:
		return ifChain(segs), nil

	case markup.SpecialFor:
		return forLoop{seg: segs[0]}, nil

	case markup.SpecialWhile:
		return whileLoop{seg: segs[0], max: g.maxIter}, nil

	case markup.SpecialMatch:
		subject, err := host.Compile(s.Subject)
		if err != nil {
			return nil, err
		}

		return matchArms{subject: subject, arms: segs}, nil
	}

	return nil, ErrUnknownSpecial.With(slog.String("special", s.Kind.String()))
}

func (g *generator) segment(kind markup.SpecialKind, seg markup.Segment) (segment, error) {
	out := segment{bind: seg.Bind}

	switch {
	case seg.Keyword == "else":
	case kind == markup.SpecialMatch && seg.Head == wildcard:
		out.wildcard = true
	case kind == markup.SpecialMatch:
		x, err := host.Compile(matchVar + " == (" + seg.Head + ")")
		if err != nil {
			return out, err
		}

		out.head = x
	default:
		x, err := host.Compile(seg.Head)
		if err != nil {
			return out, err
		}

		out.head = x
	}

	if g.body != nil {
		body, ok, err := g.body(seg)
		if err != nil {
			return out, err
		}

		if ok {
			out.body = body

			return out, nil
		}
	}

	body, err := g.fork().program(seg.Body.Markups)
	if err != nil {
		return out, err
	}

	out.body = body

	return out, nil
}

// Render lowers and executes markups in one step.
func Render(
	ctx context.Context,
	markups []markup.Markup,
	env map[string]any,
	opts ...Option,
) (string, error) {
	prog, err := Generate(markups, 0, opts...)
	if err != nil {
		return "", err
	}

	return prog.Render(ctx, env)
}

// LowerAttr returns a program rendering the attribute a with its leading
// space.
func LowerAttr(a markup.Attr, opts ...Option) (*Program, error) {
	g := newGenerator(opts...)

	if err := g.attr(a); err != nil {
		return nil, err
	}

	g.flush()

	return &Program{Ops: g.ops, logger: g.logger}, nil
}

// Scoped returns an evaluator running body in a child scope, so bindings
// made by body are not visible after it.
func Scoped(body Evaluator) Evaluator {
	return scoped{body: body}
}
