package hotreload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/hotmark/host"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/source"
	"github.com/ardnew/hotmark/static"
)

// EnvNoFallback names the environment variable that enables strict source
// recovery when set to "1".
const EnvNoFallback = "HOTMARK_SOURCE_NO_FALLBACK"

// Config controls the behavior of hot templates.
type Config struct {
	// StrictSourceRecovery makes a failure to recover the source of an
	// invocation an error instead of rendering the compiled template.
	StrictSourceRecovery bool
}

// ConfigFromEnv returns the configuration selected by the environment.
func ConfigFromEnv() Config {
	return Config{StrictSourceRecovery: os.Getenv(EnvNoFallback) == "1"}
}

// Option configures a [Template].
type Option func(*Template)

// At sets the Go source file and 1-based line of the invocation.
func At(file string, line int) Option {
	return func(t *Template) {
		t.file = file
		t.line = line
	}
}

// WithKeyword sets the keyword introducing the invocation.
func WithKeyword(keyword string) Option {
	return func(t *Template) { t.keyword = keyword }
}

// WithConfig sets the configuration of the template.
func WithConfig(config Config) Option {
	return func(t *Template) { t.config = config }
}

// WithLogger sets the logger of the template.
func WithLogger(logger log.Logger) Option {
	return func(t *Template) { t.logger = logger }
}

// WithMaxIterations bounds while loops in dynamic pieces.
func WithMaxIterations(n int) Option {
	return func(t *Template) { t.maxIter = n }
}

// Template is a template rendered from the current text of its invocation.
//
// The body of a special segment is a nested template. It renders the text
// of the same segment in the recovered source of its parent, found by
// position. Nested templates are numbered in the order their segments are
// lowered, and the bodies of the re-parsed parent are listed in that order.
type Template struct {
	logger   log.Logger
	plan     *Plan
	fallback *static.Program
	parent   *Template
	file     string
	keyword  string
	line     int
	maxIter  int
	// index is the position of a nested template among its parent's.
	index int
	// nested counts the nested templates compiled for the segments of t.
	nested int
	config Config
}

// Compile parses src and lowers it for hot reload. src is the text of the
// invocation, normally including its keyword.
func Compile(ctx context.Context, src string, opts ...Option) (*Template, error) {
	t := &Template{keyword: markup.DefaultKeyword, config: ConfigFromEnv()}
	for _, opt := range opts {
		opt(t)
	}

	ast, err := markup.Parse(ctx, src,
		markup.WithLogger(t.logger),
		markup.WithKeyword(t.keyword),
		markup.WithRawBodies(true),
	)
	if err != nil {
		return nil, err
	}

	if err := t.lower(ctx, ast.Markups, len(src)); err != nil {
		return nil, err
	}

	t.logger.DebugContext(ctx, "compiled hot template",
		slog.String("file", t.file),
		slog.Int("line", t.line),
		slog.String("keyword", t.keyword),
		slog.Int("pieces", t.plan.Pieces),
	)

	return t, nil
}

func (t *Template) lower(ctx context.Context, markups []markup.Markup, sizeHint int) error {
	opts := []static.Option{
		static.WithLogger(t.logger),
		static.WithMaxIterations(t.maxIter),
	}

	var err error

	if t.plan, err = Build(ctx, markups, append(opts, static.WithBody(t.nestBody))...); err != nil {
		return err
	}

	t.fallback, err = static.Generate(markups, sizeHint, opts...)

	return err
}

// nestBody lowers a special segment carrying its raw body into a nested
// template.
func (t *Template) nestBody(seg markup.Segment) (static.Evaluator, bool, error) {
	if seg.Body == nil || !seg.Body.HasRawBody {
		return nil, false, nil
	}

	n := &Template{
		logger:  t.logger,
		parent:  t,
		file:    t.file,
		line:    t.line,
		keyword: seg.Header,
		maxIter: t.maxIter,
		index:   t.nested,
		config:  t.config,
	}

	t.nested++

	if err := n.lower(context.Background(), seg.Body.Markups, len(seg.Body.RawBody)); err != nil {
		return nil, false, err
	}

	return n, true, nil
}

// segmentBodies lists the bodies of the special segments in markups that
// carry raw text, in the order the segments are lowered. Bodies without raw
// text are lowered in place, so their own segments are listed instead.
func segmentBodies(markups []markup.Markup) []*markup.Block {
	var bodies []*markup.Block

	var walk func([]markup.Markup)

	walk = func(markups []markup.Markup) {
		for _, m := range markups {
			switch m := m.(type) {
			case *markup.Element:
				for _, a := range m.Attrs {
					if v, ok := a.Type.(markup.AttrNormal); ok && v.Value != nil {
						walk([]markup.Markup{v.Value})
					}
				}

				if m.Body != nil {
					walk(m.Body.Markups)
				}

			case *markup.Block:
				walk(m.Markups)

			case *markup.Special:
				for _, seg := range m.Segments {
					switch {
					case seg.Body == nil:
					case seg.Body.HasRawBody:
						bodies = append(bodies, seg.Body)
					default:
						walk(seg.Body.Markups)
					}
				}
			}
		}
	}

	walk(markups)

	return bodies
}

// bodiesKey finds the recovered segment bodies of a parent template in the
// context of its render.
type bodiesKey struct{ parent *Template }

// Plan returns the compiled plan of t.
func (t *Template) Plan() *Plan { return t.plan }

// Render renders t with the variables of env.
func (t *Template) Render(ctx context.Context, env map[string]any) (string, error) {
	var sb strings.Builder

	if err := t.Evaluate(ctx, host.NewScope(env), &sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Evaluate implements [static.Evaluator].
//
// The values of the dynamic pieces are computed from the compiled template
// and substituted into the recovered source. If the source cannot be
// recovered, the compiled template is rendered instead unless the
// configuration is strict. A failure to render the recovered source is
// written as an error marker and is not returned.
func (t *Template) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	raw, err := t.source(ctx)
	if err != nil {
		if t.config.StrictSourceRecovery {
			return ErrStrictRecovery.Wrap(
				fmt.Errorf("%s:%d: %q: %w", t.file, t.line, t.keyword, err),
			).With(
				slog.String("file", t.file),
				slog.Int("line", t.line),
				slog.String("keyword", t.keyword),
			)
		}

		t.logger.DebugContext(ctx, "source recovery failed, rendering compiled template",
			slog.Any("error", err),
		)

		return t.fallback.Evaluate(ctx, scope, sb)
	}

	out, err := t.interpret(ctx, raw, scope)
	if errors.Is(err, ErrInterpreterFault) {
		t.logger.WarnContext(ctx, "hot reload failed",
			slog.String("file", t.file),
			slog.Int("line", t.line),
			slog.Any("error", err),
		)

		out, err = RenderError(raw, err), nil
	}

	if err != nil {
		return err
	}

	sb.WriteString(out)

	return nil
}

// source returns the current text of t. A nested template takes the body
// at its index in the render of its parent.
func (t *Template) source(ctx context.Context) (string, error) {
	if t.parent == nil {
		return source.Recover(ctx, t.file, t.line, t.keyword)
	}

	bodies, _ := ctx.Value(bodiesKey{t.parent}).([]*markup.Block)
	if t.index >= len(bodies) {
		return "", ErrNoSegmentBody.With(slog.Int("index", t.index))
	}

	return bodies[t.index].RawBody, nil
}

// interpret renders raw with the values of the dynamic pieces computed in
// scope. Nested templates render the segment bodies of raw.
func (t *Template) interpret(ctx context.Context, raw string, scope *host.Scope) (string, error) {
	ast, err := reparse(ctx, raw, t.logger)
	if err != nil {
		return "", err
	}

	if t.nested > 0 {
		bodies := segmentBodies(ast.Markups)
		if len(bodies) != t.nested {
			return "", ErrInterpreterFault.Wrap(
				fmt.Errorf("%d segment bodies, %d compiled", len(bodies), t.nested),
			)
		}

		ctx = context.WithValue(ctx, bodiesKey{t}, bodies)
	}

	vars, err := t.plan.Vars(ctx, scope)
	if err != nil {
		return "", err
	}

	return interpret(ast, vars)
}
