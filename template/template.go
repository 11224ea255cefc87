package template

import (
	"context"
	"os"
	"runtime"

	"github.com/ardnew/hotmark/hotreload"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/static"
)

// EnvHotReload names the environment variable that enables hot reload by
// default when set to "1".
const EnvHotReload = "HOTMARK_HOTRELOAD"

type options struct {
	logger  log.Logger
	strict  *bool
	keyword string
	file    string
	line    int
	maxIter int
	hot     bool
}

// Option configures a [Template].
type Option func(*options)

// WithHotReload enables or disables hot reload.
func WithHotReload(enable bool) Option {
	return func(o *options) { o.hot = enable }
}

// WithKeyword sets the keyword introducing the template body.
func WithKeyword(keyword string) Option {
	return func(o *options) { o.keyword = keyword }
}

// WithStrict makes a failure to recover the template source an error
// instead of rendering the compiled template. It overrides the
// environment.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = &strict }
}

// WithLogger sets the logger used to compile and render.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxIterations bounds the iterations of while loops.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithLocation sets the file and line of the invocation used for hot
// reload. By default they are taken from the caller of [New].
func WithLocation(file string, line int) Option {
	return func(o *options) {
		o.file = file
		o.line = line
	}
}

// Template is a compiled template.
type Template struct {
	hot  *hotreload.Template
	prog *static.Program
}

// New compiles src.
func New(src string, opts ...Option) (*Template, error) {
	return compile(2, src, opts...)
}

// MustNew is like [New] but panics on error.
func MustNew(src string, opts ...Option) *Template {
	t, err := compile(2, src, opts...)
	if err != nil {
		panic(err)
	}

	return t
}

func compile(skip int, src string, opts ...Option) (*Template, error) {
	o := options{
		keyword: markup.DefaultKeyword,
		hot:     os.Getenv(EnvHotReload) == "1",
	}

	if _, file, line, ok := runtime.Caller(skip); ok {
		o.file, o.line = file, line
	}

	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()

	if o.hot {
		config := hotreload.ConfigFromEnv()
		if o.strict != nil {
			config.StrictSourceRecovery = *o.strict
		}

		hot, err := hotreload.Compile(ctx, src,
			hotreload.At(o.file, o.line),
			hotreload.WithKeyword(o.keyword),
			hotreload.WithConfig(config),
			hotreload.WithLogger(o.logger),
			hotreload.WithMaxIterations(o.maxIter),
		)
		if err != nil {
			return nil, err
		}

		return &Template{hot: hot}, nil
	}

	ast, err := markup.Parse(ctx, src,
		markup.WithLogger(o.logger),
		markup.WithKeyword(o.keyword),
	)
	if err != nil {
		return nil, err
	}

	prog, err := static.Generate(ast.Markups, len(src),
		static.WithLogger(o.logger),
		static.WithMaxIterations(o.maxIter),
	)
	if err != nil {
		return nil, err
	}

	return &Template{prog: prog}, nil
}

// HotReload reports whether t renders from its current source text.
func (t *Template) HotReload() bool { return t.hot != nil }

// Render renders t with the variables of env.
func (t *Template) Render(ctx context.Context, env map[string]any) (string, error) {
	if t.hot != nil {
		return t.hot.Render(ctx, env)
	}

	return t.prog.Render(ctx, env)
}
