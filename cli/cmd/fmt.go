package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/pkg"
)

// Fmt reads a template, parses it, and formats it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical template syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// parseSource reads and parses the template at path. A template with parse
// errors is rejected.
func parseSource(
	ctx context.Context,
	path string,
	opts *Options,
	format string,
) (*markup.AST, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}

	ast, err := markup.Parse(ctx, src,
		markup.WithKeyword(opts.Keyword),
		markup.WithLogger(log.Default()),
	)
	if err != nil {
		return nil, pkg.WrapError(err).With(
			slog.String("format", format),
			slog.String("source", path),
		)
	}

	return ast, nil
}

// Native formats input as canonical template syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output; 0 for a single line" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context, opts *Options) error {
	return f.run(ctx, os.Stdout, opts)
}

func (f *Native) run(ctx context.Context, w io.Writer, opts *Options) error {
	ast, err := parseSource(ctx, f.Source, opts, "native")
	if err != nil {
		return err
	}

	return ast.Format(ctx, w, f.Indent)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context, opts *Options) error {
	return j.run(ctx, os.Stdout, opts)
}

func (j *JSON) run(ctx context.Context, w io.Writer, opts *Options) error {
	ast, err := parseSource(ctx, j.Source, opts, "json")
	if err != nil {
		return err
	}

	return ast.FormatJSON(ctx, w, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 for flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context, opts *Options) error {
	return y.run(ctx, os.Stdout, opts)
}

func (y *YAML) run(ctx context.Context, w io.Writer, opts *Options) error {
	ast, err := parseSource(ctx, y.Source, opts, "yaml")
	if err != nil {
		return err
	}

	return ast.FormatYAML(ctx, w, y.Indent)
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context, opts *Options) error {
	return a.run(ctx, os.Stdout, opts)
}

func (a *AST) run(ctx context.Context, w io.Writer, opts *Options) error {
	ast, err := parseSource(ctx, a.Source, opts, "ast")
	if err != nil {
		return err
	}

	return ast.Print(w)
}
