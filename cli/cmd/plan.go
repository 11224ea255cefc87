package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hotmark/hotreload"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
)

// Plan prints the hot reload format string of a template.
type Plan struct {
	Count bool `help:"Print only the number of dynamic pieces" short:"c"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the plan command.
func (p *Plan) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return p.run(ctx, os.Stdout, opts)
}

func (p *Plan) run(ctx context.Context, w io.Writer, opts *Options) error {
	src, err := readSource(p.Source)
	if err != nil {
		return err
	}

	ast, err := markup.Parse(ctx, src,
		markup.WithKeyword(opts.Keyword),
		markup.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	format, pieces, err := hotreload.FormatString(ast.Markups)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "plan",
		slog.String("source", p.Source),
		slog.Int("pieces", pieces),
	)

	if p.Count {
		_, err = fmt.Fprintln(w, pieces)
	} else {
		_, err = fmt.Fprintln(w, format)
	}

	return err
}
