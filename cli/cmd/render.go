package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/template"
)

// Render renders a template file with the variables of the shared options.
type Render struct {
	Hot   bool          `help:"Render from the current text of the template file"     short:"H"`
	Watch time.Duration `help:"Re-render at this interval, printing each change (implies --hot)" short:"w"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return r.run(ctx, os.Stdout, opts)
}

func (r *Render) run(ctx context.Context, w io.Writer, opts *Options) error {
	src, err := readSource(r.Source)
	if err != nil {
		return err
	}

	env, err := LoadVars(ctx)
	if err != nil {
		return err
	}

	hot := r.Hot || r.Watch > 0

	t, err := template.New(src, opts.templateOptions(r.Source, hot)...)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "render",
		slog.String("source", r.Source),
		slog.Bool("hot", t.HotReload()),
		slog.Duration("watch", r.Watch),
	)

	out, err := t.Render(ctx, env)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}

	if r.Watch <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.Watch)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			next, err := t.Render(ctx, env)
			if err != nil {
				log.WarnContext(ctx, "render failed", slog.Any("error", err))

				continue
			}

			if next == out {
				continue
			}

			out = next

			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
	}
}
