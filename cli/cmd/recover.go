package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ardnew/hotmark/source"
)

// Recover prints the body of the template invocation found in a file at or
// after a line.
type Recover struct {
	File string `arg:"" help:"Source file containing the invocation" name:"file" type:"path"`
	Line int    `arg:"" default:"1" help:"1-based line at which to start searching" name:"line"`
}

// Run executes the recover command.
func (r *Recover) Run(ctx context.Context, opts *Options) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return r.run(ctx, os.Stdout, opts)
}

func (r *Recover) run(ctx context.Context, w io.Writer, opts *Options) error {
	body, err := source.Recover(ctx, r.File, r.Line, opts.Keyword)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, body)

	return err
}
