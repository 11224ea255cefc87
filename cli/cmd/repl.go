package cmd

import (
	"context"

	"github.com/ardnew/hotmark/cli/cmd/repl"
	"github.com/ardnew/hotmark/log"
)

// Repl starts an interactive session rendering markup with the variables
// of the shared options.
type Repl struct{}

// Run executes the repl command.
func (*Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := LoadVars(ctx)
	if err != nil {
		return err
	}

	cacheDir := kongContextFrom(ctx).Model.Vars()[CacheIdentifier]

	return repl.Run(ctx, env, cacheDir, log.Default())
}
