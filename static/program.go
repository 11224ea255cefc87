package static

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/host"
	"github.com/ardnew/hotmark/log"
)

// OpKind identifies the operation performed by an [Op].
type OpKind uint8

const (
	OpAppend OpKind = iota // append
	OpEval                 // eval
)

func (k OpKind) String() string {
	if k == OpAppend {
		return "append"
	}

	return "eval"
}

// Evaluator renders a dynamic piece of a template into sb using the
// variables of scope. Bindings made by the piece are made in scope.
type Evaluator interface {
	Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error
}

// EvaluatorFunc adapts a function to the [Evaluator] interface.
type EvaluatorFunc func(ctx context.Context, scope *host.Scope, sb *strings.Builder) error

// Evaluate implements [Evaluator].
func (f EvaluatorFunc) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	return f(ctx, scope, sb)
}

// Op is one step of a [Program].
type Op struct {
	Eval Evaluator // set for OpEval
	Text string    // pre-escaped text for OpAppend
	Kind OpKind
}

// Program is a lowered template.
type Program struct {
	logger   log.Logger
	Ops      []Op
	SizeHint int
}

// Render executes p against env and returns the produced HTML.
func (p *Program) Render(ctx context.Context, env map[string]any) (string, error) {
	var sb strings.Builder

	sb.Grow(p.SizeHint)

	p.logger.TraceContext(ctx, "render static",
		slog.Int("ops", len(p.Ops)),
		slog.Int("size_hint", p.SizeHint),
	)

	if err := p.Evaluate(ctx, host.NewScope(env), &sb); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Evaluate implements [Evaluator] so a program can serve as the body of an
// enclosing construct. Operations run directly in scope.
func (p *Program) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	for _, op := range p.Ops {
		if op.Kind == OpAppend {
			sb.WriteString(op.Text)

			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := op.Eval.Evaluate(ctx, scope, sb); err != nil {
			return err
		}
	}

	return nil
}

// Static returns the output of p if it contains no dynamic pieces.
func (p *Program) Static() (string, bool) {
	var sb strings.Builder

	for _, op := range p.Ops {
		if op.Kind != OpAppend {
			return "", false
		}

		sb.WriteString(op.Text)
	}

	return sb.String(), true
}
