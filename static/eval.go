package static

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/host"
)

const (
	// wildcard is the match pattern accepting any subject.
	wildcard = "_"
	// matchVar holds the match subject while arm patterns are compared.
	matchVar = "__hotmark_subject"
)

type splice struct {
	expr *host.Expr
}

func (s splice) Evaluate(_ context.Context, scope *host.Scope, sb *strings.Builder) error {
	v, err := s.expr.Eval(scope)
	if err != nil {
		return err
	}

	host.Render(sb, v)

	return nil
}

type let struct {
	expr *host.Expr
	name string
}

func (l let) Evaluate(_ context.Context, scope *host.Scope, _ *strings.Builder) error {
	v, err := l.expr.Eval(scope)
	if err != nil {
		return err
	}

	scope.Set(l.name, v)

	return nil
}

// scoped runs body in a child scope.
type scoped struct {
	body Evaluator
}

func (s scoped) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	return s.body.Evaluate(ctx, scope.Child(), sb)
}

// optionalAttr renders name="value" unless the value is nil. name is
// escaped.
type optionalAttr struct {
	expr *host.Expr
	name string
}

func (a optionalAttr) Evaluate(_ context.Context, scope *host.Scope, sb *strings.Builder) error {
	v, err := a.expr.Eval(scope)
	if err != nil || v == nil {
		return err
	}

	sb.WriteString(" " + a.name + `="`)
	host.Render(sb, v)
	sb.WriteString(`"`)

	return nil
}

// toggledAttr renders the escaped name when cond is true.
type toggledAttr struct {
	cond *host.Expr
	name string
}

func (a toggledAttr) Evaluate(_ context.Context, scope *host.Scope, sb *strings.Builder) error {
	on, err := a.cond.EvalBool(scope)
	if err != nil || !on {
		return err
	}

	sb.WriteString(" " + a.name)

	return nil
}

type segment struct {
	head     *host.Expr
	body     Evaluator
	bind     []string
	wildcard bool
}

// taken reports whether the segment body should run. A segment without a
// head is always taken.
func (s segment) taken(scope *host.Scope) (bool, error) {
	if s.head == nil {
		return true, nil
	}

	return s.head.EvalBool(scope)
}

type ifChain []segment

func (c ifChain) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	for _, seg := range c {
		ok, err := seg.taken(scope)
		if err != nil {
			return err
		}

		if ok {
			return seg.body.Evaluate(ctx, scope.Child(), sb)
		}
	}

	return nil
}

type forLoop struct {
	seg segment
}

func (l forLoop) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	v, err := l.seg.head.Eval(scope)
	if err != nil {
		return err
	}

	return host.Iterate(scope, v, l.seg.bind, func(child *host.Scope) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		return l.seg.body.Evaluate(ctx, child, sb)
	})
}

// whileLoop runs its body in a single loop scope, so a let in the body
// rebinds the variables tested by the condition.
type whileLoop struct {
	seg segment
	max int
}

func (l whileLoop) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	loop := scope.Child()

	for n := 0; ; n++ {
		ok, err := l.seg.taken(loop)
		if err != nil || !ok {
			return err
		}

		if n >= l.max {
			return ErrMaxIterations.With(
				slog.Int("limit", l.max),
				slog.String("condition", l.seg.head.Source),
			)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := l.seg.body.Evaluate(ctx, loop, sb); err != nil {
			return err
		}
	}
}

// matchArms runs the first arm whose pattern equals the subject.
type matchArms struct {
	subject *host.Expr
	arms    []segment
}

func (m matchArms) Evaluate(ctx context.Context, scope *host.Scope, sb *strings.Builder) error {
	v, err := m.subject.Eval(scope)
	if err != nil {
		return err
	}

	cmp := scope.Child()
	cmp.Set(matchVar, v)

	for _, arm := range m.arms {
		ok := arm.wildcard

		if !ok {
			if ok, err = arm.head.EvalBool(cmp); err != nil {
				return err
			}
		}

		if ok {
			return arm.body.Evaluate(ctx, scope.Child(), sb)
		}
	}

	return nil
}
