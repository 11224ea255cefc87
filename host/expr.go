package host

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Expr is a compiled host expression.
type Expr struct {
	program *vm.Program
	Source  string
}

// Compile compiles source into an [Expr]. Identifiers are resolved when
// the expression runs, so source may refer to names that are only bound
// later by a [Scope].
func Compile(source string) (*Expr, error) {
	program, err := expr.Compile(source)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).With(slog.String("source", source))
	}

	return &Expr{Source: source, program: program}, nil
}

// MustCompile is like [Compile] but panics on error.
func MustCompile(source string) *Expr {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}

	return e
}

// Eval runs the expression against the variables of scope.
func (e *Expr) Eval(scope *Scope) (any, error) {
	out, err := vm.Run(e.program, scope.Map())
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).With(slog.String("source", e.Source))
	}

	return out, nil
}

// EvalBool runs the expression and requires a boolean result.
func (e *Expr) EvalBool(scope *Scope) (bool, error) {
	out, err := e.Eval(scope)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, ErrNotBoolean.With(
			slog.String("source", e.Source),
			slog.String("type", fmt.Sprintf("%T", out)),
		)
	}

	return b, nil
}

// String returns the expression source.
func (e *Expr) String() string { return e.Source }
