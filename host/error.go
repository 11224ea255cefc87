package host

import "github.com/ardnew/hotmark/pkg"

// Predefined errors (sentinel values).
var (
	ErrExprCompile  = pkg.NewError("expression compilation failed")
	ErrExprEvaluate = pkg.NewError("expression evaluation failed")
	ErrNotBoolean   = pkg.NewError("condition is not a boolean")
	ErrNotIterable  = pkg.NewError("value is not iterable")
)
