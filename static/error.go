package static

import "github.com/ardnew/hotmark/pkg"

// Predefined errors (sentinel values).
var (
	ErrMaxIterations  = pkg.NewError("loop iteration limit exceeded")
	ErrUnknownSpecial = pkg.NewError("unsupported control construct")
)
