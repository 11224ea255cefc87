package repl

import "github.com/ardnew/hotmark/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("index out of range")
	ErrEditDeclined = pkg.NewError("decline edit")
	ErrUnknownShow  = pkg.NewError("unknown output mode")
	ErrUsage        = pkg.NewError("invalid command usage")
	ErrEncodeVars   = pkg.NewError("encode variables")
	ErrDecodeVars   = pkg.NewError("decode variables")
)
