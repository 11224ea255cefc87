package hotreload

import "github.com/ardnew/hotmark/pkg"

// Predefined errors (sentinel values).
var (
	ErrInterpreterFault = pkg.NewError("hot reload interpreter fault")
	ErrStrictRecovery   = pkg.NewError("failed to find template source")
	ErrNoSegmentBody    = pkg.NewError("segment body not recovered")
)
