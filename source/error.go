package source

import "github.com/ardnew/hotmark/pkg"

// Predefined errors (sentinel values).
var (
	ErrSourceNotFound = pkg.NewError("source file not found")
	ErrEmptyRecovery  = pkg.NewError("recovered source is empty")
)
