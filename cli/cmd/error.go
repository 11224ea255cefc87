package cmd

import "github.com/ardnew/hotmark/pkg"

// Sentinel errors.
var (
	ErrReadSource  = pkg.NewError("read template source")
	ErrReadVars    = pkg.NewError("read variables")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
