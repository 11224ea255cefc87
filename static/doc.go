// Package static lowers a template AST into a [Program]: a flat sequence of
// operations that either append pre-escaped text or evaluate a dynamic
// piece. Adjacent literal text is merged, so a template with no dynamic
// pieces becomes a single append.
package static
