// Package hotreload renders templates from the current text of their
// invocation on disk.
//
// At compile time [Build] lowers a template into a [Plan]: a format string
// holding the template's literal text with a numbered placeholder for every
// dynamic piece, and the steps that compute each piece. At render time a
// [Template] recovers the invocation's source with [source.Recover],
// computes the placeholder values once from the compiled plan, and
// substitutes them into a format string derived from the recovered text by
// [Run].
//
// Placeholders are numbered by traversal order alone, so edits that change
// literal text, element structure or attribute text render without
// recompilation. Edits that add, remove or reorder dynamic pieces are
// reported as [ErrInterpreterFault] and rendered as a visible error marker.
//
// # Format strings
//
// Literal text in a format string is HTML-escaped, then '\', '{' and '}'
// are escaped with a backslash. A placeholder is a decimal var-id in braces:
//
//	<div>hello {0}</div>
package hotreload
