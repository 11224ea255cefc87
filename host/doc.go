// Package host evaluates the expressions embedded in templates.
//
// Expressions are compiled once with [github.com/expr-lang/expr] and run
// against a [Scope], a map of variables seeded with built-in functions and
// the caller's environment. Values produced by expressions are turned into
// escaped HTML text by [Render].
package host
