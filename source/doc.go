// Package source recovers the current text of a template invocation from
// the Go source file that contains it.
//
// A template compiled with hot reload knows only the file and line of its
// invocation. [Recover] opens that file, finds the invocation keyword at or
// after the line, and returns the text between the bracket that follows the
// keyword and its matching closer. The scan counts brackets only; it does
// not understand strings or comments, so brackets inside a template's
// literals must be balanced.
package source
