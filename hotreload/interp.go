package hotreload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
)

// Run renders raw, the recovered text of a template invocation, by
// substituting vars into its format string.
//
// Malformed markup in raw renders nothing and is logged. Any other failure
// is reported as [ErrInterpreterFault], including a panic while parsing or
// substituting, a placeholder with no value, and a placeholder count that
// differs from len(vars).
func Run(ctx context.Context, raw string, vars map[string]string) (string, error) {
	ast, err := reparse(ctx, raw, log.Default())
	if err != nil {
		return "", err
	}

	return interpret(ast, vars)
}

// reparse parses recovered text with the run-time lexer, keeping the raw
// bodies of its blocks for nested templates. Parse errors are logged and
// the partial tree is returned.
func reparse(ctx context.Context, raw string, logger log.Logger) (ast *markup.AST, err error) {
	defer func() {
		if r := recover(); r != nil {
			ast = nil
			err = ErrInterpreterFault.Wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	ast, err = markup.Parse(ctx, raw,
		markup.WithTokenizer(markup.TextLexer{}),
		markup.WithKeyword(""),
		markup.WithRawBodies(true),
		markup.WithLogger(logger),
	)
	if ast == nil {
		return nil, ErrInterpreterFault.Wrap(err)
	}

	if err != nil {
		logger.WarnContext(ctx, "recovered source has parse errors",
			slog.Int("diagnostics", len(ast.Diagnostics)),
			slog.Any("error", err),
		)
	}

	return ast, nil
}

// interpret substitutes vars into the format string of ast.
func interpret(ast *markup.AST, vars map[string]string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = ErrInterpreterFault.Wrap(fmt.Errorf("panic: %v", r))
		}
	}()

	format, n, err := FormatString(ast.Markups)
	if err != nil {
		return "", ErrInterpreterFault.Wrap(err)
	}

	if n != len(vars) {
		return "", ErrInterpreterFault.Wrap(
			fmt.Errorf("%d placeholders, %d values", n, len(vars)),
		).With(
			slog.Int("placeholders", n),
			slog.Int("values", len(vars)),
		)
	}

	return Substitute(format, vars)
}

// Substitute replaces every placeholder of format with its value in vars
// and removes the escapes from the literal text.
func Substitute(format string, vars map[string]string) (string, error) {
	var sb strings.Builder

	sb.Grow(len(format))

	for i := 0; i < len(format); i++ {
		switch c := format[i]; c {
		case '\\':
			if i+1 >= len(format) {
				return "", ErrInterpreterFault.Wrap(errors.New("trailing escape"))
			}

			i++
			sb.WriteByte(format[i])

		case '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", ErrInterpreterFault.Wrap(errors.New("unterminated placeholder"))
			}

			id := format[i+1 : i+end]

			v, ok := vars[id]
			if !ok {
				return "", ErrInterpreterFault.Wrap(fmt.Errorf("no value for placeholder {%s}", id)).
					With(slog.String("missing", id))
			}

			sb.WriteString(v)

			i += end

		case '}':
			return "", ErrInterpreterFault.Wrap(errors.New("unmatched '}'"))

		default:
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}

// RenderError returns a visible marker for a failed hot reload of raw.
func RenderError(raw string, err error) string {
	var sb strings.Builder

	sb.WriteString("<pre data-hotmark-error>")
	markup.EscapeTo(&sb, err.Error())
	sb.WriteString("\n\n")
	markup.EscapeTo(&sb, raw)
	sb.WriteString("</pre>")

	return sb.String()
}
