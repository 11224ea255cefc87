package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/hotmark/hotreload"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/static"
)

// showMode selects what the REPL prints for markup entered in render mode.
type showMode int

const (
	showHTML showMode = iota
	showAST
	showPlan
	showJSON
)

var showModeNames = [...]string{"html", "ast", "plan", "json"}

func (s showMode) String() string {
	if int(s) < len(showModeNames) {
		return showModeNames[s]
	}

	return "unknown"
}

func parseShowMode(name string) (showMode, error) {
	for i, n := range showModeNames {
		if strings.EqualFold(n, name) {
			return showMode(i), nil
		}
	}

	return 0, ErrUnknownShow.With(slog.String("mode", name))
}

// renderInput parses input and renders it according to show.
func renderInput(
	ctx context.Context,
	input string,
	env map[string]any,
	show showMode,
	logger log.Logger,
) (string, error) {
	ast, err := markup.Parse(ctx, input, markup.WithLogger(logger))
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	switch show {
	case showAST:
		if err := ast.Print(&sb); err != nil {
			return "", err
		}

	case showPlan:
		format, pieces, err := hotreload.FormatString(ast.Markups)
		if err != nil {
			return "", err
		}

		sb.WriteString(format)
		sb.WriteString("\n")
		sb.WriteString(plural(pieces, "dynamic piece"))

	case showJSON:
		if err := ast.FormatJSON(ctx, &sb, 2); err != nil {
			return "", err
		}

	default:
		return static.Render(ctx, ast.Markups, env, static.WithLogger(logger))
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}
