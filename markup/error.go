package markup

import (
	"log/slog"

	"github.com/ardnew/hotmark/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrLex   = pkg.NewError("tokenize failed")
	ErrParse = pkg.NewError("parse failed")
)

func posAttr(p Position) slog.Attr {
	return slog.Group("position",
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}
