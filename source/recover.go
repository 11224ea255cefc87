package source

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/hotmark/log"
)

// maxLine bounds the length of a single source line.
const maxLine = 1 << 20

// Candidates returns the paths tried by [Recover] for path, in order:
// the path itself, then the same path relative to the parent directory.
func Candidates(path string) []string {
	paths := []string{path, filepath.Join("..", path)}

	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			paths[i] = abs
		}
	}

	return paths
}

// Recover returns the body of the invocation introduced by keyword at or
// after the 1-based line of the file at path.
//
// If the keyword is followed by an opening bracket, the bracket is skipped.
// Text is then copied until the closing bracket that would take the nesting
// depth below zero; that bracket is not copied. A newline is appended after
// every line copied in full.
//
// Recover fails with [ErrSourceNotFound] if no candidate path opens, and
// with [ErrEmptyRecovery] if the recovered text is blank.
func Recover(ctx context.Context, path string, line int, keyword string) (string, error) {
	f, err := open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	log.TraceContext(ctx, "recover source",
		slog.String("file", f.Name()),
		slog.Int("line", line),
		slog.String("keyword", keyword),
	)

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLine)

	for n := 1; n < line; n++ {
		if !sc.Scan() {
			break
		}
	}

	var (
		out   strings.Builder
		depth int
	)

	for sc.Scan() {
		_, rest, found := strings.Cut(sc.Text(), keyword)
		if !found {
			continue
		}

		text := skipOpener(rest)

		for copyBalanced(&out, text, &depth) {
			out.WriteByte('\n')

			if err := ctx.Err(); err != nil {
				return "", err
			}

			if !sc.Scan() {
				break
			}

			text = sc.Text()
		}

		break
	}

	if err := sc.Err(); err != nil {
		return "", err
	}

	if strings.TrimSpace(out.String()) == "" {
		return "", ErrEmptyRecovery.With(
			slog.String("file", f.Name()),
			slog.Int("line", line),
			slog.String("keyword", keyword),
		)
	}

	return out.String(), nil
}

// open returns the first candidate of path that opens.
func open(path string) (*os.File, error) {
	var errs []string

	for _, p := range Candidates(path) {
		f, err := os.Open(p)
		if err == nil {
			return f, nil
		}

		errs = append(errs, err.Error())
	}

	return nil, ErrSourceNotFound.Wrap(errors.New(strings.Join(errs, "\n"))).
		With(slog.String("path", path))
}

// skipOpener drops an opening bracket following leading blanks of s.
func skipOpener(s string) string {
	t := strings.TrimLeft(s, " \t")
	if t != "" && strings.IndexByte("[{(", t[0]) >= 0 {
		return t[1:]
	}

	return s
}

// copyBalanced copies text to out, tracking bracket depth. It reports false
// when it reaches the closer of the recovered body.
func copyBalanced(out *strings.Builder, text string, depth *int) bool {
	for i := range len(text) {
		switch c := text[i]; c {
		case '[', '{', '(':
			*depth++
		case ']', '}', ')':
			if *depth--; *depth < 0 {
				return false
			}
		}

		out.WriteByte(text[i])
	}

	return true
}
