package markup

import (
	"go/scanner"
	"go/token"
	"log/slog"
	"strconv"
	"strings"
)

// GoScanner tokenizes template source with the Go lexer from [go/scanner].
//
// It is the front end used when a template is constructed in Go code:
// keywords are reported as identifiers, automatic semicolons are dropped,
// and characters that are not legal Go (such as @ and ?) are reported as
// punctuation rather than errors.
type GoScanner struct{}

// Tokenize implements [Tokenizer].
func (GoScanner) Tokenize(src string) ([]Token, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var (
		errs scanner.ErrorList
		s    scanner.Scanner
		g    grouper
	)

	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		// Characters outside the Go token set are accepted as punctuation.
		if strings.HasPrefix(msg, "illegal character") {
			return
		}

		errs.Add(pos, msg)
	}, 0)

	for {
		at, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}

		p := file.Position(at)
		pos := Position{Offset: p.Offset, Line: p.Line, Column: p.Column}

		switch {
		case tok == token.SEMICOLON && lit == "\n":
			// inserted by the scanner, not present in src

		case tok == token.IDENT || tok.IsKeyword():
			g.push(leaf(KindIdent, lit, pos))

		case tok == token.INT || tok == token.FLOAT || tok == token.IMAG:
			g.push(leaf(KindNumber, lit, pos))

		case tok == token.STRING || tok == token.CHAR:
			text := lit
			if strings.HasPrefix(lit, "`") {
				// raw strings are reported with carriage returns removed
				if end := strings.IndexByte(src[pos.Offset+1:], '`'); end >= 0 {
					text = src[pos.Offset : pos.Offset+end+2]
				}
			}

			value, err := strconv.Unquote(lit)
			if err != nil {
				errs.Add(p, "invalid literal "+lit)

				continue
			}

			t := leaf(KindString, text, pos)
			t.Value = value
			g.push(t)

		case tok == token.ILLEGAL:
			g.push(leaf(KindPunct, lit, pos))

		default:
			// Operators and delimiters are split into single characters.
			op := tok.String()
			if tok == token.SEMICOLON {
				op = ";"
			}

			for i := range len(op) {
				cp := pos
				cp.Offset += i
				cp.Column += i

				var err error

				switch c := op[i]; c {
				case '(', '[', '{':
					g.open(c, cp)
				case ')', ']', '}':
					err = g.close(c, cp)
				default:
					g.push(leaf(KindPunct, op[i:i+1], cp))
				}

				if err != nil {
					return nil, err
				}
			}
		}
	}

	if len(errs) > 0 {
		errs.Sort()

		first := errs[0]

		return nil, ErrLex.Wrap(first).With(
			posAttr(Position{
				Offset: first.Pos.Offset,
				Line:   first.Pos.Line,
				Column: first.Pos.Column,
			}),
			slog.Int("errors", len(errs)),
		)
	}

	return g.finish()
}

func leaf(kind Kind, text string, pos Position) Token {
	return Token{
		Kind:  kind,
		Text:  text,
		Value: text,
		Pos:   pos,
		Span:  Span{Start: pos.Offset, End: pos.Offset + len(text)},
	}
}
