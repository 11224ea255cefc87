package markup

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextLexer tokenizes template source from plain text.
//
// It is the front end used when source is recovered from disk at run time
// and produces the same token trees as [GoScanner] for the same input.
type TextLexer struct{}

// Tokenize implements [Tokenizer].
func (TextLexer) Tokenize(src string) ([]Token, error) {
	l := lexer{input: src, line: 1, col: 1}

	return l.run()
}

type lexer struct {
	input string
	g     grouper
	pos   int
	line  int
	col   int
}

func (l *lexer) run() ([]Token, error) {
	for {
		if err := l.skipWhitespaceAndComments(); err != nil {
			return nil, err
		}

		if l.eof() {
			return l.g.finish()
		}

		start := l.position()
		r := l.peek()

		var err error

		switch {
		case isLetter(r):
			l.scanIdentifier()
			l.g.push(leaf(KindIdent, l.input[start.Offset:l.pos], start))

		case isDecimal(r) || (r == '.' && isDecimal(l.peekAt(1))):
			l.scanNumber()
			l.g.push(leaf(KindNumber, l.input[start.Offset:l.pos], start))

		case r == '"' || r == '\'' || r == '`':
			err = l.scanString(start)

		case r == '(' || r == '[' || r == '{':
			l.advance()
			l.g.open(byte(r), start)

		case r == ')' || r == ']' || r == '}':
			l.advance()
			err = l.g.close(byte(r), start)

		default:
			l.advance()
			l.g.push(leaf(KindPunct, l.input[start.Offset:l.pos], start))
		}

		if err != nil {
			return nil, err
		}
	}
}

func (l *lexer) scanIdentifier() {
	for !l.eof() {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) {
			return
		}

		l.advance()
	}
}

func (l *lexer) scanNumber() {
	if l.peek() == '0' {
		switch lower(l.peekAt(1)) {
		case 'x', 'b', 'o':
			l.advance()
			l.advance()

			for !l.eof() && (isHex(l.peek()) || l.peek() == '_') {
				l.advance()
			}

			l.scanImaginary()

			return
		}
	}

	l.scanDigits()

	if l.peek() == '.' {
		l.advance()
		l.scanDigits()
	}

	if lower(l.peek()) == 'e' {
		l.advance()

		if r := l.peek(); r == '+' || r == '-' {
			l.advance()
		}

		l.scanDigits()
	}

	l.scanImaginary()
}

func (l *lexer) scanDigits() {
	for !l.eof() && (isDecimal(l.peek()) || l.peek() == '_') {
		l.advance()
	}
}

func (l *lexer) scanImaginary() {
	if l.peek() == 'i' {
		l.advance()
	}
}

// scanString consumes a quoted literal. Interpreted strings and character
// literals may not span lines; raw strings may.
func (l *lexer) scanString(start Position) error {
	quote := l.peek()
	l.advance()

	for {
		if l.eof() {
			return ErrLex.With(posAttr(start), slog.String("unterminated", string(quote)))
		}

		r := l.peek()
		if r == '\n' && quote != '`' {
			return ErrLex.With(posAttr(start), slog.String("unterminated", string(quote)))
		}

		l.advance()

		if r == quote {
			break
		}

		if r == '\\' && quote != '`' && !l.eof() {
			l.advance()
		}
	}

	text := l.input[start.Offset:l.pos]

	lit := text
	if quote == '`' {
		lit = strings.ReplaceAll(lit, "\r", "")
	}

	value, err := strconv.Unquote(lit)
	if err != nil {
		return ErrLex.Wrap(err).With(posAttr(start), slog.String("literal", text))
	}

	t := leaf(KindString, text, start)
	t.Value = value
	l.g.push(t)

	return nil
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n bytes past the current position, which is only
// meaningful for n within an ASCII prefix.
func (l *lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos+n:])

	return r
}

func (l *lexer) peekN(n int) string {
	end := min(l.pos+n, len(l.input))

	return l.input[l.pos:end]
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col += size
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		switch l.peekN(2) {
		case "//":
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case "/*":
			start := l.position()

			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return ErrLex.With(posAttr(start), slog.String("unterminated", "/*"))
			}

			for stop := l.pos + end + 4; l.pos < stop; {
				l.advance()
			}

		default:
			return nil
		}
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// isLetter and isDigit follow the identifier rules of the Go lexer so both
// front ends split identifiers identically.
func isLetter(r rune) bool {
	return 'a' <= lower(r) && lower(r) <= 'z' || r == '_' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return isDecimal(r) || r >= utf8.RuneSelf && unicode.IsDigit(r)
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }

func isHex(r rune) bool { return isDecimal(r) || 'a' <= lower(r) && lower(r) <= 'f' }

func lower(r rune) rune { return ('a' - 'A') | r }
