package markup

import (
	"io"
	"strconv"
	"strings"
)

// Print writes an indented tree of the AST to the writer.
func (ast *AST) Print(w io.Writer) error {
	return PrintIndent(w, ast.Markups, 0)
}

// PrintIndent writes an indented tree of markups starting at the given
// depth.
func PrintIndent(w io.Writer, markups []Markup, indent int) (err error) {
	defer func() {
		// writer reports write failures by panicking
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}

			err = e
		}
	}()

	for _, m := range markups {
		printMarkup(w, m, indent)
	}

	return nil
}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

func printMarkup(w io.Writer, m Markup, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	switch m := m.(type) {
	case Literal:
		put("\n", prefix+"Literal", strconv.Quote(m.Text))

	case Symbol:
		put("\n", prefix+"Symbol", m.Name)

	case Splice:
		put("\n", prefix+"Splice", m.Expr)

	case *Element:
		kind := "Element"
		if m.Body == nil {
			kind = "Void"
		}

		put("\n", prefix+kind, m.Name)

		for _, a := range m.Attrs {
			switch t := a.Type.(type) {
			case AttrNormal:
				put(":\n", prefix+"  Attr", a.Name)
				printMarkup(w, t.Value, indent+2)
			case AttrOptional:
				put("\n", prefix+"  Optional", a.Name, t.Toggler.Cond)
			case AttrEmpty:
				if t.Toggler != nil {
					put("\n", prefix+"  Empty", a.Name, t.Toggler.Cond)
				} else {
					put("\n", prefix+"  Empty", a.Name)
				}
			}
		}

		if m.Body != nil {
			for _, c := range m.Body.Markups {
				printMarkup(w, c, indent+1)
			}
		}

	case Let:
		put("\n", prefix+"Let", m.Name, m.Expr)

	case *Special:
		if m.Subject != "" {
			put("\n", prefix+"Special", m.Kind.String(), m.Subject)
		} else {
			put("\n", prefix+"Special", m.Kind.String())
		}

		for _, s := range m.Segments {
			head := s.Keyword
			if len(s.Bind) > 0 {
				head += " " + strings.Join(s.Bind, ", ") + " in"
			}

			if s.Head != "" {
				head += " " + s.Head
			}

			put(":\n", prefix+"  Segment", head)

			for _, c := range s.Body.Markups {
				printMarkup(w, c, indent+2)
			}
		}

	case *Block:
		put("\n", prefix+"Block")

		for _, c := range m.Markups {
			printMarkup(w, c, indent+1)
		}

	case ParseError:
		put("\n", prefix+"ParseError", m.Error())
	}
}
