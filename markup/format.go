package markup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the AST in canonical template syntax to the writer.
// With indent > 0 every markup is placed on its own line; otherwise the
// output is a single line.
func (ast *AST) Format(ctx context.Context, w io.Writer, indent int) error {
	ast.logger.TraceContext(ctx, "format native", slog.Int("indent", indent))

	f := formatter{indent: indent}

	if ast.Keyword != "" {
		f.sb.WriteString(ast.Keyword)
		f.sb.WriteByte(' ')
		f.block(ast.Markups, 0)
	} else {
		f.list(ast.Markups, 0)
	}

	f.sb.WriteByte('\n')

	_, err := io.WriteString(w, f.sb.String())

	return err
}

// FormatJSON writes the AST as JSON to the writer.
func (ast *AST) FormatJSON(ctx context.Context, w io.Writer, indent int) error {
	ast.logger.TraceContext(ctx, "format json", slog.Int("indent", indent))

	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ast, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ast)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the AST as YAML to the writer.
func (ast *AST) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	ast.logger.TraceContext(ctx, "format yaml", slog.Int("indent", indent))

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ast.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

type formatter struct {
	sb     strings.Builder
	indent int
}

func (f *formatter) newline(depth int) {
	if f.indent > 0 {
		f.sb.WriteByte('\n')
		f.sb.WriteString(strings.Repeat(" ", f.indent*depth))
	} else {
		f.sb.WriteByte(' ')
	}
}

func (f *formatter) list(markups []Markup, depth int) {
	for i, m := range markups {
		if i > 0 {
			f.newline(depth)
		}

		f.markup(m, depth)
	}
}

func (f *formatter) block(markups []Markup, depth int) {
	if len(markups) == 0 {
		f.sb.WriteString("{}")

		return
	}

	f.sb.WriteByte('{')
	f.newline(depth + 1)
	f.list(markups, depth+1)
	f.newline(depth)
	f.sb.WriteByte('}')
}

func (f *formatter) markup(m Markup, depth int) {
	switch m := m.(type) {
	case Literal:
		f.sb.WriteString(strconv.Quote(m.Text))

	case Symbol:
		f.sb.WriteString(m.Name)

	case Splice:
		f.sb.WriteString("(" + m.Expr + ")")

	case *Element:
		f.sb.WriteString(m.Name)

		for _, a := range m.Attrs {
			f.sb.WriteByte(' ')
			f.attr(a, depth)
		}

		if m.Body == nil {
			f.sb.WriteByte(';')

			return
		}

		f.sb.WriteByte(' ')
		f.block(m.Body.Markups, depth)

	case Let:
		f.sb.WriteString("@let " + m.Name + " = " + m.Expr + ";")

	case *Special:
		f.special(m, depth)

	case *Block:
		f.block(m.Markups, depth)

	case ParseError:
		f.sb.WriteString("/* " + strings.ReplaceAll(m.Error(), "*/", "* /") + " */")
	}
}

func (f *formatter) attr(a Attr, depth int) {
	f.sb.WriteString(a.Name)

	switch t := a.Type.(type) {
	case AttrNormal:
		f.sb.WriteByte('=')
		f.markup(t.Value, depth)

	case AttrOptional:
		f.sb.WriteString("?[" + t.Toggler.Cond + "]")

	case AttrEmpty:
		if t.Toggler != nil {
			f.sb.WriteString("[" + t.Toggler.Cond + "]")
		}
	}
}

func (f *formatter) special(s *Special, depth int) {
	switch s.Kind {
	case SpecialIf:
		for i, seg := range s.Segments {
			if i > 0 {
				f.sb.WriteByte(' ')
			}

			f.sb.WriteString("@" + seg.Keyword)

			if seg.Head != "" {
				f.sb.WriteString(" " + seg.Head)
			}

			f.sb.WriteByte(' ')
			f.block(seg.Body.Markups, depth)
		}

	case SpecialFor:
		seg := s.Segments[0]
		f.sb.WriteString("@for " + strings.Join(seg.Bind, ", ") + " in " + seg.Head + " ")
		f.block(seg.Body.Markups, depth)

	case SpecialWhile:
		seg := s.Segments[0]
		f.sb.WriteString("@while " + seg.Head + " ")
		f.block(seg.Body.Markups, depth)

	case SpecialMatch:
		f.sb.WriteString("@match " + s.Subject + " {")

		for _, seg := range s.Segments {
			f.newline(depth + 1)
			f.sb.WriteString(seg.Head + " => ")
			f.block(seg.Body.Markups, depth+1)
			f.sb.WriteByte(',')
		}

		f.newline(depth)
		f.sb.WriteByte('}')
	}
}
