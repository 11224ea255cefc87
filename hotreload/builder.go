package hotreload

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/hotmark/host"
	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/markup"
	"github.com/ardnew/hotmark/static"
)

// Step computes one value of a [Plan]. A step with an empty ID is a
// binding: it runs for its effect on the scope and produces no value.
type Step struct {
	Eval static.Evaluator
	ID   string
}

// Plan is a template lowered for hot reload.
type Plan struct {
	Format string
	Steps  []Step
	Pieces int
}

// Vars runs the steps of p in scope and returns the rendered value of every
// dynamic piece keyed by its var-id.
func (p *Plan) Vars(ctx context.Context, scope *host.Scope) (map[string]string, error) {
	vars := make(map[string]string, p.Pieces)

	for _, step := range p.Steps {
		var sb strings.Builder

		if err := step.Eval.Evaluate(ctx, scope, &sb); err != nil {
			return nil, err
		}

		if step.ID != "" {
			vars[step.ID] = sb.String()
		}
	}

	return vars, nil
}

// Build lowers markups into a [Plan]. Each dynamic piece is lowered with
// the static generator configured by opts.
func Build(ctx context.Context, markups []markup.Markup, opts ...static.Option) (*Plan, error) {
	b := &builder{opts: opts, live: true}

	if err := b.markups(markups); err != nil {
		return nil, err
	}

	plan := &Plan{Format: b.format.String(), Steps: b.steps, Pieces: b.next}

	log.TraceContext(ctx, "build plan",
		slog.Int("pieces", plan.Pieces),
		slog.Int("steps", len(plan.Steps)),
	)

	return plan, nil
}

// FormatString returns the format string of markups and the number of
// placeholders in it without lowering any dynamic piece.
func FormatString(markups []markup.Markup) (string, int, error) {
	var b builder

	if err := b.markups(markups); err != nil {
		return "", 0, err
	}

	return b.format.String(), b.next, nil
}

// EscapeFormat escapes the format-string metacharacters of s.
func EscapeFormat(s string) string {
	if !strings.ContainsAny(s, `\{}`) {
		return s
	}

	return formatEscaper.Replace(s)
}

//nolint:gochecknoglobals
var formatEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

type builder struct {
	format strings.Builder
	opts   []static.Option
	steps  []Step
	next   int
	// live builders lower dynamic pieces; others only number them.
	live bool
}

func (b *builder) text(s string) {
	b.format.WriteString(EscapeFormat(markup.Escape(s)))
}

func (b *builder) piece(lower func() (static.Evaluator, error)) error {
	id := strconv.Itoa(b.next)
	b.next++

	b.format.WriteString("{" + id + "}")

	if !b.live {
		return nil
	}

	e, err := lower()
	if err != nil {
		return err
	}

	b.steps = append(b.steps, Step{ID: id, Eval: e})

	return nil
}

func (b *builder) markups(markups []markup.Markup) error {
	for _, m := range markups {
		if err := b.markup(m); err != nil {
			return err
		}
	}

	return nil
}

func (b *builder) markup(m markup.Markup) error {
	switch m := m.(type) {
	case markup.Literal:
		b.text(m.Text)

	case markup.Symbol:
		b.text(m.Name)

	case markup.Splice, *markup.Special:
		return b.piece(func() (static.Evaluator, error) {
			if s, ok := m.(*markup.Special); ok {
				return static.LowerSpecial(s, b.opts...)
			}

			return static.Generate([]markup.Markup{m}, 0, b.opts...)
		})

	case *markup.Element:
		return b.element(m)

	case markup.Let:
		if !b.live {
			return nil
		}

		prog, err := static.Generate([]markup.Markup{m}, 0, b.opts...)
		if err != nil {
			return err
		}

		b.steps = append(b.steps, Step{Eval: prog})

	case *markup.Block:
		return b.block(m)

	case markup.ParseError:
		// renders nothing
	}

	return nil
}

// block lowers b inline unless it binds variables, in which case the whole
// block is one dynamic piece.
func (b *builder) block(bl *markup.Block) error {
	if !bl.ContainsLet() {
		return b.markups(bl.Markups)
	}

	return b.piece(func() (static.Evaluator, error) {
		prog, err := static.Generate(bl.Markups, 0, b.opts...)
		if err != nil {
			return nil, err
		}

		return static.Scoped(prog), nil
	})
}

// escapedName returns the escaped name of an element or attribute.
func escapedName(s string) string { return EscapeFormat(markup.Escape(s)) }

func (b *builder) element(el *markup.Element) error {
	b.format.WriteString("<" + escapedName(el.Name))

	for _, a := range el.Attrs {
		if err := b.attr(a); err != nil {
			return err
		}
	}

	b.format.WriteString(">")

	if el.Body == nil {
		return nil
	}

	if err := b.block(el.Body); err != nil {
		return err
	}

	b.format.WriteString("</" + escapedName(el.Name) + ">")

	return nil
}

func (b *builder) attr(a markup.Attr) error {
	switch t := a.Type.(type) {
	case markup.AttrNormal:
		b.format.WriteString(" " + escapedName(a.Name) + `="`)

		if err := b.markup(t.Value); err != nil {
			return err
		}

		b.format.WriteString(`"`)

	case markup.AttrEmpty:
		if t.Toggler == nil {
			b.format.WriteString(" " + escapedName(a.Name))

			return nil
		}

		return b.toggled(a)

	case markup.AttrOptional:
		return b.toggled(a)
	}

	return nil
}

func (b *builder) toggled(a markup.Attr) error {
	return b.piece(func() (static.Evaluator, error) {
		return static.LowerAttr(a, b.opts...)
	})
}
