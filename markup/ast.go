package markup

import (
	"iter"
	"strconv"
)

// Markup is a node of a template AST. The set of implementations is closed:
// [Literal], [Symbol], [Splice], [Element], [Let], [Special], [Block] and
// [ParseError].
type Markup interface {
	isMarkup()
}

// Literal is constant text from a string or number literal.
// Text holds the decoded value, not yet escaped.
type Literal struct {
	Text string
	Span Span
}

// Symbol is a bare name rendered as escaped text.
type Symbol struct {
	Name string
	Span Span
}

// Splice is a parenthesized host expression whose value is rendered in place.
type Splice struct {
	Expr string
	Span Span
}

// Element is an HTML element. A nil Body denotes a void element written
// with a trailing semicolon.
type Element struct {
	Body  *Block
	Name  string
	Attrs []Attr
	Span  Span
}

// Attr is an element attribute.
type Attr struct {
	Type AttrType
	Name string
}

// AttrType is one of [AttrNormal], [AttrOptional] or [AttrEmpty].
type AttrType interface {
	isAttrType()
}

// AttrNormal is an attribute with a value: name="value".
type AttrNormal struct {
	Value Markup
}

// AttrOptional is an attribute rendered with the toggler's value unless the
// value is nil: name?[expr].
type AttrOptional struct {
	Toggler Toggler
}

// AttrEmpty is a value-less attribute, optionally rendered only when its
// toggler evaluates true: name or name[cond].
type AttrEmpty struct {
	Toggler *Toggler
}

// Toggler is the bracketed host expression controlling an attribute.
type Toggler struct {
	Cond string
	Span Span
}

// Let binds the value of a host expression to a name for the remainder of
// the enclosing block.
type Let struct {
	Name string
	Expr string
	Span Span
}

// SpecialKind identifies a control construct.
type SpecialKind uint8

const (
	SpecialIf    SpecialKind = iota // if
	SpecialFor                      // for
	SpecialWhile                    // while
	SpecialMatch                    // match
)

func (k SpecialKind) String() string {
	switch k {
	case SpecialIf:
		return "if"
	case SpecialFor:
		return "for"
	case SpecialWhile:
		return "while"
	case SpecialMatch:
		return "match"
	default:
		return "SpecialKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Special is a control construct made of one or more segments.
//
// An if chain has segments with keywords "if", "else if" and "else". A for
// or while loop has a single segment. A match has one segment per arm whose
// Head is the arm pattern; Subject holds the matched expression.
type Special struct {
	Subject  string
	Segments []Segment
	Span     Span
	Kind     SpecialKind
}

// Segment is one head-and-body part of a [Special].
type Segment struct {
	Body *Block
	// Keyword is "if", "else if", "else", "for", "while" or "case".
	Keyword string
	// Head is the host expression of the segment: a condition, an
	// iterable, or a match pattern. It is empty for "else".
	Head string
	// Header is the source text from the directive marker, or the match
	// pattern, up to the body.
	Header string
	// Bind lists the loop variables of a for segment.
	Bind []string
	Span Span
	// Line is the 1-based source line of Header.
	Line int
}

// Block is a braced markup sequence.
// RawBody holds the exact source text between the braces when the parser
// was asked to retain it.
type Block struct {
	RawBody    string
	Markups    []Markup
	Span       Span
	HasRawBody bool
}

// ParseError marks a location where parsing failed.
type ParseError struct {
	Message string
	Pos     Position
}

func (Literal) isMarkup() {}
func (Symbol) isMarkup() {}
func (Splice) isMarkup() {}
func (*Element) isMarkup() {}
func (Let) isMarkup() {}
func (*Special) isMarkup() {}
func (*Block) isMarkup() {}
func (ParseError) isMarkup() {}

func (AttrNormal) isAttrType() {}
func (AttrOptional) isAttrType() {}
func (AttrEmpty) isAttrType() {}

// Error implements the error interface.
func (e ParseError) Error() string {
	return "line " + strconv.Itoa(e.Pos.Line) +
		", column " + strconv.Itoa(e.Pos.Column) + ": " + e.Message
}

// ContainsLet reports whether b directly contains a [Let].
func (b *Block) ContainsLet() bool {
	if b == nil {
		return false
	}

	for _, m := range b.Markups {
		if _, ok := m.(Let); ok {
			return true
		}
	}

	return false
}

// All returns an iterator over markups and every nested markup in
// depth-first order, including attribute values and segment bodies.
func All(markups []Markup) iter.Seq[Markup] {
	return func(yield func(Markup) bool) {
		visit(markups, yield)
	}
}

func visit(markups []Markup, yield func(Markup) bool) bool {
	for _, m := range markups {
		if !yield(m) {
			return false
		}

		switch m := m.(type) {
		case *Element:
			for _, a := range m.Attrs {
				if n, ok := a.Type.(AttrNormal); ok {
					if !visit([]Markup{n.Value}, yield) {
						return false
					}
				}
			}

			if m.Body != nil && !visit(m.Body.Markups, yield) {
				return false
			}

		case *Special:
			for _, s := range m.Segments {
				if s.Body != nil && !visit(s.Body.Markups, yield) {
					return false
				}
			}

		case *Block:
			if !visit(m.Markups, yield) {
				return false
			}
		}
	}

	return true
}
