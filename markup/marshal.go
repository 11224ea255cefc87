package markup

import "encoding/json"

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToMap())
}

// ToMap converts the AST to a native Go map structure.
func (ast *AST) ToMap() map[string]any {
	result := map[string]any{
		"markups": nativeList(ast.Markups),
	}

	if ast.Keyword != "" {
		result["keyword"] = ast.Keyword
	}

	if len(ast.Diagnostics) > 0 {
		diags := make([]any, len(ast.Diagnostics))
		for i, d := range ast.Diagnostics {
			diags[i] = ToNative(d)
		}

		result["diagnostics"] = diags
	}

	return result
}

// ToNative converts a markup to maps, slices and strings. Every map carries
// a "type" key naming the markup kind.
func ToNative(m Markup) any {
	switch m := m.(type) {
	case Literal:
		return map[string]any{"type": "literal", "text": m.Text}

	case Symbol:
		return map[string]any{"type": "symbol", "name": m.Name}

	case Splice:
		return map[string]any{"type": "splice", "expr": m.Expr}

	case *Element:
		el := map[string]any{"type": "element", "name": m.Name}

		if len(m.Attrs) > 0 {
			attrs := make([]any, len(m.Attrs))
			for i, a := range m.Attrs {
				attrs[i] = nativeAttr(a)
			}

			el["attrs"] = attrs
		}

		if m.Body != nil {
			el["body"] = nativeList(m.Body.Markups)
		}

		return el

	case Let:
		return map[string]any{"type": "let", "name": m.Name, "expr": m.Expr}

	case *Special:
		segs := make([]any, len(m.Segments))

		for i, s := range m.Segments {
			seg := map[string]any{
				"keyword": s.Keyword,
				"body":    nativeList(s.Body.Markups),
			}

			if s.Head != "" {
				seg["head"] = s.Head
			}

			if len(s.Bind) > 0 {
				bind := make([]any, len(s.Bind))
				for j, b := range s.Bind {
					bind[j] = b
				}

				seg["bind"] = bind
			}

			segs[i] = seg
		}

		sp := map[string]any{"type": m.Kind.String(), "segments": segs}
		if m.Subject != "" {
			sp["subject"] = m.Subject
		}

		return sp

	case *Block:
		return map[string]any{"type": "block", "body": nativeList(m.Markups)}

	case ParseError:
		return map[string]any{
			"type":    "error",
			"message": m.Message,
			"line":    m.Pos.Line,
			"column":  m.Pos.Column,
		}
	}

	return nil
}

func nativeList(markups []Markup) []any {
	out := make([]any, len(markups))
	for i, m := range markups {
		out[i] = ToNative(m)
	}

	return out
}

func nativeAttr(a Attr) map[string]any {
	out := map[string]any{"name": a.Name}

	switch t := a.Type.(type) {
	case AttrNormal:
		out["kind"] = "normal"
		out["value"] = ToNative(t.Value)

	case AttrOptional:
		out["kind"] = "optional"
		out["toggler"] = t.Toggler.Cond

	case AttrEmpty:
		out["kind"] = "empty"

		if t.Toggler != nil {
			out["toggler"] = t.Toggler.Cond
		}
	}

	return out
}
