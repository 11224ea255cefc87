// Package template compiles markup templates written in Go source.
//
//	var page = template.MustNew(`html! {
//		div { "hello " (name) }
//	}`)
//
//	out, err := page.Render(ctx, map[string]any{"name": "world"})
//
// By default a template is lowered once and rendered by the static
// backend. With hot reload enabled, either by [WithHotReload] or by setting
// HOTMARK_HOTRELOAD=1, every render reads the current text of the
// invocation from the calling source file, so edits to literal text and
// element structure show up without rebuilding the program.
package template
