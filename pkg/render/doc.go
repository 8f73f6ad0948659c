// Package render writes vdom trees as HTML.
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// RenderPage wraps a body and an overlay root in a complete document.
// Text and attribute values are always escaped; KindRaw nodes are written
// verbatim and must only carry trusted content. Attributes are emitted in
// sorted order so output is stable across runs.
package render
