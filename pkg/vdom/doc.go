// Package vdom describes page trees as plain Go values.
//
// VNode represents elements, text, fragments, components and raw HTML.
// Elements are built with variadic factories:
//
//	Div(Class("card"), ID("lawyer-7"),
//	    H3(Text("Jane Doe")),
//	    Span(Hook("Tooltip", map[string]any{"side": "right"}), Text("?")),
//	)
//
// Attributes are last-wins except class, which accumulates. Hook attaches a
// client behaviour by name; the live runtime reads it back with ParseHook.
package vdom
