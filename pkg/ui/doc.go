// Package ui provides the presentational components shared by the
// marketplace pages: the Tooltip trigger, a Paginator and a native Select.
//
// Components are plain functions returning *vdom.VNode and are configured
// with option funcs:
//
//	ui.Tooltip(
//	    ui.TooltipID("rating-7"),
//	    ui.TooltipContent("Average of 112 client reviews"),
//	    ui.TooltipSide(tooltip.SideRight),
//	    ui.TooltipDelay(200*time.Millisecond),
//	    ui.TooltipChildren(vdom.Text("4.9")),
//	)
package ui
