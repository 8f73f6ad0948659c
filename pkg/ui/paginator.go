package ui

import (
	"strconv"

	"github.com/vango-dev/lexmart/pkg/vdom"
)

// paginatorWindow is the number of page links shown around the current page.
const paginatorWindow = 2

// Gap marks an elided run of pages in a PageWindow result.
const Gap = 0

// PageWindow returns the pages to link for current of total: the first and
// last page, current and paginatorWindow neighbours on each side, with Gap
// where pages are skipped. current is clamped into [1, total].
func PageWindow(current, total int) []int {
	if total < 1 {
		return nil
	}
	current = clampPage(current, total)

	lo := max(1, current-paginatorWindow)
	hi := min(total, current+paginatorWindow)

	var pages []int
	if lo > 1 {
		pages = append(pages, 1)
		if lo > 2 {
			pages = append(pages, Gap)
		}
	}
	for p := lo; p <= hi; p++ {
		pages = append(pages, p)
	}
	if hi < total {
		if hi < total-1 {
			pages = append(pages, Gap)
		}
		pages = append(pages, total)
	}
	return pages
}

func clampPage(p, total int) int {
	return max(1, min(p, total))
}

// Paginator renders prev/next links around a PageWindow. It renders nothing
// when there is a single page.
func Paginator(current, total int, href func(page int) string) *vdom.VNode {
	if total <= 1 {
		return nil
	}
	current = clampPage(current, total)

	link := func(page int, label string, disabled bool) *vdom.VNode {
		if disabled {
			return vdom.Span(vdom.Class("page-link disabled"), vdom.AriaDisabled(true), label)
		}
		return vdom.A(vdom.Class("page-link"), vdom.Href(href(page)), label)
	}

	items := []any{
		link(current-1, "Previous", current == 1),
	}
	for _, p := range PageWindow(current, total) {
		switch {
		case p == Gap:
			items = append(items, vdom.Span(vdom.Class("page-gap"), vdom.AriaHidden(true), "…"))
		case p == current:
			items = append(items, vdom.Span(vdom.Class("page-link active"), vdom.AriaCurrent("page"), strconv.Itoa(p)))
		default:
			items = append(items, link(p, strconv.Itoa(p), false))
		}
	}
	items = append(items, link(current+1, "Next", current == total))

	return vdom.Nav(append([]any{vdom.Class("paginator"), vdom.AriaLabel("Pagination")}, items...)...)
}
