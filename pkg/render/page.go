package render

import (
	"io"

	"github.com/vango-dev/lexmart/pkg/vdom"
)

// PageData contains everything needed to render a complete document.
type PageData struct {
	// Title is the document title.
	Title string

	// Lang is the html lang attribute. Defaults to "en".
	Lang string

	// Body is the page content.
	Body *vdom.VNode

	// Overlay is rendered after Body as the top-level portal target.
	Overlay *vdom.VNode

	// StyleSheets are linked in the head.
	StyleSheets []string

	// Scripts are loaded with defer at the end of the body.
	Scripts []string

	// LivePath, when set, is exposed to the client runtime as the
	// WebSocket endpoint for tooltip sessions.
	LivePath string
}

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	ew := &errWriter{w: w}
	ew.WriteString("<!DOCTYPE html>\n")
	ew.WriteString(`<html lang="` + escapeAttr(lang) + `">` + "\n")

	ew.WriteString("<head>\n")
	ew.WriteString(`  <meta charset="utf-8">` + "\n")
	ew.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		ew.WriteString("  <title>" + escapeHTML(page.Title) + "</title>\n")
	}
	for _, href := range page.StyleSheets {
		ew.WriteString(`  <link rel="stylesheet" href="` + escapeAttr(href) + `">` + "\n")
	}
	ew.WriteString("</head>\n")

	if page.LivePath != "" {
		ew.WriteString(`<body data-live="` + escapeAttr(page.LivePath) + `">` + "\n")
	} else {
		ew.WriteString("<body>\n")
	}
	r.renderNode(ew, page.Body, 0)
	r.renderNode(ew, page.Overlay, 0)
	for _, src := range page.Scripts {
		ew.WriteString(`  <script src="` + escapeAttr(src) + `" defer></script>` + "\n")
	}
	ew.WriteString("</body>\n</html>\n")

	return ew.err
}
