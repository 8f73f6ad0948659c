package site

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/lexmart/pkg/render"
	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/ui"
	"github.com/vango-dev/lexmart/pkg/vdom"
)

func renderPage(t *testing.T, p Page) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(p.Body)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

// hooks collects every tooltip hook payload in the tree.
func hooks(t *testing.T, n *vdom.VNode) []ui.TooltipSpec {
	t.Helper()
	var out []ui.TooltipSpec
	var walk func(*vdom.VNode)
	walk = func(n *vdom.VNode) {
		if n == nil {
			return
		}
		if v, ok := n.Props[vdom.HookAttr].(string); ok {
			name, raw := vdom.ParseHook(v)
			if name == ui.TooltipHook {
				var spec ui.TooltipSpec
				if err := json.Unmarshal(raw, &spec); err != nil {
					t.Fatalf("hook payload %s: %v", raw, err)
				}
				out = append(out, spec)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

func TestPages_Render(t *testing.T) {
	s := New(Options{Name: "Lexmart"})
	lawyer, ok := s.Lawyer("amara-okafor")
	if !ok {
		t.Fatal("Lawyer(amara-okafor) not found")
	}

	tests := []struct {
		name  string
		page  Page
		title string
		want  []string
	}{
		{"home", s.Home(), "Find the right lawyer · Lexmart", []string{"Legal help, without the guesswork", "Compare 14 vetted lawyers"}},
		{"directory", s.Lawyers(LawyersQuery{}), "Find a lawyer · Lexmart", []string{`<select`, `name="practice"`, `class="paginator"`, "14 results"}},
		{"profile", lawyer, "Amara Okafor · Lexmart", []string{"Cross-border acquisitions", "Corporate &amp; M&amp;A in Lagos"}},
		{"login", s.Login(), "Log in · Lexmart", []string{`type="password"`, `href="/signup"`}},
		{"signup", s.Signup(), "Join as a lawyer · Lexmart", []string{`<optgroup label="Business">`, `required`}},
		{"dashboard", s.Dashboard(), "Dashboard · Lexmart", []string{`enctype="multipart/form-data"`, `action="/api/upload"`, `name="file"`}},
		{"not found", s.NotFound(), "Not found · Lexmart", []string{"Page not found"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.page.Title != tc.title {
				t.Errorf("Title = %q, want %q", tc.page.Title, tc.title)
			}
			html := renderPage(t, tc.page)
			for _, w := range tc.want {
				if !strings.Contains(html, w) {
					t.Errorf("missing %q in %s", w, tc.name)
				}
			}
		})
	}
}

func TestPages_TooltipIDsUnique(t *testing.T) {
	s := New(Options{})
	lawyer, _ := s.Lawyer("leah-cohen")

	for name, p := range map[string]Page{
		"home":      s.Home(),
		"directory": s.Lawyers(LawyersQuery{Page: 2}),
		"profile":   lawyer,
		"signup":    s.Signup(),
		"dashboard": s.Dashboard(),
	} {
		specs := hooks(t, p.Body)
		if len(specs) == 0 {
			t.Errorf("%s: no tooltips", name)
		}
		seen := map[string]bool{}
		for _, spec := range specs {
			if spec.ID == "" || seen[spec.ID] {
				t.Errorf("%s: duplicate or empty tooltip id %q", name, spec.ID)
			}
			seen[spec.ID] = true
			if spec.Content == "" {
				t.Errorf("%s: tooltip %s has no content", name, spec.ID)
			}
		}
	}
}

func TestTooltipDefaultsApplied(t *testing.T) {
	s := New(Options{Tooltip: tooltip.Config{Delay: 300 * time.Millisecond, ClassName: "tip-dark"}})

	specs := hooks(t, s.NotFound().Body)
	want := []ui.TooltipSpec{{
		ID:        "tip-footer-disclaimer",
		Content:   "Listings are provided for information only and are not legal advice.",
		Side:      tooltip.SideTop,
		Delay:     300,
		ClassName: "tip-dark",
	}}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Fatalf("footer tooltip mismatch (-want +got):\n%s", diff)
	}
}

func TestLawyers_FilterAndPaging(t *testing.T) {
	s := New(Options{})

	html := renderPage(t, s.Lawyers(LawyersQuery{Practice: "ip"}))
	if !strings.Contains(html, "2 results") {
		t.Error("expected 2 IP results")
	}
	if strings.Contains(html, `class="paginator"`) {
		t.Error("single page of results should not render a paginator")
	}
	if !strings.Contains(html, `<option selected value="ip">`) {
		t.Error("filter select should keep the chosen practice")
	}

	html = renderPage(t, s.Lawyers(LawyersQuery{Page: 99}))
	if !strings.Contains(html, `href="/lawyers?page=2"`) {
		t.Error("clamped last page should link back to page 2")
	}
	if !strings.Contains(html, `class="page-link active">3</span>`) {
		t.Error("page 99 should clamp to page 3")
	}

	html = renderPage(t, s.Lawyers(LawyersQuery{Practice: "maritime"}))
	if !strings.Contains(html, "No lawyers match") {
		t.Error("unknown practice should render the empty state")
	}
}

func TestNavbar_MarksActive(t *testing.T) {
	html := renderPage(t, New(Options{}).Dashboard())
	if !strings.Contains(html, `aria-current="page" class="nav-link nav-link-active" href="/dashboard"`) {
		t.Errorf("dashboard link not marked active:\n%s", html)
	}
}

func TestParseLawyersQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want LawyersQuery
	}{
		{"", LawyersQuery{Page: 1}},
		{"page=3&practice=tax", LawyersQuery{Page: 3, Practice: "tax"}},
		{"page=abc", LawyersQuery{Page: 1}},
	}
	for _, tc := range tests {
		v, _ := url.ParseQuery(tc.raw)
		if got := ParseLawyersQuery(v); got != tc.want {
			t.Errorf("ParseLawyersQuery(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestDirectoryHref(t *testing.T) {
	tests := []struct {
		practice string
		page     int
		want     string
	}{
		{"", 1, "/lawyers"},
		{"", 2, "/lawyers?page=2"},
		{"ip", 1, "/lawyers?practice=ip"},
		{"ip", 3, "/lawyers?page=3&practice=ip"},
	}
	for _, tc := range tests {
		if got := directoryHref(tc.practice, tc.page); got != tc.want {
			t.Errorf("directoryHref(%q, %d) = %q, want %q", tc.practice, tc.page, got, tc.want)
		}
	}
}
