package site

import (
	"fmt"
	"net/url"
	"strconv"

	. "github.com/vango-dev/lexmart/pkg/vdom"

	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/ui"
)

// PerPage is the number of listings on a directory page.
const PerPage = 6

// Options configures the page set.
type Options struct {
	// Name is the brand shown in the header and page titles.
	Name string

	// Tooltip holds the defaults applied to every tooltip on the site.
	Tooltip tooltip.Config

	// UploadPath is where the avatar form posts.
	UploadPath string
}

// Page is a rendered page body and its title.
type Page struct {
	Title string
	Body  *VNode
}

// Site builds the marketplace pages.
type Site struct {
	opts Options
}

// New returns a Site. Empty options take their defaults.
func New(opts Options) *Site {
	if opts.Name == "" {
		opts.Name = "Lexmart"
	}
	if opts.UploadPath == "" {
		opts.UploadPath = "/api/upload"
	}
	if opts.Tooltip.Side == "" {
		opts.Tooltip.Side = tooltip.DefaultSide
	}
	return &Site{opts: opts}
}

// Name returns the brand name.
func (s *Site) Name() string { return s.opts.Name }

func (s *Site) page(title, active string, content ...any) Page {
	return Page{
		Title: title + " · " + s.opts.Name,
		Body: Div(Class("min-h-screen flex flex-col"),
			s.navbar(active),
			Main(Class("flex-1 max-w-6xl w-full mx-auto px-5 py-8"), content),
			s.footer(),
		),
	}
}

func (s *Site) navbar(active string) *VNode {
	link := func(href, label string) *VNode {
		return A(Href(href),
			Class("nav-link"),
			ClassIf(active == href, "nav-link-active"),
			AttrIf(active == href, AriaCurrent("page")),
			Text(label),
		)
	}
	return Header(Class("border-b border-gray-200"),
		Div(Class("max-w-6xl mx-auto px-5 py-4 flex items-center justify-between"),
			A(Href("/"), Class("font-bold text-lg"), Text(s.opts.Name)),
			Nav(Class("flex items-center gap-4"), AriaLabel("Main"),
				link("/lawyers", "Find a lawyer"),
				link("/dashboard", "Dashboard"),
				link("/login", "Log in"),
				A(Href("/signup"), Class("btn btn-primary"), Text("Join as a lawyer")),
			),
		),
	)
}

func (s *Site) footer() *VNode {
	return Footer(Class("border-t border-gray-200 text-sm text-gray-500"),
		Div(Class("max-w-6xl mx-auto px-5 py-6 flex justify-between"),
			Span(Textf("© %s", s.opts.Name)),
			s.tip("tip-footer-disclaimer", "Listings are provided for information only and are not legal advice.",
				Span(Class("underline decoration-dotted"), Text("Disclaimer"))),
		),
	)
}

// tip renders a tooltip trigger with the site defaults.
func (s *Site) tip(id, content string, children ...any) *VNode {
	return s.tipSide(s.opts.Tooltip.Side, id, content, children...)
}

func (s *Site) tipSide(side tooltip.Side, id, content string, children ...any) *VNode {
	return ui.Tooltip(
		ui.TooltipID(id),
		ui.TooltipContent(content),
		ui.TooltipSide(side),
		ui.TooltipDelay(s.opts.Tooltip.Delay),
		ui.TooltipClass(s.opts.Tooltip.ClassName),
		ui.TooltipChildren(children...),
	)
}

// Home is the marketing landing page.
func (s *Site) Home() Page {
	features := []struct {
		id, title, body, hint string
	}{
		{"tip-feature-verified", "Verified profiles", "Every badge is checked against the bar register.", "We confirm bar membership before a profile goes live."},
		{"tip-feature-pricing", "Transparent pricing", "Hourly rates are published up front.", "Rates shown are the lawyer's standard hourly fee."},
		{"tip-feature-reviews", "Real reviews", "Ratings come from completed consultations only.", "Only clients with a completed consultation can leave a review."},
	}

	return s.page("Find the right lawyer", "/",
		Section(Class("hero text-center py-16"),
			H1(Class("text-4xl font-bold"), Text("Legal help, without the guesswork")),
			P(Class("mt-4 text-lg text-gray-600"),
				Textf("Compare %d vetted lawyers across %d practice areas.", len(lawyers), len(practiceAreas))),
			Div(Class("mt-8 flex justify-center gap-4"),
				A(Href("/lawyers"), Class("btn btn-primary"), Text("Browse lawyers")),
				A(Href("/signup"), Class("btn"), Text("List your practice")),
			),
		),
		Section(Class("grid grid-cols-3 gap-6"),
			Range(features, func(f struct{ id, title, body, hint string }, _ int) *VNode {
				return Article(Key(f.id), Class("card p-6"),
					H3(Class("font-semibold"),
						Text(f.title+" "),
						s.tip(f.id, f.hint, Span(Class("info-icon"), AriaHidden(true), Text("ⓘ"))),
					),
					P(Class("mt-2 text-gray-600"), Text(f.body)),
				)
			}),
		),
		Section(Class("mt-12"),
			H2(Class("text-2xl font-semibold"), Text("Popular practice areas")),
			Ul(Class("mt-4 flex flex-wrap gap-3"),
				Range(practiceAreas, func(p PracticeArea, _ int) *VNode {
					return Li(Key(p.Slug),
						A(Href(directoryHref(p.Slug, 1)), Class("chip"), Text(p.Label)),
					)
				}),
			),
		),
	)
}

// LawyersQuery selects a directory page.
type LawyersQuery struct {
	Page     int
	Practice string
}

// ParseLawyersQuery reads ?page= and ?practice=. Bad page numbers become 1.
func ParseLawyersQuery(v url.Values) LawyersQuery {
	page, err := strconv.Atoi(v.Get("page"))
	if err != nil {
		page = 1
	}
	return LawyersQuery{Page: page, Practice: v.Get("practice")}
}

func directoryHref(practice string, page int) string {
	v := url.Values{}
	if practice != "" {
		v.Set("practice", practice)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/lawyers"
	}
	return "/lawyers?" + v.Encode()
}

// Lawyers is the paginated, filterable directory.
func (s *Site) Lawyers(q LawyersQuery) Page {
	matches := FilterLawyers(q.Practice)
	items, current, total := PageOf(matches, q.Page, PerPage)

	options := make([]ui.SelectItem, 0, len(practiceAreas))
	for _, p := range practiceAreas {
		options = append(options, ui.SelectItem{Value: p.Slug, Label: p.Label, Group: p.Group})
	}

	var results *VNode
	if len(items) == 0 {
		results = P(Class("empty-state"), Text("No lawyers match this practice area yet."))
	} else {
		results = Div(Class("grid grid-cols-2 gap-6"),
			Range(items, func(l Lawyer, _ int) *VNode { return s.lawyerCard(l) }),
		)
	}

	return s.page("Find a lawyer", "/lawyers",
		H1(Class("text-3xl font-bold"), Text("Find a lawyer")),
		Form(Method("get"), Action("/lawyers"), Class("mt-6 flex items-end gap-3"),
			Label(For("practice"), Class("flex flex-col gap-1"),
				Span(Class("text-sm"), Text("Practice area")),
				ui.Select("practice", options, q.Practice, ui.SelectPlaceholder("All practice areas")),
			),
			Button(Type("submit"), Class("btn"), Text("Filter")),
		),
		P(Class("mt-4 text-sm text-gray-500"), Textf("%d result%s", len(matches), plural(len(matches)))),
		results,
		Div(Class("mt-8"),
			ui.Paginator(current, total, func(p int) string { return directoryHref(q.Practice, p) }),
		),
	)
}

func (s *Site) lawyerCard(l Lawyer) *VNode {
	return Article(Key(l.Slug), Class("card p-6"),
		Div(Class("flex items-center justify-between"),
			H3(Class("font-semibold"),
				A(Href("/lawyers/"+l.Slug), Text(l.Name)),
			),
			If(l.Verified, s.tipSide(tooltip.SideLeft, "tip-verified-"+l.Slug,
				"Bar membership verified by "+s.opts.Name,
				Span(Class("badge badge-verified"), Text("Verified")))),
		),
		P(Class("text-sm text-gray-500"), Textf("%s · %s · %d years", PracticeLabel(l.Practice), l.City, l.Years)),
		P(Class("mt-2"), Text(l.Bio)),
		Div(Class("mt-4 flex justify-between text-sm"),
			s.tip("tip-rating-"+l.Slug, fmt.Sprintf("Average of %d reviews", l.Reviews),
				Span(Textf("★ %.1f", l.Rating))),
			s.tip("tip-rate-"+l.Slug, "Standard hourly fee before any fixed-fee packages",
				Span(Textf("$%d/hr", l.Rate))),
		),
	)
}

// Lawyer is a single profile. ok is false for an unknown slug.
func (s *Site) Lawyer(slug string) (Page, bool) {
	l, ok := FindLawyer(slug)
	if !ok {
		return Page{}, false
	}
	return s.page(l.Name, "/lawyers",
		A(Href(directoryHref(l.Practice, 1)), Class("text-sm"), Textf("← %s lawyers", PracticeLabel(l.Practice))),
		Div(Class("mt-4 flex items-center gap-3"),
			H1(Class("text-3xl font-bold"), Text(l.Name)),
			If(l.Verified, s.tip("tip-verified", "Bar membership verified by "+s.opts.Name,
				Span(Class("badge badge-verified"), Text("Verified")))),
		),
		P(Class("mt-2 text-gray-600"), Textf("%s in %s", PracticeLabel(l.Practice), l.City)),
		P(Class("mt-6"), Text(l.Bio)),
		Ul(Class("mt-6 grid grid-cols-3 gap-4"),
			Li(Class("stat"), Strong(Textf("%d", l.Years)), Text(" years in practice")),
			Li(Class("stat"), Strong(Textf("%.1f", l.Rating)), Textf(" from %d reviews", l.Reviews)),
			Li(Class("stat"), s.tip("tip-rate", "Standard hourly fee before any fixed-fee packages",
				Strong(Textf("$%d", l.Rate)), Text(" per hour"))),
		),
		A(Href("/login"), Class("btn btn-primary mt-8"), Text("Request a consultation")),
	), true
}

// Login is the sign-in form. It posts nowhere; authentication is out of
// scope for the mock site.
func (s *Site) Login() Page {
	return s.page("Log in", "/login",
		s.authCard("Welcome back",
			field("email", "Email", "email", "you@example.com"),
			field("password", "Password", "password", ""),
			Button(Type("submit"), Class("btn btn-primary w-full"), Text("Log in")),
			P(Class("text-sm"), Text("New here? "), A(Href("/signup"), Text("Create an account"))),
		),
	)
}

// Signup is the lawyer registration form.
func (s *Site) Signup() Page {
	items := make([]ui.SelectItem, 0, len(practiceAreas))
	for _, p := range practiceAreas {
		items = append(items, ui.SelectItem{Value: p.Slug, Label: p.Label, Group: p.Group})
	}
	return s.page("Join as a lawyer", "/signup",
		s.authCard("List your practice",
			field("name", "Full name", "text", "Jane Doe"),
			field("email", "Email", "email", "you@firm.com"),
			Label(For("practice"), Class("flex flex-col gap-1"),
				Span(Text("Primary practice area")),
				ui.Select("practice", items, "", ui.SelectPlaceholder("Choose one"), ui.SelectRequired()),
			),
			Label(For("bar"), Class("flex flex-col gap-1"),
				Span(Text("Bar number "),
					s.tipSide(tooltip.SideRight, "tip-bar-number", "Used only to verify your membership. Never shown publicly.",
						Span(Class("info-icon"), AriaHidden(true), Text("ⓘ")))),
				Input(ID("bar"), Name("bar"), Type("text"), Required()),
			),
			Button(Type("submit"), Class("btn btn-primary w-full"), Text("Create profile")),
		),
	)
}

func (s *Site) authCard(title string, children ...any) *VNode {
	return Section(Class("max-w-md mx-auto card p-8"),
		H1(Class("text-2xl font-bold"), Text(title)),
		Form(Method("post"), Class("mt-6 flex flex-col gap-4"), children),
	)
}

func field(name, label, kind, placeholder string) *VNode {
	return Label(For(name), Class("flex flex-col gap-1"),
		Span(Text(label)),
		Input(ID(name), Name(name), Type(kind), Required(), AttrIf(placeholder != "", Placeholder(placeholder))),
	)
}

// Dashboard is the lawyer's overview, with the avatar upload form.
func (s *Site) Dashboard() Page {
	me := lawyers[0]
	stats := []struct {
		id, label, value, hint string
	}{
		{"tip-stat-views", "Profile views", "1,284", "Unique visitors in the last 30 days"},
		{"tip-stat-requests", "Consultation requests", "37", "Requests received in the last 30 days"},
		{"tip-stat-response", "Response time", "3h", "Median time to first reply"},
	}

	return s.page("Dashboard", "/dashboard",
		H1(Class("text-3xl font-bold"), Textf("Hello, %s", me.Name)),
		Section(Class("mt-6 grid grid-cols-3 gap-6"),
			Range(stats, func(st struct{ id, label, value, hint string }, _ int) *VNode {
				return Div(Key(st.id), Class("card p-6"),
					s.tipSide(tooltip.SideBottom, st.id, st.hint,
						Span(Class("text-sm text-gray-500"), Text(st.label))),
					P(Class("text-3xl font-semibold mt-2"), Text(st.value)),
				)
			}),
		),
		Section(Class("mt-10 card p-6"),
			H2(Class("text-xl font-semibold"), Text("Profile photo")),
			P(Class("text-sm text-gray-500"), Text("JPEG or PNG, shown on your directory card.")),
			Form(ID("avatar-form"), Method("post"), Action(s.opts.UploadPath), Enctype("multipart/form-data"),
				Class("mt-4 flex items-center gap-3"),
				Input(Type("file"), Name("file"), Accept("image/*"), Required()),
				Button(Type("submit"), Class("btn"), Text("Upload")),
			),
			Div(ID("avatar-preview"), Class("mt-4")),
		),
	)
}

// NotFound is the 404 page.
func (s *Site) NotFound() Page {
	return s.page("Not found", "",
		Section(Class("text-center py-16"),
			H1(Class("text-3xl font-bold"), Text("Page not found")),
			P(Class("mt-4"), A(Href("/"), Text("Back to the homepage"))),
		),
	)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
