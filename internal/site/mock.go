package site

import (
	"sort"
	"strings"
)

// Lawyer is a directory listing. All listings are static mock data.
type Lawyer struct {
	Slug     string
	Name     string
	Practice string
	City     string
	Years    int
	Rating   float64
	Reviews  int
	Rate     int
	Verified bool
	Bio      string
}

// PracticeArea is a filter option in the directory.
type PracticeArea struct {
	Slug  string
	Label string
	Group string
}

var practiceAreas = []PracticeArea{
	{"corporate", "Corporate & M&A", "Business"},
	{"ip", "Intellectual Property", "Business"},
	{"tax", "Tax", "Business"},
	{"employment", "Employment", "Business"},
	{"family", "Family", "Personal"},
	{"immigration", "Immigration", "Personal"},
	{"criminal", "Criminal Defense", "Personal"},
	{"real-estate", "Real Estate", "Personal"},
}

var lawyers = []Lawyer{
	{"amara-okafor", "Amara Okafor", "corporate", "Lagos", 14, 4.9, 212, 320, true, "Cross-border acquisitions and venture financing for growth-stage companies."},
	{"daniel-weiss", "Daniel Weiss", "ip", "Berlin", 9, 4.7, 98, 280, true, "Patent prosecution and licensing for hardware and medical device startups."},
	{"sofia-marquez", "Sofia Márquez", "immigration", "Madrid", 11, 4.8, 341, 190, true, "Work visas, family reunification, and residency appeals."},
	{"kenji-tanaka", "Kenji Tanaka", "tax", "Osaka", 17, 4.6, 76, 350, false, "International tax structuring and transfer pricing disputes."},
	{"leah-cohen", "Leah Cohen", "family", "Tel Aviv", 8, 4.9, 157, 210, true, "Divorce mediation, custody arrangements, and prenuptial agreements."},
	{"marcus-bell", "Marcus Bell", "criminal", "Chicago", 21, 4.5, 402, 260, true, "Trial defense for white-collar and federal matters."},
	{"priya-raman", "Priya Raman", "employment", "Bengaluru", 6, 4.8, 64, 150, false, "Employment contracts, severance negotiation, and workplace investigations."},
	{"oliver-hughes", "Oliver Hughes", "real-estate", "London", 12, 4.4, 88, 240, true, "Commercial leases and residential conveyancing."},
	{"nadia-haddad", "Nadia Haddad", "corporate", "Dubai", 10, 4.7, 119, 300, true, "Joint ventures and shareholder agreements in the Gulf region."},
	{"tomas-novak", "Tomáš Novák", "ip", "Prague", 7, 4.6, 45, 180, false, "Trademark portfolios and copyright enforcement for creative studios."},
	{"grace-lin", "Grace Lin", "immigration", "Vancouver", 13, 4.9, 276, 220, true, "Express entry, study permits, and business immigration."},
	{"samuel-adeyemi", "Samuel Adeyemi", "criminal", "Toronto", 5, 4.3, 39, 170, false, "Youth justice and summary conviction appeals."},
	{"elena-rossi", "Elena Rossi", "family", "Milan", 15, 4.8, 133, 230, true, "International custody and cross-border estates."},
	{"james-carter", "James Carter", "tax", "New York", 19, 4.7, 190, 380, true, "Tax controversy and IRS audit representation."},
}

// PracticeAreas returns the directory filter options.
func PracticeAreas() []PracticeArea {
	return append([]PracticeArea(nil), practiceAreas...)
}

// PracticeLabel returns the display label for slug, or slug itself.
func PracticeLabel(slug string) string {
	for _, p := range practiceAreas {
		if p.Slug == slug {
			return p.Label
		}
	}
	return slug
}

// FindLawyer looks up a listing by slug.
func FindLawyer(slug string) (Lawyer, bool) {
	for _, l := range lawyers {
		if l.Slug == slug {
			return l, true
		}
	}
	return Lawyer{}, false
}

// FilterLawyers returns listings in the practice area, best rated first.
// An empty practice matches every listing.
func FilterLawyers(practice string) []Lawyer {
	out := make([]Lawyer, 0, len(lawyers))
	for _, l := range lawyers {
		if practice == "" || strings.EqualFold(l.Practice, practice) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PageOf returns the items on page (1-based) and the total page count.
// page is clamped into range. There is always at least one page.
func PageOf[T any](items []T, page, perPage int) ([]T, int, int) {
	if perPage <= 0 {
		perPage = len(items)
	}
	total := 1
	if perPage > 0 && len(items) > 0 {
		total = (len(items) + perPage - 1) / perPage
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	if len(items) == 0 {
		return nil, page, total
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, total
}
