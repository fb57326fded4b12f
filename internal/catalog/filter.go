// Package catalog filters, searches and sorts the in-memory offer list
// shown to members. Every function here is pure: inputs are never mutated
// and missing optional fields degrade to filter-neutral defaults.
package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"clubperks/internal/domain"
)

// AllCategories is the toggle command that clears the category selection.
const AllCategories = "All"

// AllCities is the city value meaning "no city filter".
const AllCities = "All Cities"

var savingsPattern = regexp.MustCompile(`(\d+)%`)

// Search keeps offers whose combined text contains query, ignoring case.
// A blank query returns offers unchanged.
func Search(offers []domain.Offer, query string) []domain.Offer {
	if strings.TrimSpace(query) == "" {
		return offers
	}
	needle := strings.ToLower(query)
	out := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if strings.Contains(haystack(o), needle) {
			out = append(out, o)
		}
	}
	return out
}

func haystack(o domain.Offer) string {
	parts := make([]string, 0, 5+len(o.Tags))
	parts = append(parts, o.Brand, o.Title, o.Description, o.Category, o.City)
	parts = append(parts, o.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// FilterByCategory keeps offers whose category is in selected.
// An empty selection, or one containing "All", applies no filter.
// Offers without a recognized category are dropped while a filter is active.
func FilterByCategory(offers []domain.Offer, selected []string) []domain.Offer {
	if len(selected) == 0 {
		return offers
	}
	want := make(map[domain.Category]bool, len(selected))
	for _, s := range selected {
		if s == AllCategories {
			return offers
		}
		if c, ok := domain.ParseCategory(s); ok {
			want[c] = true
		}
	}
	out := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if c, ok := o.KnownCategory(); ok && want[c] {
			out = append(out, o)
		}
	}
	return out
}

// FilterByCity keeps offers whose city equals city exactly (case-sensitive).
// AllCities applies no filter.
func FilterByCity(offers []domain.Offer, city string) []domain.Offer {
	if city == AllCities {
		return offers
	}
	out := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if o.City == city {
			out = append(out, o)
		}
	}
	return out
}

// SavingsPercent extracts the first "<digits>%" from an offer title.
// Titles without one, or with an out-of-range number, score 0.
func SavingsPercent(title string) int {
	m := savingsPattern.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Sort returns a sorted copy of offers. The sort is stable.
//
// Popular keeps insertion order, which is the stored popularity ranking.
// Newest reverses it: offers carry no timestamp, so later insertion stands in for recency.
func Sort(offers []domain.Offer, mode SortMode) []domain.Offer {
	out := make([]domain.Offer, len(offers))
	copy(out, offers)

	switch mode {
	case SortNewest:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case SortHighestSavings:
		scores := make([]int, len(out))
		for i, o := range out {
			scores[i] = SavingsPercent(o.Title)
		}
		sort.Stable(bySavings{offers: out, scores: scores})
	case SortAZ:
		// Collators keep internal buffers and are not safe to share.
		c := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Brand, out[j].Brand) < 0
		})
	}
	return out
}

type bySavings struct {
	offers []domain.Offer
	scores []int
}

func (s bySavings) Len() int           { return len(s.offers) }
func (s bySavings) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s bySavings) Swap(i, j int) {
	s.offers[i], s.offers[j] = s.offers[j], s.offers[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}

// Apply runs the full pipeline for a filter state:
// search, then category, then city, then sort.
func Apply(offers []domain.Offer, state FilterState) []domain.Offer {
	out := Search(offers, state.DebouncedSearch)
	out = FilterByCategory(out, state.SelectedCategories)
	out = FilterByCity(out, state.SelectedCity)
	return Sort(out, state.SortBy)
}

// Cities returns the distinct non-empty cities in first-seen order,
// prefixed by AllCities. Used to build city pickers.
func Cities(offers []domain.Offer) []string {
	seen := make(map[string]bool)
	out := []string{AllCities}
	for _, o := range offers {
		if o.City == "" || seen[o.City] {
			continue
		}
		seen[o.City] = true
		out = append(out, o.City)
	}
	return out
}
