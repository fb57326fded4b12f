package bot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"clubperks/internal/catalog"
	"clubperks/internal/domain"
	"clubperks/internal/theme"
)

func TestFormatOffer(t *testing.T) {
	o := domain.Offer{OfferID: "g1", Brand: "Pebble Links", Title: "20% off green fees", Category: "Golf", City: "Austin"}
	assert.Equal(t, "Pebble Links: 20% off green fees [Golf, Austin]\n  /save g1", FormatOffer(o))

	// Unknown categories and missing ids are left out.
	o = domain.Offer{Brand: "Spa Co", Title: "Massage", Category: "Wellness"}
	assert.Equal(t, "Spa Co: Massage", FormatOffer(o))
}

func TestFormatResults(t *testing.T) {
	var offers []domain.Offer
	for i := 1; i <= 7; i++ {
		offers = append(offers, domain.Offer{Brand: "B", Title: fmt.Sprintf("T%d", i)})
	}

	assert.Equal(t, "No offers match your filters. Send /clear to start over.", FormatResults(nil, 0, 5))

	first := FormatResults(offers, 0, 5)
	assert.True(t, strings.HasPrefix(first, "Offers 1-5 of 7\n"))
	assert.Contains(t, first, "B: T5")
	assert.NotContains(t, first, "B: T6")
	assert.True(t, strings.HasSuffix(first, "Send /more for the next page."))

	second := FormatResults(offers, 1, 5)
	assert.True(t, strings.HasPrefix(second, "Offers 6-7 of 7\n"))
	assert.NotContains(t, second, "/more")

	assert.Equal(t, "No more offers.", FormatResults(offers, 2, 5))
}

func TestFormatState(t *testing.T) {
	s := catalog.NewFilterState()
	got := FormatState(s, false)
	assert.Equal(t, "Search: (none)\nCategories: All\nCity: All Cities\nSort: Popular", got)

	s.SearchQuery = "gol"
	s.DebouncedSearch = "go"
	s.SelectedCategories = []string{"Golf", "Dining"}
	got = FormatState(s, true)
	assert.Contains(t, got, "Search: go\n")
	assert.Contains(t, got, "Typing: gol\n")
	assert.Contains(t, got, "Categories: Golf, Dining\n")
	assert.True(t, strings.HasSuffix(got, "Send /clear to reset filters."))
}

func TestFormatBrandTheme(t *testing.T) {
	b := domain.Brand{Slug: "pebble-links", Name: "Pebble Links"}
	got := FormatBrandTheme(b, theme.DeriveTokens("0 100% 50%"))
	assert.Equal(t, "Pebble Links (pebble-links)\n:root {\n  --primary: 0 100% 50%;\n  --primary-foreground: 0 0% 100%;\n}", got)
}
