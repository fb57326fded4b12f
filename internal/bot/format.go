package bot

import (
	"fmt"
	"strings"

	"clubperks/internal/catalog"
	"clubperks/internal/domain"
	"clubperks/internal/theme"
)

// FormatOffer renders one offer as plain text.
func FormatOffer(o domain.Offer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", o.Brand, o.Title)
	var meta []string
	if _, ok := o.KnownCategory(); ok {
		meta = append(meta, o.Category)
	}
	if o.City != "" {
		meta = append(meta, o.City)
	}
	if len(meta) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(meta, ", "))
	}
	if o.Bookmarkable() {
		fmt.Fprintf(&sb, "\n  /save %s", o.OfferID)
	}
	return sb.String()
}

// FormatResults renders one page of results. page is zero-based; pages past
// the end render as "no more offers".
func FormatResults(offers []domain.Offer, page, pageSize int) string {
	if len(offers) == 0 {
		return "No offers match your filters. Send /clear to start over."
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := page * pageSize
	if start >= len(offers) {
		return "No more offers."
	}
	end := min(start+pageSize, len(offers))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Offers %d-%d of %d\n", start+1, end, len(offers))
	for _, o := range offers[start:end] {
		sb.WriteString("\n")
		sb.WriteString(FormatOffer(o))
	}
	if end < len(offers) {
		sb.WriteString("\n\nSend /more for the next page.")
	}
	return sb.String()
}

// FormatState describes the active filters for /filters.
func FormatState(s catalog.FilterState, searching bool) string {
	var sb strings.Builder
	search := s.DebouncedSearch
	if strings.TrimSpace(search) == "" {
		search = "(none)"
	}
	fmt.Fprintf(&sb, "Search: %s\n", search)
	if searching {
		fmt.Fprintf(&sb, "Typing: %s\n", s.SearchQuery)
	}
	categories := "All"
	if len(s.SelectedCategories) > 0 {
		categories = strings.Join(s.SelectedCategories, ", ")
	}
	fmt.Fprintf(&sb, "Categories: %s\n", categories)
	fmt.Fprintf(&sb, "City: %s\n", s.SelectedCity)
	fmt.Fprintf(&sb, "Sort: %s", s.SortBy)
	if s.HasActiveFilters() {
		sb.WriteString("\n\nSend /clear to reset filters.")
	}
	return sb.String()
}

// FormatBrandTheme shows a brand's derived tokens.
func FormatBrandTheme(b domain.Brand, t theme.Tokens) string {
	var css theme.CSSBlock
	theme.Apply(&css, t)
	return fmt.Sprintf("%s (%s)\n%s", b.Name, b.Slug, css.String())
}
