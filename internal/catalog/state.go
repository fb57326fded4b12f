package catalog

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// SortMode selects the ordering of filtered offers.
type SortMode string

const (
	SortPopular        SortMode = "Popular"
	SortNewest         SortMode = "Newest"
	SortHighestSavings SortMode = "Highest Savings"
	SortAZ             SortMode = "A-Z"
)

// SortModes lists the sort options in display order.
var SortModes = []SortMode{SortPopular, SortNewest, SortHighestSavings, SortAZ}

// ParseSortMode returns the matching sort mode, or SortPopular for unknown values.
func ParseSortMode(s string) SortMode {
	for _, m := range SortModes {
		if string(m) == s {
			return m
		}
	}
	return SortPopular
}

// URL query parameter names for shareable filter state.
const (
	ParamSearch     = "search"
	ParamCategories = "categories"
	ParamCity       = "city"
	ParamSort       = "sort"
)

// FilterState is the member's current view of the catalog. It lives for one
// browsing session and is never persisted.
type FilterState struct {
	// SearchQuery is the raw text as typed.
	SearchQuery string
	// DebouncedSearch is the settled query that drives filtering.
	DebouncedSearch string
	// SelectedCategories behaves as a set; empty means no category filter.
	SelectedCategories []string
	SelectedCity       string
	SortBy             SortMode
}

// NewFilterState returns a state with every filter at its default.
func NewFilterState() FilterState {
	return FilterState{
		SelectedCity: AllCities,
		SortBy:       SortPopular,
	}
}

// Reset restores every filter to its default.
func (s *FilterState) Reset() {
	*s = NewFilterState()
}

// HasActiveFilters reports whether any filter differs from its default.
func (s FilterState) HasActiveFilters() bool {
	return strings.TrimSpace(s.DebouncedSearch) != "" ||
		len(s.SelectedCategories) > 0 ||
		s.SelectedCity != AllCities ||
		s.SortBy != SortPopular
}

// ToggleCategory returns a new selection with category added or removed.
// "All" is a command: it clears the selection rather than being stored.
func ToggleCategory(current []string, category string) []string {
	if category == AllCategories {
		return []string{}
	}
	out := make([]string, 0, len(current)+1)
	found := false
	for _, c := range current {
		if c == category {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, category)
	}
	return out
}

// Values encodes the state as URL query parameters. Only values that
// differ from their defaults are written.
func (s FilterState) Values() url.Values {
	q := url.Values{}
	if s.DebouncedSearch != "" {
		q.Set(ParamSearch, s.DebouncedSearch)
	}
	if len(s.SelectedCategories) > 0 {
		q.Set(ParamCategories, strings.Join(s.SelectedCategories, ","))
	}
	if s.SelectedCity != "" && s.SelectedCity != AllCities {
		q.Set(ParamCity, s.SelectedCity)
	}
	if s.SortBy != "" && s.SortBy != SortPopular {
		q.Set(ParamSort, string(s.SortBy))
	}
	return q
}

// ParseFilterState seeds a state from URL query parameters, applying
// defaults for anything absent or unrecognized.
func ParseFilterState(q url.Values) FilterState {
	s := NewFilterState()
	s.SearchQuery = q.Get(ParamSearch)
	s.DebouncedSearch = s.SearchQuery
	if raw := q.Get(ParamCategories); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			c = strings.TrimSpace(c)
			if c != "" && !slices.Contains(s.SelectedCategories, c) {
				s.SelectedCategories = append(s.SelectedCategories, c)
			}
		}
	}
	if city := q.Get(ParamCity); city != "" {
		s.SelectedCity = city
	}
	s.SortBy = ParseSortMode(q.Get(ParamSort))
	return s
}

// Encode packs the state into a compact token suitable for deep links.
func (s FilterState) Encode() string {
	return base64.RawURLEncoding.EncodeToString([]byte(s.Values().Encode()))
}

// DecodeFilterState reverses Encode. An empty token yields the default state.
func DecodeFilterState(token string) (FilterState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return NewFilterState(), fmt.Errorf("decoding filter token: %w", err)
	}
	q, err := url.ParseQuery(string(raw))
	if err != nil {
		return NewFilterState(), fmt.Errorf("parsing filter query: %w", err)
	}
	return ParseFilterState(q), nil
}
