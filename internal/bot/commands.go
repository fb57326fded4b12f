package bot

import (
	"fmt"
	"strings"

	"clubperks/internal/catalog"
	"clubperks/internal/domain"
)

// ParseCommand splits "/name@botname arg text" into its command name and argument.
// ok is false for text that is not a command.
func ParseCommand(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text, " ")
	head = strings.TrimPrefix(head, "/")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// matchCategory resolves user input to a category name or "All",
// ignoring case so "/category golf" works.
func matchCategory(arg string) (string, bool) {
	if strings.EqualFold(arg, catalog.AllCategories) {
		return catalog.AllCategories, true
	}
	for _, c := range domain.Categories {
		if strings.EqualFold(arg, string(c)) {
			return string(c), true
		}
	}
	return "", false
}

// matchSortMode resolves user input to a sort mode, ignoring case.
func matchSortMode(arg string) (catalog.SortMode, bool) {
	for _, m := range catalog.SortModes {
		if strings.EqualFold(arg, string(m)) {
			return m, true
		}
	}
	return "", false
}

// applyCategory toggles a category on the state.
func applyCategory(s *catalog.FilterState, arg string) error {
	c, ok := matchCategory(arg)
	if !ok {
		return fmt.Errorf("unknown category %q. Choose one of: %s", arg, categoryChoices())
	}
	s.SelectedCategories = catalog.ToggleCategory(s.SelectedCategories, c)
	return nil
}

// applyCity sets the city filter. The stored value is used verbatim, so
// "austin" and "Austin" are different cities.
func applyCity(s *catalog.FilterState, arg string) error {
	if arg == "" {
		return fmt.Errorf("usage: /city <name> or /city %s", catalog.AllCities)
	}
	if strings.EqualFold(arg, catalog.AllCities) || strings.EqualFold(arg, "all") {
		arg = catalog.AllCities
	}
	s.SelectedCity = arg
	return nil
}

// applySort sets the sort mode.
func applySort(s *catalog.FilterState, arg string) error {
	m, ok := matchSortMode(arg)
	if !ok {
		return fmt.Errorf("unknown sort %q. Choose one of: %s", arg, sortChoices())
	}
	s.SortBy = m
	return nil
}

func categoryChoices() string {
	names := []string{catalog.AllCategories}
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func sortChoices() string {
	names := make([]string, len(catalog.SortModes))
	for i, m := range catalog.SortModes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
