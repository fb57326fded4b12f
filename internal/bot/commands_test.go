package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubperks/internal/catalog"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		wantName string
		wantArg  string
		wantOK   bool
	}{
		{"/offers", "offers", "", true},
		{"/Category golf", "category", "golf", true},
		{"/sort@ClubPerksBot  Highest Savings ", "sort", "Highest Savings", true},
		{"  /city New York", "city", "New York", true},
		{"golf", "", "", false},
		{"/", "", "", false},
		{"/@bot", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, arg, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestApplyCategory(t *testing.T) {
	s := catalog.NewFilterState()

	require.NoError(t, applyCategory(&s, "golf"))
	assert.Equal(t, []string{"Golf"}, s.SelectedCategories)

	require.NoError(t, applyCategory(&s, "Dining"))
	assert.Equal(t, []string{"Golf", "Dining"}, s.SelectedCategories)

	require.NoError(t, applyCategory(&s, "GOLF"))
	assert.Equal(t, []string{"Dining"}, s.SelectedCategories)

	require.NoError(t, applyCategory(&s, "all"))
	assert.Empty(t, s.SelectedCategories)

	err := applyCategory(&s, "Bowling")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "Bowling"`)
	assert.Contains(t, err.Error(), "Golf, Hotels")
}

func TestApplyCity(t *testing.T) {
	s := catalog.NewFilterState()

	require.NoError(t, applyCity(&s, "austin"))
	assert.Equal(t, "austin", s.SelectedCity, "stored verbatim")

	require.NoError(t, applyCity(&s, "all"))
	assert.Equal(t, catalog.AllCities, s.SelectedCity)

	require.NoError(t, applyCity(&s, "all cities"))
	assert.Equal(t, catalog.AllCities, s.SelectedCity)

	assert.Error(t, applyCity(&s, ""))
}

func TestApplySort(t *testing.T) {
	s := catalog.NewFilterState()

	require.NoError(t, applySort(&s, "highest savings"))
	assert.Equal(t, catalog.SortHighestSavings, s.SortBy)

	require.NoError(t, applySort(&s, "a-z"))
	assert.Equal(t, catalog.SortAZ, s.SortBy)

	err := applySort(&s, "cheapest")
	require.Error(t, err)
	assert.Equal(t, catalog.SortAZ, s.SortBy, "unchanged on error")
}
