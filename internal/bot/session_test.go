package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clubperks/internal/catalog"
	"clubperks/internal/catalog/catalogtest"
)

type settledCall struct {
	chatID int64
	query  string
}

func TestSessions_TypeSettlesAfterDebounce(t *testing.T) {
	clock := &catalogtest.ManualClock{}
	var mu sync.Mutex
	var calls []settledCall
	sessions := NewSessions(300*time.Millisecond, clock, func(chatID int64, q string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, settledCall{chatID, q})
	})

	s := sessions.Get(7)
	s.NextPage()
	for _, q := range []string{"g", "go", "gol", "golf"} {
		s.Type(q)
		clock.Advance(50 * time.Millisecond)
	}

	st := s.State()
	assert.Equal(t, "golf", st.SearchQuery)
	assert.Empty(t, st.DebouncedSearch)
	assert.True(t, s.Searching())

	clock.Advance(250 * time.Millisecond)
	st = s.State()
	assert.Equal(t, "golf", st.DebouncedSearch)
	assert.False(t, s.Searching())
	assert.Zero(t, s.Page(), "settling rewinds to the first page")
	assert.Equal(t, []settledCall{{7, "golf"}}, calls)
}

func TestSessions_PerChatIsolation(t *testing.T) {
	sessions := NewSessions(time.Second, &catalogtest.ManualClock{}, nil)

	a := sessions.Get(1)
	a.Update(func(s *catalog.FilterState) { s.SelectedCity = "Austin" })

	assert.Same(t, a, sessions.Get(1))
	assert.Equal(t, catalog.AllCities, sessions.Get(2).State().SelectedCity)
}

func TestSessions_ResetCancelsPendingSearch(t *testing.T) {
	clock := &catalogtest.ManualClock{}
	settled := 0
	sessions := NewSessions(300*time.Millisecond, clock, func(int64, string) { settled++ })

	s := sessions.Get(1)
	s.Type("spa")
	sessions.Reset(1, catalog.NewFilterState())
	clock.Advance(time.Second)

	assert.Zero(t, settled)
	assert.False(t, s.Searching())
	assert.False(t, s.State().HasActiveFilters())
}

func TestSession_StateIsACopy(t *testing.T) {
	sessions := NewSessions(time.Second, &catalogtest.ManualClock{}, nil)
	s := sessions.Get(1)
	s.Update(func(st *catalog.FilterState) { st.SelectedCategories = []string{"Golf"} })

	st := s.State()
	st.SelectedCategories[0] = "Dining"
	assert.Equal(t, []string{"Golf"}, s.State().SelectedCategories)
}

func TestSession_UpdateRewindsPage(t *testing.T) {
	sessions := NewSessions(time.Second, &catalogtest.ManualClock{}, nil)
	s := sessions.Get(1)
	assert.Equal(t, 2, func() int { s.NextPage(); return s.NextPage() }())

	s.Update(func(st *catalog.FilterState) { st.SortBy = catalog.SortAZ })
	assert.Zero(t, s.Page())
}
