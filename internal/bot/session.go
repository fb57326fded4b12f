package bot

import (
	"sync"
	"time"

	"clubperks/internal/catalog"
)

// Session is one chat's browsing state. A Telegram chat plays the role of a
// page view: state starts fresh and lives only in memory.
type Session struct {
	mu        sync.Mutex
	state     catalog.FilterState
	page      int
	debouncer *catalog.Debouncer
}

// State returns a copy of the current filter state.
func (s *Session) State() catalog.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.SelectedCategories = append([]string(nil), s.state.SelectedCategories...)
	return st
}

// Page returns the zero-based result page.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// NextPage advances the result page and returns it.
func (s *Session) NextPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page++
	return s.page
}

// Update mutates the filter state and rewinds to the first page.
func (s *Session) Update(fn func(*catalog.FilterState)) catalog.FilterState {
	s.mu.Lock()
	fn(&s.state)
	s.page = 0
	s.mu.Unlock()
	return s.State()
}

// Type records a search keystroke. The query settles after the debounce period.
func (s *Session) Type(query string) {
	s.mu.Lock()
	s.state.SearchQuery = query
	s.mu.Unlock()
	s.debouncer.Push(query)
}

// Searching reports whether a typed query is still waiting to settle.
func (s *Session) Searching() bool {
	return s.debouncer.Pending()
}

// settle makes query the active search.
func (s *Session) settle(query string) {
	s.mu.Lock()
	s.state.DebouncedSearch = query
	s.page = 0
	s.mu.Unlock()
}

// Sessions tracks one Session per chat.
type Sessions struct {
	mu        sync.Mutex
	byChat    map[int64]*Session
	delay     time.Duration
	clock     catalog.Clock
	onSettled func(chatID int64, query string)
}

// NewSessions creates a session registry. onSettled runs after a chat's
// search query settles and the session state has been updated.
func NewSessions(delay time.Duration, clock catalog.Clock, onSettled func(chatID int64, query string)) *Sessions {
	return &Sessions{
		byChat:    make(map[int64]*Session),
		delay:     delay,
		clock:     clock,
		onSettled: onSettled,
	}
}

// Get returns the chat's session, creating it with default filters.
func (r *Sessions) Get(chatID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byChat[chatID]; ok {
		return s
	}
	s := &Session{state: catalog.NewFilterState()}
	s.debouncer = catalog.NewDebouncer(r.delay, r.clock, func(q string) {
		s.settle(q)
		if r.onSettled != nil {
			r.onSettled(chatID, q)
		}
	})
	r.byChat[chatID] = s
	return s
}

// Reset replaces the chat's state, cancelling any pending search.
func (r *Sessions) Reset(chatID int64, state catalog.FilterState) *Session {
	s := r.Get(chatID)
	s.debouncer.Cancel()
	s.Update(func(st *catalog.FilterState) { *st = state })
	return s
}
