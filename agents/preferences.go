package agents

import "sync"

// Preferences is an immutable per-user configuration for the planner agent
// (spec.md §4 supplement). Updates always build a new value rather than
// mutating in place. Grounded on original_source's core/preferences.py.
type Preferences struct {
	FavoriteCity       string
	BudgetPLNPerNight  int
	Category           string
	MaxItems           int
	EventDurationHours int
}

// DefaultPreferences matches the original's dataclass defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		FavoriteCity:       "Warszawa",
		BudgetPLNPerNight:  300,
		Category:           "any",
		MaxItems:           4,
		EventDurationHours: 2,
	}
}

// PreferencesOption tweaks a Preferences value relative to its current state.
type PreferencesOption func(*Preferences)

func WithCategory(category string) PreferencesOption {
	return func(p *Preferences) { p.Category = category }
}

func WithBudget(pln int) PreferencesOption {
	return func(p *Preferences) { p.BudgetPLNPerNight = pln }
}

func WithFavoriteCity(city string) PreferencesOption {
	return func(p *Preferences) { p.FavoriteCity = city }
}

func WithMaxItems(n int) PreferencesOption {
	return func(p *Preferences) { p.MaxItems = n }
}

// Apply returns a copy of p with opts applied, leaving p untouched
// (mirrors dataclasses.replace on the frozen original).
func (p Preferences) Apply(opts ...PreferencesOption) Preferences {
	out := p
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// PreferencesStore is the simplest possible preferences memory: an
// in-process map keyed by user id, guarded for concurrent access.
type PreferencesStore struct {
	mu      sync.RWMutex
	def     Preferences
	byUser  map[string]Preferences
}

// NewPreferencesStore builds a store; def defaults to DefaultPreferences().
func NewPreferencesStore(def *Preferences) *PreferencesStore {
	d := DefaultPreferences()
	if def != nil {
		d = *def
	}
	return &PreferencesStore{def: d, byUser: map[string]Preferences{}}
}

// Get returns the user's preferences, or the store default if unset.
func (s *PreferencesStore) Get(userID string) Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.byUser[userID]; ok {
		return p
	}
	return s.def
}

// Set replaces the user's full preference set.
func (s *PreferencesStore) Set(userID string, prefs Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = prefs
}

// Update applies opts on top of the user's current preferences (or the
// default if unset), stores, and returns the result.
func (s *PreferencesStore) Update(userID string, opts ...PreferencesOption) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byUser[userID]
	if !ok {
		current = s.def
	}
	updated := current.Apply(opts...)
	s.byUser[userID] = updated
	return updated
}
