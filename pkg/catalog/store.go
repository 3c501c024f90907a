package catalog

import "sync"

// Reduce is the pure transition function behind Store. It never mutates c.
func Reduce(c Criteria, ceiling float64, a Action) (Criteria, float64) {
	if a == nil {
		return c, ceiling
	}
	return a.apply(c.clone(), ceiling)
}

// Store owns the filter criteria of one catalog view. Dispatch is the only
// way to change state; each call produces a new snapshot before the next one
// is accepted.
type Store struct {
	mu          sync.Mutex
	state       Criteria
	ceiling     float64
	subscribers []func(Criteria)
}

// NewStore creates a store holding the default criteria for ceiling.
func NewStore(ceiling float64) *Store {
	if ceiling < 0 {
		ceiling = 0
	}
	return &Store{
		state:   DefaultCriteria(ceiling),
		ceiling: ceiling,
	}
}

// Dispatch applies a and returns the resulting snapshot. Subscribers run
// synchronously, in dispatch order, before Dispatch returns.
func (s *Store) Dispatch(a Action) Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state, s.ceiling = Reduce(s.state, s.ceiling, a)
	for _, fn := range s.subscribers {
		fn(s.state)
	}
	return s.state
}

// State returns the latest snapshot.
func (s *Store) State() Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ceiling returns the price ceiling CLEAR resets to.
func (s *Store) Ceiling() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ceiling
}

// Subscribe registers fn to receive every new snapshot. fn must not call
// Dispatch.
func (s *Store) Subscribe(fn func(Criteria)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
