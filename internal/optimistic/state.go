package optimistic

import "sync"

// State is the view-bound copy of a remote collection. Values stored in it
// are treated as immutable: updates build a new value instead of editing
// slices in place.
type State[S any] struct {
	mu     sync.RWMutex
	value  S
	closed bool
}

func NewState[S any](initial S) *State[S] {
	return &State[S]{value: initial}
}

func (s *State[S]) Get() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *State[S]) Set(v S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
}

// Update applies fn atomically and returns the new value.
func (s *State[S]) Update(fn func(S) S) S {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.value
	}
	s.value = fn(s.value)
	return s.value
}

// Close detaches the state from its view. Later writes are dropped, which
// is how completions that arrive after teardown get ignored.
func (s *State[S]) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *State[S]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
