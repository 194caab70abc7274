// Package filter holds the dashboard scope selection: a group filter and the
// user it narrows the dashboard to.
package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// StorageKey is the fixed key the state is persisted under.
const StorageKey = "finboard-filter"

// All is the group filter meaning "no narrowing".
const All = "all"

// State is the user-selected dashboard scope. An empty SelectedUserID means unset.
type State struct {
	SelectedGroupFilter string `json:"selectedGroupFilter"`
	SelectedUserID      string `json:"selectedUserId,omitempty"`
}

// Default returns the initial state.
func Default() State {
	return State{SelectedGroupFilter: All}
}

// SetFilter selects f. Selecting All clears the user, anything else selects it.
func SetFilter(_ State, f string) State {
	if f == All {
		return State{SelectedGroupFilter: All}
	}
	return State{SelectedGroupFilter: f, SelectedUserID: f}
}

// Reset returns the defaults regardless of s.
func Reset(State) State {
	return Default()
}

// Storage persists raw state bytes under a key.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is a State bound to a Storage. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   State
	storage Storage
}

// NewStore returns a store holding the default state.
func NewStore(storage Storage) *Store {
	return &Store{state: Default(), storage: storage}
}

// Load rehydrates the state from storage. Missing data keeps the defaults;
// stored JSON is taken verbatim.
func (s *Store) Load(ctx context.Context) (State, error) {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return s.State(), fmt.Errorf("load filter state: %w", err)
	}
	if !ok {
		return s.State(), nil
	}
	st := Default()
	if err := json.Unmarshal(raw, &st); err != nil {
		return s.State(), fmt.Errorf("decode filter state: %w", err)
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return st, nil
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetFilter applies SetFilter and persists the result.
func (s *Store) SetFilter(ctx context.Context, f string) (State, error) {
	return s.apply(ctx, func(st State) State { return SetFilter(st, f) })
}

// Reset applies Reset and persists the result.
func (s *Store) Reset(ctx context.Context) (State, error) {
	return s.apply(ctx, Reset)
}

func (s *Store) apply(ctx context.Context, fn func(State) State) (State, error) {
	s.mu.Lock()
	s.state = fn(s.state)
	st := s.state
	s.mu.Unlock()

	raw, err := json.Marshal(st)
	if err != nil {
		return st, fmt.Errorf("encode filter state: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		return st, fmt.Errorf("save filter state: %w", err)
	}
	return st, nil
}

type ctxKey struct{}

// WithState stores st in ctx.
func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the state stored in ctx, or Default.
func FromContext(ctx context.Context) State {
	if st, ok := ctx.Value(ctxKey{}).(State); ok {
		return st
	}
	return Default()
}
