// Package memory keeps exported snapshots in process. Used in development and tests.
package memory

import (
	"context"
	"sync"

	"finboard/internal/export"
)

type Store struct {
	mu      sync.Mutex
	latest  map[string]export.Snapshot
	exports int
}

var _ export.Exporter = (*Store)(nil)

func New() *Store {
	return &Store{latest: make(map[string]export.Snapshot)}
}

func (s *Store) Name() string { return "memory" }

// Export replaces the user's previous snapshot.
func (s *Store) Export(ctx context.Context, snap export.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.UserID == "" {
		return export.ErrEmptyUser
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[snap.UserID] = snap
	s.exports++
	return nil
}

// Latest returns the last snapshot exported for userID.
func (s *Store) Latest(userID string) (export.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.latest[userID]
	return snap, ok
}

// Count returns how many exports succeeded.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}
