// Package memory provides an in-memory audit store for development and tests.
package memory

import (
	"context"
	"sync"

	"clearway/internal/audit"
	id "clearway/pkg/domain"
)

// Store keeps audit events in memory, grouped by case.
type Store struct {
	mu     sync.RWMutex
	events map[id.CaseID][]audit.Event
}

// New creates an empty in-memory audit store.
func New() *Store {
	return &Store{events: make(map[id.CaseID][]audit.Event)}
}

// Append records one event.
func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CaseID] = append(s.events[event.CaseID], event)
	return nil
}

// ListByCase returns a copy of the events recorded for a case, oldest first.
func (s *Store) ListByCase(_ context.Context, caseID id.CaseID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.events[caseID]
	out := make([]audit.Event, len(events))
	copy(out, events)
	return out, nil
}

var _ audit.Store = (*Store)(nil)
