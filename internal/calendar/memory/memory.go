// Package memory is an in-memory ActionPublisher used by tests and
// local development when no Google credentials are configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"carbone/internal/plan"
)

type Store struct {
	mu      sync.Mutex
	actions []plan.Action
}

func New() *Store {
	return &Store{}
}

// PublishActions records the actions and returns synthetic event IDs.
func (s *Store) PublishActions(_ context.Context, actions []plan.Action) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		s.actions = append(s.actions, a)
		ids = append(ids, fmt.Sprintf("mem:%d", len(s.actions)))
	}
	return ids, nil
}

// Published returns a copy of everything recorded so far.
func (s *Store) Published() []plan.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]plan.Action(nil), s.actions...)
}
