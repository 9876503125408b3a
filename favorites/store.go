package favorites

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ringstats-backend/metrics"
	"ringstats-backend/models"
)

var ErrDuplicate = errors.New("wrestler is already a favorite")

// Persistence loads and saves one favorites list.
type Persistence interface {
	Load(ctx context.Context) ([]models.Wrestler, error)
	Save(ctx context.Context, favorites []models.Wrestler) error
}

// Store is a favorites list backed by a Persistence port. It is loaded once
// when opened and written through on every mutation. The mutex covers the
// whole read-modify-save so concurrent callers never interleave.
type Store struct {
	mu    sync.Mutex
	port  Persistence
	items []models.Wrestler
}

func Open(ctx context.Context, port Persistence) (*Store, error) {
	items, err := port.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if items == nil {
		items = []models.Wrestler{}
	}
	return &Store{port: port, items: items}, nil
}

// Add appends a snapshot of w. A second add of the same id is rejected with
// ErrDuplicate.
func (s *Store) Add(ctx context.Context, w models.Wrestler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(w.ID) >= 0 {
		metrics.RecordFavorite("add", "duplicate")
		return ErrDuplicate
	}

	next := make([]models.Wrestler, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, w)
	if err := s.port.Save(ctx, next); err != nil {
		metrics.RecordFavorite("add", "error")
		return fmt.Errorf("save favorites: %w", err)
	}
	s.items = next
	metrics.RecordFavorite("add", "ok")
	return nil
}

// Remove drops id from the list. Removing an absent id still persists the
// unchanged list.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Wrestler, 0, len(s.items))
	for _, w := range s.items {
		if w.ID != id {
			next = append(next, w)
		}
	}
	if err := s.port.Save(ctx, next); err != nil {
		metrics.RecordFavorite("remove", "error")
		return fmt.Errorf("save favorites: %w", err)
	}
	s.items = next
	metrics.RecordFavorite("remove", "ok")
	return nil
}

// List returns a copy of the favorites in insertion order.
func (s *Store) List() []models.Wrestler {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Wrestler, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.items {
		if w.ID == id {
			return i
		}
	}
	return -1
}
