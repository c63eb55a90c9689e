// Package memory provides an in-memory Store used as a test seam.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/registration-api/internal/domain"
)

// Store is an in-memory implementation of storage.Store. Safe for concurrent
// use. Not persisted anywhere; intended for tests.
type Store struct {
	mu      sync.RWMutex
	users   map[string]domain.User // keyed by user ID
	pending map[string]domain.PendingRegistration
}

func New() *Store {
	return &Store{
		users:   make(map[string]domain.User),
		pending: make(map[string]domain.PendingRegistration),
	}
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *Store) PutUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *Store) ClearUsers(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]domain.User)
	return nil
}

func (s *Store) GetPending(_ context.Context, email string) (*domain.PendingRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[email]
	if !ok {
		return nil, fmt.Errorf("pending registration %s: %w", email, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) PutPending(_ context.Context, p *domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.Email] = *p
	return nil
}

func (s *Store) DeletePending(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, email)
	return nil
}
