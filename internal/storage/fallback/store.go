// Package fallback composes a primary (remote) store with a local mirror.
// Reads degrade to the mirror's last known snapshot when the primary fails;
// successful primary writes are mirrored best-effort. The primary is never
// back-filled from the mirror after an outage.
package fallback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/storage"
)

// Store implements storage.Store over a primary and a mirror.
type Store struct {
	primary storage.Store
	mirror  storage.Store
}

func New(primary, mirror storage.Store) *Store {
	return &Store{primary: primary, mirror: mirror}
}

// degrade reports whether a primary error warrants falling back to the
// mirror. ErrNotFound is a definitive answer, not an outage.
func degrade(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrNotFound)
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.primary.ListUsers(ctx)
	if degrade(err) {
		slog.Warn("primary store read failed, serving mirror", "op", "ListUsers", "err", err)
		return s.mirror.ListUsers(ctx)
	}
	return users, err
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.primary.GetUser(ctx, id)
	if degrade(err) {
		slog.Warn("primary store read failed, serving mirror", "op", "GetUser", "err", err)
		return s.mirror.GetUser(ctx, id)
	}
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.primary.GetUserByEmail(ctx, email)
	if degrade(err) {
		slog.Warn("primary store read failed, serving mirror", "op", "GetUserByEmail", "err", err)
		return s.mirror.GetUserByEmail(ctx, email)
	}
	return u, err
}

func (s *Store) PutUser(ctx context.Context, u *domain.User) error {
	if err := s.primary.PutUser(ctx, u); err != nil {
		return err
	}
	if err := s.mirror.PutUser(ctx, u); err != nil {
		slog.Warn("mirror write failed", "op", "PutUser", "err", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.primary.DeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.mirror.DeleteUser(ctx, id); err != nil {
		slog.Warn("mirror write failed", "op", "DeleteUser", "err", err)
	}
	return nil
}

func (s *Store) ClearUsers(ctx context.Context) error {
	if err := s.primary.ClearUsers(ctx); err != nil {
		return err
	}
	if err := s.mirror.ClearUsers(ctx); err != nil {
		slog.Warn("mirror write failed", "op", "ClearUsers", "err", err)
	}
	return nil
}

func (s *Store) GetPending(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	p, err := s.primary.GetPending(ctx, email)
	if degrade(err) {
		slog.Warn("primary store read failed, serving mirror", "op", "GetPending", "err", err)
		return s.mirror.GetPending(ctx, email)
	}
	return p, err
}

func (s *Store) PutPending(ctx context.Context, p *domain.PendingRegistration) error {
	if err := s.primary.PutPending(ctx, p); err != nil {
		return err
	}
	if err := s.mirror.PutPending(ctx, p); err != nil {
		slog.Warn("mirror write failed", "op", "PutPending", "err", err)
	}
	return nil
}

func (s *Store) DeletePending(ctx context.Context, email string) error {
	if err := s.primary.DeletePending(ctx, email); err != nil {
		return err
	}
	if err := s.mirror.DeletePending(ctx, email); err != nil {
		slog.Warn("mirror write failed", "op", "DeletePending", "err", err)
	}
	return nil
}
