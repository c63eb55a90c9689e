// Package storage defines the persistence adapter contract shared by all
// backends. Exactly one Store is constructed at process start; callers always
// re-fetch through it rather than caching records.
package storage

import (
	"context"

	"github.com/registration-api/internal/domain"
)

// Collection names. File-backed stores use them as document names, the Redis
// store as hash keys.
const (
	CollectionUsers   = "users"
	CollectionPending = "pending-registrations"
)

// Store provides uniform access to the two entity collections.
//
// Get* returns domain.ErrNotFound (possibly wrapped) when the record is
// absent; any other error is an infrastructure failure. Put* has upsert
// semantics. Delete* is a no-op when the key is absent. None of the methods
// perform locking or compare-and-swap: concurrent read-modify-write on the
// same key is last-write-wins.
type Store interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	PutUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ClearUsers(ctx context.Context) error

	GetPending(ctx context.Context, email string) (*domain.PendingRegistration, error)
	PutPending(ctx context.Context, p *domain.PendingRegistration) error
	DeletePending(ctx context.Context, email string) error
}
