// Package redisstore implements the persistence adapter on Redis. Each
// collection lives under a single key: a hash whose fields are record keys
// (user ID, pending email) and whose values are JSON-encoded records.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/storage"
)

// NewClient creates a go-redis client from a redis:// URL and verifies the
// connection with a ping.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Store is the Redis-backed implementation of storage.Store.
type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	vals, err := s.client.HGetAll(ctx, storage.CollectionUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]domain.User, 0, len(vals))
	for field, raw := range vals {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", field, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	raw, err := s.client.HGet(ctx, storage.CollectionUsers, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail scans the users hash. The collection is small enough that a
// secondary index is not worth maintaining.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (s *Store) PutUser(ctx context.Context, u *domain.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.HSet(ctx, storage.CollectionUsers, u.ID, raw).Err(); err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, storage.CollectionUsers, id).Err(); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *Store) ClearUsers(ctx context.Context) error {
	if err := s.client.Del(ctx, storage.CollectionUsers).Err(); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

func (s *Store) GetPending(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	raw, err := s.client.HGet(ctx, storage.CollectionPending, email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pending registration %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	var p domain.PendingRegistration
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode pending %s: %w", email, err)
	}
	return &p, nil
}

func (s *Store) PutPending(ctx context.Context, p *domain.PendingRegistration) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending: %w", err)
	}
	if err := s.client.HSet(ctx, storage.CollectionPending, p.Email, raw).Err(); err != nil {
		return fmt.Errorf("put pending: %w", err)
	}
	return nil
}

func (s *Store) DeletePending(ctx context.Context, email string) error {
	if err := s.client.HDel(ctx, storage.CollectionPending, email).Err(); err != nil {
		return fmt.Errorf("delete pending: %w", err)
	}
	return nil
}
