// Package file implements the persistence adapter on top of local JSON
// documents: one array document for users, one map-by-email document for
// pending registrations. It is the development backend and doubles as the
// mirror for degraded reads when a remote backend is unreachable.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/registration-api/internal/domain"
	"github.com/registration-api/internal/storage"
)

// Store keeps both collections as JSON files under a data directory.
// All operations take the store mutex, so a single Store is safe for
// concurrent use within one process. Writes go through a temp file + rename.
type Store struct {
	mu      sync.Mutex
	dataDir string
}

// New creates the data directory if needed and initialises empty documents
// for any collection file that does not exist yet.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dataDir: dataDir}
	if err := s.initFile(s.usersPath(), []byte("[]")); err != nil {
		return nil, err
	}
	if err := s.initFile(s.pendingPath(), []byte("{}")); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) usersPath() string {
	return filepath.Join(s.dataDir, storage.CollectionUsers+".json")
}

func (s *Store) pendingPath() string {
	return filepath.Join(s.dataDir, storage.CollectionPending+".json")
}

func (s *Store) initFile(path string, empty []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return writeAtomic(path, empty)
}

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers()
}

func (s *Store) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
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

func (s *Store) PutUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	replaced := false
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = *u
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, *u)
	}
	return s.saveUsers(users)
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	return s.saveUsers(kept)
}

func (s *Store) ClearUsers(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveUsers([]domain.User{})
}

func (s *Store) GetPending(_ context.Context, email string) (*domain.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, err := s.loadPending()
	if err != nil {
		return nil, err
	}
	p, ok := pending[email]
	if !ok {
		return nil, fmt.Errorf("pending registration %s: %w", email, domain.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) PutPending(_ context.Context, p *domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, err := s.loadPending()
	if err != nil {
		return err
	}
	pending[p.Email] = *p
	return s.savePending(pending)
}

func (s *Store) DeletePending(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, err := s.loadPending()
	if err != nil {
		return err
	}
	delete(pending, email)
	return s.savePending(pending)
}

func (s *Store) loadUsers() ([]domain.User, error) {
	data, err := os.ReadFile(s.usersPath())
	if err != nil {
		return nil, fmt.Errorf("read users document: %w", err)
	}
	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users document: %w", err)
	}
	return users, nil
}

func (s *Store) saveUsers(users []domain.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users document: %w", err)
	}
	return writeAtomic(s.usersPath(), data)
}

func (s *Store) loadPending() (map[string]domain.PendingRegistration, error) {
	data, err := os.ReadFile(s.pendingPath())
	if err != nil {
		return nil, fmt.Errorf("read pending document: %w", err)
	}
	var pending map[string]domain.PendingRegistration
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("decode pending document: %w", err)
	}
	if pending == nil {
		pending = make(map[string]domain.PendingRegistration)
	}
	return pending, nil
}

func (s *Store) savePending(pending map[string]domain.PendingRegistration) error {
	data, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pending document: %w", err)
	}
	return writeAtomic(s.pendingPath(), data)
}

// writeAtomic writes data to a temp file in the same directory and renames it
// over the target, so readers never observe a partially written document.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
