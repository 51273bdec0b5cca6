package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

// MemoryUserStore is a map-backed UserStore that enforces the same unique
// email and name constraints as the database schemas. Contents are lost on
// restart.
type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]model.User
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int64]model.User)}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(0, user.Name, user.Email) {
		return ErrDuplicateUser
	}

	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// List returns users ordered by ID.
func (s *MemoryUserStore) List(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryUserStore) Update(ctx context.Context, id int64, changes model.UserChanges) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	if changes.Role != nil {
		u.Role = *changes.Role
	}
	u.UpdatedAt = changes.UpdatedAt

	if s.conflicts(id, u.Name, u.Email) {
		return nil, ErrDuplicateUser
	}

	s.users[id] = u
	return &u, nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return 0, ErrUserNotFound
	}
	delete(s.users, id)
	return id, nil
}

// conflicts reports whether a user other than self holds name or email.
// Must hold lock.
func (s *MemoryUserStore) conflicts(self int64, name, email string) bool {
	for id, u := range s.users {
		if id != self && (u.Name == name || u.Email == email) {
			return true
		}
	}
	return false
}
