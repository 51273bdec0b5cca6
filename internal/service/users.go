package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/acquisitions/acquisitions-api/internal/apperr"
	"github.com/acquisitions/acquisitions-api/internal/model"
	"github.com/acquisitions/acquisitions-api/internal/repository"
)

var (
	ErrEmailTaken         = apperr.New(apperr.AlreadyExists, "Email already exists")
	ErrAlreadyExists      = apperr.New(apperr.AlreadyExists, "User with this email or name already exists")
	ErrNotFound           = apperr.New(apperr.NotFound, "User not found")
	ErrInvalidCredentials = apperr.New(apperr.InvalidCredentials, "Invalid credentials")
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
	VerifyPassword(ctx context.Context, password, hash string) (bool, error)
}

// UserService handles account business logic.
type UserService struct {
	repo   repository.UserStore
	hasher PasswordHasher
	now    func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserStore, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccount registers a new user. An empty role defaults to RoleUser.
func (s *UserService) CreateAccount(ctx context.Context, name, email, password string, role model.Role) (model.UserResponse, error) {
	if role == "" {
		role = model.RoleUser
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return model.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		slog.Error("lookup user by email", "error", err)
		return model.UserResponse{}, err
	}

	hash, err := s.hasher.HashPassword(ctx, password)
	if err != nil {
		slog.Error("hash password", "error", err)
		return model.UserResponse{}, err
	}

	now := s.now()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return model.UserResponse{}, ErrAlreadyExists
		}
		slog.Error("create user", "error", err)
		return model.UserResponse{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user.Response(), nil
}

// Authenticate checks a sign-in attempt. An unknown email is reported as
// ErrNotFound and a wrong password as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (model.UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrNotFound
		}
		slog.Error("lookup user by email", "error", err)
		return model.UserResponse{}, err
	}

	match, err := s.hasher.VerifyPassword(ctx, password, user.PasswordHash)
	if err != nil {
		slog.Error("verify password", "user_id", user.ID, "error", err)
		return model.UserResponse{}, err
	}
	if !match {
		return model.UserResponse{}, ErrInvalidCredentials
	}

	return user.Response(), nil
}

// ListAll returns every user.
func (s *UserService) ListAll(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		slog.Error("list users", "error", err)
		return nil, err
	}

	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].Response())
	}
	return out, nil
}

// GetByID returns the user with id. found is false, with a nil error, when
// no such user exists.
func (s *UserService) GetByID(ctx context.Context, id int64) (resp model.UserResponse, found bool, err error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, false, nil
		}
		slog.Error("get user", "user_id", id, "error", err)
		return model.UserResponse{}, false, err
	}
	return user.Response(), true, nil
}

// UpdateByID applies a partial update. A new password is hashed before it is
// stored and UpdatedAt is always refreshed.
func (s *UserService) UpdateByID(ctx context.Context, id int64, update model.UserUpdate) (model.UserResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrNotFound
		}
		slog.Error("get user", "user_id", id, "error", err)
		return model.UserResponse{}, err
	}

	changes := model.UserChanges{
		Name:      update.Name,
		Email:     update.Email,
		Role:      update.Role,
		UpdatedAt: s.now(),
	}
	if update.Password != nil {
		hash, err := s.hasher.HashPassword(ctx, *update.Password)
		if err != nil {
			slog.Error("hash password", "user_id", id, "error", err)
			return model.UserResponse{}, err
		}
		changes.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return model.UserResponse{}, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateUser):
			return model.UserResponse{}, ErrAlreadyExists
		}
		slog.Error("update user", "user_id", id, "error", err)
		return model.UserResponse{}, err
	}

	slog.Info("user updated", "user_id", id)
	return user.Response(), nil
}

// DeleteByID removes the user with id and returns the deleted ID.
func (s *UserService) DeleteByID(ctx context.Context, id int64) (int64, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrNotFound
		}
		slog.Error("delete user", "user_id", id, "error", err)
		return 0, err
	}

	slog.Info("user deleted", "user_id", deleted)
	return deleted, nil
}
