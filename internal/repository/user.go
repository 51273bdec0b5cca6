package repository

import (
	"context"
	"errors"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user with this email or name already exists")
)

// UserStore persists user accounts. Implementations report a missing
// record as ErrUserNotFound and a unique constraint violation on email or
// name as ErrDuplicateUser.
type UserStore interface {
	// Create inserts user and sets its generated ID.
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// List returns every user in store order.
	List(ctx context.Context) ([]model.User, error)
	// Update applies changes to the user and returns the stored result.
	Update(ctx context.Context, id int64, changes model.UserChanges) (*model.User, error)
	// Delete removes the user and returns its ID.
	Delete(ctx context.Context, id int64) (int64, error)
}
