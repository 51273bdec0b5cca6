package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a duplicate key.
const mysqlDuplicateEntry = 1062

// MySQLUserStore handles user persistence on MySQL. MySQL has no RETURNING
// clause, so mutations that must return the row read it back by ID.
type MySQLUserStore struct {
	db *sql.DB
}

// NewMySQLUserStore creates a new MySQLUserStore.
func NewMySQLUserStore(db *sql.DB) *MySQLUserStore {
	return &MySQLUserStore{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *MySQLUserStore) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("db error: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MySQLUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by their ID.
func (r *MySQLUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// List retrieves every user.
func (r *MySQLUserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanUsers(rows)
}

// Update applies changes and reads the row back.
func (r *MySQLUserStore) Update(ctx context.Context, id int64, changes model.UserChanges) (*model.User, error) {
	set, args := updateSet(changes, func(int) string { return "?" })
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, `UPDATE users SET `+set+` WHERE id = ?`, args...); err != nil {
		if isDuplicateEntryError(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Affected rows are zero when nothing changed, so existence is decided
	// by reading the row back.
	return r.GetByID(ctx, id)
}

// Delete removes a user and returns the deleted ID.
func (r *MySQLUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if rowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	return id, nil
}

func (r *MySQLUserStore) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// isDuplicateEntryError checks if a MySQL error is a duplicate entry error (code 1062).
func isDuplicateEntryError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
