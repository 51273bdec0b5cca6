package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

// PostgresUserStore handles user persistence on PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore creates a new PostgresUserStore.
func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *PostgresUserStore) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetByID retrieves a user by their ID.
func (r *PostgresUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// List retrieves every user.
func (r *PostgresUserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanUsers(rows)
}

// Update applies changes in a single statement and returns the updated row.
func (r *PostgresUserStore) Update(ctx context.Context, id int64, changes model.UserChanges) (*model.User, error) {
	set, args := updateSet(changes, func(n int) string { return "$" + strconv.Itoa(n) })
	args = append(args, id)

	query := `UPDATE users SET ` + set + ` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrUserNotFound
		case isPgUniqueViolation(err):
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Delete removes a user and returns the deleted ID.
func (r *PostgresUserStore) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := r.db.QueryRowContext(ctx, `DELETE FROM users WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return deleted, nil
}

func (r *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// isPgUniqueViolation checks if err is a PostgreSQL unique violation (23505).
func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
