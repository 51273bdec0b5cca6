package repository

import (
	"database/sql"
	"strings"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// updateSet builds the SET clause for changes. placeholder renders the
// n-th (1-based) bind parameter for the target dialect.
func updateSet(changes model.UserChanges, placeholder func(n int) string) (string, []any) {
	var (
		cols []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		cols = append(cols, col+" = "+placeholder(len(args)))
	}

	if changes.Name != nil {
		add("name", *changes.Name)
	}
	if changes.Email != nil {
		add("email", *changes.Email)
	}
	if changes.PasswordHash != nil {
		add("password_hash", *changes.PasswordHash)
	}
	if changes.Role != nil {
		add("role", string(*changes.Role))
	}
	add("updated_at", changes.UpdatedAt)

	return strings.Join(cols, ", "), args
}
