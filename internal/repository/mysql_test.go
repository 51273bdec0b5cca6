package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

func TestMySQLCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`)).
		WithArgs("alice", "a@x.com", "hash", "user", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))

	u := &model.User{Name: "alice", Email: "a@x.com", PasswordHash: "hash", Role: model.RoleUser}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != 9 {
		t.Fatalf("ID = %d, want 9", u.ID)
	}
	expectationsMet(t, mock)
}

func TestMySQLCreate_DuplicateEntry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserStore(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'users_email_key'"})

	err := repo.Create(context.Background(), &model.User{Role: model.RoleUser})
	if !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("want ErrDuplicateUser, got %v", err)
	}
}

func TestIsDuplicateEntryError(t *testing.T) {
	if isDuplicateEntryError(nil) {
		t.Fatal("nil error should not be a duplicate entry error")
	}
	if isDuplicateEntryError(ErrUserNotFound) {
		t.Fatal("ErrUserNotFound should not be a duplicate entry error")
	}
	if isDuplicateEntryError(&mysql.MySQLError{Number: 1452}) {
		t.Fatal("foreign key error should not be a duplicate entry error")
	}
}

func TestMySQLUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserStore(db)

	now := time.Now().UTC()
	email := "new@x.com"
	hash := "new-hash"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email = ?, password_hash = ?, updated_at = ? WHERE id = ?`)).
		WithArgs("new@x.com", "new-hash", now, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(5), "alice", "new@x.com", "new-hash", "user", now, now))

	got, err := repo.Update(context.Background(), 5, model.UserChanges{Email: &email, PasswordHash: &hash, UpdatedAt: now})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Email != "new@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	expectationsMet(t, mock)
}

func TestMySQLUpdate_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserStore(db)

	mock.ExpectExec(`UPDATE users SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM users WHERE id = \?`).WillReturnRows(sqlmock.NewRows(userRowColumns))

	if _, err := repo.Update(context.Background(), 5, model.UserChanges{UpdatedAt: time.Now()}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestMySQLDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if id, err := repo.Delete(context.Background(), 3); err != nil || id != 3 {
		t.Fatalf("Delete = (%d, %v), want (3, nil)", id, err)
	}
	if _, err := repo.Delete(context.Background(), 4); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}
