package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

func TestMemoryUserStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	alice := &model.User{Name: "alice", Email: "a@x.com", PasswordHash: "h", Role: model.RoleUser}
	if err := s.Create(ctx, alice); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	bob := &model.User{Name: "bob", Email: "b@x.com", PasswordHash: "h", Role: model.RoleUser}
	if err := s.Create(ctx, bob); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if alice.ID == bob.ID {
		t.Fatalf("IDs should differ, both %d", alice.ID)
	}

	got, err := s.GetByEmail(ctx, "b@x.com")
	if err != nil || got.ID != bob.ID {
		t.Fatalf("GetByEmail = (%+v, %v)", got, err)
	}

	now := time.Now()
	role := model.RoleAdmin
	updated, err := s.Update(ctx, alice.ID, model.UserChanges{Role: &role, UpdatedAt: now})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Role != model.RoleAdmin || !updated.UpdatedAt.Equal(now) || updated.Name != "alice" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	list, err := s.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != alice.ID {
		t.Fatalf("List = (%+v, %v)", list, err)
	}

	if id, err := s.Delete(ctx, bob.ID); err != nil || id != bob.ID {
		t.Fatalf("Delete = (%d, %v)", id, err)
	}
	if _, err := s.GetByID(ctx, bob.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound after delete, got %v", err)
	}
	if _, err := s.Delete(ctx, bob.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound on second delete, got %v", err)
	}
}

func TestMemoryUserStore_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	if err := s.Create(ctx, &model.User{Name: "alice", Email: "a@x.com", Role: model.RoleUser}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	bob := &model.User{Name: "bob", Email: "b@x.com", Role: model.RoleUser}
	if err := s.Create(ctx, bob); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	tests := []struct {
		name string
		user model.User
	}{
		{"same email", model.User{Name: "carol", Email: "a@x.com"}},
		{"same name", model.User{Name: "alice", Email: "c@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			if err := s.Create(ctx, &u); !errors.Is(err, ErrDuplicateUser) {
				t.Fatalf("want ErrDuplicateUser, got %v", err)
			}
		})
	}

	taken := "a@x.com"
	if _, err := s.Update(ctx, bob.ID, model.UserChanges{Email: &taken}); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("want ErrDuplicateUser on update, got %v", err)
	}
	got, _ := s.GetByID(ctx, bob.ID)
	if got.Email != "b@x.com" {
		t.Fatalf("failed update must not mutate, email = %q", got.Email)
	}

	// Re-saving own values is not a conflict.
	own := "b@x.com"
	if _, err := s.Update(ctx, bob.ID, model.UserChanges{Email: &own}); err != nil {
		t.Fatalf("Update own email error: %v", err)
	}
}

func TestMemoryUserStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Create(ctx, &model.User{Name: "same", Email: "same@x.com", Role: model.RoleUser})
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrDuplicateUser) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("exactly one create should win, got %d", ok)
	}
}

func TestMemoryUserStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemoryUserStore().List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
