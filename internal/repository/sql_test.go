package repository

import (
	"strconv"
	"testing"
	"time"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

func TestUpdateSet(t *testing.T) {
	now := time.Now()
	name, email, hash := "n", "e@x.com", "h"
	role := model.RoleAdmin
	dollar := func(n int) string { return "$" + strconv.Itoa(n) }

	tests := []struct {
		name     string
		changes  model.UserChanges
		wantSet  string
		wantArgs int
	}{
		{"timestamp only", model.UserChanges{UpdatedAt: now}, "updated_at = $1", 1},
		{"name", model.UserChanges{Name: &name, UpdatedAt: now}, "name = $1, updated_at = $2", 2},
		{
			"all fields",
			model.UserChanges{Name: &name, Email: &email, PasswordHash: &hash, Role: &role, UpdatedAt: now},
			"name = $1, email = $2, password_hash = $3, role = $4, updated_at = $5",
			5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, args := updateSet(tt.changes, dollar)
			if set != tt.wantSet {
				t.Errorf("set = %q, want %q", set, tt.wantSet)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if last := args[len(args)-1]; last != any(now) {
				t.Errorf("last arg = %v, want updated_at", last)
			}
		})
	}
}
