package policy

import (
	"errors"
	"testing"

	"github.com/acquisitions/acquisitions-api/internal/model"
)

func TestAuthorize(t *testing.T) {
	user := &model.Identity{ID: 1, Email: "a@x.com", Role: model.RoleUser}
	admin := &model.Identity{ID: 2, Email: "admin@x.com", Role: model.RoleAdmin}

	tests := []struct {
		name      string
		requester *model.Identity
		target    int64
		action    Action
		want      error
	}{
		{"anonymous update", nil, 1, UpdateSelfFields, ErrUnauthenticated},
		{"anonymous delete", nil, 1, Delete, ErrUnauthenticated},
		{"anonymous role change", nil, 1, ChangeRole, ErrUnauthenticated},

		{"user updates self", user, 1, UpdateSelfFields, nil},
		{"user deletes self", user, 1, Delete, nil},
		{"user changes own role", user, 1, ChangeRole, ErrRoleChangeForbidden},
		{"user updates other", user, 3, UpdateSelfFields, ErrOtherAccountForbidden},
		{"user deletes other", user, 3, Delete, ErrOtherAccountForbidden},
		{"user changes other role", user, 3, ChangeRole, ErrRoleChangeForbidden},

		{"admin updates self", admin, 2, UpdateSelfFields, nil},
		{"admin updates other", admin, 1, UpdateSelfFields, nil},
		{"admin deletes other", admin, 1, Delete, nil},
		{"admin changes other role", admin, 1, ChangeRole, nil},
		{"admin changes own role", admin, 2, ChangeRole, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.requester, tt.target, tt.action)
			if !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}

			// Identical inputs yield identical decisions.
			for i := 0; i < 3; i++ {
				if again := Authorize(tt.requester, tt.target, tt.action); again != got {
					t.Fatalf("Authorize() not deterministic: %v then %v", got, again)
				}
			}
		})
	}
}

func TestAuthorizeUpdate(t *testing.T) {
	user := &model.Identity{ID: 1, Role: model.RoleUser}
	admin := &model.Identity{ID: 2, Role: model.RoleAdmin}

	name := "new"
	role := model.RoleUser

	tests := []struct {
		name      string
		requester *model.Identity
		target    int64
		update    model.UserUpdate
		want      error
	}{
		{"own name", user, 1, model.UserUpdate{Name: &name}, nil},
		{"own role even unchanged", user, 1, model.UserUpdate{Role: &role}, ErrRoleChangeForbidden},
		{"other name", user, 5, model.UserUpdate{Name: &name}, ErrOtherAccountForbidden},
		{"other role reports role first", user, 5, model.UserUpdate{Name: &name, Role: &role}, ErrRoleChangeForbidden},
		{"admin other role", admin, 5, model.UserUpdate{Role: &role}, nil},
		{"anonymous", nil, 1, model.UserUpdate{Name: &name}, ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuthorizeUpdate(tt.requester, tt.target, tt.update)
			if got != tt.want {
				t.Errorf("AuthorizeUpdate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActionsFor(t *testing.T) {
	role := model.RoleAdmin

	got := ActionsFor(model.UserUpdate{Role: &role})
	if len(got) != 2 || got[0] != ChangeRole {
		t.Errorf("ActionsFor(role) = %v, want role change first", got)
	}

	got = ActionsFor(model.UserUpdate{})
	if len(got) != 1 || got[0] != UpdateSelfFields {
		t.Errorf("ActionsFor(empty) = %v, want [update-self-fields]", got)
	}
}

func TestActionString(t *testing.T) {
	if ChangeRole.String() != "change-role" || Delete.String() != "delete" || UpdateSelfFields.String() != "update-self-fields" {
		t.Error("unexpected action names")
	}
}
