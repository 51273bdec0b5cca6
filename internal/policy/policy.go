// Package policy decides whether an identity may mutate a user account.
// Decisions are pure: the same inputs always produce the same result.
package policy

import (
	"github.com/acquisitions/acquisitions-api/internal/apperr"
	"github.com/acquisitions/acquisitions-api/internal/model"
)

// Action is a mutation requested on an account.
type Action uint8

const (
	UpdateSelfFields Action = iota
	ChangeRole
	Delete
)

func (a Action) String() string {
	switch a {
	case ChangeRole:
		return "change-role"
	case Delete:
		return "delete"
	default:
		return "update-self-fields"
	}
}

var (
	ErrUnauthenticated       = apperr.New(apperr.Unauthorized, "Unauthorized")
	ErrRoleChangeForbidden   = apperr.New(apperr.Forbidden, "Forbidden: insufficient permissions to change role")
	ErrOtherAccountForbidden = apperr.New(apperr.Forbidden, "Forbidden: cannot modify another user")
)

// Authorize returns nil when requester may perform action on the account
// identified by targetID. Rules are checked in order and the first one that
// fails determines the error.
func Authorize(requester *model.Identity, targetID int64, action Action) error {
	if requester == nil {
		return ErrUnauthenticated
	}
	if action == ChangeRole && !requester.IsAdmin() {
		return ErrRoleChangeForbidden
	}
	if requester.ID != targetID && !requester.IsAdmin() {
		return ErrOtherAccountForbidden
	}
	return nil
}

// AuthorizeUpdate checks every action implied by an update body. A role
// field, whatever its value, counts as a role change.
func AuthorizeUpdate(requester *model.Identity, targetID int64, update model.UserUpdate) error {
	for _, action := range ActionsFor(update) {
		if err := Authorize(requester, targetID, action); err != nil {
			return err
		}
	}
	return nil
}

// ActionsFor lists the actions an update requires, role change first.
func ActionsFor(update model.UserUpdate) []Action {
	if update.Role != nil {
		return []Action{ChangeRole, UpdateSelfFields}
	}
	return []Action{UpdateSelfFields}
}
