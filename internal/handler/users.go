package handler

import (
	"errors"
	"net/http"

	"github.com/acquisitions/acquisitions-api/internal/model"
	"github.com/acquisitions/acquisitions-api/internal/policy"
	"github.com/acquisitions/acquisitions-api/internal/service"
	"github.com/acquisitions/acquisitions-api/internal/validate"
)

// UserHandler handles HTTP requests for user account management.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList handles GET /api/users requests.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserListEnvelope{
		Message: "Successfully fetched all users",
		Users:   users,
		Count:   len(users),
	})
}

// HandleGet handles GET /api/users/{id} requests.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, found, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, service.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "Successfully fetched user", User: user})
}

// HandleUpdate handles PUT /api/users/{id} requests.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var update model.UserUpdate
	if !decodeJSON(w, r, &update) {
		return
	}
	update.Normalize()

	if update.Empty() {
		writeError(w, r, validate.Field("body", "at least one field must be provided"))
		return
	}
	if err := validate.Struct(update); err != nil {
		writeError(w, r, err)
		return
	}

	if err := policy.AuthorizeUpdate(requester(r), id, update); err != nil {
		writePolicyError(w, r, err, "update")
		return
	}

	user, err := h.users.UpdateByID(r.Context(), id, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "User updated successfully", User: user})
}

// HandleDelete handles DELETE /api/users/{id} requests.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := policy.Authorize(requester(r), id, policy.Delete); err != nil {
		writePolicyError(w, r, err, "delete")
		return
	}

	if _, err := h.users.DeleteByID(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User deleted successfully"})
}

// writePolicyError names the attempted verb when the target is another
// user's account.
func writePolicyError(w http.ResponseWriter, r *http.Request, err error, verb string) {
	if errors.Is(err, policy.ErrOtherAccountForbidden) {
		writeJSON(w, http.StatusForbidden, errorResponse("Forbidden: cannot "+verb+" another user"))
		return
	}
	writeError(w, r, err)
}
