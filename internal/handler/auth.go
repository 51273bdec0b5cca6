package handler

import (
	"log/slog"
	"net/http"

	"github.com/acquisitions/acquisitions-api/internal/crypto"
	"github.com/acquisitions/acquisitions-api/internal/model"
	"github.com/acquisitions/acquisitions-api/internal/service"
	"github.com/acquisitions/acquisitions-api/internal/session"
	"github.com/acquisitions/acquisitions-api/internal/validate"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	users   *service.UserService
	tokens  *crypto.TokenService
	carrier *session.Carrier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, tokens *crypto.TokenService, carrier *session.Carrier) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, carrier: carrier}
}

// HandleSignUp handles POST /api/auth/sign-up requests.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req model.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if err := validate.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.CreateAccount(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	writeJSON(w, http.StatusCreated, model.UserEnvelope{Message: "User registered", User: user})
}

// HandleSignIn handles POST /api/auth/sign-in requests.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()

	if err := validate.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, model.UserEnvelope{Message: "User signed in successfully", User: user})
}

// HandleSignOut handles POST /api/auth/sign-out requests.
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	h.carrier.Clear(w)

	if id := requester(r); id != nil {
		slog.Info("user signed out", "user_id", id.ID)
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "User signed out successfully"})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user model.UserResponse) bool {
	token, err := h.tokens.Issue(model.Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		writeError(w, r, err)
		return false
	}
	h.carrier.Attach(w, token)
	return true
}
