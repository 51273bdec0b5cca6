package middleware

import (
	"net/http"
	"slices"

	"github.com/acquisitions/acquisitions-api/internal/apperr"
	"github.com/acquisitions/acquisitions-api/internal/model"
	"github.com/acquisitions/acquisitions-api/internal/session"
)

var (
	ErrUnauthorized = apperr.New(apperr.Unauthorized, "Unauthorized")
	ErrForbidden    = apperr.New(apperr.Forbidden, "Forbidden")
)

// TokenVerifier turns a raw session token into an identity.
type TokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

// Authenticator builds the authentication steps around a token verifier and
// the session cookie carrier.
type Authenticator struct {
	tokens  TokenVerifier
	carrier *session.Carrier
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(tokens TokenVerifier, carrier *session.Carrier) *Authenticator {
	return &Authenticator{tokens: tokens, carrier: carrier}
}

// Deserialize attaches the identity of a valid session token when one is
// presented. An invalid token clears the session cookie and the request
// continues anonymously. It never halts.
func (a *Authenticator) Deserialize() Step {
	return func(w http.ResponseWriter, r *http.Request, current *model.Identity) Outcome {
		token, ok := a.carrier.Extract(r)
		if !ok {
			return Continue(current)
		}

		id, err := a.tokens.Verify(token)
		if err != nil {
			a.carrier.Clear(w)
			return Continue(nil)
		}
		return Continue(&id)
	}
}

// RequireAuth halts with 401 unless the request is authenticated, verifying
// the token itself when no earlier step has.
func (a *Authenticator) RequireAuth() Step {
	return func(w http.ResponseWriter, r *http.Request, current *model.Identity) Outcome {
		if current != nil {
			return Continue(current)
		}

		token, ok := a.carrier.Extract(r)
		if !ok {
			return Halt(ErrUnauthorized)
		}

		id, err := a.tokens.Verify(token)
		if err != nil {
			return Halt(ErrUnauthorized)
		}
		return Continue(&id)
	}
}

// RequireRole halts with 401 for anonymous requests and 403 when the
// identity holds none of roles.
func RequireRole(roles ...model.Role) Step {
	return func(w http.ResponseWriter, r *http.Request, current *model.Identity) Outcome {
		if current == nil {
			return Halt(ErrUnauthorized)
		}
		if !slices.Contains(roles, current.Role) {
			return Halt(ErrForbidden)
		}
		return Continue(current)
	}
}
