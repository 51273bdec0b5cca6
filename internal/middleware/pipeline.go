package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/acquisitions/acquisitions-api/internal/apperr"
	"github.com/acquisitions/acquisitions-api/internal/model"
)

type contextKey string

const identityKey contextKey = "identity"

// Outcome is the result of a Step: continue with the identity known so far
// (nil for anonymous), or halt with an error.
type Outcome struct {
	identity *model.Identity
	err      error
}

// Continue lets the request proceed carrying identity.
func Continue(identity *model.Identity) Outcome {
	return Outcome{identity: identity}
}

// Halt stops the request and responds with err.
func Halt(err error) Outcome {
	return Outcome{err: err}
}

// Halted reports whether the outcome stops the request.
func (o Outcome) Halted() bool {
	return o.err != nil
}

// Identity returns the identity carried by a continue outcome.
func (o Outcome) Identity() *model.Identity {
	return o.identity
}

// Step is one stage of request authentication. current is the identity
// established by earlier steps, or nil.
type Step func(w http.ResponseWriter, r *http.Request, current *model.Identity) Outcome

// Pipeline runs steps in order and adapts them into router middleware. The
// identity left by the last step is attached to the request context.
func Pipeline(steps ...Step) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current *model.Identity
			if id, ok := IdentityFromContext(r.Context()); ok {
				current = &id
			}

			for _, step := range steps {
				out := step(w, r, current)
				if out.Halted() {
					writeError(w, out.err)
					return
				}
				current = out.identity
			}

			// A nil value hides any identity attached by an outer pipeline.
			var value any
			if current != nil {
				value = *current
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, value)))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if !apperr.Public(kind) {
		slog.Error("request halted", "error", err)
		msg = "internal server error"
	}
	writeJSONError(w, apperr.Status(kind), msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
