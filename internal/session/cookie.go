// Package session moves session tokens between HTTP messages and the
// application. Tokens travel in an http-only cookie; a bearer header is
// accepted on input only.
package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// Carrier reads and writes session tokens.
type Carrier struct {
	secure bool
	maxAge time.Duration
}

// NewCarrier creates a Carrier. Cookies are marked Secure when secure is
// set and live for maxAge, which should match the token lifetime.
func NewCarrier(secure bool, maxAge time.Duration) *Carrier {
	return &Carrier{secure: secure, maxAge: maxAge}
}

// Extract returns the session token of r, preferring the cookie over an
// Authorization bearer header.
func (c *Carrier) Extract(r *http.Request) (string, bool) {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value, true
	}

	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// Attach sets the session cookie on w.
func (c *Carrier) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.maxAge/time.Second)))
}

// Clear expires the session cookie on w.
func (c *Carrier) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *Carrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
