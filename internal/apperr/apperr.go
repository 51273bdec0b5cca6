// Package apperr defines the closed set of error kinds the API reports.
// Packages declare their sentinels as *Error values so that handlers can
// dispatch on Kind instead of matching messages.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind uint8

const (
	Internal Kind = iota
	Validation
	AlreadyExists
	NotFound
	InvalidCredentials
	Unauthorized
	Forbidden
	Credential
	TokenInvalid
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case AlreadyExists:
		return "already_exists"
	case NotFound:
		return "not_found"
	case InvalidCredentials:
		return "invalid_credentials"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Credential:
		return "credential"
	case TokenInvalid:
		return "token_invalid"
	default:
		return "internal"
	}
}

// Error is a classified error. Two *Error values are only equal by identity,
// so errors.Is works against the package-level sentinels.
type Error struct {
	kind Kind
	msg  string
}

// New returns a classified error with the given message.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind reports the classification of e.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return Internal
}

// Status maps a kind to its HTTP status code.
func Status(k Kind) int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case AlreadyExists:
		return http.StatusConflict
	case NotFound:
		return http.StatusNotFound
	case InvalidCredentials, Unauthorized, TokenInvalid:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Credential, Internal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Public reports whether the message of an error of kind k may be shown to
// clients verbatim.
func Public(k Kind) bool {
	return k != Internal && k != Credential
}
