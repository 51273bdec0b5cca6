package crypto

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/acquisitions/acquisitions-api/internal/apperr"
)

// DefaultCost is the bcrypt work factor used for password hashes.
const DefaultCost = 10

var ErrCredential = apperr.New(apperr.Credential, "credential processing failed")

// Hasher hashes and verifies passwords with bcrypt. Concurrent hash
// operations are bounded so CPU-bound work cannot monopolise every core.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher creates a Hasher with the given bcrypt cost, allowing at most
// limit concurrent operations. A non-positive limit means GOMAXPROCS.
func NewHasher(cost, limit int) *Hasher {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, sem: semaphore.NewWeighted(int64(limit))}
}

// HashPassword hashes a password using bcrypt.
func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCredential, err)
	}
	return string(hash), nil
}

// VerifyPassword checks whether a password matches the given bcrypt hash.
// A mismatch is reported as (false, nil); a malformed hash is an error.
func (h *Hasher) VerifyPassword(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrCredential, err)
	}
}
