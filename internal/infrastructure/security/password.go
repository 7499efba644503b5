package security

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/idenning2003/fullstack/internal/core/domain"
)

// Runner executes fn on a worker, waiting for it or for ctx. *queue.Pool
// satisfies it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// BcryptHasher hashes passwords with bcrypt. When a Runner is set, every
// hash and compare runs on it rather than on the request goroutine.
type BcryptHasher struct {
	cost   int
	runner Runner
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// bcrypt range fall back to bcrypt.DefaultCost. runner may be nil.
func NewBcryptHasher(cost int, runner Runner) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost, runner: runner}
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	var (
		digest []byte
		err    error
	)
	if runErr := h.run(ctx, func() {
		digest, err = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); runErr != nil {
		return "", runErr
	}
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("Password must not exceed 72 bytes.")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is not an error.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	var err error
	if runErr := h.run(ctx, func() {
		err = bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	}); runErr != nil {
		return false, runErr
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return true, nil
}

func (h *BcryptHasher) run(ctx context.Context, fn func()) error {
	if h.runner == nil {
		fn()
		return nil
	}
	return h.runner.Do(ctx, fn)
}
