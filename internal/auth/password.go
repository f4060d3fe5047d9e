package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
//
// bcrypt is deliberately slow, so at most maxConcurrent hash or verify
// operations run at once. Callers beyond that wait for a slot or for their
// context to be cancelled.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted

	dummyOnce sync.Once
	dummyHash []byte
}

// NewHasher creates a Hasher. A cost outside bcrypt's range falls back to
// bcrypt.DefaultCost and maxConcurrent below 1 is treated as 1.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Hash returns a salted bcrypt hash of plaintext. Every call uses a fresh salt.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether candidate matches hash. A mismatch is (false, nil).
// A hash that is not valid bcrypt yields (false, ErrMalformedHash) so callers
// can treat it as a failed verification.
func (h *Hasher) Verify(ctx context.Context, hash, candidate string) (bool, error) {
	if len(candidate) > maxPasswordBytes {
		return false, nil
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("waiting for hash slot: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}

// VerifyDummy spends the same time as a real Verify against a throwaway
// hash. Login uses it for unknown emails so response timing does not reveal
// which addresses are registered. It always reports false.
func (h *Hasher) VerifyDummy(ctx context.Context, candidate string) {
	h.dummyOnce.Do(func() {
		// Error is impossible: the input is short and the cost is in range.
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("devicekeeper-dummy"), h.cost) //nolint:errcheck
	})
	_, _ = h.Verify(ctx, string(h.dummyHash), candidate) //nolint:errcheck
}
