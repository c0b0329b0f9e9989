package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

type codePurpose string

const (
	purposeVerification codePurpose = "verification"
	purposeReset        codePurpose = "reset"
)

const (
	codeDigits = 6
	// maxCodeGuesses wrong answers burn the code.
	maxCodeGuesses = 5
)

var errCodeMismatch = errors.New("code mismatch")

// codeBook issues one-time numeric codes and keeps only their digests in the cache.
type codeBook struct {
	cache model.Cache
	ttl   time.Duration
}

func newCodeBook(cache model.Cache, ttl time.Duration) *codeBook {
	return &codeBook{cache: cache, ttl: ttl}
}

func codeKey(purpose codePurpose, email string) string {
	return string(purpose) + ":" + email
}

func guessesKey(purpose codePurpose, email string) string {
	return codeKey(purpose, email) + ":attempts"
}

func digest(email, code string) string {
	sum := sha256.Sum256([]byte(email + ":" + code))
	return hex.EncodeToString(sum[:])
}

// Issue generates a new code for email, replacing any previous one.
func (b *codeBook) Issue(ctx context.Context, purpose codePurpose, email string) (string, error) {
	code, err := randomCode(codeDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	if err := b.cache.SetWithTTL(ctx, codeKey(purpose, email), digest(email, code), b.ttl); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}
	if err := b.cache.Delete(ctx, guessesKey(purpose, email)); err != nil {
		return "", fmt.Errorf("failed to reset code guesses: %w", err)
	}
	return code, nil
}

// Check returns model.ErrNotFound when no code is live and errCodeMismatch
// when code is wrong. The stored code survives a mismatch until
// maxCodeGuesses wrong answers have been given.
func (b *codeBook) Check(ctx context.Context, purpose codePurpose, email, code string) error {
	stored, err := b.cache.Get(ctx, codeKey(purpose, email))
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(digest(email, code))) == 1 {
		return nil
	}

	guesses, err := b.cache.Increment(ctx, guessesKey(purpose, email), b.ttl)
	if err != nil {
		return fmt.Errorf("failed to count code guess: %w", err)
	}
	if guesses >= maxCodeGuesses {
		if err := b.Discard(ctx, purpose, email); err != nil {
			return fmt.Errorf("failed to discard guessed code: %w", err)
		}
	}
	return errCodeMismatch
}

func (b *codeBook) Discard(ctx context.Context, purpose codePurpose, email string) error {
	if err := b.cache.Delete(ctx, codeKey(purpose, email)); err != nil {
		return err
	}
	return b.cache.Delete(ctx, guessesKey(purpose, email))
}

func randomCode(digits int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
