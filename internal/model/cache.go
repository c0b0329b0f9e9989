package model

import (
	"context"
	"time"
)

// Cache is a disposable key-value store for short-lived secrets.
// Get returns ErrNotFound on a miss.
type Cache interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Increment adds one to the counter at key and returns the new value.
	// A counter created by the call expires after ttl.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) (bool, error)
}
