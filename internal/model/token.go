package model

import (
	"time"

	"github.com/google/uuid"
)

// Signer signs and parses access and refresh JWTs with independent secrets.
type Signer interface {
	SignAccess(user User) (string, error)
	SignRefresh(user User) (string, error)
	ParseAccess(token string) (AccessClaims, error)
	ParseRefresh(token string) (RefreshClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// AccessClaims are the identity claims carried by an access token.
type AccessClaims struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// RefreshClaims are carried by a refresh token. Role is left out on purpose.
type RefreshClaims struct {
	UserID uuid.UUID
	Email  string
	JTI    string
}
