package model

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists hashed refresh tokens and their rotation chain.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) (RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (RefreshToken, error)
	// Rotate revokes oldHash and inserts next in one transaction.
	// It returns ErrStaleToken when oldHash is no longer active.
	Rotate(ctx context.Context, oldHash string, next RefreshToken, ip *string) (RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, reason RevokeReason, ip *string) error
	RevokeByID(ctx context.Context, userID, id uuid.UUID, reason RevokeReason, ip *string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID, reason RevokeReason) (int64, error)
	RevokeDescendants(ctx context.Context, tokenHash string, reason RevokeReason) (int64, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]RefreshToken, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// RevokeReason labels why a refresh token stopped being usable.
type RevokeReason string

const (
	RevokeReasonRotation         RevokeReason = "rotation"
	RevokeReasonLogout           RevokeReason = "logout"
	RevokeReasonLogoutAll        RevokeReason = "logout all sessions"
	RevokeReasonSessionRevoked   RevokeReason = "session revoked by user"
	RevokeReasonFamilyCompromise RevokeReason = "family compromised"
	RevokeReasonPasswordChanged  RevokeReason = "password changed"
	RevokeReasonPasswordReset    RevokeReason = "password reset"
	RevokeReasonAccountDeleted   RevokeReason = "account deleted"
	RevokeReasonAccountStatus    RevokeReason = "account status changed"
)

// RefreshToken is a persisted refresh token. The raw value is never stored.
type RefreshToken struct {
	ID                  uuid.UUID
	TokenHash           string
	UserID              uuid.UUID
	ExpiresAt           time.Time
	IsRevoked           bool
	RevokedAt           *time.Time
	RevokeReason        *string
	RevokedByIP         *string
	ReplacedByTokenHash *string
	ReplacedAt          *time.Time
	CreatedByIP         *string
	UserAgent           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsExpired reports whether the token expired at now.
func (t RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsActive reports whether the token is neither revoked nor expired.
func (t RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}

// WasRotated reports whether the token was revoked in favour of a successor.
func (t RefreshToken) WasRotated() bool {
	return t.IsRevoked && t.ReplacedByTokenHash != nil && *t.ReplacedByTokenHash != ""
}

// SessionInfo is the session-listing view of an active refresh token.
type SessionInfo struct {
	ID                  uuid.UUID `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	ExpiresAt           time.Time `json:"expires_at"`
	CreatedByIP         *string   `json:"created_by_ip,omitempty"`
	UserAgent           *string   `json:"user_agent,omitempty"`
	DaysUntilExpiration int       `json:"days_until_expiration"`
}

// Session builds the listing view of t at now.
func (t RefreshToken) Session(now time.Time) SessionInfo {
	days := int(math.Ceil(t.ExpiresAt.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return SessionInfo{
		ID:                  t.ID,
		CreatedAt:           t.CreatedAt,
		ExpiresAt:           t.ExpiresAt,
		CreatedByIP:         t.CreatedByIP,
		UserAgent:           t.UserAgent,
		DaysUntilExpiration: days,
	}
}
