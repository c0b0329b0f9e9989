package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/token"
)

// TokenHasher derives the stored lookup key of a raw refresh token.
type TokenHasher interface {
	Hash(raw string) string
}

// TokenLedger is the authoritative record of issued refresh tokens. It owns
// rotation, revocation and replay detection; raw tokens never reach the store.
type TokenLedger struct {
	store  model.RefreshTokenStore
	hasher TokenHasher
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewTokenLedger parses refreshTTL ("7d", "12h", ...) once at construction.
func NewTokenLedger(store model.RefreshTokenStore, hasher TokenHasher, refreshTTL string, logger *logger.Logger) (*TokenLedger, error) {
	ttl, err := token.ParseTTL(refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenLedger{
		store:  store,
		hasher: hasher,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// CreateToken records a freshly issued refresh token for userID.
func (l *TokenLedger) CreateToken(ctx context.Context, userID uuid.UUID, raw, ip, userAgent string) (model.RefreshToken, error) {
	rt, err := l.store.Create(ctx, model.RefreshToken{
		TokenHash:   l.hasher.Hash(raw),
		UserID:      userID,
		ExpiresAt:   l.now().Add(l.ttl),
		CreatedByIP: optional(ip),
		UserAgent:   optional(userAgent),
	})
	if err != nil {
		l.logger.Error("Token ledger: failed to create refresh token",
			"user_id", userID,
			"error", err.Error())
		return model.RefreshToken{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return rt, nil
}

// ValidateToken resolves raw to its active ledger row. Presenting a token that
// was already rotated revokes the whole chain that grew from it.
func (l *TokenLedger) ValidateToken(ctx context.Context, raw string) (model.RefreshToken, error) {
	rt, err := l.store.GetByHash(ctx, l.hasher.Hash(raw))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.RefreshToken{}, apierrors.NewErrTokenInvalid()
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if rt.WasRotated() {
		l.logger.Warn("Token ledger: refresh token reuse detected",
			"user_id", rt.UserID,
			"token_id", rt.ID)

		revoked, err := l.RevokeTokenFamily(ctx, rt)
		if err != nil {
			return model.RefreshToken{}, err
		}

		l.logger.Warn("Token ledger: token family revoked",
			"user_id", rt.UserID,
			"revoked", revoked)
		return model.RefreshToken{}, apierrors.NewErrTokenReuseDetected()
	}

	if rt.IsRevoked {
		return model.RefreshToken{}, apierrors.NewErrTokenRevoked()
	}

	if rt.IsExpired(l.now()) {
		return model.RefreshToken{}, apierrors.NewErrTokenExpired()
	}

	return rt, nil
}

// RotateToken retires oldRaw in favour of newRaw. Of several concurrent
// rotations of the same token exactly one succeeds.
func (l *TokenLedger) RotateToken(ctx context.Context, oldRaw, newRaw, ip string) (model.RefreshToken, error) {
	old, err := l.ValidateToken(ctx, oldRaw)
	if err != nil {
		return model.RefreshToken{}, err
	}

	next := model.RefreshToken{
		TokenHash:   l.hasher.Hash(newRaw),
		UserID:      old.UserID,
		ExpiresAt:   l.now().Add(l.ttl),
		CreatedByIP: optional(ip),
		UserAgent:   old.UserAgent,
	}

	saved, err := l.store.Rotate(ctx, old.TokenHash, next, optional(ip))
	if err != nil {
		if errors.Is(err, model.ErrStaleToken) {
			l.logger.Info("Token ledger: lost concurrent rotation",
				"user_id", old.UserID,
				"token_id", old.ID)
			return model.RefreshToken{}, apierrors.NewErrTokenRevoked()
		}
		l.logger.Error("Token ledger: failed to rotate refresh token",
			"user_id", old.UserID,
			"error", err.Error())
		return model.RefreshToken{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return saved, nil
}

// RevokeToken revokes raw. Revoking an already revoked token is a no-op.
func (l *TokenLedger) RevokeToken(ctx context.Context, raw string, reason model.RevokeReason, ip string) error {
	err := l.store.Revoke(ctx, l.hasher.Hash(raw), reason, optional(ip))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrTokenNotFound()
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (l *TokenLedger) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID, reason model.RevokeReason) (int64, error) {
	n, err := l.store.RevokeAllByUser(ctx, userID, reason)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	l.logger.Info("Token ledger: revoked user tokens",
		"user_id", userID,
		"reason", string(reason),
		"count", n)
	return n, nil
}

// RevokeTokenFamily revokes every descendant of rt along the rotation chain.
func (l *TokenLedger) RevokeTokenFamily(ctx context.Context, rt model.RefreshToken) (int64, error) {
	n, err := l.store.RevokeDescendants(ctx, rt.TokenHash, model.RevokeReasonFamilyCompromise)
	if err != nil {
		l.logger.Error("Token ledger: failed to revoke token family",
			"user_id", rt.UserID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to revoke token family: %w", err)
	}
	return n, nil
}

// GetActiveTokens lists the user's unrevoked, unexpired tokens, newest first.
func (l *TokenLedger) GetActiveTokens(ctx context.Context, userID uuid.UUID) ([]model.RefreshToken, error) {
	tokens, err := l.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tokens: %w", err)
	}
	return tokens, nil
}

func (l *TokenLedger) CountActiveSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := l.store.CountActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return n, nil
}

// RevokeSession revokes one of userID's active sessions by its id.
func (l *TokenLedger) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, reason model.RevokeReason, ip string) error {
	err := l.store.RevokeByID(ctx, userID, sessionID, reason, optional(ip))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrSessionNotFound()
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteExpiredTokens garbage-collects rows whose expiry has passed.
func (l *TokenLedger) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	n, err := l.store.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return n, nil
}

// RunCleanup deletes expired tokens every interval until ctx is done.
func (l *TokenLedger) RunCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := l.DeleteExpiredTokens(ctx)
			if err != nil {
				l.logger.Error("Token ledger: cleanup failed",
					"error", err.Error())
				continue
			}
			if n > 0 {
				l.logger.Info("Token ledger: expired tokens deleted",
					"count", n)
			}
		}
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
