package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

const refreshTokenColumns = `id, token_hash, user_id, expires_at, is_revoked, revoked_at, revoke_reason, revoked_by_ip,
	replaced_by_token_hash, replaced_at, created_by_ip, user_agent, created_at, updated_at`

// maxChainDepth bounds the family walk.
const maxChainDepth = 10000

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func scanRefreshToken(row pgx.Row) (model.RefreshToken, error) {
	var rt model.RefreshToken
	err := row.Scan(
		&rt.ID, &rt.TokenHash, &rt.UserID, &rt.ExpiresAt, &rt.IsRevoked, &rt.RevokedAt, &rt.RevokeReason, &rt.RevokedByIP,
		&rt.ReplacedByTokenHash, &rt.ReplacedAt, &rt.CreatedByIP, &rt.UserAgent, &rt.CreatedAt, &rt.UpdatedAt,
	)
	return rt, err
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertRefreshToken(ctx context.Context, q querier, token model.RefreshToken) (model.RefreshToken, error) {
	const query = `
        INSERT INTO refresh_tokens (id, token_hash, user_id, expires_at, created_by_ip, user_agent, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING ` + refreshTokenColumns

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	return scanRefreshToken(q.QueryRow(ctx, query,
		token.ID, token.TokenHash, token.UserID, token.ExpiresAt, token.CreatedByIP, token.UserAgent,
	))
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) (model.RefreshToken, error) {
	saved, err := insertRefreshToken(ctx, r.db, token)
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return saved, nil
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	const query = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`

	rt, err := scanRefreshToken(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by hash: %w", err)
	}
	return rt, nil
}

// Rotate revokes the predecessor and inserts its successor atomically. The
// conditional update makes concurrent rotations of one token mutually exclusive.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldHash string, next model.RefreshToken, ip *string) (model.RefreshToken, error) {
	const revoke = `
        UPDATE refresh_tokens SET
            is_revoked = TRUE, revoked_at = NOW(), revoke_reason = $3, revoked_by_ip = $4,
            replaced_by_token_hash = $2, replaced_at = NOW(), updated_at = NOW()
        WHERE token_hash = $1 AND NOT is_revoked AND expires_at > NOW()
    `

	var saved model.RefreshToken
	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, revoke, oldHash, next.TokenHash, string(model.RevokeReasonRotation), ip)
		if err != nil {
			return fmt.Errorf("failed to revoke rotated refresh token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrStaleToken
		}

		saved, err = insertRefreshToken(ctx, tx, next)
		if err != nil {
			return fmt.Errorf("failed to insert rotated refresh token: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.RefreshToken{}, err
	}
	return saved, nil
}

// Revoke is a no-op for an already revoked token and ErrNotFound for an unknown one.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string, reason model.RevokeReason, ip *string) error {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW(), revoke_reason = $2,
            revoked_by_ip = $3, updated_at = NOW()
        WHERE token_hash = $1 AND NOT is_revoked
    `
	tag, err := r.db.Exec(ctx, query, tokenHash, string(reason), ip)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token_hash = $1)`, tokenHash).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return nil
}

// RevokeByID revokes an active session only when it belongs to userID.
func (r *RefreshTokenRepository) RevokeByID(ctx context.Context, userID, id uuid.UUID, reason model.RevokeReason, ip *string) error {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW(), revoke_reason = $3,
            revoked_by_ip = $4, updated_at = NOW()
        WHERE id = $1 AND user_id = $2 AND NOT is_revoked AND expires_at > NOW()
    `
	tag, err := r.db.Exec(ctx, query, id, userID, string(reason), ip)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID, reason model.RevokeReason) (int64, error) {
	const query = `
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW(), revoke_reason = $2, updated_at = NOW()
        WHERE user_id = $1 AND NOT is_revoked AND expires_at > NOW()
    `
	tag, err := r.db.Exec(ctx, query, userID, string(reason))
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens by user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RevokeDescendants walks replaced_by_token_hash links forward from tokenHash
// and revokes every descendant that is not revoked yet.
func (r *RefreshTokenRepository) RevokeDescendants(ctx context.Context, tokenHash string, reason model.RevokeReason) (int64, error) {
	const query = `
        WITH RECURSIVE chain (hash, depth) AS (
            SELECT replaced_by_token_hash, 1 FROM refresh_tokens
            WHERE token_hash = $1 AND replaced_by_token_hash IS NOT NULL
            UNION ALL
            SELECT rt.replaced_by_token_hash, chain.depth + 1
            FROM refresh_tokens rt JOIN chain ON rt.token_hash = chain.hash
            WHERE rt.replaced_by_token_hash IS NOT NULL AND chain.depth < $3
        )
        UPDATE refresh_tokens SET is_revoked = TRUE, revoked_at = NOW(), revoke_reason = $2, updated_at = NOW()
        WHERE token_hash IN (SELECT hash FROM chain) AND NOT is_revoked
    `
	tag, err := r.db.Exec(ctx, query, tokenHash, string(reason), maxChainDepth)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke token family: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.RefreshToken, error) {
	const query = `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens
        WHERE user_id = $1 AND NOT is_revoked AND expires_at > NOW()
        ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active refresh tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]model.RefreshToken, 0)
	for rows.Next() {
		rt, err := scanRefreshToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh token: %w", err)
		}
		tokens = append(tokens, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate refresh tokens: %w", err)
	}
	return tokens, nil
}

func (r *RefreshTokenRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1 AND NOT is_revoked AND expires_at > NOW()`

	var n int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count active refresh tokens: %w", err)
	}
	return n, nil
}

// DeleteExpired removes rows whose expiry has passed, revoked or not.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
