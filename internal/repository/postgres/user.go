package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, username, password_hash, first_name, last_name, phone, role, status,
	email_verified, verified_at, login_attempts, locked_until, last_login_at, last_login_ip,
	created_at, updated_at, deleted_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.Status,
		&u.EmailVerified, &u.VerifiedAt, &u.LoginAttempts, &u.LockedUntil, &u.LastLoginAt, &u.LastLoginIP,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	return u, err
}

func (r *UserRepository) findOne(ctx context.Context, op, query string, arg any) (model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by %s: %w", op, err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, "email", query, model.NormalizeEmail(email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, "username", query, model.NormalizeUsername(username))
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, "id", query, id)
}

// FindByIDWithDeleted also returns soft-deleted users.
func (r *UserRepository) FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, "id", query, id)
}

// Create normalizes and inserts user.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	user.Normalize()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Status == "" {
		user.Status = model.StatusPending
	}

	query := `INSERT INTO users (id, email, username, password_hash, first_name, last_name, phone, role, status,
				email_verified, verified_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.Role, user.Status, user.EmailVerified, user.VerifiedAt,
	))
	if err != nil {
		return model.User{}, mapUserWriteError("create", err)
	}

	return saved, nil
}

// Update normalizes user and overwrites its mutable fields.
func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	user.Normalize()

	query := `UPDATE users SET
				email = $2, username = $3, password_hash = $4, first_name = $5, last_name = $6, phone = $7,
				role = $8, status = $9, email_verified = $10, verified_at = $11, login_attempts = $12,
				locked_until = $13, updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName, user.Phone,
		user.Role, user.Status, user.EmailVerified, user.VerifiedAt, user.LoginAttempts, user.LockedUntil,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, mapUserWriteError("update", err)
	}

	return saved, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Restore(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// RegisterFailedLogin bumps the failure counter in one statement and locks the
// account once it reaches maxAttempts. An expired lock restarts the count.
func (r *UserRepository) RegisterFailedLogin(ctx context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) (model.User, error) {
	query := `WITH next AS (
				SELECT id,
					CASE WHEN locked_until IS NOT NULL AND locked_until <= NOW() THEN 1
						 ELSE login_attempts + 1 END AS attempts
				FROM users WHERE id = $1 AND deleted_at IS NULL
				FOR UPDATE
			  )
			  UPDATE users u SET
				login_attempts = next.attempts,
				locked_until = CASE WHEN next.attempts >= $2 THEN NOW() + make_interval(secs => $3)
									WHEN u.locked_until IS NOT NULL AND u.locked_until <= NOW() THEN NULL
									ELSE u.locked_until END,
				updated_at = NOW()
			  FROM next
			  WHERE u.id = next.id
			  RETURNING ` + prefixed("u", userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id, maxAttempts, lockFor.Seconds()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to register failed login: %w", err)
	}
	return user, nil
}

func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, ip string) error {
	query := `UPDATE users SET login_attempts = 0, locked_until = NULL, last_login_at = NOW(),
				last_login_ip = NULLIF($2, ''), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, ip); err != nil {
		return fmt.Errorf("failed to record successful login: %w", err)
	}
	return nil
}

func mapUserWriteError(op string, err error) error {
	if name, ok := uniqueConstraint(err); ok {
		switch name {
		case "users_email_key":
			return model.ErrEmailTaken
		case "users_username_key":
			return model.ErrUsernameTaken
		}
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}
