package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Users manages accounts on behalf of operators.
type Users struct {
	users  model.UserStore
	ledger *TokenLedger
	logger *logger.Logger
}

func NewUsers(users model.UserStore, ledger *TokenLedger, logger *logger.Logger) *Users {
	return &Users{users: users, ledger: ledger, logger: logger}
}

// Profile returns the caller's own account.
func (u *Users) Profile(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, userLookupError(err)
	}
	return user.Public(), nil
}

// GetUser includes soft-deleted accounts.
func (u *Users) GetUser(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := u.users.FindByIDWithDeleted(ctx, id)
	if err != nil {
		return model.PublicUser{}, userLookupError(err)
	}
	return user.Public(), nil
}

func (u *Users) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := u.users.SoftDelete(ctx, id); err != nil {
		return userLookupError(err)
	}

	if _, err := u.ledger.RevokeAllUserTokens(ctx, id, model.RevokeReasonAccountDeleted); err != nil {
		return err
	}

	u.logger.Info("Users service: user deleted",
		"user_id", id)
	return nil
}

func (u *Users) Restore(ctx context.Context, id uuid.UUID) error {
	if err := u.users.Restore(ctx, id); err != nil {
		return userLookupError(err)
	}

	u.logger.Info("Users service: user restored",
		"user_id", id)
	return nil
}

// UpdateStatus moves an account to status. Leaving the active state ends every session.
func (u *Users) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.PublicUser, error) {
	if !status.Valid() {
		return model.PublicUser{}, apierrors.NewErrValidationFields(map[string]string{"status": "unknown status"})
	}

	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, userLookupError(err)
	}

	user.Status = status
	user, err = u.users.Update(ctx, user)
	if err != nil {
		return model.PublicUser{}, userLookupError(err)
	}

	if status != model.StatusActive {
		if _, err := u.ledger.RevokeAllUserTokens(ctx, id, model.RevokeReasonAccountStatus); err != nil {
			return model.PublicUser{}, err
		}
	}

	u.logger.Info("Users service: status updated",
		"user_id", id,
		"status", string(status))
	return user.Public(), nil
}

func userLookupError(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrUserNotFound()
	}
	return fmt.Errorf("failed to access user: %w", err)
}

func emailJobError(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrEmailJobNotFound()
	}
	return fmt.Errorf("failed to access email job: %w", err)
}
