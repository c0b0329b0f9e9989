package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
)

// VerifyEmail activates a pending account with the emailed code.
func (a *Auth) VerifyEmail(ctx context.Context, email, code, lang string) (model.PublicUser, error) {
	email = model.NormalizeEmail(email)

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, apierrors.NewErrVerificationCodeInvalid()
		}
		return model.PublicUser{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.EmailVerified {
		return model.PublicUser{}, apierrors.NewErrAlreadyVerified()
	}

	if err := a.codes.Check(ctx, purposeVerification, email, code); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			return model.PublicUser{}, apierrors.NewErrVerificationCodeInvalid()
		case errors.Is(err, errCodeMismatch):
			a.logger.Info("Auth service: incorrect verification code",
				"user_id", user.ID)
			return model.PublicUser{}, apierrors.NewErrVerificationCodeIncorrect()
		}
		return model.PublicUser{}, fmt.Errorf("failed to check verification code: %w", err)
	}

	now := a.now()
	user.EmailVerified = true
	user.VerifiedAt = &now
	if user.Status == model.StatusPending {
		user.Status = model.StatusActive
	}

	user, err = a.users.Update(ctx, user)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("failed to update user: %w", err)
	}

	if err := a.codes.Discard(ctx, purposeVerification, email); err != nil {
		a.logger.Warn("Auth service: failed to discard verification code",
			"user_id", user.ID,
			"error", err.Error())
	}

	if err := a.notifier.SendWelcome(ctx, user, lang); err != nil {
		a.logger.Error("Auth service: failed to queue welcome email",
			"user_id", user.ID,
			"error", err.Error())
	}

	a.logger.Info("Auth service: email verified",
		"user_id", user.ID)
	return user.Public(), nil
}

// ResendVerification replaces the pending verification code. Unknown emails
// succeed silently.
func (a *Auth) ResendVerification(ctx context.Context, email, lang string) error {
	email = model.NormalizeEmail(email)

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if user.EmailVerified {
		return apierrors.NewErrAlreadyVerified()
	}

	a.sendVerification(ctx, user, lang)
	return nil
}

// ForgotPassword emails a reset code. The answer is the same whether or not
// the email is registered.
func (a *Auth) ForgotPassword(ctx context.Context, email, lang string) error {
	email = model.NormalizeEmail(email)

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: password reset for unknown email",
				"email", email)
			return nil
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	code, err := a.codes.Issue(ctx, purposeReset, email)
	if err != nil {
		return err
	}

	if err := a.notifier.SendPasswordReset(ctx, user, code, lang); err != nil {
		a.logger.Error("Auth service: failed to queue password reset email",
			"user_id", user.ID,
			"error", err.Error())
	}
	return nil
}

// ResetPassword sets a new password with a reset code and ends every session.
func (a *Auth) ResetPassword(ctx context.Context, email, code, newPassword, lang string) error {
	email = model.NormalizeEmail(email)

	if !password.IsStrong(newPassword) {
		return apierrors.NewErrValidationFields(map[string]string{"new_password": "too weak"})
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrResetCodeInvalid()
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.codes.Check(ctx, purposeReset, email, code); err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, errCodeMismatch) {
			return apierrors.NewErrResetCodeInvalid()
		}
		return fmt.Errorf("failed to check reset code: %w", err)
	}

	if err := a.setPassword(ctx, user, newPassword, model.RevokeReasonPasswordReset); err != nil {
		return err
	}

	if err := a.codes.Discard(ctx, purposeReset, email); err != nil {
		a.logger.Warn("Auth service: failed to discard reset code",
			"user_id", user.ID,
			"error", err.Error())
	}

	a.notifyPasswordChanged(ctx, user, lang)
	return nil
}

// ChangePassword replaces the password of a signed-in user after checking the current one.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword, lang string) error {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrUserNotFound()
		}
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	ok, err := a.hasher.Compare(ctx, user.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		return apierrors.NewErrInvalidCredentials()
	}

	if !password.IsStrong(newPassword) {
		return apierrors.NewErrValidationFields(map[string]string{"new_password": "too weak"})
	}

	if err := a.setPassword(ctx, user, newPassword, model.RevokeReasonPasswordChanged); err != nil {
		return err
	}

	a.notifyPasswordChanged(ctx, user, lang)
	return nil
}

func (a *Auth) setPassword(ctx context.Context, user model.User, newPassword string, reason model.RevokeReason) error {
	hash, err := a.hasher.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.LoginAttempts = 0
	user.LockedUntil = nil
	if _, err := a.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := a.ledger.RevokeAllUserTokens(ctx, user.ID, reason); err != nil {
		return err
	}

	a.logger.Info("Auth service: password updated",
		"user_id", user.ID,
		"reason", string(reason))
	return nil
}

func (a *Auth) notifyPasswordChanged(ctx context.Context, user model.User, lang string) {
	if err := a.notifier.SendPasswordChanged(ctx, user, lang); err != nil {
		a.logger.Error("Auth service: failed to queue password changed email",
			"user_id", user.ID,
			"error", err.Error())
	}
}
