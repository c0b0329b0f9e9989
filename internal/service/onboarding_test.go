package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

func TestAuth_VerifyEmailExpiredCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	var code string
	f.expectCode("SendVerificationCode", &code)
	_, err := f.auth.Register(ctx, model.RegisterParams{Email: "v@example.com", Username: "v", Password: strongPassword}, "en")
	require.NoError(t, err)

	f.redis.FastForward(16 * time.Minute)

	_, err = f.auth.VerifyEmail(ctx, "v@example.com", code, "en")
	assert.ErrorIs(t, err, apierrors.NewErrVerificationCodeInvalid())

	_, err = f.auth.VerifyEmail(ctx, "nobody@example.com", code, "en")
	assert.ErrorIs(t, err, apierrors.NewErrVerificationCodeInvalid())
}

func TestAuth_ResendVerificationReplacesCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	var first, second string
	f.expectCode("SendVerificationCode", &first)
	_, err := f.auth.Register(ctx, model.RegisterParams{Email: "v@example.com", Username: "v", Password: strongPassword}, "es")
	require.NoError(t, err)

	f.expectCode("SendVerificationCode", &second)
	require.NoError(t, f.auth.ResendVerification(ctx, "v@example.com", "es"))

	assert.NoError(t, f.auth.ResendVerification(ctx, "unknown@example.com", "es"))

	f.notifier.On("SendWelcome", mock.Anything, mock.Anything, "es").Return(nil).Once()
	_, err = f.auth.VerifyEmail(ctx, "v@example.com", second, "es")
	require.NoError(t, err)

	err = f.auth.ResendVerification(ctx, "v@example.com", "es")
	assert.ErrorIs(t, err, apierrors.NewErrAlreadyVerified())
}

func TestAuth_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.createUser(t, "reset@example.com", "reset", model.StatusActive)

	session, err := f.login("reset@example.com", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.auth.ForgotPassword(ctx, "ghost@example.com", "en"))

	var code string
	f.expectCode("SendPasswordReset", &code)
	require.NoError(t, f.auth.ForgotPassword(ctx, "Reset@Example.com", "en"))
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = f.auth.ResetPassword(ctx, "reset@example.com", wrong, "N3w!Password", "en")
	assert.ErrorIs(t, err, apierrors.NewErrResetCodeInvalid())

	err = f.auth.ResetPassword(ctx, "reset@example.com", code, "weak", "en")
	assert.ErrorIs(t, err, apierrors.NewErrValidation(""))

	f.notifier.On("SendPasswordChanged", mock.Anything, mock.AnythingOfType("model.User"), "en").Return(nil).Once()
	require.NoError(t, f.auth.ResetPassword(ctx, "reset@example.com", code, "N3w!Password", "en"))

	err = f.auth.ResetPassword(ctx, "reset@example.com", code, "An0ther!Pass", "en")
	assert.ErrorIs(t, err, apierrors.NewErrResetCodeInvalid())

	_, err = f.auth.Refresh(ctx, session.RefreshToken, "")
	assert.ErrorIs(t, err, apierrors.NewErrTokenRevoked())

	_, err = f.login("reset@example.com", strongPassword)
	assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())

	_, err = f.login("reset@example.com", "N3w!Password")
	require.NoError(t, err)

	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.LoginAttempts)
}

func TestAuth_ResetCodeCannotBeGuessed(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.createUser(t, "guess@example.com", "guess", model.StatusActive)

	var code string
	f.expectCode("SendPasswordReset", &code)
	require.NoError(t, f.auth.ForgotPassword(ctx, "guess@example.com", "en"))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < maxCodeGuesses; i++ {
		err := f.auth.ResetPassword(ctx, "guess@example.com", wrong, "N3w!Password", "en")
		require.ErrorIs(t, err, apierrors.NewErrResetCodeInvalid())
	}

	err := f.auth.ResetPassword(ctx, "guess@example.com", code, "N3w!Password", "en")
	assert.ErrorIs(t, err, apierrors.NewErrResetCodeInvalid())

	_, err = f.login("guess@example.com", strongPassword)
	assert.NoError(t, err)
}

func TestAuth_ResetPasswordClearsLockout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.createUser(t, "locked@example.com", "locked", model.StatusActive)

	for i := 0; i < 5; i++ {
		_, _ = f.login("locked@example.com", "Wr0ng!Pass")
	}

	var code string
	f.expectCode("SendPasswordReset", &code)
	require.NoError(t, f.auth.ForgotPassword(ctx, "locked@example.com", "en"))

	f.notifier.On("SendPasswordChanged", mock.Anything, mock.Anything, "en").Return(nil).Once()
	require.NoError(t, f.auth.ResetPassword(ctx, "locked@example.com", code, "N3w!Password", "en"))

	_, err := f.login("locked@example.com", "N3w!Password")
	assert.NoError(t, err)
}

func TestAuth_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.createUser(t, "c@example.com", "c", model.StatusActive)

	session, err := f.login("c@example.com", strongPassword)
	require.NoError(t, err)

	err = f.auth.ChangePassword(ctx, u.ID, "Wr0ng!Pass", "N3w!Password", "en")
	assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())

	err = f.auth.ChangePassword(ctx, u.ID, strongPassword, "short", "en")
	assert.ErrorIs(t, err, apierrors.NewErrValidation(""))

	f.notifier.On("SendPasswordChanged", mock.Anything, mock.AnythingOfType("model.User"), "en").Return(nil).Once()
	require.NoError(t, f.auth.ChangePassword(ctx, u.ID, strongPassword, "N3w!Password", "en"))

	_, err = f.auth.Refresh(ctx, session.RefreshToken, "")
	assert.ErrorIs(t, err, apierrors.NewErrTokenRevoked())

	_, err = f.login("c@example.com", "N3w!Password")
	assert.NoError(t, err)
}
