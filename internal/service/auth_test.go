package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/mocks"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
	redisrepo "github.com/dtroode/gatekeeper-server/internal/repository/redis"
	"github.com/dtroode/gatekeeper-server/internal/testutil"
	"github.com/dtroode/gatekeeper-server/internal/token"
)

const strongPassword = "Str0ng!Pass"

type authFixture struct {
	auth     *Auth
	users    *memUserStore
	tokens   *memTokenStore
	signer   *token.JWT
	notifier *mocks.Notifier
	clock    *clock
	redis    *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	c := newClock()

	users := newMemUserStore(c.Now)
	tokens := newMemTokenStore(c.Now)
	ledger, err := NewTokenLedger(tokens, token.NewHasher("auth-test-hash-key"), "7d", lg)
	require.NoError(t, err)
	ledger.now = c.Now

	signer, err := token.NewJWT("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	hasher, err := password.NewBcrypt(4, 4)
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	notifier := mocks.NewNotifier(t)
	a := NewAuth(users, ledger, signer, hasher, redisrepo.NewCache(client, "test"), notifier, AuthOptions{
		MaxLoginAttempts: 5,
		LockoutDuration:  30 * time.Minute,
		CodeTTL:          15 * time.Minute,
	}, lg)
	a.now = c.Now

	return &authFixture{
		auth:     a,
		users:    users,
		tokens:   tokens,
		signer:   signer,
		notifier: notifier,
		clock:    c,
		redis:    mr,
	}
}

func (f *authFixture) createUser(t *testing.T, email, username string, status model.Status) model.User {
	t.Helper()
	hash, err := f.auth.hasher.Hash(context.Background(), strongPassword)
	require.NoError(t, err)

	u, err := f.users.Create(context.Background(), model.User{
		Email:         email,
		Username:      username,
		PasswordHash:  hash,
		FirstName:     "Ada",
		Role:          model.RoleUser,
		Status:        status,
		EmailVerified: status != model.StatusPending,
	})
	require.NoError(t, err)
	return u
}

func (f *authFixture) login(email, pw string) (model.AuthResult, error) {
	return f.auth.Login(context.Background(), model.LoginParams{Email: email, Password: pw, IP: "10.0.0.1", UserAgent: "test-agent"})
}

func (f *authFixture) expectCode(method string, code *string) {
	f.notifier.On(method, mock.Anything, mock.AnythingOfType("model.User"), mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { *code = args.String(2) }).
		Return(nil).Once()
}

func TestAuth_RegisterVerifyLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	var code string
	f.expectCode("SendVerificationCode", &code)

	res, err := f.auth.Register(ctx, model.RegisterParams{
		Email:    "  Ada@Example.COM ",
		Username: "AdaL",
		Password: strongPassword,
	}, "en")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.Email)
	assert.Len(t, code, 6)

	stored, err := f.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, "adal", stored.Username)
	assert.NotEqual(t, strongPassword, stored.PasswordHash)

	_, err = f.login("ada@example.com", strongPassword)
	assert.ErrorIs(t, err, apierrors.NewErrAccountPending())

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = f.auth.VerifyEmail(ctx, "ada@example.com", wrong, "en")
	assert.ErrorIs(t, err, apierrors.NewErrVerificationCodeIncorrect())

	f.notifier.On("SendWelcome", mock.Anything, mock.AnythingOfType("model.User"), "en").Return(nil).Once()
	verified, err := f.auth.VerifyEmail(ctx, "ADA@example.com", code, "en")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, verified.Status)
	assert.True(t, verified.EmailVerified)
	assert.NotNil(t, verified.VerifiedAt)

	_, err = f.auth.VerifyEmail(ctx, "ada@example.com", code, "en")
	assert.ErrorIs(t, err, apierrors.NewErrAlreadyVerified())

	result, err := f.login("Ada@Example.com", strongPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, int64(900), result.ExpiresIn)
	assert.Equal(t, stored.ID, result.User.ID)

	claims, err := f.signer.ParseAccess(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	_, raw := f.tokens.byHash[result.RefreshToken]
	assert.False(t, raw, "raw refresh token must not be stored")
}

func TestAuth_RegisterConflicts(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.createUser(t, "taken@example.com", "taken", model.StatusActive)

	_, err := f.auth.Register(ctx, model.RegisterParams{Email: "TAKEN@example.com", Username: "fresh", Password: strongPassword}, "en")
	assert.ErrorIs(t, err, apierrors.NewErrEmailExists(""))

	_, err = f.auth.Register(ctx, model.RegisterParams{Email: "fresh@example.com", Username: " Taken ", Password: strongPassword}, "en")
	assert.ErrorIs(t, err, apierrors.NewErrUsernameExists(""))

	_, err = f.auth.Register(ctx, model.RegisterParams{Email: "weak@example.com", Username: "weak", Password: "password"}, "en")
	assert.ErrorIs(t, err, apierrors.NewErrValidation(""))
}

func TestAuth_RegisterSurvivesNotificationFailure(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	f.notifier.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	_, err := f.auth.Register(ctx, model.RegisterParams{Email: "a@example.com", Username: "a", Password: strongPassword}, "en")
	assert.NoError(t, err)
}

func TestAuth_LoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.login("ghost@example.com", strongPassword)
	assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())
}

func TestAuth_LoginLockout(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "lock@example.com", "lock", model.StatusActive)

	for i := 0; i < 5; i++ {
		_, err := f.login("lock@example.com", "Wr0ng!Pass")
		assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())
	}

	_, err := f.login("lock@example.com", strongPassword)
	require.ErrorIs(t, err, apierrors.NewErrAccountLocked(0))
	apiErr, ok := apierrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "30", apiErr.Metadata["retry_after_minutes"])

	f.clock.Advance(31 * time.Minute)
	_, err = f.login("lock@example.com", strongPassword)
	require.NoError(t, err)

	stored, err := f.users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.LoginAttempts)
	assert.Nil(t, stored.LockedUntil)
	require.NotNil(t, stored.LastLoginIP)
	assert.Equal(t, "10.0.0.1", *stored.LastLoginIP)
}

func TestAuth_SuccessfulLoginResetsFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "reset@example.com", "reset", model.StatusActive)

	for i := 0; i < 4; i++ {
		_, _ = f.login("reset@example.com", "Wr0ng!Pass")
	}
	_, err := f.login("reset@example.com", strongPassword)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, _ = f.login("reset@example.com", "Wr0ng!Pass")
	}
	_, err = f.login("reset@example.com", strongPassword)
	assert.NoError(t, err)
}

func TestAuth_LoginStatus(t *testing.T) {
	tests := []struct {
		status model.Status
		want   error
	}{
		{model.StatusSuspended, apierrors.NewErrAccountSuspended()},
		{model.StatusBlocked, apierrors.NewErrAccountSuspended()},
		{model.StatusInactive, apierrors.NewErrAccountInactive()},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newAuthFixture(t)
			f.createUser(t, "s@example.com", "s", tt.status)

			_, err := f.login("s@example.com", strongPassword)
			assert.ErrorIs(t, err, tt.want)

			_, err = f.login("s@example.com", "Wr0ng!Pass")
			assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())
		})
	}
}

func TestAuth_RefreshRotatesAndDetectsReuse(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.createUser(t, "r@example.com", "r", model.StatusActive)

	first, err := f.login("r@example.com", strongPassword)
	require.NoError(t, err)

	second, err := f.auth.Refresh(ctx, first.RefreshToken, "10.0.0.2")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEmpty(t, second.AccessToken)

	third, err := f.auth.Refresh(ctx, second.RefreshToken, "10.0.0.2")
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, first.RefreshToken, "10.6.6.6")
	assert.ErrorIs(t, err, apierrors.NewErrTokenReuseDetected())

	_, err = f.auth.Refresh(ctx, third.RefreshToken, "10.0.0.2")
	assert.ErrorIs(t, err, apierrors.NewErrTokenRevoked())
}

func TestAuth_RefreshRejectsInactiveUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.createUser(t, "r@example.com", "r", model.StatusActive)

	res, err := f.login("r@example.com", strongPassword)
	require.NoError(t, err)

	u.Status = model.StatusSuspended
	_, err = f.users.Update(ctx, u)
	require.NoError(t, err)

	_, err = f.auth.Refresh(ctx, res.RefreshToken, "")
	assert.ErrorIs(t, err, apierrors.NewErrAccountSuspended())
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.createUser(t, "l@example.com", "l", model.StatusActive)

	res, err := f.login("l@example.com", strongPassword)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, res.RefreshToken, ""))
	assert.NoError(t, f.auth.Logout(ctx, res.RefreshToken, ""))
	assert.NoError(t, f.auth.Logout(ctx, "never-issued", ""))

	_, err = f.auth.Refresh(ctx, res.RefreshToken, "")
	assert.ErrorIs(t, err, apierrors.NewErrTokenRevoked())
}

func TestAuth_Sessions(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.createUser(t, "s@example.com", "s", model.StatusActive)

	_, err := f.login("s@example.com", strongPassword)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	_, err = f.login("s@example.com", strongPassword)
	require.NoError(t, err)

	sessions, err := f.auth.GetActiveSessions(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, 7, sessions[0].DaysUntilExpiration)
	require.NotNil(t, sessions[0].UserAgent)
	assert.Equal(t, "test-agent", *sessions[0].UserAgent)

	err = f.auth.RevokeSession(ctx, uuid.New(), sessions[0].ID, "")
	assert.ErrorIs(t, err, apierrors.NewErrSessionNotFound())

	require.NoError(t, f.auth.RevokeSession(ctx, u.ID, sessions[0].ID, ""))

	n, err := f.auth.LogoutAll(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sessions, err = f.auth.GetActiveSessions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	u := f.createUser(t, "p@example.com", "p", model.StatusActive)

	res, err := f.login("p@example.com", strongPassword)
	require.NoError(t, err)

	principal, err := f.auth.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, principal.UserID)
	assert.Equal(t, model.StatusActive, principal.Status)

	_, err = f.auth.Authenticate(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, apierrors.NewErrInvalidAuthorizationToken())

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, apierrors.NewErrInvalidAuthorizationToken())
}

type mockedAuth struct {
	auth   *Auth
	users  *memUserStore
	tokens *memTokenStore
	hasher *mocks.PasswordHasher
	signer *mocks.Signer
}

func newMockedAuth(t *testing.T) *mockedAuth {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	c := newClock()

	users := newMemUserStore(c.Now)
	tokens := newMemTokenStore(c.Now)
	ledger, err := NewTokenLedger(tokens, token.NewHasher("auth-test-hash-key"), "7d", lg)
	require.NoError(t, err)

	hasher := mocks.NewPasswordHasher(t)
	signer := mocks.NewSigner(t)
	a := NewAuth(users, ledger, signer, hasher, mocks.NewCache(t), mocks.NewNotifier(t), AuthOptions{
		MaxLoginAttempts: 5,
		LockoutDuration:  30 * time.Minute,
		CodeTTL:          15 * time.Minute,
	}, lg)
	a.now = c.Now

	return &mockedAuth{auth: a, users: users, tokens: tokens, hasher: hasher, signer: signer}
}

func TestAuth_LoginUnknownEmailStillComparesPassword(t *testing.T) {
	ctx := context.Background()
	m := newMockedAuth(t)

	m.hasher.On("Hash", mock.Anything, mock.AnythingOfType("string")).Return("dummy-hash", nil).Once()
	m.hasher.On("Compare", mock.Anything, "dummy-hash", "guess-1").Return(false, nil).Once()
	m.hasher.On("Compare", mock.Anything, "dummy-hash", "guess-2").Return(false, nil).Once()

	_, err := m.auth.Login(ctx, model.LoginParams{Email: "ghost@example.com", Password: "guess-1"})
	assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())

	_, err = m.auth.Login(ctx, model.LoginParams{Email: "ghost@example.com", Password: "guess-2"})
	assert.ErrorIs(t, err, apierrors.NewErrInvalidCredentials())
}

func TestAuth_LoginSignerFailureIssuesNoSession(t *testing.T) {
	ctx := context.Background()
	m := newMockedAuth(t)

	u, err := m.users.Create(ctx, model.User{
		Email:         "sign@example.com",
		Username:      "sign",
		PasswordHash:  "stored-hash",
		Role:          model.RoleUser,
		Status:        model.StatusActive,
		EmailVerified: true,
	})
	require.NoError(t, err)

	m.hasher.On("Compare", mock.Anything, "stored-hash", strongPassword).Return(true, nil).Twice()
	m.signer.On("SignAccess", mock.AnythingOfType("model.User")).Return("", assert.AnError).Once()

	_, err = m.auth.Login(ctx, model.LoginParams{Email: "sign@example.com", Password: strongPassword})
	require.ErrorIs(t, err, assert.AnError)

	m.signer.On("SignAccess", mock.AnythingOfType("model.User")).Return("access", nil).Once()
	m.signer.On("SignRefresh", mock.AnythingOfType("model.User")).Return("", assert.AnError).Once()

	_, err = m.auth.Login(ctx, model.LoginParams{Email: "sign@example.com", Password: strongPassword})
	require.ErrorIs(t, err, assert.AnError)

	active, err := m.tokens.ListActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}
