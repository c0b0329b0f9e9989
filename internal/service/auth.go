package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
	"github.com/dtroode/gatekeeper-server/internal/password"
)

// AuthOptions tune login lockout and one-time code lifetime.
type AuthOptions struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	CodeTTL          time.Duration
}

type Auth struct {
	users    model.UserStore
	ledger   *TokenLedger
	signer   model.Signer
	hasher   model.PasswordHasher
	codes    *codeBook
	notifier model.Notifier
	opts     AuthOptions
	logger   *logger.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(
	users model.UserStore,
	ledger *TokenLedger,
	signer model.Signer,
	hasher model.PasswordHasher,
	cache model.Cache,
	notifier model.Notifier,
	opts AuthOptions,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		ledger:   ledger,
		signer:   signer,
		hasher:   hasher,
		codes:    newCodeBook(cache, opts.CodeTTL),
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams, lang string) (model.RegisterResult, error) {
	email := model.NormalizeEmail(params.Email)
	username := model.NormalizeUsername(params.Username)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if !password.IsStrong(params.Password) {
		return model.RegisterResult{}, apierrors.NewErrValidationFields(map[string]string{"password": "too weak"})
	}

	if _, err := a.users.FindByEmail(ctx, email); err == nil {
		a.logger.Info("Auth service: email already registered",
			"email", email)
		return model.RegisterResult{}, apierrors.NewErrEmailExists(email)
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.RegisterResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if _, err := a.users.FindByUsername(ctx, username); err == nil {
		return model.RegisterResult{}, apierrors.NewErrUsernameExists(username)
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.RegisterResult{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	hash, err := a.hasher.Hash(ctx, params.Password)
	if err != nil {
		return model.RegisterResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		Role:         model.RoleUser,
		Status:       model.StatusPending,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			return model.RegisterResult{}, apierrors.NewErrEmailExists(email)
		case errors.Is(err, model.ErrUsernameTaken):
			return model.RegisterResult{}, apierrors.NewErrUsernameExists(username)
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.sendVerification(ctx, user, lang)

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"email", user.Email)

	return model.RegisterResult{
		UserID:  user.ID,
		Email:   user.Email,
		Message: "registration successful, check your email for the verification code",
	}, nil
}

// sendVerification issues a verification code and queues its email. Failures
// are logged only; the user can always ask for a new code.
func (a *Auth) sendVerification(ctx context.Context, user model.User, lang string) {
	code, err := a.codes.Issue(ctx, purposeVerification, user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue verification code",
			"user_id", user.ID,
			"error", err.Error())
		return
	}

	if err := a.notifier.SendVerificationCode(ctx, user, code, lang); err != nil {
		a.logger.Error("Auth service: failed to queue verification email",
			"user_id", user.ID,
			"error", err.Error())
	}
}

func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.AuthResult, error) {
	email := model.NormalizeEmail(params.Email)

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.burnComparison(ctx, params.Password)
			a.logger.Info("Auth service: login for unknown email",
				"email", email)
			return model.AuthResult{}, apierrors.NewErrInvalidCredentials()
		}
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	now := a.now()
	if user.IsLocked(now) {
		a.logger.Info("Auth service: login to locked account",
			"user_id", user.ID)
		return model.AuthResult{}, apierrors.NewErrAccountLocked(user.LockRemaining(now))
	}

	ok, err := a.hasher.Compare(ctx, user.PasswordHash, params.Password)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to compare password: %w", err)
	}
	if !ok {
		updated, err := a.users.RegisterFailedLogin(ctx, user.ID, a.opts.MaxLoginAttempts, a.opts.LockoutDuration)
		if err != nil {
			return model.AuthResult{}, fmt.Errorf("failed to record failed login: %w", err)
		}
		if updated.IsLocked(now) {
			a.logger.Warn("Auth service: account locked after failed logins",
				"user_id", user.ID,
				"attempts", updated.LoginAttempts,
				"ip", params.IP)
		}
		return model.AuthResult{}, apierrors.NewErrInvalidCredentials()
	}

	if err := statusError(user.Status); err != nil {
		a.logger.Info("Auth service: login refused by account status",
			"user_id", user.ID,
			"status", string(user.Status))
		return model.AuthResult{}, err
	}

	if err := a.users.RecordSuccessfulLogin(ctx, user.ID, params.IP); err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to record login: %w", err)
	}
	user.LoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	result, err := a.issue(ctx, user, params.IP, params.UserAgent)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)
	return result, nil
}

// burnComparison spends a bcrypt comparison so unknown emails take as long as wrong passwords.
func (a *Auth) burnComparison(ctx context.Context, pw string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(ctx, uuid.NewString())
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash != "" {
		_, _ = a.hasher.Compare(ctx, a.dummyHash, pw)
	}
}

func statusError(status model.Status) error {
	switch status {
	case model.StatusActive:
		return nil
	case model.StatusPending:
		return apierrors.NewErrAccountPending()
	case model.StatusSuspended, model.StatusBlocked:
		return apierrors.NewErrAccountSuspended()
	default:
		return apierrors.NewErrAccountInactive()
	}
}

func (a *Auth) issue(ctx context.Context, user model.User, ip, userAgent string) (model.AuthResult, error) {
	access, err := a.signer.SignAccess(user)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := a.signer.SignRefresh(user)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if _, err := a.ledger.CreateToken(ctx, user.ID, refresh, ip, userAgent); err != nil {
		return model.AuthResult{}, err
	}

	return a.result(user, access, refresh), nil
}

func (a *Auth) result(user model.User, access, refresh string) model.AuthResult {
	return model.AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(a.signer.AccessTTL().Seconds()),
		User:         user.Public(),
	}
}

// Refresh trades a refresh token for a new pair, retiring the presented one.
func (a *Auth) Refresh(ctx context.Context, raw, ip string) (model.AuthResult, error) {
	rt, err := a.ledger.ValidateToken(ctx, raw)
	if err != nil {
		return model.AuthResult{}, err
	}

	claims, err := a.signer.ParseRefresh(raw)
	if err != nil || claims.UserID != rt.UserID {
		a.logger.Info("Auth service: refresh token signature rejected",
			"user_id", rt.UserID)
		return model.AuthResult{}, apierrors.NewErrTokenInvalid()
	}

	user, err := a.users.FindByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.AuthResult{}, apierrors.NewErrTokenInvalid()
		}
		return model.AuthResult{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if err := statusError(user.Status); err != nil {
		return model.AuthResult{}, err
	}

	refresh, err := a.signer.SignRefresh(user)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if _, err := a.ledger.RotateToken(ctx, raw, refresh, ip); err != nil {
		return model.AuthResult{}, err
	}

	access, err := a.signer.SignAccess(user)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	a.logger.Debug("Auth service: tokens refreshed",
		"user_id", user.ID)
	return a.result(user, access, refresh), nil
}

// Logout revokes raw. Unknown and already revoked tokens are not an error.
func (a *Auth) Logout(ctx context.Context, raw, ip string) error {
	err := a.ledger.RevokeToken(ctx, raw, model.RevokeReasonLogout, ip)
	if err != nil {
		if apierrors.HasCode(err, apierrors.CodeTokenNotFound) {
			a.logger.Warn("Auth service: logout with unknown refresh token",
				"ip", ip)
			return nil
		}
		return err
	}
	return nil
}

func (a *Auth) LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return a.ledger.RevokeAllUserTokens(ctx, userID, model.RevokeReasonLogoutAll)
}

func (a *Auth) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, ip string) error {
	if err := a.ledger.RevokeSession(ctx, userID, sessionID, model.RevokeReasonSessionRevoked, ip); err != nil {
		return err
	}

	a.logger.Info("Auth service: session revoked",
		"user_id", userID,
		"session_id", sessionID)
	return nil
}

func (a *Auth) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]model.SessionInfo, error) {
	tokens, err := a.ledger.GetActiveTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := a.now()
	sessions := make([]model.SessionInfo, 0, len(tokens))
	for _, t := range tokens {
		sessions = append(sessions, t.Session(now))
	}
	return sessions, nil
}

// Authenticate resolves a bearer access token to the caller's current identity.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (model.Principal, error) {
	claims, err := a.signer.ParseAccess(accessToken)
	if err != nil {
		return model.Principal{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, apierrors.NewErrInvalidAuthorizationToken()
		}
		return model.Principal{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return model.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}
