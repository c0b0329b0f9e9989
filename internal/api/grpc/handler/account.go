package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/gatekeeper-server/internal/api/grpc/rpc"
	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// AccountService defines session and credential operations on the caller's own account.
type AccountService interface {
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]model.SessionInfo, error)
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, ip string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) (int64, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword, lang string) error
}

var _ rpc.AccountServer = (*Account)(nil)

// Account handles gRPC endpoints for a signed-in caller.
type Account struct {
	accountService AccountService
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAccount(accountService AccountService, userService UserService, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		accountService: accountService,
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Account) principal(ctx context.Context) (model.Principal, error) {
	p, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return model.Principal{}, handleError(apierrors.NewErrMissingAuthorizationToken())
	}
	return p, nil
}

func (h *Account) ListSessions(ctx context.Context, _ *emptypb.Empty) (*rpc.SessionsResponse, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := h.accountService.GetActiveSessions(ctx, p.UserID)
	if err != nil {
		logFailure(h.logger, "Account handler: list sessions failed", err,
			"user_id", p.UserID)
		return nil, handleError(err)
	}

	return &rpc.SessionsResponse{Sessions: sessions, Total: len(sessions)}, nil
}

func (h *Account) RevokeSession(ctx context.Context, req *rpc.SessionRequest) (*rpc.MessageResponse, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}
	sessionID, err := parseID("session_id", req.SessionID)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.accountService.RevokeSession(ctx, p.UserID, sessionID, clientIP(ctx)); err != nil {
		logFailure(h.logger, "Account handler: revoke session failed", err,
			"user_id", p.UserID,
			"session_id", sessionID)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "Session revoked"}, nil
}

func (h *Account) LogoutAll(ctx context.Context, _ *emptypb.Empty) (*rpc.LogoutAllResponse, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}

	n, err := h.accountService.LogoutAll(ctx, p.UserID)
	if err != nil {
		logFailure(h.logger, "Account handler: logout all failed", err,
			"user_id", p.UserID)
		return nil, handleError(err)
	}

	h.logger.Info("Account handler: all sessions revoked",
		"user_id", p.UserID,
		"revoked", n)

	return &rpc.LogoutAllResponse{
		Revoked: n,
		Message: fmt.Sprintf("%d sessions revoked", n),
	}, nil
}

func (h *Account) ChangePassword(ctx context.Context, req *rpc.ChangePasswordRequest) (*rpc.MessageResponse, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	err = h.accountService.ChangePassword(ctx, p.UserID, req.CurrentPassword, req.NewPassword, h.contextManager.GetLanguageFromContext(ctx))
	if err != nil {
		logFailure(h.logger, "Account handler: change password failed", err,
			"user_id", p.UserID)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "Password changed, please sign in again"}, nil
}

func (h *Account) Profile(ctx context.Context, _ *emptypb.Empty) (*rpc.UserResponse, error) {
	p, err := h.principal(ctx)
	if err != nil {
		return nil, err
	}

	user, err := h.userService.Profile(ctx, p.UserID)
	if err != nil {
		logFailure(h.logger, "Account handler: profile lookup failed", err,
			"user_id", p.UserID)
		return nil, handleError(err)
	}

	return &rpc.UserResponse{User: user}, nil
}
