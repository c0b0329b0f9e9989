package handler

import (
	"context"

	"github.com/dtroode/gatekeeper-server/internal/api/grpc/rpc"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// AuthService defines the public sign-up and sign-in operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams, lang string) (model.RegisterResult, error)
	VerifyEmail(ctx context.Context, email, code, lang string) (model.PublicUser, error)
	ResendVerification(ctx context.Context, email, lang string) error
	ForgotPassword(ctx context.Context, email, lang string) error
	ResetPassword(ctx context.Context, email, code, newPassword, lang string) error
	Login(ctx context.Context, params model.LoginParams) (model.AuthResult, error)
	Refresh(ctx context.Context, raw, ip string) (model.AuthResult, error)
	Logout(ctx context.Context, raw, ip string) error
}

var _ rpc.AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Auth) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	res, err := h.authService.Register(ctx, model.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}, h.contextManager.GetLanguageFromContext(ctx))
	if err != nil {
		logFailure(h.logger, "Auth handler: registration failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", res.UserID)

	return &rpc.RegisterResponse{
		UserID:  res.UserID,
		Email:   res.Email,
		Message: res.Message,
	}, nil
}

func (h *Auth) VerifyEmail(ctx context.Context, req *rpc.VerifyEmailRequest) (*rpc.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	user, err := h.authService.VerifyEmail(ctx, req.Email, req.Code, h.contextManager.GetLanguageFromContext(ctx))
	if err != nil {
		logFailure(h.logger, "Auth handler: email verification failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	return &rpc.UserResponse{User: user}, nil
}

func (h *Auth) ResendVerification(ctx context.Context, req *rpc.EmailRequest) (*rpc.MessageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	if err := h.authService.ResendVerification(ctx, req.Email, h.contextManager.GetLanguageFromContext(ctx)); err != nil {
		logFailure(h.logger, "Auth handler: resend verification failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "If the account exists, a new verification code has been sent"}, nil
}

func (h *Auth) ForgotPassword(ctx context.Context, req *rpc.EmailRequest) (*rpc.MessageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	if err := h.authService.ForgotPassword(ctx, req.Email, h.contextManager.GetLanguageFromContext(ctx)); err != nil {
		logFailure(h.logger, "Auth handler: forgot password failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "If the account exists, a password reset code has been sent"}, nil
}

func (h *Auth) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.MessageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	err := h.authService.ResetPassword(ctx, req.Email, req.Code, req.NewPassword, h.contextManager.GetLanguageFromContext(ctx))
	if err != nil {
		logFailure(h.logger, "Auth handler: password reset failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "Password has been reset"}, nil
}

func (h *Auth) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	res, err := h.authService.Login(ctx, model.LoginParams{
		Email:     req.Email,
		Password:  req.Password,
		IP:        clientIP(ctx),
		UserAgent: userAgent(ctx),
	})
	if err != nil {
		logFailure(h.logger, "Auth handler: login failed", err,
			"email", req.Email)
		return nil, handleError(err)
	}

	h.logger.Info("Auth handler: login completed",
		"user_id", res.User.ID)

	return authResponse(res), nil
}

func (h *Auth) Refresh(ctx context.Context, req *rpc.RefreshRequest) (*rpc.AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	res, err := h.authService.Refresh(ctx, req.RefreshToken, clientIP(ctx))
	if err != nil {
		logFailure(h.logger, "Auth handler: refresh failed", err)
		return nil, handleError(err)
	}

	return authResponse(res), nil
}

func (h *Auth) Logout(ctx context.Context, req *rpc.RefreshRequest) (*rpc.MessageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	if err := h.authService.Logout(ctx, req.RefreshToken, clientIP(ctx)); err != nil {
		logFailure(h.logger, "Auth handler: logout failed", err)
		return nil, handleError(err)
	}

	return &rpc.MessageResponse{Message: "Logged out"}, nil
}

func authResponse(res model.AuthResult) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    res.TokenType,
		ExpiresIn:    res.ExpiresIn,
		User:         res.User,
	}
}
