package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// TokenService resolves the caller behind a bearer access token.
type TokenService interface {
	Authenticate(ctx context.Context, accessToken string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the caller into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc is plugged into the grpc-middleware auth interceptor.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token := bearerToken(ctx)
	if token == "" {
		return nil, apierrors.NewErrMissingAuthorizationToken().GRPCStatus().Err()
	}

	principal, err := m.tokenService.Authenticate(ctx, token)
	if err != nil {
		if apiErr, ok := apierrors.As(err); ok {
			return nil, apiErr.GRPCStatus().Err()
		}
		m.logger.Error("Authenticate middleware: token lookup failed",
			"error", err.Error())
		return nil, apierrors.NewErrInternalServerError().GRPCStatus().Err()
	}

	return m.contextManager.SetPrincipalToContext(ctx, principal), nil
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}

	scheme, token, found := strings.Cut(values[0], " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
