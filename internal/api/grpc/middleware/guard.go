package middleware

import (
	"context"
	"slices"
	"strings"

	"google.golang.org/grpc"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Rule rejects a call by returning an error. ok is false for anonymous callers.
type Rule func(principal model.Principal, ok bool) *apierrors.APIError

func Authenticated() Rule {
	return func(_ model.Principal, ok bool) *apierrors.APIError {
		if !ok {
			return apierrors.NewErrMissingAuthorizationToken()
		}
		return nil
	}
}

// ActiveAccount rejects callers whose account left the active state after the token was issued.
func ActiveAccount() Rule {
	return func(p model.Principal, _ bool) *apierrors.APIError {
		switch p.Status {
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
}

func RoleIn(roles ...model.Role) Rule {
	return func(p model.Principal, _ bool) *apierrors.APIError {
		if !slices.Contains(roles, p.Role) {
			return apierrors.NewErrForbidden()
		}
		return nil
	}
}

type guardRoute struct {
	prefix string
	rules  []Rule
}

// Guard applies ordered rules to methods by prefix. The first matching prefix wins.
type Guard struct {
	contextManager model.ContextManager
	routes         []guardRoute
	logger         *logger.Logger
}

func NewGuard(contextManager model.ContextManager, logger *logger.Logger) *Guard {
	return &Guard{contextManager: contextManager, logger: logger}
}

// Protect registers rules for every method whose full name starts with prefix.
func (g *Guard) Protect(prefix string, rules ...Rule) *Guard {
	g.routes = append(g.routes, guardRoute{prefix: prefix, rules: rules})
	return g
}

func (g *Guard) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	for _, route := range g.routes {
		if !strings.HasPrefix(info.FullMethod, route.prefix) {
			continue
		}

		principal, ok := g.contextManager.GetPrincipalFromContext(ctx)
		for _, rule := range route.rules {
			if err := rule(principal, ok); err != nil {
				g.logger.Warn("Guard: request rejected",
					"method", info.FullMethod,
					"user_id", principal.UserID,
					"code", string(err.Code))
				return nil, err.GRPCStatus().Err()
			}
		}
		break
	}
	return handler(ctx, req)
}
