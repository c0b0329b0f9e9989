package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/gatekeeper-server/internal/api/grpc/handler"
	"github.com/dtroode/gatekeeper-server/internal/api/grpc/middleware"
	"github.com/dtroode/gatekeeper-server/internal/api/grpc/rpc"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// Services are the application services behind the gRPC surface.
type Services struct {
	Auth    handler.AuthService
	Account handler.AccountService
	Users   handler.UserService
	Mail    handler.MailAdminService
	Tokens  middleware.TokenService
}

type Option func(*Router)

// WithLanguages sets the negotiable languages. The first one is the fallback.
func WithLanguages(languages ...string) Option {
	return func(r *Router) {
		r.languages = languages
	}
}

func WithReflection(enabled bool) Option {
	return func(r *Router) {
		r.reflection = enabled
	}
}

// Router builds the gRPC server with its interceptor chain and services.
type Router struct {
	services       Services
	contextManager model.ContextManager
	languages      []string
	reflection     bool
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(services Services, contextManager model.ContextManager, logger *logger.Logger, opts ...Option) *Router {
	r := &Router{
		services:       services,
		contextManager: contextManager,
		languages:      []string{"en", "es"},
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var authPrefix = rpc.FullMethod(rpc.AuthServiceName, "")

func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), authPrefix)
}

// Register wires the interceptor chain and registers every service.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	language := middleware.NewLanguage(r.contextManager, r.languages...)
	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)
	guard := middleware.NewGuard(r.contextManager, r.logger).
		Protect(rpc.FullMethod(rpc.AdminServiceName, ""),
			middleware.Authenticated(), middleware.ActiveAccount(), middleware.RoleIn(model.RoleAdmin)).
		Protect(rpc.FullMethod(rpc.AccountServiceName, ""),
			middleware.Authenticated(), middleware.ActiveAccount())

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(
				recovery.WithRecoveryHandlerContext(middleware.RecoveryHandler(r.logger)),
			),
			logging.HandleGRPC,
			language.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
			guard.HandleGRPC,
		),
	)

	rpc.RegisterAuthServer(s, handler.NewAuth(r.services.Auth, r.contextManager, r.logger))
	rpc.RegisterAccountServer(s, handler.NewAccount(r.services.Account, r.services.Users, r.contextManager, r.logger))
	rpc.RegisterAdminServer(s, handler.NewAdmin(r.services.Users, r.services.Mail, r.logger))

	if r.reflection {
		reflection.Register(s)
	}

	return s
}
