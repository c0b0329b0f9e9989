package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
)

// RecoveryHandler logs a handler panic and answers with an internal error.
func RecoveryHandler(logger *logger.Logger) recovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, p any) error {
		logger.Error("gRPC handler panicked",
			"panic", fmt.Sprint(p),
			"stack", string(debug.Stack()))
		return apierrors.NewErrInternalServerError().GRPCStatus().Err()
	}
}
