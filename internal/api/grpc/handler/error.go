package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/gatekeeper-server/internal/apierrors"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

func handleError(err error) error {
	if apiErr, ok := apierrors.As(err); ok {
		return apiErr.GRPCStatus().Err()
	}

	if errors.Is(err, model.ErrNotFound) {
		return status.Error(codes.NotFound, "resource not found")
	}
	return apierrors.NewErrInternalServerError().GRPCStatus().Err()
}

// logFailure keeps caller mistakes out of the error log.
func logFailure(l *logger.Logger, msg string, err error, args ...any) {
	if apiErr, ok := apierrors.As(err); ok && apiErr.Kind != apierrors.KindInternal {
		l.Info(msg, append(args, "code", string(apiErr.Code))...)
		return
	}
	l.Error(msg, append(args, "error", err.Error())...)
}
