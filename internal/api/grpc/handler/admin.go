package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/api/grpc/rpc"
	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

// UserService defines account lookups and lifecycle changes.
type UserService interface {
	Profile(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.PublicUser, error)
}

// MailAdminService exposes the failed part of the delivery queue.
type MailAdminService interface {
	FailedEmails(ctx context.Context, limit int) ([]model.EmailJob, error)
	RequeueEmail(ctx context.Context, id uuid.UUID) error
}

var _ rpc.AdminServer = (*Admin)(nil)

// Admin handles gRPC endpoints reserved for administrators. Role checks
// happen in the guard interceptor before these methods run.
type Admin struct {
	userService UserService
	mailService MailAdminService
	logger      *logger.Logger
}

func NewAdmin(userService UserService, mailService MailAdminService, logger *logger.Logger) *Admin {
	return &Admin{
		userService: userService,
		mailService: mailService,
		logger:      logger,
	}
}

func (h *Admin) userID(req *rpc.UserRequest) (uuid.UUID, error) {
	if err := validateRequest(req); err != nil {
		return uuid.Nil, handleError(err)
	}
	id, err := parseID("user_id", req.UserID)
	if err != nil {
		return uuid.Nil, handleError(err)
	}
	return id, nil
}

func (h *Admin) GetUser(ctx context.Context, req *rpc.UserRequest) (*rpc.UserResponse, error) {
	id, err := h.userID(req)
	if err != nil {
		return nil, err
	}

	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		logFailure(h.logger, "Admin handler: get user failed", err,
			"user_id", id)
		return nil, handleError(err)
	}
	return &rpc.UserResponse{User: user}, nil
}

func (h *Admin) DeleteUser(ctx context.Context, req *rpc.UserRequest) (*rpc.MessageResponse, error) {
	id, err := h.userID(req)
	if err != nil {
		return nil, err
	}

	if err := h.userService.SoftDelete(ctx, id); err != nil {
		logFailure(h.logger, "Admin handler: delete user failed", err,
			"user_id", id)
		return nil, handleError(err)
	}

	h.logger.Info("Admin handler: user deleted",
		"user_id", id)
	return &rpc.MessageResponse{Message: "User deleted"}, nil
}

func (h *Admin) RestoreUser(ctx context.Context, req *rpc.UserRequest) (*rpc.MessageResponse, error) {
	id, err := h.userID(req)
	if err != nil {
		return nil, err
	}

	if err := h.userService.Restore(ctx, id); err != nil {
		logFailure(h.logger, "Admin handler: restore user failed", err,
			"user_id", id)
		return nil, handleError(err)
	}
	return &rpc.MessageResponse{Message: "User restored"}, nil
}

func (h *Admin) UpdateUserStatus(ctx context.Context, req *rpc.UpdateStatusRequest) (*rpc.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}
	id, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, handleError(err)
	}

	user, err := h.userService.UpdateStatus(ctx, id, model.Status(req.Status))
	if err != nil {
		logFailure(h.logger, "Admin handler: status update failed", err,
			"user_id", id,
			"status", req.Status)
		return nil, handleError(err)
	}
	return &rpc.UserResponse{User: user}, nil
}

func (h *Admin) ListFailedEmails(ctx context.Context, req *rpc.ListFailedEmailsRequest) (*rpc.FailedEmailsResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}

	jobs, err := h.mailService.FailedEmails(ctx, req.Limit)
	if err != nil {
		logFailure(h.logger, "Admin handler: list failed emails failed", err)
		return nil, handleError(err)
	}

	out := make([]rpc.EmailJob, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, rpc.EmailJob{
			ID:          job.ID,
			Recipients:  job.Recipients,
			Subject:     job.Subject,
			Template:    job.Template,
			Attempts:    job.AttemptsMade,
			MaxAttempts: job.MaxAttempts,
			LastError:   job.LastError,
			FailedAt:    job.FailedAt,
			CreatedAt:   job.CreatedAt,
		})
	}
	return &rpc.FailedEmailsResponse{Jobs: out}, nil
}

func (h *Admin) RequeueEmail(ctx context.Context, req *rpc.EmailJobRequest) (*rpc.MessageResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, handleError(err)
	}
	id, err := parseID("job_id", req.JobID)
	if err != nil {
		return nil, handleError(err)
	}

	if err := h.mailService.RequeueEmail(ctx, id); err != nil {
		logFailure(h.logger, "Admin handler: requeue failed", err,
			"job_id", id)
		return nil, handleError(err)
	}
	return &rpc.MessageResponse{Message: "Email requeued"}, nil
}
