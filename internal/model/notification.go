package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Email templates known to the renderer.
const (
	TemplateVerificationCode = "verification-code"
	TemplateWelcome          = "welcome"
	TemplatePasswordReset    = "password-reset"
	TemplatePasswordChanged  = "password-changed"
	TemplateGeneric          = "generic"
)

// EnqueueOptions tune a single enqueue call. Zero values take queue defaults.
type EnqueueOptions struct {
	Priority int
	Delay    time.Duration
	Attempts int
}

// EmailQueue accepts outbound email jobs for asynchronous delivery.
type EmailQueue interface {
	Enqueue(ctx context.Context, job EmailJob, opts EnqueueOptions) (EmailJob, error)
	EnqueueBulk(ctx context.Context, jobs []EmailJob, opts EnqueueOptions) ([]EmailJob, error)
	ListFailed(ctx context.Context, limit int) ([]EmailJob, error)
	// Requeue returns ErrNotFound unless id names a failed job.
	Requeue(ctx context.Context, id uuid.UUID) error
}

// Notifier sends the account lifecycle emails.
type Notifier interface {
	SendVerificationCode(ctx context.Context, user User, code, lang string) error
	SendWelcome(ctx context.Context, user User, lang string) error
	SendPasswordReset(ctx context.Context, user User, code, lang string) error
	SendPasswordChanged(ctx context.Context, user User, lang string) error
}
