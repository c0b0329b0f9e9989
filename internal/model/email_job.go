package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EmailJobStore is the durable backing of the delivery queue.
type EmailJobStore interface {
	Create(ctx context.Context, job EmailJob) (EmailJob, error)
	CreateBatch(ctx context.Context, jobs []EmailJob) ([]EmailJob, error)
	// Lease claims the next runnable job and marks it active until now+leaseFor.
	// It returns ErrNotFound when nothing is runnable.
	Lease(ctx context.Context, now time.Time, leaseFor time.Duration) (EmailJob, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Retry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error
	Fail(ctx context.Context, id uuid.UUID, lastErr string) error
	Requeue(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (EmailJob, error)
	ListFailed(ctx context.Context, limit int) ([]EmailJob, error)
}

// JobStatus enumerates email job states. Completed jobs are deleted.
type JobStatus string

const (
	JobStatusQueued JobStatus = "queued"
	JobStatusActive JobStatus = "active"
	JobStatusFailed JobStatus = "failed"
)

// Priorities; lower values are delivered first.
const (
	PriorityHigh   = 1
	PriorityNormal = 5
	PriorityLow    = 10
)

// Attachment references a file stored in object storage.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	ObjectKey   string `json:"object_key"`
}

// EmailJob is one outbound email waiting in the delivery queue.
type EmailJob struct {
	ID           uuid.UUID
	Seq          int64
	Recipients   []string
	Cc           []string
	Bcc          []string
	Subject      string
	Template     string
	Language     string
	Context      map[string]any
	Attachments  []Attachment
	Priority     int
	MaxAttempts  int
	AttemptsMade int
	Status       JobStatus
	RunAt        time.Time
	LockedUntil  *time.Time
	LastError    *string
	FailedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OverBudget reports a lease taken after the last attempt was already spent,
// as happens when a worker dies mid-send and the lease expires.
func (j EmailJob) OverBudget() bool {
	return j.AttemptsMade > j.MaxAttempts
}

// Exhausted reports whether the job has no attempts left.
func (j EmailJob) Exhausted() bool {
	return j.AttemptsMade >= j.MaxAttempts
}
