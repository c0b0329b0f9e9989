// Package mail holds the durable email delivery queue, its worker and the
// rendering and transport the worker delivers through.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.EmailQueue = (*Queue)(nil)

const (
	defaultAttempts    = 3
	defaultBackoffBase = 5 * time.Second
)

type QueueOptions struct {
	Attempts    int
	BackoffBase time.Duration
}

// Queue accepts jobs into the store and nudges the worker when new work lands.
type Queue struct {
	store  model.EmailJobStore
	opts   QueueOptions
	wake   chan struct{}
	logger *logger.Logger
	now    func() time.Time
}

func NewQueue(store model.EmailJobStore, opts QueueOptions, logger *logger.Logger) *Queue {
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}

	return &Queue{
		store:  store,
		opts:   opts,
		wake:   make(chan struct{}, 1),
		logger: logger,
		now:    time.Now,
	}
}

// prepare fills job scheduling fields. Explicit options win over values
// already on the job; anything still unset takes the queue default.
func (q *Queue) prepare(job model.EmailJob, opts model.EnqueueOptions) model.EmailJob {
	now := q.now()

	if opts.Priority != 0 {
		job.Priority = opts.Priority
	}
	if job.Priority == 0 {
		job.Priority = model.PriorityNormal
	}

	if opts.Attempts > 0 {
		job.MaxAttempts = opts.Attempts
	}
	if job.MaxAttempts <= 0 {
		job.MaxAttempts = q.opts.Attempts
	}

	if opts.Delay > 0 {
		job.RunAt = now.Add(opts.Delay)
	}
	if job.RunAt.IsZero() {
		job.RunAt = now
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = model.JobStatusQueued
	return job
}

func (q *Queue) Enqueue(ctx context.Context, job model.EmailJob, opts model.EnqueueOptions) (model.EmailJob, error) {
	saved, err := q.store.Create(ctx, q.prepare(job, opts))
	if err != nil {
		return model.EmailJob{}, fmt.Errorf("failed to enqueue email job: %w", err)
	}

	q.notify()
	return saved, nil
}

// EnqueueBulk stores every job in one transaction.
func (q *Queue) EnqueueBulk(ctx context.Context, jobs []model.EmailJob, opts model.EnqueueOptions) ([]model.EmailJob, error) {
	prepared := make([]model.EmailJob, 0, len(jobs))
	for _, job := range jobs {
		prepared = append(prepared, q.prepare(job, opts))
	}

	saved, err := q.store.CreateBatch(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue email jobs: %w", err)
	}

	q.logger.Debug("Mail queue: bulk enqueued",
		"count", len(saved))
	q.notify()
	return saved, nil
}

func (q *Queue) ListFailed(ctx context.Context, limit int) ([]model.EmailJob, error) {
	return q.store.ListFailed(ctx, limit)
}

func (q *Queue) Requeue(ctx context.Context, id uuid.UUID) error {
	if err := q.store.Requeue(ctx, id); err != nil {
		return err
	}
	q.notify()
	return nil
}

func (q *Queue) Get(ctx context.Context, id uuid.UUID) (model.EmailJob, error) {
	return q.store.GetByID(ctx, id)
}

// Wake fires after new work was enqueued.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Backoff returns the delay before the retry that follows attempt (1-based).
func (q *Queue) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 20 {
		attempt = 20
	}
	return q.opts.BackoffBase * time.Duration(1<<(attempt-1))
}

func (q *Queue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
