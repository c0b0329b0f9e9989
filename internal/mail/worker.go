package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/time/rate"

	"github.com/dtroode/gatekeeper-server/internal/logger"
	"github.com/dtroode/gatekeeper-server/internal/model"
)

var (
	errStorageDisabled   = errors.New("attachment storage is not configured")
	errAttachmentMissing = errors.New("attachment object not found")
	errLeaseExpired      = errors.New("lease expired during the final attempt")
)

// Templates renders a named email body for a language.
type Templates interface {
	Render(name, lang string, data map[string]any) (string, error)
}

type WorkerOptions struct {
	RatePerSecond float64
	LeaseTimeout  time.Duration
	PollInterval  time.Duration
}

// Worker delivers queued jobs one at a time under a rate limit.
type Worker struct {
	queue     *Queue
	sender    Sender
	templates Templates
	storage   model.Storage
	metrics   *Metrics
	limiter   *rate.Limiter
	opts      WorkerOptions
	logger    *logger.Logger
	now       func() time.Time
}

// NewWorker creates a Worker. storage may be nil when attachments are disabled
// and a nil metrics records nothing.
func NewWorker(queue *Queue, sender Sender, templates Templates, storage model.Storage, metrics *Metrics, opts WorkerOptions, logger *logger.Logger) *Worker {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if opts.LeaseTimeout <= 0 {
		opts.LeaseTimeout = 2 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Second
	}
	if metrics == nil {
		metrics, _ = NewMetrics(noop.NewMeterProvider().Meter(MeterName))
	}

	return &Worker{
		queue:     queue,
		sender:    sender,
		templates: templates,
		storage:   storage,
		metrics:   metrics,
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes jobs until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Mail worker: started",
		"rate_per_second", w.opts.RatePerSecond)

	timer := time.NewTimer(w.opts.PollInterval)
	defer timer.Stop()

	for {
		if err := w.limiter.Wait(ctx); err != nil {
			w.logger.Info("Mail worker: stopped")
			return nil
		}

		processed, err := w.ProcessNext(ctx)
		if err != nil {
			w.logger.Error("Mail worker: failed to process job",
				"error", err.Error())
		}
		if processed {
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.opts.PollInterval)

		select {
		case <-ctx.Done():
			w.logger.Info("Mail worker: stopped")
			return nil
		case <-w.queue.Wake():
		case <-timer.C:
		}
	}
}

// ProcessNext leases and delivers one job. It reports false when nothing was runnable.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.queue.store.Lease(ctx, w.now(), w.opts.LeaseTimeout)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lease email job: %w", err)
	}

	// bookkeeping must land even if the worker is shutting down
	ackCtx := context.WithoutCancel(ctx)

	if job.OverBudget() {
		return true, w.handleFailure(ackCtx, job, errLeaseExpired)
	}

	if err := w.deliver(ctx, job); err != nil {
		return true, w.handleFailure(ackCtx, job, err)
	}

	if err := w.queue.store.Complete(ackCtx, job.ID); err != nil {
		return true, fmt.Errorf("failed to complete email job %s: %w", job.ID, err)
	}
	w.metrics.Sent(ackCtx, job.Template)
	w.cleanupAttachments(ackCtx, job)

	w.logger.Debug("Mail worker: email sent",
		"job_id", job.ID,
		"template", job.Template,
		"attempt", job.AttemptsMade)
	return true, nil
}

func (w *Worker) deliver(ctx context.Context, job model.EmailJob) error {
	body, err := w.templates.Render(job.Template, job.Language, job.Context)
	if err != nil {
		return err
	}

	attachments, err := w.loadAttachments(ctx, job.Attachments)
	if err != nil {
		return err
	}

	return w.sender.Send(ctx, Message{
		To:          job.Recipients,
		Cc:          job.Cc,
		Bcc:         job.Bcc,
		Subject:     job.Subject,
		HTML:        body,
		Attachments: attachments,
	})
}

func (w *Worker) loadAttachments(ctx context.Context, refs []model.Attachment) ([]MessageAttachment, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	if w.storage == nil {
		return nil, errStorageDisabled
	}

	out := make([]MessageAttachment, 0, len(refs))
	for _, ref := range refs {
		ok, err := w.storage.Exists(ctx, ref.ObjectKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check attachment %s: %w", ref.ObjectKey, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", errAttachmentMissing, ref.ObjectKey)
		}

		rc, err := w.storage.Download(ctx, ref.ObjectKey)
		if err != nil {
			return nil, fmt.Errorf("failed to download attachment %s: %w", ref.ObjectKey, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", ref.ObjectKey, err)
		}

		out = append(out, MessageAttachment{
			Filename:    ref.Filename,
			ContentType: ref.ContentType,
			Content:     content,
		})
	}
	return out, nil
}

// handleFailure reschedules job with exponential backoff or, once its
// attempts are spent, marks it failed.
func (w *Worker) handleFailure(ctx context.Context, job model.EmailJob, cause error) error {
	if job.Exhausted() || permanent(cause) {
		if err := w.queue.store.Fail(ctx, job.ID, cause.Error()); err != nil {
			return fmt.Errorf("failed to mark email job %s failed: %w", job.ID, err)
		}
		w.metrics.Failed(ctx, job.Template)
		w.logger.Error("Mail worker: email job failed",
			"job_id", job.ID,
			"template", job.Template,
			"attempts", job.AttemptsMade,
			"error", cause.Error())
		return nil
	}

	delay := w.queue.Backoff(job.AttemptsMade)
	if err := w.queue.store.Retry(ctx, job.ID, w.now().Add(delay), cause.Error()); err != nil {
		return fmt.Errorf("failed to reschedule email job %s: %w", job.ID, err)
	}
	w.metrics.Retried(ctx, job.Template)
	w.logger.Warn("Mail worker: delivery failed, retrying",
		"job_id", job.ID,
		"attempt", job.AttemptsMade,
		"retry_in", delay.String(),
		"error", cause.Error())
	return nil
}

func permanent(err error) bool {
	return errors.Is(err, ErrUnknownTemplate) ||
		errors.Is(err, errStorageDisabled) ||
		errors.Is(err, errAttachmentMissing)
}

func (w *Worker) cleanupAttachments(ctx context.Context, job model.EmailJob) {
	if w.storage == nil {
		return
	}
	for _, ref := range job.Attachments {
		if err := w.storage.Delete(ctx, ref.ObjectKey); err != nil {
			w.logger.Warn("Mail worker: failed to delete attachment",
				"job_id", job.ID,
				"object_key", ref.ObjectKey,
				"error", err.Error())
		}
	}
}
