package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

var _ model.EmailJobStore = (*EmailJobRepository)(nil)

const emailJobColumns = `id, seq, recipients, cc, bcc, subject, template, language, context, attachments,
	priority, max_attempts, attempts_made, status, run_at, locked_until, last_error, failed_at, created_at, updated_at`

const insertEmailJob = `
    INSERT INTO email_jobs (id, recipients, cc, bcc, subject, template, language, context, attachments,
        priority, max_attempts, status, run_at, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'queued', $12, NOW(), NOW())
    RETURNING ` + emailJobColumns

// EmailJobRepository is the Postgres backing of the delivery queue.
type EmailJobRepository struct {
	db *Connection
}

func NewEmailJobRepository(db *Connection) *EmailJobRepository {
	return &EmailJobRepository{db: db}
}

func scanEmailJob(row pgx.Row) (model.EmailJob, error) {
	var j model.EmailJob
	err := row.Scan(
		&j.ID, &j.Seq, &j.Recipients, &j.Cc, &j.Bcc, &j.Subject, &j.Template, &j.Language, &j.Context, &j.Attachments,
		&j.Priority, &j.MaxAttempts, &j.AttemptsMade, &j.Status, &j.RunAt, &j.LockedUntil, &j.LastError, &j.FailedAt,
		&j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func insertArgs(job model.EmailJob) []any {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.RunAt.IsZero() {
		job.RunAt = time.Now()
	}
	if job.Context == nil {
		job.Context = map[string]any{}
	}
	if job.Attachments == nil {
		job.Attachments = []model.Attachment{}
	}
	return []any{
		job.ID, nonNil(job.Recipients), nonNil(job.Cc), nonNil(job.Bcc), job.Subject, job.Template, job.Language,
		job.Context, job.Attachments, job.Priority, job.MaxAttempts, job.RunAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *EmailJobRepository) Create(ctx context.Context, job model.EmailJob) (model.EmailJob, error) {
	saved, err := scanEmailJob(r.db.QueryRow(ctx, insertEmailJob, insertArgs(job)...))
	if err != nil {
		return model.EmailJob{}, fmt.Errorf("failed to create email job: %w", err)
	}
	return saved, nil
}

// CreateBatch inserts all jobs in one transaction; either every job is queued or none is.
func (r *EmailJobRepository) CreateBatch(ctx context.Context, jobs []model.EmailJob) ([]model.EmailJob, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	saved := make([]model.EmailJob, 0, len(jobs))
	err := r.db.InTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, job := range jobs {
			batch.Queue(insertEmailJob, insertArgs(job)...)
		}

		br := tx.SendBatch(ctx, batch)
		for range jobs {
			job, err := scanEmailJob(br.QueryRow())
			if err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert email job: %w", err)
			}
			saved = append(saved, job)
		}
		return br.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create email job batch: %w", err)
	}
	return saved, nil
}

// Lease claims the next runnable job: queued and due, or active with an expired lease.
// Order is priority, then run_at, then insertion order.
func (r *EmailJobRepository) Lease(ctx context.Context, now time.Time, leaseFor time.Duration) (model.EmailJob, error) {
	const query = `
        UPDATE email_jobs SET status = 'active', locked_until = $2, attempts_made = attempts_made + 1, updated_at = NOW()
        WHERE id = (
            SELECT id FROM email_jobs
            WHERE (status = 'queued' AND run_at <= $1)
               OR (status = 'active' AND locked_until < $1)
            ORDER BY priority, run_at, seq
            LIMIT 1
            FOR UPDATE SKIP LOCKED
        )
        RETURNING ` + emailJobColumns

	job, err := scanEmailJob(r.db.QueryRow(ctx, query, now, now.Add(leaseFor)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailJob{}, model.ErrNotFound
		}
		return model.EmailJob{}, fmt.Errorf("failed to lease email job: %w", err)
	}
	return job, nil
}

// Complete deletes a delivered job.
func (r *EmailJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM email_jobs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to complete email job: %w", err)
	}
	return nil
}

func (r *EmailJobRepository) Retry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	const query = `
        UPDATE email_jobs SET status = 'queued', run_at = $2, locked_until = NULL, last_error = $3, updated_at = NOW()
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id, runAt, lastErr); err != nil {
		return fmt.Errorf("failed to reschedule email job: %w", err)
	}
	return nil
}

// Fail keeps the job row for inspection.
func (r *EmailJobRepository) Fail(ctx context.Context, id uuid.UUID, lastErr string) error {
	const query = `
        UPDATE email_jobs SET status = 'failed', failed_at = NOW(), locked_until = NULL, last_error = $2, updated_at = NOW()
        WHERE id = $1
    `
	if _, err := r.db.Exec(ctx, query, id, lastErr); err != nil {
		return fmt.Errorf("failed to mark email job failed: %w", err)
	}
	return nil
}

// Requeue gives a failed job a fresh attempt budget.
func (r *EmailJobRepository) Requeue(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE email_jobs SET status = 'queued', attempts_made = 0, run_at = NOW(), failed_at = NULL,
            last_error = NULL, updated_at = NOW()
        WHERE id = $1 AND status = 'failed'
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to requeue email job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *EmailJobRepository) GetByID(ctx context.Context, id uuid.UUID) (model.EmailJob, error) {
	job, err := scanEmailJob(r.db.QueryRow(ctx, `SELECT `+emailJobColumns+` FROM email_jobs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.EmailJob{}, model.ErrNotFound
		}
		return model.EmailJob{}, fmt.Errorf("failed to get email job: %w", err)
	}
	return job, nil
}

func (r *EmailJobRepository) ListFailed(ctx context.Context, limit int) ([]model.EmailJob, error) {
	const query = `SELECT ` + emailJobColumns + ` FROM email_jobs WHERE status = 'failed'
        ORDER BY failed_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed email jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.EmailJob, 0)
	for rows.Next() {
		job, err := scanEmailJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate email jobs: %w", err)
	}
	return jobs, nil
}
