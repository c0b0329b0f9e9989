package mail

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

// memStore mirrors the Postgres queue semantics in memory.
type memStore struct {
	mu   sync.Mutex
	seq  int64
	jobs map[uuid.UUID]*model.EmailJob
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[uuid.UUID]*model.EmailJob)}
}

func (s *memStore) Create(_ context.Context, job model.EmailJob) (model.EmailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	job.Seq = s.seq
	job.Status = model.JobStatusQueued
	s.jobs[job.ID] = &job
	return job, nil
}

func (s *memStore) CreateBatch(ctx context.Context, jobs []model.EmailJob) ([]model.EmailJob, error) {
	out := make([]model.EmailJob, 0, len(jobs))
	for _, j := range jobs {
		saved, _ := s.Create(ctx, j)
		out = append(out, saved)
	}
	return out, nil
}

func (s *memStore) Lease(_ context.Context, now time.Time, leaseFor time.Duration) (model.EmailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []*model.EmailJob
	for _, j := range s.jobs {
		due := j.Status == model.JobStatusQueued && !j.RunAt.After(now)
		expired := j.Status == model.JobStatusActive && j.LockedUntil != nil && j.LockedUntil.Before(now)
		if due || expired {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return model.EmailJob{}, model.ErrNotFound
	}

	sort.Slice(candidates, func(a, b int) bool {
		x, y := candidates[a], candidates[b]
		if x.Priority != y.Priority {
			return x.Priority < y.Priority
		}
		if !x.RunAt.Equal(y.RunAt) {
			return x.RunAt.Before(y.RunAt)
		}
		return x.Seq < y.Seq
	})

	j := candidates[0]
	until := now.Add(leaseFor)
	j.Status = model.JobStatusActive
	j.LockedUntil = &until
	j.AttemptsMade++
	return *j, nil
}

func (s *memStore) Complete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *memStore) Retry(_ context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j := s.jobs[id]
	j.Status = model.JobStatusQueued
	j.RunAt = runAt
	j.LockedUntil = nil
	j.LastError = &lastErr
	return nil
}

func (s *memStore) Fail(_ context.Context, id uuid.UUID, lastErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	j := s.jobs[id]
	j.Status = model.JobStatusFailed
	j.FailedAt = &now
	j.LockedUntil = nil
	j.LastError = &lastErr
	return nil
}

func (s *memStore) Requeue(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.Status != model.JobStatusFailed {
		return model.ErrNotFound
	}
	j.Status = model.JobStatusQueued
	j.AttemptsMade = 0
	j.RunAt = time.Now()
	j.FailedAt = nil
	j.LastError = nil
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (model.EmailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return model.EmailJob{}, model.ErrNotFound
	}
	return *j, nil
}

func (s *memStore) ListFailed(_ context.Context, limit int) ([]model.EmailJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.EmailJob, 0)
	for _, j := range s.jobs {
		if j.Status == model.JobStatusFailed && len(out) < limit {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
