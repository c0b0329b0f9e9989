package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// memTokenStore mirrors the ledger table semantics in memory.
type memTokenStore struct {
	mu     sync.Mutex
	now    func() time.Time
	byHash map[string]*model.RefreshToken
}

func newMemTokenStore(now func() time.Time) *memTokenStore {
	return &memTokenStore{now: now, byHash: make(map[string]*model.RefreshToken)}
}

func (s *memTokenStore) insert(token model.RefreshToken) model.RefreshToken {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = s.now()
	token.UpdatedAt = token.CreatedAt
	s.byHash[token.TokenHash] = &token
	return token
}

func (s *memTokenStore) revoke(t *model.RefreshToken, reason model.RevokeReason, ip *string) {
	now := s.now()
	r := string(reason)
	t.IsRevoked = true
	t.RevokedAt = &now
	t.RevokeReason = &r
	t.RevokedByIP = ip
}

func (s *memTokenStore) Create(_ context.Context, token model.RefreshToken) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(token), nil
}

func (s *memTokenStore) GetByHash(_ context.Context, tokenHash string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byHash[tokenHash]
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return *t, nil
}

func (s *memTokenStore) Rotate(_ context.Context, oldHash string, next model.RefreshToken, ip *string) (model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byHash[oldHash]
	if !ok || !old.IsActive(s.now()) {
		return model.RefreshToken{}, model.ErrStaleToken
	}

	s.revoke(old, model.RevokeReasonRotation, ip)
	now := s.now()
	h := next.TokenHash
	old.ReplacedByTokenHash = &h
	old.ReplacedAt = &now

	return s.insert(next), nil
}

func (s *memTokenStore) Revoke(_ context.Context, tokenHash string, reason model.RevokeReason, ip *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byHash[tokenHash]
	if !ok {
		return model.ErrNotFound
	}
	if !t.IsRevoked {
		s.revoke(t, reason, ip)
	}
	return nil
}

func (s *memTokenStore) RevokeByID(_ context.Context, userID, id uuid.UUID, reason model.RevokeReason, ip *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.byHash {
		if t.ID == id && t.UserID == userID && t.IsActive(s.now()) {
			s.revoke(t, reason, ip)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *memTokenStore) RevokeAllByUser(_ context.Context, userID uuid.UUID, reason model.RevokeReason) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, t := range s.byHash {
		if t.UserID == userID && t.IsActive(s.now()) {
			s.revoke(t, reason, nil)
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) RevokeDescendants(_ context.Context, tokenHash string, reason model.RevokeReason) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	cur, ok := s.byHash[tokenHash]
	for ok && cur.ReplacedByTokenHash != nil {
		cur, ok = s.byHash[*cur.ReplacedByTokenHash]
		if ok && !cur.IsRevoked {
			s.revoke(cur, reason, nil)
			n++
		}
	}
	return n, nil
}

func (s *memTokenStore) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.RefreshToken, 0)
	for _, t := range s.byHash {
		if t.UserID == userID && t.IsActive(s.now()) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memTokenStore) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tokens, err := s.ListActiveByUser(ctx, userID)
	return int64(len(tokens)), err
}

func (s *memTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for h, t := range s.byHash {
		if t.ExpiresAt.Before(s.now()) {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

// memUserStore mirrors the users table semantics in memory.
type memUserStore struct {
	mu    sync.Mutex
	now   func() time.Time
	users map[uuid.UUID]*model.User
}

func newMemUserStore(now func() time.Time) *memUserStore {
	return &memUserStore{now: now, users: make(map[uuid.UUID]*model.User)}
}

func (s *memUserStore) find(match func(u *model.User) bool) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return *u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	return s.find(func(u *model.User) bool { return u.Email == email && u.DeletedAt == nil })
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	return s.find(func(u *model.User) bool { return u.Username == username && u.DeletedAt == nil })
}

func (s *memUserStore) FindByID(_ context.Context, id uuid.UUID) (model.User, error) {
	return s.find(func(u *model.User) bool { return u.ID == id && u.DeletedAt == nil })
}

func (s *memUserStore) FindByIDWithDeleted(_ context.Context, id uuid.UUID) (model.User, error) {
	return s.find(func(u *model.User) bool { return u.ID == id })
}

func (s *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Normalize()
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrEmailTaken
		}
		if u.Username == user.Username {
			return model.User{}, model.ErrUsernameTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = &user
	return user, nil
}

func (s *memUserStore) Update(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[user.ID]
	if !ok || cur.DeletedAt != nil {
		return model.User{}, model.ErrNotFound
	}
	user.Normalize()
	user.LastLoginAt = cur.LastLoginAt
	user.LastLoginIP = cur.LastLoginIP
	user.CreatedAt = cur.CreatedAt
	user.UpdatedAt = s.now()
	s.users[user.ID] = &user
	return user, nil
}

func (s *memUserStore) SoftDelete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.ErrNotFound
	}
	now := s.now()
	u.DeletedAt = &now
	return nil
}

func (s *memUserStore) Restore(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt == nil {
		return model.ErrNotFound
	}
	u.DeletedAt = nil
	return nil
}

func (s *memUserStore) RegisterFailedLogin(_ context.Context, id uuid.UUID, maxAttempts int, lockFor time.Duration) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return model.User{}, model.ErrNotFound
	}

	now := s.now()
	if u.LockedUntil != nil && !u.LockedUntil.After(now) {
		u.LoginAttempts = 1
		u.LockedUntil = nil
	} else {
		u.LoginAttempts++
	}
	if u.LoginAttempts >= maxAttempts {
		until := now.Add(lockFor)
		u.LockedUntil = &until
	}
	return *u, nil
}

func (s *memUserStore) RecordSuccessfulLogin(_ context.Context, id uuid.UUID, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	now := s.now()
	u.LoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	if ip != "" {
		u.LastLoginIP = &ip
	}
	return nil
}
