//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/gatekeeper-server/internal/model"
	repo "github.com/dtroode/gatekeeper-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "gatekeeper_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/gatekeeper_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConnection(context.Background(), dsn, 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createUser(t *testing.T, ur *repo.UserRepository, email, username string) model.User {
	t.Helper()
	u, err := ur.Create(context.Background(), model.User{
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$04$hash",
		FirstName:    "Alice",
		LastName:     "Liddell",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)

	t.Run("normalizes on create and lookup", func(t *testing.T) {
		u := createUser(t, ur, "  Mixed.Case@Example.COM ", " MixedUser ")
		assert.Equal(t, "mixed.case@example.com", u.Email)
		assert.Equal(t, "mixeduser", u.Username)
		assert.Equal(t, model.StatusPending, u.Status)
		assert.Equal(t, model.RoleUser, u.Role)

		byEmail, err := ur.FindByEmail(ctx, "MIXED.case@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)

		byUsername, err := ur.FindByUsername(ctx, "MIXEDUSER")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byUsername.ID)
	})

	t.Run("unique violations", func(t *testing.T) {
		createUser(t, ur, "dup@example.com", "dup")

		_, err := ur.Create(ctx, model.User{Email: "DUP@example.com", Username: "other", PasswordHash: "x"})
		assert.ErrorIs(t, err, model.ErrEmailTaken)

		_, err = ur.Create(ctx, model.User{Email: "other@example.com", Username: "DUP", PasswordHash: "x"})
		assert.ErrorIs(t, err, model.ErrUsernameTaken)
	})

	t.Run("update normalizes", func(t *testing.T) {
		u := createUser(t, ur, "update@example.com", "update")
		u.Email = "UPDATED@Example.com"
		u.Status = model.StatusActive

		saved, err := ur.Update(ctx, u)
		require.NoError(t, err)
		assert.Equal(t, "updated@example.com", saved.Email)
		assert.Equal(t, model.StatusActive, saved.Status)
	})

	t.Run("soft delete and restore", func(t *testing.T) {
		u := createUser(t, ur, "gone@example.com", "gone")

		require.NoError(t, ur.SoftDelete(ctx, u.ID))
		_, err := ur.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		withDeleted, err := ur.FindByIDWithDeleted(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, withDeleted.DeletedAt)

		assert.ErrorIs(t, ur.SoftDelete(ctx, u.ID), model.ErrNotFound)
		require.NoError(t, ur.Restore(ctx, u.ID))
		assert.ErrorIs(t, ur.Restore(ctx, u.ID), model.ErrNotFound)

		_, err = ur.FindByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("lockout after max failures", func(t *testing.T) {
		u := createUser(t, ur, "locked@example.com", "locked")

		var last model.User
		var err error
		for i := 1; i <= 5; i++ {
			last, err = ur.RegisterFailedLogin(ctx, u.ID, 5, 30*time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, last.LoginAttempts)
		}
		require.True(t, last.IsLocked(time.Now()))
		assert.InDelta(t, (30 * time.Minute).Seconds(), last.LockRemaining(time.Now()).Seconds(), 60)

		require.NoError(t, ur.RecordSuccessfulLogin(ctx, u.ID, "10.0.0.1"))
		fresh, err := ur.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, fresh.LoginAttempts)
		assert.Nil(t, fresh.LockedUntil)
		require.NotNil(t, fresh.LastLoginIP)
		assert.Equal(t, "10.0.0.1", *fresh.LastLoginIP)
	})

	t.Run("expired lock restarts counter", func(t *testing.T) {
		u := createUser(t, ur, "relock@example.com", "relock")

		_, err := ur.RegisterFailedLogin(ctx, u.ID, 1, -time.Minute)
		require.NoError(t, err)

		again, err := ur.RegisterFailedLogin(ctx, u.ID, 5, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, again.LoginAttempts)
		assert.Nil(t, again.LockedUntil)
	})
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	rr := repo.NewRefreshTokenRepository(conn)

	owner := createUser(t, ur, "tokens@example.com", "tokens")
	stranger := createUser(t, ur, "stranger@example.com", "stranger")

	newToken := func(hash string, expires time.Time) model.RefreshToken {
		agent := "test-agent"
		return model.RefreshToken{TokenHash: hash, UserID: owner.ID, ExpiresAt: expires, UserAgent: &agent}
	}

	t.Run("rotate links and revokes predecessor", func(t *testing.T) {
		a, err := rr.Create(ctx, newToken("rot-a", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		b, err := rr.Rotate(ctx, a.TokenHash, newToken("rot-b", time.Now().Add(time.Hour)), nil)
		require.NoError(t, err)
		assert.Equal(t, "rot-b", b.TokenHash)

		old, err := rr.GetByHash(ctx, "rot-a")
		require.NoError(t, err)
		assert.True(t, old.WasRotated())
		assert.Equal(t, "rot-b", *old.ReplacedByTokenHash)
		assert.Equal(t, string(model.RevokeReasonRotation), *old.RevokeReason)

		_, err = rr.Rotate(ctx, "rot-a", newToken("rot-c", time.Now().Add(time.Hour)), nil)
		assert.ErrorIs(t, err, model.ErrStaleToken)
		_, err = rr.GetByHash(ctx, "rot-c")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("concurrent rotations yield one child", func(t *testing.T) {
		_, err := rr.Create(ctx, newToken("race-parent", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = rr.Rotate(ctx, "race-parent", newToken(fmt.Sprintf("race-child-%d", i), time.Now().Add(time.Hour)), nil)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, model.ErrStaleToken)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("revoke descendants walks the chain", func(t *testing.T) {
		_, err := rr.Create(ctx, newToken("fam-1", time.Now().Add(time.Hour)))
		require.NoError(t, err)
		_, err = rr.Rotate(ctx, "fam-1", newToken("fam-2", time.Now().Add(time.Hour)), nil)
		require.NoError(t, err)
		_, err = rr.Rotate(ctx, "fam-2", newToken("fam-3", time.Now().Add(time.Hour)), nil)
		require.NoError(t, err)

		n, err := rr.RevokeDescendants(ctx, "fam-1", model.RevokeReasonFamilyCompromise)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		tail, err := rr.GetByHash(ctx, "fam-3")
		require.NoError(t, err)
		assert.True(t, tail.IsRevoked)
		assert.Equal(t, string(model.RevokeReasonFamilyCompromise), *tail.RevokeReason)
	})

	t.Run("revoke semantics", func(t *testing.T) {
		_, err := rr.Create(ctx, newToken("logout-me", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		require.NoError(t, rr.Revoke(ctx, "logout-me", model.RevokeReasonLogout, nil))
		require.NoError(t, rr.Revoke(ctx, "logout-me", model.RevokeReasonLogout, nil))
		assert.ErrorIs(t, rr.Revoke(ctx, "never-issued", model.RevokeReasonLogout, nil), model.ErrNotFound)
	})

	t.Run("revoke by id enforces ownership", func(t *testing.T) {
		s, err := rr.Create(ctx, newToken("session-x", time.Now().Add(time.Hour)))
		require.NoError(t, err)

		assert.ErrorIs(t, rr.RevokeByID(ctx, stranger.ID, s.ID, model.RevokeReasonSessionRevoked, nil), model.ErrNotFound)
		require.NoError(t, rr.RevokeByID(ctx, owner.ID, s.ID, model.RevokeReasonSessionRevoked, nil))
		assert.ErrorIs(t, rr.RevokeByID(ctx, owner.ID, s.ID, model.RevokeReasonSessionRevoked, nil), model.ErrNotFound)
	})

	t.Run("active listing and bulk revoke", func(t *testing.T) {
		user := createUser(t, ur, "bulk@example.com", "bulk")
		for i := 0; i < 3; i++ {
			_, err := rr.Create(ctx, model.RefreshToken{TokenHash: fmt.Sprintf("bulk-%d", i), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)})
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}

		active, err := rr.ListActiveByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, active, 3)
		assert.Equal(t, "bulk-2", active[0].TokenHash)

		count, err := rr.CountActiveByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		n, err := rr.RevokeAllByUser(ctx, user.ID, model.RevokeReasonLogoutAll)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		active, err = rr.ListActiveByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("delete expired keeps future rows", func(t *testing.T) {
		_, err := rr.Create(ctx, newToken("gc-expired", time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		_, err = rr.Create(ctx, newToken("gc-future-revoked", time.Now().Add(time.Hour)))
		require.NoError(t, err)
		require.NoError(t, rr.Revoke(ctx, "gc-future-revoked", model.RevokeReasonLogout, nil))

		n, err := rr.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		_, err = rr.GetByHash(ctx, "gc-expired")
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = rr.GetByHash(ctx, "gc-future-revoked")
		assert.NoError(t, err)
	})
}

func TestEmailJobRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	jr := repo.NewEmailJobRepository(conn)

	_, err := conn.Exec(ctx, `TRUNCATE email_jobs`)
	require.NoError(t, err)

	job := func(subject string, priority int) model.EmailJob {
		return model.EmailJob{
			Recipients:  []string{"a@example.com"},
			Subject:     subject,
			Template:    "welcome",
			Language:    "en",
			Context:     map[string]any{"name": "Alice"},
			Priority:    priority,
			MaxAttempts: 3,
		}
	}

	t.Run("batch is leased by priority then order", func(t *testing.T) {
		saved, err := jr.CreateBatch(ctx, []model.EmailJob{job("first", 5), job("second", 5), job("urgent", 1)})
		require.NoError(t, err)
		require.Len(t, saved, 3)

		var order []string
		for i := 0; i < 3; i++ {
			leased, err := jr.Lease(ctx, time.Now(), time.Minute)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusActive, leased.Status)
			assert.Equal(t, 1, leased.AttemptsMade)
			assert.Equal(t, "Alice", leased.Context["name"])
			order = append(order, leased.Subject)
			require.NoError(t, jr.Complete(ctx, leased.ID))
		}
		assert.Equal(t, []string{"urgent", "first", "second"}, order)

		_, err = jr.Lease(ctx, time.Now(), time.Minute)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("delayed job is not leased early", func(t *testing.T) {
		j := job("later", 0)
		j.RunAt = time.Now().Add(time.Hour)
		saved, err := jr.Create(ctx, j)
		require.NoError(t, err)

		_, err = jr.Lease(ctx, time.Now(), time.Minute)
		assert.ErrorIs(t, err, model.ErrNotFound)

		leased, err := jr.Lease(ctx, time.Now().Add(2*time.Hour), time.Minute)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, leased.ID)
		require.NoError(t, jr.Complete(ctx, leased.ID))
	})

	t.Run("expired lease is reclaimed", func(t *testing.T) {
		saved, err := jr.Create(ctx, job("crashed", 0))
		require.NoError(t, err)

		_, err = jr.Lease(ctx, time.Now(), time.Millisecond)
		require.NoError(t, err)

		again, err := jr.Lease(ctx, time.Now().Add(time.Second), time.Minute)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)
		assert.Equal(t, 2, again.AttemptsMade)
		require.NoError(t, jr.Complete(ctx, again.ID))
	})

	t.Run("reclaiming the final attempt reports the overrun", func(t *testing.T) {
		j := job("last-chance", 0)
		j.MaxAttempts = 1
		saved, err := jr.Create(ctx, j)
		require.NoError(t, err)

		first, err := jr.Lease(ctx, time.Now(), time.Millisecond)
		require.NoError(t, err)
		assert.False(t, first.OverBudget())

		again, err := jr.Lease(ctx, time.Now().Add(time.Second), time.Minute)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, again.ID)
		assert.True(t, again.OverBudget())
		require.NoError(t, jr.Complete(ctx, again.ID))
	})

	t.Run("retry, fail and requeue", func(t *testing.T) {
		saved, err := jr.Create(ctx, job("flaky", 0))
		require.NoError(t, err)

		leased, err := jr.Lease(ctx, time.Now(), time.Minute)
		require.NoError(t, err)
		require.NoError(t, jr.Retry(ctx, leased.ID, time.Now().Add(-time.Second), "smtp timeout"))

		leased, err = jr.Lease(ctx, time.Now(), time.Minute)
		require.NoError(t, err)
		require.NoError(t, jr.Fail(ctx, leased.ID, "smtp rejected"))

		failed, err := jr.ListFailed(ctx, 10)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, saved.ID, failed[0].ID)
		assert.Equal(t, "smtp rejected", *failed[0].LastError)

		require.NoError(t, jr.Requeue(ctx, saved.ID))
		assert.ErrorIs(t, jr.Requeue(ctx, saved.ID), model.ErrNotFound)

		got, err := jr.GetByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusQueued, got.Status)
		assert.Equal(t, 0, got.AttemptsMade)

		_, err = jr.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
