package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

func newLocker(t *testing.T, opts ...Option) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, opts...), mr
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	l, mr := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "applicant:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("loanrisk:lock:applicant:1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("loanrisk:lock:applicant:1"))
}

func TestRedisLocker_BusyKey(t *testing.T) {
	l, _ := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "applicant:1")
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	_, err = l.Lock(ctx, "applicant:1")
	assert.ErrorIs(t, err, port.ErrLockNotAcquired)

	other, err := l.Lock(ctx, "applicant:2")
	require.NoError(t, err)
	require.NoError(t, other(ctx))
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	l, _ := newLocker(t, WithWait(2*time.Second))
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = unlock(ctx)
	}()

	second, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, second(ctx))
}

func TestRedisLocker_ExpiredLockIsNotReleasedByOldOwner(t *testing.T) {
	l, mr := newLocker(t, WithTTL(time.Second))
	ctx := context.Background()

	stale, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := l.Lock(ctx, "k")
	require.NoError(t, err)

	assert.ErrorIs(t, stale(ctx), ErrNotOwner)
	assert.True(t, mr.Exists("loanrisk:lock:k"), "new holder keeps the lock")
	require.NoError(t, fresh(ctx))
}

func TestRedisLocker_ContextCancelledWhileWaiting(t *testing.T) {
	l, _ := newLocker(t, WithWait(time.Minute))

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedisLocker_ImplementsPort(t *testing.T) {
	var _ port.ApplicantLocker = (*RedisLocker)(nil)
}
