package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/loanrisk/internal/domain/port"
)

// ErrNotOwner is returned on release when the lock expired or was taken over.
var ErrNotOwner = errors.New("lock not held by this owner")

const (
	defaultTTL       = 10 * time.Second
	minRetryInterval = 20 * time.Millisecond
	maxRetryInterval = 200 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker implements port.ApplicantLocker with SET NX plus a
// compare-and-delete release.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	prefix string
	logger *slog.Logger
}

// Option configures a RedisLocker.
type Option func(*RedisLocker)

// WithTTL bounds how long a crashed holder can block others.
func WithTTL(ttl time.Duration) Option {
	return func(l *RedisLocker) { l.ttl = ttl }
}

// WithWait makes Lock retry for up to d before giving up. Zero means one attempt.
func WithWait(d time.Duration) Option {
	return func(l *RedisLocker) { l.wait = d }
}

// WithKeyPrefix namespaces lock keys.
func WithKeyPrefix(prefix string) Option {
	return func(l *RedisLocker) { l.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *RedisLocker) { l.logger = logger }
}

// NewRedisLocker creates a locker on client.
func NewRedisLocker(client redis.UniversalClient, opts ...Option) *RedisLocker {
	l := &RedisLocker{
		client: client,
		ttl:    defaultTTL,
		prefix: "loanrisk:lock:",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires key or returns port.ErrLockNotAcquired once the wait budget
// is spent.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate lock token: %w", err)
	}
	fullKey := l.prefix + key

	deadline := time.Now().Add(l.wait)
	interval := minRetryInterval
	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis setnx %s: %w", fullKey, err)
		}
		if ok {
			l.logger.Debug("lock acquired", "key", fullKey)
			return l.releaser(fullKey, token), nil
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%s: %w", key, port.ErrLockNotAcquired)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		if interval < maxRetryInterval {
			interval *= 2
		}
	}
}

func (l *RedisLocker) releaser(key, token string) func(context.Context) error {
	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("redis release %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("release %s: %w", key, ErrNotOwner)
		}
		l.logger.Debug("lock released", "key", key)
		return nil
	}
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
