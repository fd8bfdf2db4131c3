package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it still carries the holder's
// token, so an expired lock re-acquired by another process is never released
// by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes access per key across processes using the
// SET NX PX pattern. Each acquisition stores a unique token; release is a
// compare-and-delete on that token. The TTL bounds how long a crashed holder
// can block other writers.
type RedisLocker struct {
	client        redis.UniversalClient
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
}

// RedisLockerOption configures a RedisLocker.
type RedisLockerOption func(*RedisLocker)

// WithKeyPrefix sets the namespace prepended to every lock key.
func WithKeyPrefix(prefix string) RedisLockerOption {
	return func(l *RedisLocker) {
		if prefix != "" {
			l.prefix = prefix
		}
	}
}

// WithTTL sets how long an acquired lock survives without being released.
func WithTTL(ttl time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetryInterval sets the polling interval between acquisition attempts.
func WithRetryInterval(interval time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if interval > 0 {
			l.retryInterval = interval
		}
	}
}

// WithWaitTimeout bounds how long Acquire polls before giving up with
// ErrNotAcquired. Zero means poll until the context is done.
func WithWaitTimeout(timeout time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if timeout > 0 {
			l.waitTimeout = timeout
		}
	}
}

// NewRedisLocker creates a distributed keyed locker backed by Redis.
func NewRedisLocker(client redis.UniversalClient, opts ...RedisLockerOption) (*RedisLocker, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	l := &RedisLocker{
		client:        client,
		prefix:        "lock:",
		ttl:           15 * time.Second,
		retryInterval: 50 * time.Millisecond,
		waitTimeout:   5 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Acquire polls SET NX until the lock is granted, the wait limit expires or
// the context is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	lockKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrNotAcquired
			}
			return nil, err
		}
		if ok {
			return l.releaseFunc(lockKey, token), nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrNotAcquired
			}
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}

func (l *RedisLocker) releaseFunc(lockKey, token string) Release {
	return func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Int()
		if err != nil {
			return err
		}
		if deleted == 0 {
			return ErrNotHeld
		}
		return nil
	}
}
