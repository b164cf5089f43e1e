// Package lock provides a Redis-backed lock.Locker so that several server
// instances serialize writes to the same account.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/eaglebank/pkg/lock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL   = 10 * time.Second
	pollInterval = 25 * time.Millisecond
)

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements lock.Locker with SET NX PX. A holder that dies keeps
// the key only until the TTL expires.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLocker creates a RedisLocker from a redis:// URL.
func NewRedisLocker(url, prefix string, ttl time.Duration, logger *slog.Logger) (*RedisLocker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis lock: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis lock: connection failed: %w", err)
	}
	return NewRedisLockerWithClient(client, prefix, ttl, logger), nil
}

// NewRedisLockerWithClient wraps an existing client.
func NewRedisLockerWithClient(client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("component", "redis-lock"),
	}
}

// Lock polls until the key is acquired or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := l.prefix + "lock:" + key
	token := uuid.NewString()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock: acquire %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// release must succeed even if the caller's ctx was canceled
		if err := unlockScript.Run(context.Background(), l.client, []string{k}, token).Err(); err != nil {
			l.logger.Error("failed to release lock", "key", key, "error", err)
		}
	}, nil
}

// Close closes the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

var _ lock.Locker = (*RedisLocker)(nil)
