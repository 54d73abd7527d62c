// File: utils/lock.go
package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"clinicbook/models"
)

// releaseScript deletes the lock key only when it still holds our token, so
// an expired lock reacquired by another booker is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker serializes critical sections per key using Redis SET NX with
// a TTL. Acquisition waits at most the configured bound and then fails with
// a conflict error, so a booking attempt never blocks indefinitely.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Wait   time.Duration
}

// NewRedisLocker builds a RedisLocker with the given lock lifetime and
// maximum acquisition wait.
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{Client: client, TTL: ttl, Wait: wait}
}

// Acquire takes the lock for key, retrying until the wait bound elapses.
// It returns a release function; on timeout it returns a conflict error the
// caller can surface as retryable.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	deadline := time.Now().Add(l.Wait)

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, models.NewConflictError("lock service unavailable, try again")
		}
		if ok {
			release := func() {
				rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(rctx, l.Client, []string{key}, token).Err()
			}
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, models.NewConflictError("slot is being booked by someone else, try again")
		}
		select {
		case <-ctx.Done():
			return nil, models.NewConflictError("booking attempt cancelled before lock was acquired")
		case <-time.After(25 * time.Millisecond):
		}
	}
}
