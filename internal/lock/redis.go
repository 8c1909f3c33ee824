package lock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisLocker implements Locker with a single Redis key per booking key so
// that several server replicas share the same mutual exclusion.  The lock
// is a SET NX PX with a random token; release deletes the key only when it
// still holds our token, so an expired lock taken over by another holder
// is never removed by mistake.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration // lock expiry, bounds how long a crashed holder blocks a key
	wait   time.Duration // how long Lock keeps retrying
	retry  time.Duration // pause between attempts
}

// NewRedisLocker returns a RedisLocker.  Zero durations fall back to a 10s
// ttl, 5s wait and 50ms retry interval.
func NewRedisLocker(rdb *redis.Client, prefix string, ttl, wait time.Duration) *RedisLocker {
	if rdb == nil {
		panic("nil redis client passed to NewRedisLocker")
	}
	if prefix == "" {
		prefix = "lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &RedisLocker{rdb: rdb, prefix: prefix, ttl: ttl, wait: wait, retry: 50 * time.Millisecond}
}

// Lock retries SET NX until it succeeds, the wait budget is spent
// (ErrNotAcquired) or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	rkey := l.prefix + ":" + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, rkey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", rkey, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release with a fresh context: the request context may already be cancelled.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.rdb, []string{rkey}, token).Err(); err != nil {
				log.Printf("lock: release %s failed: %v", rkey, err)
			}
		})
	}, nil
}
