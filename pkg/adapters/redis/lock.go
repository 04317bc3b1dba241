package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrLockAcquire is returned when the seed lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire catalog lock")

const lockPollInterval = 50 * time.Millisecond

// releaseScript deletes the lock only when it is still held by the caller.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// lock acquires a per-catalog lock with SET NX PX, polling until ctx is done.
// The returned func releases the lock.
func (s *Source) lock(ctx context.Context, ttl time.Duration) (func(context.Context) error, error) {
	key := s.prefix + "lock:" + s.name
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := s.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if ok {
			return func(ctx context.Context) error {
				return s.client.Eval(ctx, releaseScript, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, ctx.Err())
		case <-ticker.C:
		}
	}
}

// SeedIfEmpty seeds the catalog unless it already holds values. Concurrent
// callers against the same server serialize on a lock, so only the first one
// writes.
func (s *Source) SeedIfEmpty(ctx context.Context, values []domain.Value) (bool, error) {
	unlock, err := s.lock(ctx, 10*time.Second)
	if err != nil {
		return false, err
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	n, err := s.client.LLen(ctx, s.key()).Result()
	if err != nil && !errors.Is(err, backend.Nil) {
		return false, fmt.Errorf("failed to read catalog %q: %w", s.name, err)
	}
	if n > 0 {
		return false, nil
	}
	return true, s.Seed(ctx, values)
}
