package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] = lock key
// ARGV[1] = owner token
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var releaseLock = redis.NewScript(releaseLockScript)

// Locker is a lease-based mutex keyed by job name. A lease expires on its own
// after ttl, so a crashed holder never blocks the job forever.
type Locker struct {
	c *Client
}

func NewLocker(c *Client) *Locker {
	return &Locker{c: c}
}

func lockKey(name string) string {
	return fmt.Sprintf("scheduler:lock:%s", name)
}

// TryLock returns the owner token and true when the lease was taken.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.c.rdb.SetNX(ctx, lockKey(name), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Unlock releases the lease only if it is still held by token.
func (l *Locker) Unlock(ctx context.Context, name, token string) error {
	n, err := releaseLock.Run(ctx, l.c.rdb, []string{lockKey(name)}, token).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

var ErrLockNotHeld = errors.New("lock not held")
