package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] = throttle key
// ARGV[1] = now, unix ms
// ARGV[2] = window, ms
const acquireThrottleScript = `
local last = tonumber(redis.call("GET", KEYS[1]))
if last and tonumber(ARGV[1]) - last < tonumber(ARGV[2]) then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`

var acquireThrottle = redis.NewScript(acquireThrottleScript)

// Throttle keeps the last notification time per alert rule in Redis so every
// instance of the service shares one cooldown window.
type Throttle struct {
	c      *Client
	window time.Duration
}

func NewThrottle(c *Client, window time.Duration) *Throttle {
	return &Throttle{c: c, window: window}
}

func throttleKey(ruleID uuid.UUID) string {
	return fmt.Sprintf("alert:throttle:%v", ruleID)
}

// Acquire checks and claims the window in one script call.
func (t *Throttle) Acquire(ctx context.Context, ruleID uuid.UUID, now time.Time) (bool, error) {
	n, err := acquireThrottle.Run(ctx, t.c.rdb, []string{throttleKey(ruleID)},
		now.UnixMilli(), t.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
