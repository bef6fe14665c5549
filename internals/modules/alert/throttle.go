package alert

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ThrottleWindow is the minimum gap between two notifications of one rule.
const ThrottleWindow = time.Hour

type Throttle interface {
	// Acquire claims the notification window of ruleID at now. It reports
	// false when a notification went out less than one window earlier. Check
	// and claim happen in one step, so concurrent callers get one winner.
	Acquire(ctx context.Context, ruleID uuid.UUID, now time.Time) (bool, error)
}

// MemoryThrottle keeps the cooldown in process memory. State is lost on
// restart and not shared between instances.
type MemoryThrottle struct {
	mu     sync.Mutex
	last   map[uuid.UUID]time.Time
	window time.Duration
}

func NewMemoryThrottle(window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		last:   make(map[uuid.UUID]time.Time),
		window: window,
	}
}

func (t *MemoryThrottle) Acquire(_ context.Context, ruleID uuid.UUID, now time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.last[ruleID]; ok && now.Sub(last) < t.window {
		return false, nil
	}
	t.last[ruleID] = now

	// drop entries that can no longer suppress anything
	for id, ts := range t.last {
		if now.Sub(ts) >= t.window {
			delete(t.last, id)
		}
	}
	return true, nil
}
