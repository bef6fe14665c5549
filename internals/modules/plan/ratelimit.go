package plan

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type orgLimiter struct {
	tier    Tier
	limiter *rate.Limiter
}

// RequestLimiter applies a tier's request-rate ceiling per organization.
type RequestLimiter struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*orgLimiter
}

func NewRequestLimiter() *RequestLimiter {
	return &RequestLimiter{
		limiters: make(map[uuid.UUID]*orgLimiter),
	}
}

// Allow reports whether orgID may make one more request now. A tier change
// replaces the organization's bucket.
func (r *RequestLimiter) Allow(orgID uuid.UUID, tier Tier) bool {
	l, ok := limitsByTier[tier]
	if !ok {
		l = limitsByTier[TierFree]
	}
	if l.RateLimits.RequestsPerMinute == Unlimited {
		return true
	}

	r.mu.Lock()
	ol, ok := r.limiters[orgID]
	if !ok || ol.tier != tier {
		ol = &orgLimiter{tier: tier, limiter: newLimiter(l.RateLimits)}
		r.limiters[orgID] = ol
	}
	r.mu.Unlock()

	return ol.limiter.Allow()
}

func newLimiter(rl RateLimits) *rate.Limiter {
	burst := rl.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rl.RequestsPerMinute)/60.0), burst)
}
