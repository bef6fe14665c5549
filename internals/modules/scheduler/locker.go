package scheduler

import (
	"context"
	"time"
)

// Locker hands out a lease per job name so that a job fires on one
// instance only.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, name, token string) error
}

// NoopLocker always grants the lease. Use it for single-instance deployments.
type NoopLocker struct{}

func (NoopLocker) TryLock(context.Context, string, time.Duration) (string, bool, error) {
	return "", true, nil
}

func (NoopLocker) Unlock(context.Context, string, string) error { return nil }
