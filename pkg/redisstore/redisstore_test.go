package redisstore

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/result"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestClient(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("PULSEWATCH_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("skipping redis test (cannot connect): %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromRedis(rdb)
}

func TestThrottle_WindowAndExpiry(t *testing.T) {
	c := getTestClient(t)
	ctx := context.Background()
	th := NewThrottle(c, time.Hour)
	ruleID := uuid.New()
	t.Cleanup(func() { c.rdb.Del(context.Background(), throttleKey(ruleID)) })

	base := time.Now()

	ok, err := th.Acquire(ctx, ruleID, base)
	require.NoError(t, err)
	assert.True(t, ok, "no entry yet")

	ok, err = th.Acquire(ctx, ruleID, base.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = th.Acquire(ctx, ruleID, base.Add(61*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := c.rdb.TTL(ctx, throttleKey(ruleID)).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Hour)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestThrottle_ConcurrentAcquireHasOneWinner(t *testing.T) {
	c := getTestClient(t)
	ruleID := uuid.New()
	t.Cleanup(func() { c.rdb.Del(context.Background(), throttleKey(ruleID)) })

	// two instances sharing one Redis
	a := NewThrottle(c, time.Hour)
	b := NewThrottle(c, time.Hour)
	now := time.Now()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 20; i++ {
		th := a
		if i%2 == 1 {
			th = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := th.Acquire(context.Background(), ruleID, now)
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestLocker_SingleHolder(t *testing.T) {
	c := getTestClient(t)
	ctx := context.Background()
	l := NewLocker(c)
	name := "test-" + uuid.NewString()

	token, ok, err := l.TryLock(ctx, name, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, name, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be rejected")

	assert.ErrorIs(t, l.Unlock(ctx, name, "someone-else"), ErrLockNotHeld)
	require.NoError(t, l.Unlock(ctx, name, token))

	_, ok, err = l.TryLock(ctx, name, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	c.rdb.Del(ctx, lockKey(name))
}

func TestEndpointCacheAndStatus(t *testing.T) {
	c := getTestClient(t)
	ctx := context.Background()

	e := endpoint.Endpoint{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Name:           "api",
		URL:            "https://example.com/health",
		Method:         "GET",
		Headers:        map[string]string{"Accept": "application/json"},
		ExpectedStatus: 200,
		TimeoutMs:      5000,
		IntervalMs:     60000,
		Active:         true,
	}
	require.NoError(t, c.SetEndpoint(ctx, e))
	got, ok := c.GetEndpoint(ctx, e.ID)
	require.True(t, ok)
	assert.Equal(t, e, got)
	require.NoError(t, c.DelEndpoint(ctx, e.ID))
	_, ok = c.GetEndpoint(ctx, e.ID)
	assert.False(t, ok)

	code := 503
	msg := "Expected status 200, got 503"
	checkedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, c.StoreStatus(ctx, result.CheckResult{
		EndpointID:   e.ID,
		Outcome:      result.OutcomeFailure,
		StatusCode:   &code,
		LatencyMs:    120,
		ErrorMessage: &msg,
		CheckedAt:    checkedAt,
	}))
	t.Cleanup(func() { _ = c.DelStatus(context.Background(), e.ID) })

	st, ok, err := c.GetStatus(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.OutcomeFailure, st.Outcome)
	assert.Equal(t, 503, *st.StatusCode)
	assert.Equal(t, msg, *st.ErrorMessage)
	assert.Equal(t, int64(120), st.LatencyMs)
	assert.True(t, checkedAt.Equal(st.CheckedAt))
}
