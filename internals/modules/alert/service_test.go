package alert

import (
	"context"
	"errors"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/notification"
	"pulsewatch/internals/modules/result"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	rules    []Rule
	listErr  error
	insertFn func(Trigger) error
	triggers []Trigger
	stamped  map[uuid.UUID]time.Time
}

func (f *fakeStore) ListActive(_ context.Context, _ uuid.UUID) ([]Rule, error) {
	return f.rules, f.listErr
}

func (f *fakeStore) InsertTrigger(_ context.Context, t Trigger) (Trigger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertFn != nil {
		if err := f.insertFn(t); err != nil {
			return Trigger{}, err
		}
	}
	t.ID = uuid.New()
	f.triggers = append(f.triggers, t)
	return t, nil
}

func (f *fakeStore) StampTriggered(_ context.Context, ruleID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stamped == nil {
		f.stamped = map[uuid.UUID]time.Time{}
	}
	f.stamped[ruleID] = at
	return nil
}

type fakeStats struct {
	uptime  result.UptimeStats
	overall result.OverallStats
	scopes  []result.Scope
	err     error
	panics  bool
}

func (f *fakeStats) GetUptimeStats(_ context.Context, _ uuid.UUID, _, _ time.Time) (result.UptimeStats, error) {
	if f.panics {
		panic("stats exploded")
	}
	return f.uptime, f.err
}

func (f *fakeStats) GetOverallStats(_ context.Context, scope result.Scope, _, _ time.Time) (result.OverallStats, error) {
	f.scopes = append(f.scopes, scope)
	return f.overall, f.err
}

type fakeDispatcher struct {
	mu       sync.Mutex
	payloads []notification.Payload
}

func (f *fakeDispatcher) Send(_ context.Context, _ uuid.UUID, p notification.Payload) (notification.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return notification.Result{Total: 1, Success: 1}, nil
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

type fakePublisher struct {
	events []string
}

func (f *fakePublisher) Publish(_ context.Context, eventType string, _ any) error {
	f.events = append(f.events, eventType)
	return nil
}

type fixture struct {
	svc        *Service
	store      *fakeStore
	stats      *fakeStats
	dispatcher *fakeDispatcher
	publisher  *fakePublisher
	clock      time.Time
	endpoint   endpoint.Endpoint
}

func newFixture(t *testing.T, rules ...Rule) *fixture {
	t.Helper()
	logger := zerolog.Nop()

	f := &fixture{
		store:      &fakeStore{rules: rules},
		stats:      &fakeStats{},
		dispatcher: &fakeDispatcher{},
		publisher:  &fakePublisher{},
		clock:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		endpoint: endpoint.Endpoint{
			ID:             uuid.New(),
			OrganizationID: uuid.New(),
			UserID:         uuid.New(),
			Name:           "api",
			URL:            "https://example.com/health",
		},
	}
	f.svc = NewService(Deps{
		Store:      f.store,
		Stats:      f.stats,
		Dispatcher: f.dispatcher,
		Publisher:  f.publisher,
		Logger:     &logger,
	})
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func rule(c Condition, threshold float64) Rule {
	return Rule{ID: uuid.New(), Name: string(c), Condition: c, Threshold: threshold, Active: true}
}

func latencyEvent(ms int64) CheckEvent {
	return CheckEvent{Outcome: result.OutcomeSuccess, LatencyMs: &ms}
}

func statusEvent(code int) CheckEvent {
	ms := int64(120)
	return CheckEvent{Outcome: result.OutcomeFailure, StatusCode: &code, LatencyMs: &ms}
}

func TestEvaluate_NoRules(t *testing.T) {
	f := newFixture(t)

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(5000))
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Empty(t, f.store.triggers)
	assert.Zero(t, f.dispatcher.count())
}

func TestEvaluate_ListError(t *testing.T) {
	f := newFixture(t)
	f.store.listErr = errors.New("db down")

	_, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(10))
	require.Error(t, err)
}

func TestEvaluate_ResponseTimeAbove(t *testing.T) {
	t.Run("slow response fires", func(t *testing.T) {
		f := newFixture(t, rule(ResponseTimeAbove, 1000))

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Triggered)
		assert.Equal(t, 1, sum.Notified)
		require.Len(t, f.store.triggers, 1)
		assert.Equal(t, float64(2000), f.store.triggers[0].Value)
		require.Equal(t, 1, f.dispatcher.count())
		p := f.dispatcher.payloads[0]
		assert.Equal(t, "RESPONSE_TIME_ABOVE", p.Condition)
		assert.Equal(t, "api", p.EndpointName)
		assert.Equal(t, []string{"alert.triggered"}, f.publisher.events)
	})

	t.Run("fast response stays quiet", func(t *testing.T) {
		f := newFixture(t, rule(ResponseTimeAbove, 1000))

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(500))
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Evaluated)
		assert.Zero(t, sum.Triggered)
		assert.Empty(t, f.store.triggers)
		assert.Zero(t, f.dispatcher.count())
	})

	t.Run("error outcome has no latency", func(t *testing.T) {
		f := newFixture(t, rule(ResponseTimeAbove, 0))

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, CheckEvent{Outcome: result.OutcomeError})
		require.NoError(t, err)
		assert.Zero(t, sum.Triggered)
	})
}

func TestEvaluate_ResponseTimeBelow(t *testing.T) {
	f := newFixture(t, rule(ResponseTimeBelow, 50))

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(10))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Triggered)
}

func TestEvaluate_StatusCodeNot(t *testing.T) {
	f := newFixture(t, rule(StatusCodeNot, 200))

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, statusEvent(500))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Triggered)
	require.Len(t, f.store.triggers, 1)
	assert.Equal(t, float64(500), f.store.triggers[0].Value)

	f2 := newFixture(t, rule(StatusCodeNot, 200))
	sum, err = f2.svc.Evaluate(context.Background(), f2.endpoint, statusEvent(200))
	require.NoError(t, err)
	assert.Zero(t, sum.Triggered)

	f3 := newFixture(t, rule(StatusCodeNot, 200))
	sum, err = f3.svc.Evaluate(context.Background(), f3.endpoint, CheckEvent{Outcome: result.OutcomeTimeout})
	require.NoError(t, err)
	assert.Zero(t, sum.Triggered)
}

func TestEvaluate_UptimeBelow(t *testing.T) {
	f := newFixture(t, rule(UptimeBelow, 99))
	f.stats.uptime = result.UptimeStats{Total: 100, Successful: 95, Failed: 5, UptimePercentage: 95}

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(100))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Triggered)
	require.Len(t, f.store.triggers, 1)
	assert.Zero(t, f.store.triggers[0].Value)
}

func TestEvaluate_UptimeBelow_NoData(t *testing.T) {
	f := newFixture(t, rule(UptimeBelow, 99))

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(100))
	require.NoError(t, err)
	assert.Zero(t, sum.Triggered)
}

func TestEvaluate_ErrorRateAbove_Scope(t *testing.T) {
	f := newFixture(t, rule(ErrorRateAbove, 10))
	f.stats.overall = result.OverallStats{TotalChecks: 10, ErrorRate: 20}

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(100))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Triggered)
	require.Len(t, f.stats.scopes, 1)
	assert.Equal(t, result.Scope{Kind: result.ScopeUser, ID: f.endpoint.UserID}, f.stats.scopes[0])

	f.svc.scopeKind = result.ScopeEndpoint
	_, err = f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(100))
	require.NoError(t, err)
	assert.Equal(t, result.Scope{Kind: result.ScopeEndpoint, ID: f.endpoint.ID}, f.stats.scopes[1])
}

func TestEvaluate_Throttle(t *testing.T) {
	r := rule(ResponseTimeAbove, 1000)
	f := newFixture(t, r)
	ctx := context.Background()
	start := f.clock

	sum, err := f.svc.Evaluate(ctx, f.endpoint, latencyEvent(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Notified)

	f.clock = start.Add(30 * time.Minute)
	sum, err = f.svc.Evaluate(ctx, f.endpoint, latencyEvent(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Throttled)
	assert.Zero(t, sum.Notified)
	assert.Equal(t, 1, f.dispatcher.count())
	// still recorded while throttled
	assert.Len(t, f.store.triggers, 2)
	assert.Equal(t, f.clock, f.store.stamped[r.ID])

	f.clock = start.Add(61 * time.Minute)
	sum, err = f.svc.Evaluate(ctx, f.endpoint, latencyEvent(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Notified)
	assert.Equal(t, 2, f.dispatcher.count())
}

func TestEvaluate_RuleFailureIsolated(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		f := newFixture(t, rule(UptimeBelow, 99), rule(ResponseTimeAbove, 1000))
		f.stats.panics = true

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Evaluated)
		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, 1, sum.Notified)
	})

	t.Run("stats error", func(t *testing.T) {
		f := newFixture(t, rule(UptimeBelow, 99), rule(ResponseTimeAbove, 1000))
		f.stats.err = errors.New("timeout")

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, 1, sum.Notified)
	})

	t.Run("trigger insert error skips notification", func(t *testing.T) {
		bad := rule(ResponseTimeAbove, 1000)
		good := rule(ResponseTimeAbove, 1500)
		f := newFixture(t, bad, good)
		f.store.insertFn = func(tr Trigger) error {
			if tr.RuleID == bad.ID {
				return errors.New("constraint")
			}
			return nil
		}

		sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
		require.NoError(t, err)
		assert.Equal(t, 1, sum.Failed)
		assert.Equal(t, 1, sum.Notified)
		require.Equal(t, 1, f.dispatcher.count())
	})
}

func TestEvaluate_UnknownCondition(t *testing.T) {
	f := newFixture(t, rule("LATENCY_P99_ABOVE", 1), rule(ResponseTimeAbove, 1000))

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Triggered)
}

func TestEventFromResult(t *testing.T) {
	msg := "dial tcp: refused"
	ev := EventFromResult(result.CheckResult{
		Outcome:      result.OutcomeError,
		LatencyMs:    0,
		ErrorMessage: &msg,
	})
	assert.Nil(t, ev.LatencyMs)
	assert.Equal(t, msg, ev.ErrorMessage)

	ev = EventFromResult(result.CheckResult{Outcome: result.OutcomeTimeout, LatencyMs: 5000})
	require.NotNil(t, ev.LatencyMs)
	assert.Equal(t, int64(5000), *ev.LatencyMs)
}

func TestMemoryThrottle(t *testing.T) {
	th := NewMemoryThrottle(ThrottleWindow)
	ctx := context.Background()
	id := uuid.New()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ok, err := th.Acquire(ctx, id, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = th.Acquire(ctx, id, t0.Add(59*time.Minute))
	assert.False(t, ok)

	ok, _ = th.Acquire(ctx, id, t0.Add(time.Hour))
	assert.True(t, ok)

	ok, _ = th.Acquire(ctx, uuid.New(), t0.Add(time.Minute))
	assert.True(t, ok)
}

func TestMemoryThrottle_ConcurrentAcquireHasOneWinner(t *testing.T) {
	th := NewMemoryThrottle(ThrottleWindow)
	id := uuid.New()
	now := time.Now()

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := th.Acquire(context.Background(), id, now); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

type brokenThrottle struct{}

func (brokenThrottle) Acquire(context.Context, uuid.UUID, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestEvaluate_ThrottleErrorStillNotifies(t *testing.T) {
	f := newFixture(t, rule(ResponseTimeAbove, 1000))
	f.svc.throttle = brokenThrottle{}

	sum, err := f.svc.Evaluate(context.Background(), f.endpoint, latencyEvent(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Notified)
	assert.Equal(t, 1, f.dispatcher.count())
}
