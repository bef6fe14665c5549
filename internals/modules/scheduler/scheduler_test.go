package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	unlocked []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (f *fakeLocker) TryLock(_ context.Context, name string, _ time.Duration) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	if _, ok := f.held[name]; ok {
		return "", false, nil
	}
	f.held[name] = "tok-" + name
	return f.held[name], true, nil
}

func (f *fakeLocker) Unlock(_ context.Context, name, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[name] == token {
		delete(f.held, name)
	}
	f.unlocked = append(f.unlocked, name)
	return nil
}

type fakeJobRecorder struct {
	mu   sync.Mutex
	runs map[string]int
}

func (f *fakeJobRecorder) IncJobRun(job, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runs == nil {
		f.runs = map[string]int{}
	}
	f.runs[job+"/"+status]++
}

func (f *fakeJobRecorder) get(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[key]
}

func newTestScheduler(locker Locker, rec JobRecorder) *Scheduler {
	logger := zerolog.Nop()
	return New(locker, 10*time.Second, rec, &logger)
}

// register adds a job that counts its runs and returns err.
func register(t *testing.T, s *Scheduler, name string, calls *atomic.Int32, err error) {
	t.Helper()
	require.NoError(t, s.Register(name, "@every 1m", func(context.Context) error {
		calls.Add(1)
		return err
	}))
}

func TestRegister_ReusesExistingName(t *testing.T) {
	s := newTestScheduler(nil, nil)

	require.NoError(t, s.Register(JobCheckActive, "@every 1m", func(context.Context) error { return nil }))
	require.NoError(t, s.Register(JobCheckActive, "@every 5m", func(context.Context) error { return nil }))

	assert.Len(t, s.jobs, 1)
	assert.Len(t, s.cron.Entries(), 1)
	assert.Equal(t, "@every 1m", s.jobs[JobCheckActive].spec)
}

func TestRegister_InvalidSpec(t *testing.T) {
	s := newTestScheduler(nil, nil)

	err := s.Register("bad", "every minute please", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Empty(t, s.jobs)
}

func TestLeaseFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 30, 0, time.UTC)
	tests := []struct {
		spec string
		want time.Duration
	}{
		{"@every 1m", 55 * time.Second},
		{"@every 5m", 5*time.Minute - 5*time.Second},
		{"@daily", 24*time.Hour - 5*time.Second},
		{"@every 1s", 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			sched, err := cron.ParseStandard(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, leaseFor(sched, 10*time.Second, now))
		})
	}
}

func TestStart_Idempotent(t *testing.T) {
	s := newTestScheduler(nil, nil)
	require.NoError(t, s.Register(JobCheckActive, "@every 1m", func(context.Context) error { return nil }))

	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop(context.Background())

	next, ok := s.Next(JobCheckActive)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), next, 2*time.Second)
}

func TestJobs_ListsRegistered(t *testing.T) {
	s := newTestScheduler(nil, nil)
	require.NoError(t, s.Register(JobRetentionCleanup, "@daily", func(context.Context) error { return nil }))
	require.NoError(t, s.Register(JobCheckActive, "@every 1m", func(context.Context) error { return nil }))

	s.Start(context.Background())
	defer s.Stop(context.Background())

	jobs := s.Jobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, JobCheckActive, jobs[0].Name)
	assert.Equal(t, "55s", jobs[0].Lease)
	assert.False(t, jobs[0].NextRun.IsZero())
	assert.Equal(t, JobRetentionCleanup, jobs[1].Name)
	assert.Equal(t, "@daily", jobs[1].Spec)
}

func TestScheduler_FiresJobs(t *testing.T) {
	s := newTestScheduler(nil, nil)
	var calls atomic.Int32
	require.NoError(t, s.Register("tick", "@every 1s", func(context.Context) error {
		calls.Add(1)
		return nil
	}))

	s.Start(context.Background())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNow_UnknownJob(t *testing.T) {
	s := newTestScheduler(nil, nil)

	err := s.RunNow("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestRun_SkipsWhenLeaseHeld(t *testing.T) {
	locker := newFakeLocker()
	locker.held[JobCheckActive] = "other-instance"
	rec := &fakeJobRecorder{}
	s := newTestScheduler(locker, rec)

	var calls atomic.Int32
	register(t, s, JobCheckActive, &calls, nil)
	require.NoError(t, s.RunNow(JobCheckActive))

	assert.Zero(t, calls.Load())
	assert.Equal(t, 1, rec.get(JobCheckActive+"/skipped"))
}

func TestRun_KeepsLeaseAfterSuccess(t *testing.T) {
	locker := newFakeLocker()
	rec := &fakeJobRecorder{}
	s := newTestScheduler(locker, rec)

	var calls atomic.Int32
	register(t, s, JobRetentionCleanup, &calls, nil)
	require.NoError(t, s.RunNow(JobRetentionCleanup))

	assert.Empty(t, locker.unlocked)
	assert.Contains(t, locker.held, JobRetentionCleanup)
	assert.Equal(t, 1, rec.get(JobRetentionCleanup+"/success"))
}

func TestRun_TwoInstancesRunOncePerPeriod(t *testing.T) {
	locker := newFakeLocker()
	recA, recB := &fakeJobRecorder{}, &fakeJobRecorder{}
	a := newTestScheduler(locker, recA)
	b := newTestScheduler(locker, recB)

	var calls atomic.Int32
	register(t, a, JobCheckActive, &calls, nil)
	register(t, b, JobCheckActive, &calls, nil)

	// b ticks later in the same minute, after a has finished
	require.NoError(t, a.RunNow(JobCheckActive))
	require.NoError(t, b.RunNow(JobCheckActive))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, recA.get(JobCheckActive+"/success"))
	assert.Equal(t, 1, recB.get(JobCheckActive+"/skipped"))
}

func TestRun_FailedRunReleasesLeaseForRetry(t *testing.T) {
	locker := newFakeLocker()
	a := newTestScheduler(locker, nil)
	b := newTestScheduler(locker, nil)

	var aCalls, bCalls atomic.Int32
	register(t, a, JobCheckActive, &aCalls, errors.New("db down"))
	register(t, b, JobCheckActive, &bCalls, nil)

	require.NoError(t, a.RunNow(JobCheckActive))
	require.NoError(t, b.RunNow(JobCheckActive))

	assert.Equal(t, int32(1), aCalls.Load())
	assert.Equal(t, int32(1), bCalls.Load())
	assert.Equal(t, []string{JobCheckActive}, locker.unlocked)
}

func TestRun_RecoversPanicAndError(t *testing.T) {
	locker := newFakeLocker()
	rec := &fakeJobRecorder{}
	s := newTestScheduler(locker, rec)

	require.NoError(t, s.Register("boom", "@every 1m", func(context.Context) error { panic("nil map") }))
	require.NoError(t, s.Register("fail", "@every 1m", func(context.Context) error { return errors.New("db down") }))

	assert.NotPanics(t, func() {
		require.NoError(t, s.RunNow("boom"))
	})
	require.NoError(t, s.RunNow("fail"))

	assert.Equal(t, 1, rec.get("boom/error"))
	assert.Equal(t, 1, rec.get("fail/error"))
	assert.Empty(t, locker.held)
}

func TestRun_LockerError(t *testing.T) {
	locker := newFakeLocker()
	locker.err = errors.New("redis unavailable")
	rec := &fakeJobRecorder{}
	s := newTestScheduler(locker, rec)

	var calls atomic.Int32
	register(t, s, JobCheckActive, &calls, nil)
	require.NoError(t, s.RunNow(JobCheckActive))

	assert.Zero(t, calls.Load())
	assert.Equal(t, 1, rec.get(JobCheckActive+"/error"))
}
