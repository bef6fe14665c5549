package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	JobCheckActive      = "check-active"
	JobRetentionCleanup = "retention-cleanup"
)

type JobFunc func(ctx context.Context) error

type JobRecorder interface {
	IncJobRun(job, status string)
}

type noopRecorder struct{}

func (noopRecorder) IncJobRun(string, string) {}

// ErrUnknownJob is returned for a job name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// leaseSlack keeps a job's lease a little shorter than its period so the
// holder's own next tick finds it free.
const leaseSlack = 5 * time.Second

type job struct {
	id    cron.EntryID
	spec  string
	fn    JobFunc
	lease time.Duration
}

// JobInfo describes one registered job.
type JobInfo struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	Lease   string    `json:"lease"`
	NextRun time.Time `json:"next_run"`
}

// Scheduler runs named periodic jobs. One process-wide instance is expected;
// across processes the Locker keeps a job to one run per period.
type Scheduler struct {
	cron     *cron.Cron
	locker   Locker
	lockTTL  time.Duration
	recorder JobRecorder
	logger   *zerolog.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(locker Locker, lockTTL time.Duration, recorder JobRecorder, logger *zerolog.Logger) *Scheduler {
	if locker == nil {
		locker = NoopLocker{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if lockTTL <= 0 {
		lockTTL = 55 * time.Second
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		locker:   locker,
		lockTTL:  lockTTL,
		recorder: recorder,
		logger:   logger,
		jobs:     make(map[string]*job),
		ctx:      context.Background(),
	}
}

// Register schedules fn as job name. A name that is already registered keeps
// its existing entry.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		s.logger.Debug().Str("job", name).Msg("job already registered")
		return nil
	}

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("schedule %s with %q: %w", name, spec, err)
	}

	j := &job{spec: spec, fn: fn, lease: leaseFor(sched, s.lockTTL, time.Now())}
	j.id = s.cron.Schedule(sched, cron.FuncJob(func() { s.run(name, j) }))
	s.jobs[name] = j

	s.logger.Info().Str("job", name).Str("spec", spec).Dur("lease", j.lease).Msg("job registered")
	return nil
}

// leaseFor covers one period of sched, never less than floor.
func leaseFor(sched cron.Schedule, floor time.Duration, now time.Time) time.Duration {
	first := sched.Next(now)
	period := sched.Next(first).Sub(first)
	if lease := period - leaseSlack; lease > floor {
		return lease
	}
	return floor
}

// Start begins firing registered jobs. Jobs run with a context derived from
// ctx that is cancelled by Stop. Calling Start again is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.logger.Info().Msg("scheduler already started")
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.cron.Start()

	s.logger.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop halts the cron loop and waits for running jobs, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("scheduler stop timed out, cancelling running jobs")
	}
	cancel()
	s.logger.Info().Msg("scheduler stopped")
}

// Next reports the next fire time of job name.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(j.id).Next, true
}

// Jobs lists registered jobs ordered by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	out := make([]JobInfo, 0, len(s.jobs))
	ids := make(map[string]cron.EntryID, len(s.jobs))
	for name, j := range s.jobs {
		out = append(out, JobInfo{Name: name, Spec: j.spec, Lease: j.lease.String()})
		ids[name] = j.id
	}
	s.mu.Unlock()

	for i := range out {
		out[i].NextRun = s.cron.Entry(ids[out[i].Name]).Next
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// RunNow executes job name once, outside its schedule, under the same lease.
// A run that finds the lease held is skipped like a scheduled tick.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	s.run(name, j)
	return nil
}

// run takes the job's lease and keeps it after a successful run, so another
// instance ticking later in the same period skips. A failed run hands the
// lease back for the next instance to retry.
func (s *Scheduler) run(name string, j *job) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	token, ok, err := s.locker.TryLock(ctx, name, j.lease)
	if err != nil {
		s.recorder.IncJobRun(name, "error")
		s.logger.Error().Err(err).Str("job", name).Msg("failed to acquire job lease")
		return
	}
	if !ok {
		s.recorder.IncJobRun(name, "skipped")
		s.logger.Debug().Str("job", name).Msg("job lease held elsewhere, skipping")
		return
	}

	start := time.Now()
	err = s.safeCall(ctx, j.fn)
	if err != nil {
		s.release(ctx, name, token)
		s.recorder.IncJobRun(name, "error")
		s.logger.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("job failed")
		return
	}
	s.recorder.IncJobRun(name, "success")
	s.logger.Info().Str("job", name).Dur("took", time.Since(start)).Msg("job finished")
}

func (s *Scheduler) release(ctx context.Context, name, token string) {
	// fresh context, ctx may already be cancelled
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.locker.Unlock(relCtx, name, token); err != nil {
		s.logger.Warn().Err(err).Str("job", name).Msg("failed to release job lease")
	}
}

func (s *Scheduler) safeCall(ctx context.Context, fn JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// cronLogger routes cron's own logging through zerolog.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
