package check

import (
	"context"
	"fmt"
	"pulsewatch/internals/modules/alert"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/result"
	"pulsewatch/pkg/apperror"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Endpoints interface {
	ListActive(ctx context.Context) ([]endpoint.Endpoint, error)
	Get(ctx context.Context, orgID, endpointID uuid.UUID) (endpoint.Endpoint, error)
	GetInternal(ctx context.Context, endpointID uuid.UUID) (endpoint.Endpoint, error)
}

type Prober interface {
	Probe(ctx context.Context, e endpoint.Endpoint) result.Observation
}

type Recorder interface {
	Record(ctx context.Context, e endpoint.Endpoint, obs result.Observation) (result.CheckResult, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, e endpoint.Endpoint, ev alert.CheckEvent) (alert.Summary, error)
}

// StatusStore keeps the latest result per endpoint for fast reads.
type StatusStore interface {
	StoreStatus(ctx context.Context, r result.CheckResult) error
	GetStatus(ctx context.Context, endpointID uuid.UUID) (result.Status, bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type StatsReader interface {
	GetUptimeStats(ctx context.Context, endpointID uuid.UUID, from, to time.Time) (result.UptimeStats, error)
	GetOverallStats(ctx context.Context, scope result.Scope, from, to time.Time) (result.OverallStats, error)
}

type MetricsRecorder interface {
	ObserveCheck(outcome string, latency time.Duration)
}

type Deps struct {
	Endpoints Endpoints
	Prober    Prober
	Recorder  Recorder
	Stats     StatsReader
	Evaluator Evaluator
	Status    StatusStore     // optional
	Publisher EventPublisher  // optional
	Metrics   MetricsRecorder // optional
	Logger    *zerolog.Logger
}

// Service runs the check pipeline: probe, persist, evaluate alerts.
type Service struct {
	endpoints Endpoints
	prober    Prober
	recorder  Recorder
	stats     StatsReader
	evaluator Evaluator
	status    StatusStore
	publisher EventPublisher
	metrics   MetricsRecorder
	logger    *zerolog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		endpoints: d.Endpoints,
		prober:    d.Prober,
		recorder:  d.Recorder,
		stats:     d.Stats,
		evaluator: d.Evaluator,
		status:    d.Status,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		logger:    d.Logger,
	}
}

// RunSummary counts the endpoints handled by one RunActiveChecks pass.
type RunSummary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RunCheck looks endpointID up without an organization scope and checks it.
func (s *Service) RunCheck(ctx context.Context, endpointID uuid.UUID) (result.CheckResult, error) {
	e, err := s.endpoints.GetInternal(ctx, endpointID)
	if err != nil {
		return result.CheckResult{}, err
	}
	return s.check(ctx, e)
}

// RunCheckForOrg checks endpointID only if it belongs to orgID.
func (s *Service) RunCheckForOrg(ctx context.Context, orgID, endpointID uuid.UUID) (result.CheckResult, error) {
	e, err := s.endpoints.Get(ctx, orgID, endpointID)
	if err != nil {
		return result.CheckResult{}, err
	}
	return s.check(ctx, e)
}

// RunActiveChecks checks every active endpoint one after another. A failure
// or panic in one endpoint is logged and the loop moves on.
func (s *Service) RunActiveChecks(ctx context.Context) (RunSummary, error) {
	endpoints, err := s.endpoints.ListActive(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	sum := RunSummary{Total: len(endpoints)}
	for _, e := range endpoints {
		if ctx.Err() != nil {
			s.logger.Warn().Int("remaining", sum.Total-sum.Succeeded-sum.Failed).Msg("check run cancelled")
			return sum, ctx.Err()
		}
		if err := s.safeCheck(ctx, e); err != nil {
			sum.Failed++
			s.logger.Error().
				Err(err).
				Str("endpoint_id", e.ID.String()).
				Str("url", e.URL).
				Msg("endpoint check failed")
			continue
		}
		sum.Succeeded++
	}

	s.logger.Info().
		Int("total", sum.Total).
		Int("failed", sum.Failed).
		Msg("active checks finished")
	return sum, nil
}

// LatestStatus returns the cached last result of an endpoint owned by orgID.
func (s *Service) LatestStatus(ctx context.Context, orgID, endpointID uuid.UUID) (result.Status, error) {
	const op string = "service.check.latest_status"

	if _, err := s.endpoints.Get(ctx, orgID, endpointID); err != nil {
		return result.Status{}, err
	}
	if s.status == nil {
		return result.Status{}, apperror.Newf(apperror.NotFound, op, "no status recorded yet")
	}

	st, ok, err := s.status.GetStatus(ctx, endpointID)
	if err != nil {
		return result.Status{}, apperror.New(apperror.Dependency, op, err)
	}
	if !ok {
		return result.Status{}, apperror.Newf(apperror.NotFound, op, "no status recorded yet")
	}
	return st, nil
}

// Uptime returns uptime stats of an endpoint owned by orgID.
func (s *Service) Uptime(ctx context.Context, orgID, endpointID uuid.UUID, from, to time.Time) (result.UptimeStats, error) {
	if _, err := s.endpoints.Get(ctx, orgID, endpointID); err != nil {
		return result.UptimeStats{}, err
	}
	return s.stats.GetUptimeStats(ctx, endpointID, from, to)
}

func (s *Service) OverallStats(ctx context.Context, scope result.Scope, from, to time.Time) (result.OverallStats, error) {
	return s.stats.GetOverallStats(ctx, scope, from, to)
}

func (s *Service) safeCheck(ctx context.Context, e endpoint.Endpoint) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = s.check(ctx, e)
	return err
}

func (s *Service) check(ctx context.Context, e endpoint.Endpoint) (result.CheckResult, error) {
	obs := s.prober.Probe(ctx, e)
	if s.metrics != nil {
		s.metrics.ObserveCheck(string(obs.Outcome), time.Duration(obs.LatencyMs)*time.Millisecond)
	}

	cr, err := s.recorder.Record(ctx, e, obs)
	if err != nil {
		return result.CheckResult{}, fmt.Errorf("record check: %w", err)
	}

	if s.status != nil {
		if err := s.status.StoreStatus(ctx, cr); err != nil {
			s.logger.Warn().Err(err).Str("endpoint_id", e.ID.String()).Msg("failed to cache endpoint status")
		}
	}

	sum, err := s.evaluator.Evaluate(ctx, e, alert.EventFromResult(cr))
	if err != nil {
		// the result is already persisted, alerting catches up on the next check
		s.logger.Error().Err(err).Str("endpoint_id", e.ID.String()).Msg("alert evaluation failed")
	} else if sum.Triggered > 0 {
		s.logger.Info().
			Str("endpoint_id", e.ID.String()).
			Int("triggered", sum.Triggered).
			Int("notified", sum.Notified).
			Int("throttled", sum.Throttled).
			Msg("alerts triggered")
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "check.completed", cr); err != nil {
			s.logger.Warn().Err(err).Str("endpoint_id", e.ID.String()).Msg("failed to publish check event")
		}
	}

	s.logger.Debug().
		Str("endpoint_id", e.ID.String()).
		Str("outcome", string(cr.Outcome)).
		Int64("latency_ms", cr.LatencyMs).
		Msg("check completed")

	return cr, nil
}
