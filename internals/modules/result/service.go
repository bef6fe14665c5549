package result

import (
	"context"
	"math"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/pkg/apperror"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	Insert(ctx context.Context, c CheckResult) (CheckResult, error)
	Counts(ctx context.Context, scope Scope, from, to time.Time) (Counts, error)
	DeleteForTierBefore(ctx context.Context, tier string, cutoff time.Time) (int64, error)
	DeleteOutsideTiersBefore(ctx context.Context, tiers []string, cutoff time.Time) (int64, error)
}

type Service struct {
	store  Store
	logger *zerolog.Logger
}

func NewService(store Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Record appends one check result for e. Results are never updated.
func (s *Service) Record(ctx context.Context, e endpoint.Endpoint, obs Observation) (CheckResult, error) {
	checkedAt := obs.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now().UTC()
	}

	return s.store.Insert(ctx, CheckResult{
		EndpointID:     e.ID,
		OrganizationID: e.OrganizationID,
		UserID:         e.UserID,
		Outcome:        obs.Outcome,
		StatusCode:     obs.StatusCode,
		LatencyMs:      obs.LatencyMs,
		ResponseSize:   obs.ResponseSize,
		ErrorMessage:   obs.ErrorMessage,
		CheckedAt:      checkedAt,
	})
}

func (s *Service) GetUptimeStats(ctx context.Context, endpointID uuid.UUID, from, to time.Time) (UptimeStats, error) {
	const op string = "service.result.uptime_stats"

	if err := validateWindow(op, from, to); err != nil {
		return UptimeStats{}, err
	}

	c, err := s.store.Counts(ctx, Scope{Kind: ScopeEndpoint, ID: endpointID}, from, to)
	if err != nil {
		return UptimeStats{}, err
	}

	return UptimeStats{
		Total:            c.Total,
		Successful:       c.Successful,
		Failed:           c.Total - c.Successful,
		UptimePercentage: percentage(c.Successful, c.Total),
	}, nil
}

func (s *Service) GetOverallStats(ctx context.Context, scope Scope, from, to time.Time) (OverallStats, error) {
	const op string = "service.result.overall_stats"

	if err := validateWindow(op, from, to); err != nil {
		return OverallStats{}, err
	}
	switch scope.Kind {
	case ScopeUser, ScopeOrganization, ScopeEndpoint:
	default:
		return OverallStats{}, apperror.Newf(apperror.InvalidInput, op, "unknown stats scope %q", scope.Kind)
	}

	c, err := s.store.Counts(ctx, scope, from, to)
	if err != nil {
		return OverallStats{}, err
	}

	failed := c.Total - c.Successful
	return OverallStats{
		TotalChecks:      c.Total,
		SuccessfulChecks: c.Successful,
		FailedChecks:     failed,
		ErrorRate:        percentage(failed, c.Total),
		UptimePercentage: percentage(c.Successful, c.Total),
		AvgResponseTime:  round2(c.AvgLatency),
	}, nil
}

// PurgeExpired deletes results of organizations on tier checked before cutoff.
func (s *Service) PurgeExpired(ctx context.Context, tier string, cutoff time.Time) (int64, error) {
	return s.store.DeleteForTierBefore(ctx, tier, cutoff)
}

// PurgeUnknownTiers handles organizations whose tier is not in known.
func (s *Service) PurgeUnknownTiers(ctx context.Context, known []string, cutoff time.Time) (int64, error) {
	return s.store.DeleteOutsideTiersBefore(ctx, known, cutoff)
}

func validateWindow(op string, from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.Newf(apperror.InvalidInput, op, "both from and to are required")
	}
	if from.After(to) {
		return apperror.Newf(apperror.InvalidInput, op, "from must not be after to")
	}
	return nil
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
