package alert

import (
	"context"
	"fmt"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/result"
	"time"

	"github.com/google/uuid"
)

const statsWindow = 24 * time.Hour

type StatsSource interface {
	GetUptimeStats(ctx context.Context, endpointID uuid.UUID, from, to time.Time) (result.UptimeStats, error)
	GetOverallStats(ctx context.Context, scope result.Scope, from, to time.Time) (result.OverallStats, error)
}

// ErrUnknownCondition marks rules whose condition this build does not know.
type ErrUnknownCondition struct {
	Condition Condition
}

func (e ErrUnknownCondition) Error() string {
	return fmt.Sprintf("unknown alert condition %q", e.Condition)
}

// evaluate decides whether rule fires for ev and returns the value recorded
// on the trigger.
func (s *Service) evaluate(ctx context.Context, rule Rule, e endpoint.Endpoint, ev CheckEvent) (bool, float64, error) {
	switch rule.Condition {
	case ResponseTimeAbove:
		if ev.LatencyMs == nil {
			return false, 0, nil
		}
		v := float64(*ev.LatencyMs)
		return v > rule.Threshold, v, nil

	case ResponseTimeBelow:
		if ev.LatencyMs == nil {
			return false, 0, nil
		}
		v := float64(*ev.LatencyMs)
		return v < rule.Threshold, v, nil

	case StatusCodeNot:
		if ev.StatusCode == nil {
			return false, 0, nil
		}
		v := float64(*ev.StatusCode)
		return v != rule.Threshold, v, nil

	case UptimeBelow:
		to := s.now()
		stats, err := s.stats.GetUptimeStats(ctx, e.ID, to.Add(-statsWindow), to)
		if err != nil {
			return false, 0, err
		}
		if stats.Total == 0 {
			return false, 0, nil
		}
		return stats.UptimePercentage < rule.Threshold, 0, nil

	case ErrorRateAbove:
		to := s.now()
		stats, err := s.stats.GetOverallStats(ctx, s.errorRateScope(e), to.Add(-statsWindow), to)
		if err != nil {
			return false, 0, err
		}
		if stats.TotalChecks == 0 {
			return false, 0, nil
		}
		return stats.ErrorRate > rule.Threshold, 0, nil

	default:
		return false, 0, ErrUnknownCondition{Condition: rule.Condition}
	}
}

func (s *Service) errorRateScope(e endpoint.Endpoint) result.Scope {
	if s.scopeKind == result.ScopeEndpoint {
		return result.Scope{Kind: result.ScopeEndpoint, ID: e.ID}
	}
	return result.Scope{Kind: result.ScopeUser, ID: e.UserID}
}
