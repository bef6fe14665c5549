package plan

import (
	"fmt"
	"pulsewatch/pkg/apperror"
	"time"
)

// EndpointChange describes an endpoint create or update as seen by the
// limiter. WasActive is false for creates.
type EndpointChange struct {
	Interval    time.Duration
	Active      bool
	WasActive   bool
	ActiveCount int64 // active endpoints the organization has today
}

type AlertChange struct {
	Active      bool
	WasActive   bool
	ActiveCount int64
}

func GetLimits(tier Tier) (Limits, error) {
	l, ok := limitsByTier[tier]
	if !ok {
		return Limits{}, apperror.Newf(apperror.InvalidInput, "plan.get_limits", "unknown plan tier %q", tier)
	}
	return l, nil
}

func ValidateEndpoint(tier Tier, c EndpointChange) error {
	const op string = "plan.validate_endpoint"

	l, err := GetLimits(tier)
	if err != nil {
		return err
	}
	if !c.Active {
		return nil
	}

	if c.Interval < l.MinCheckInterval {
		return apperror.Newf(apperror.Forbidden, op,
			"check interval %s is below the %s plan minimum of %d seconds",
			formatSeconds(c.Interval), tier, int64(l.MinCheckInterval/time.Second))
	}

	if !c.WasActive && exceeds(c.ActiveCount+1, l.MaxEndpoints) {
		return apperror.Newf(apperror.Forbidden, op,
			"%s plan allows at most %d active endpoints", tier, l.MaxEndpoints)
	}
	return nil
}

func ValidateAlert(tier Tier, c AlertChange) error {
	const op string = "plan.validate_alert"

	l, err := GetLimits(tier)
	if err != nil {
		return err
	}
	if !c.Active || c.WasActive {
		return nil
	}

	if exceeds(c.ActiveCount+1, l.MaxAlerts) {
		return apperror.Newf(apperror.Forbidden, op,
			"%s plan allows at most %d active alerts", tier, l.MaxAlerts)
	}
	return nil
}

func exceeds(n int64, max int) bool {
	return max != Unlimited && n > int64(max)
}

func formatSeconds(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return fmt.Sprintf("%.3gs", d.Seconds())
}
