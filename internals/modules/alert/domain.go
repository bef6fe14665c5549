package alert

import (
	"pulsewatch/internals/modules/result"
	"time"

	"github.com/google/uuid"
)

type Condition string

const (
	ResponseTimeAbove Condition = "RESPONSE_TIME_ABOVE"
	ResponseTimeBelow Condition = "RESPONSE_TIME_BELOW"
	StatusCodeNot     Condition = "STATUS_CODE_NOT"
	UptimeBelow       Condition = "UPTIME_BELOW"
	ErrorRateAbove    Condition = "ERROR_RATE_ABOVE"
)

type Rule struct {
	ID            uuid.UUID
	EndpointID    uuid.UUID
	Name          string
	Condition     Condition
	Threshold     float64
	Active        bool
	LastTriggered *time.Time
}

// Trigger is the audit row written each time a rule fires.
type Trigger struct {
	ID          uuid.UUID `json:"id"`
	RuleID      uuid.UUID `json:"rule_id"`
	Value       float64   `json:"value"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// CheckEvent is the slice of a check result the rules look at.
type CheckEvent struct {
	EndpointID   uuid.UUID
	Outcome      result.Outcome
	LatencyMs    *int64
	StatusCode   *int
	ErrorMessage string
	CheckedAt    time.Time
}

// EventFromResult builds the evaluation input for a persisted check. Latency
// is withheld for ERROR outcomes, where no response was measured.
func EventFromResult(r result.CheckResult) CheckEvent {
	ev := CheckEvent{
		EndpointID: r.EndpointID,
		Outcome:    r.Outcome,
		StatusCode: r.StatusCode,
		CheckedAt:  r.CheckedAt,
	}
	if r.Outcome != result.OutcomeError {
		latency := r.LatencyMs
		ev.LatencyMs = &latency
	}
	if r.ErrorMessage != nil {
		ev.ErrorMessage = *r.ErrorMessage
	}
	return ev
}

// Summary reports what one evaluation pass did.
type Summary struct {
	Evaluated int
	Triggered int
	Notified  int
	Throttled int
	Failed    int
}
