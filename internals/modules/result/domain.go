package result

import (
	"time"

	"github.com/google/uuid"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeTimeout Outcome = "TIMEOUT"
	OutcomeError   Outcome = "ERROR"
)

// Observation is what a single probe saw, before it is tied to an endpoint
// and persisted.
type Observation struct {
	Outcome      Outcome
	StatusCode   *int
	LatencyMs    int64
	ResponseSize *int64
	ErrorMessage *string
	CheckedAt    time.Time
}

// CheckResult is the immutable history row for one probe.
type CheckResult struct {
	ID             uuid.UUID `json:"id"`
	EndpointID     uuid.UUID `json:"endpoint_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Outcome        Outcome   `json:"outcome"`
	StatusCode     *int      `json:"status_code"`
	LatencyMs      int64     `json:"latency_ms"`
	ResponseSize   *int64    `json:"response_size"`
	ErrorMessage   *string   `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at"`
}

// Status is the cached latest check of an endpoint.
type Status struct {
	EndpointID   uuid.UUID `json:"endpoint_id"`
	Outcome      Outcome   `json:"outcome"`
	StatusCode   *int      `json:"status_code"`
	LatencyMs    int64     `json:"latency_ms"`
	ErrorMessage *string   `json:"error_message"`
	CheckedAt    time.Time `json:"checked_at"`
}

type UptimeStats struct {
	Total            int64   `json:"total"`
	Successful       int64   `json:"successful"`
	Failed           int64   `json:"failed"`
	UptimePercentage float64 `json:"uptime_percentage"`
}

type OverallStats struct {
	TotalChecks      int64   `json:"total_checks"`
	SuccessfulChecks int64   `json:"successful_checks"`
	FailedChecks     int64   `json:"failed_checks"`
	ErrorRate        float64 `json:"error_rate"`
	UptimePercentage float64 `json:"uptime_percentage"`
	AvgResponseTime  float64 `json:"avg_response_time"`
}

type ScopeKind string

const (
	ScopeUser         ScopeKind = "user"
	ScopeOrganization ScopeKind = "organization"
	ScopeEndpoint     ScopeKind = "endpoint"
)

// Scope selects the check population an aggregate is computed over.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// Counts is the raw aggregate a store returns for a window.
type Counts struct {
	Total      int64
	Successful int64
	AvgLatency float64
}
