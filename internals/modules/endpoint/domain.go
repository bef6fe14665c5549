package endpoint

import (
	"time"

	"github.com/google/uuid"
)

// Endpoint is a monitored HTTP target. It is owned by endpoint management
// and read-only here.
type Endpoint struct {
	ID             uuid.UUID         `json:"id"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	UserID         uuid.UUID         `json:"user_id"`
	Name           string            `json:"name"`
	URL            string            `json:"url"`
	Method         string            `json:"method"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           string            `json:"body,omitempty"`
	ExpectedStatus int               `json:"expected_status"`
	TimeoutMs      int64             `json:"timeout_ms"`
	IntervalMs     int64             `json:"interval_ms"`
	Active         bool              `json:"active"`
}

func (e Endpoint) Timeout() time.Duration {
	return time.Duration(e.TimeoutMs) * time.Millisecond
}

func (e Endpoint) Interval() time.Duration {
	return time.Duration(e.IntervalMs) * time.Millisecond
}
