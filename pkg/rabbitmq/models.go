package rabbitmq

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventCheckRequested  = "check.requested"
	EventEndpointChanged = "endpoint.changed"
	EventCheckCompleted  = "check.completed"
	EventAlertTriggered  = "alert.triggered"
)

type EventPayload struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type CheckRequested struct {
	EndpointID uuid.UUID `json:"endpoint_id"`
}

// EndpointChanged is sent by the management side after an endpoint is
// edited or deleted.
type EndpointChanged struct {
	EndpointID uuid.UUID `json:"endpoint_id"`
}

func NewEvent(eventType string, payload any) (EventPayload, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return EventPayload{}, err
	}
	return EventPayload{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}
