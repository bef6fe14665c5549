package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ChannelType string

const (
	ChannelEmail   ChannelType = "EMAIL"
	ChannelWebhook ChannelType = "WEBHOOK"
	ChannelSlack   ChannelType = "SLACK"
	ChannelDiscord ChannelType = "DISCORD"
)

// Channel is a configured delivery destination. Config stays raw JSON until a
// sender for its Type parses it.
type Channel struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Type           ChannelType
	Config         json.RawMessage
	Active         bool
}

// Payload is everything a channel needs to describe one fired alert.
type Payload struct {
	AlertName      string
	Condition      string
	Threshold      float64
	EndpointID     uuid.UUID
	EndpointName   string
	EndpointURL    string
	Outcome        string
	StatusCode     *int
	ErrorMessage   string
	ResponseTimeMs *int64
	Timestamp      time.Time
}

// Result tallies one fan-out. Failed is always Total - Success.
type Result struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}
