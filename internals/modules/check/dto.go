package check

import (
	"pulsewatch/internals/modules/result"
	"time"
)

type UptimeResponse struct {
	EndpointID string    `json:"endpoint_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	result.UptimeStats
}

type StatsResponse struct {
	Scope string    `json:"scope"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	result.OverallStats
}

type RunActiveResponse struct {
	Accepted bool `json:"accepted"`
}
