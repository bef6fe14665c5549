package plan

type ValidateEndpointRequest struct {
	IntervalMs int64 `json:"interval_ms" validate:"required,gt=0"`
	Active     bool  `json:"active"`
	WasActive  bool  `json:"was_active"`
}

type ValidateAlertRequest struct {
	Active    bool `json:"active"`
	WasActive bool `json:"was_active"`
}

type ValidationResponse struct {
	Valid bool `json:"valid"`
}

type PlanResponse struct {
	Tier   Tier   `json:"tier"`
	Limits Limits `json:"limits"`
}
