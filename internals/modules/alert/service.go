package alert

import (
	"context"
	"fmt"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/notification"
	"pulsewatch/internals/modules/result"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	ListActive(ctx context.Context, endpointID uuid.UUID) ([]Rule, error)
	InsertTrigger(ctx context.Context, t Trigger) (Trigger, error)
	StampTriggered(ctx context.Context, ruleID uuid.UUID, at time.Time) error
}

type Dispatcher interface {
	Send(ctx context.Context, orgID uuid.UUID, p notification.Payload) (notification.Result, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

type Recorder interface {
	IncAlertTrigger(condition string)
	IncThrottled()
}

type noopRecorder struct{}

func (noopRecorder) IncAlertTrigger(string) {}
func (noopRecorder) IncThrottled()          {}

type Deps struct {
	Store      Store
	Stats      StatsSource
	Throttle   Throttle
	Dispatcher Dispatcher
	Publisher  EventPublisher // optional
	Recorder   Recorder       // optional
	// ErrorRateScope picks the population for ERROR_RATE_ABOVE:
	// result.ScopeUser (owner's checks) or result.ScopeEndpoint.
	ErrorRateScope result.ScopeKind
	Logger         *zerolog.Logger
}

type Service struct {
	store      Store
	stats      StatsSource
	throttle   Throttle
	dispatcher Dispatcher
	publisher  EventPublisher
	recorder   Recorder
	scopeKind  result.ScopeKind
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewService(d Deps) *Service {
	s := &Service{
		store:      d.Store,
		stats:      d.Stats,
		throttle:   d.Throttle,
		dispatcher: d.Dispatcher,
		publisher:  d.Publisher,
		recorder:   d.Recorder,
		scopeKind:  d.ErrorRateScope,
		logger:     d.Logger,
		now:        time.Now,
	}
	if s.throttle == nil {
		s.throttle = NewMemoryThrottle(ThrottleWindow)
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	if s.scopeKind == "" {
		s.scopeKind = result.ScopeUser
	}
	return s
}

// TriggeredEvent is published for every fired rule, throttled or not.
type TriggeredEvent struct {
	TriggerID      uuid.UUID            `json:"trigger_id"`
	RuleID         uuid.UUID            `json:"rule_id"`
	RuleName       string               `json:"rule_name"`
	Condition      Condition            `json:"condition"`
	Threshold      float64              `json:"threshold"`
	Value          float64              `json:"value"`
	EndpointID     uuid.UUID            `json:"endpoint_id"`
	OrganizationID uuid.UUID            `json:"organization_id"`
	Notified       bool                 `json:"notified"`
	Notification   *notification.Result `json:"notification,omitempty"`
	TriggeredAt    time.Time            `json:"triggered_at"`
}

// Evaluate runs every active rule of e against ev. A rule that errors or
// panics is logged and skipped; only failing to load the rules is returned.
func (s *Service) Evaluate(ctx context.Context, e endpoint.Endpoint, ev CheckEvent) (Summary, error) {
	rules, err := s.store.ListActive(ctx, e.ID)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, rule := range rules {
		sum.Evaluated++
		outcome, err := s.processRule(ctx, rule, e, ev)
		if err != nil {
			sum.Failed++
			s.logger.Error().
				Err(err).
				Str("rule_id", rule.ID.String()).
				Str("rule_name", rule.Name).
				Str("condition", string(rule.Condition)).
				Msg("alert rule evaluation failed")
			continue
		}
		switch outcome {
		case ruleNotified:
			sum.Triggered++
			sum.Notified++
		case ruleThrottled:
			sum.Triggered++
			sum.Throttled++
		}
	}
	return sum, nil
}

type ruleOutcome int

const (
	ruleQuiet ruleOutcome = iota
	ruleNotified
	ruleThrottled
)

func (s *Service) processRule(ctx context.Context, rule Rule, e endpoint.Endpoint, ev CheckEvent) (out ruleOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = ruleQuiet, fmt.Errorf("panic: %v", r)
		}
	}()

	fired, value, err := s.evaluate(ctx, rule, e, ev)
	if err != nil {
		return ruleQuiet, err
	}
	if !fired {
		return ruleQuiet, nil
	}

	now := s.now()
	s.recorder.IncAlertTrigger(string(rule.Condition))

	trigger, err := s.store.InsertTrigger(ctx, Trigger{RuleID: rule.ID, Value: value, TriggeredAt: now})
	if err != nil {
		return ruleQuiet, fmt.Errorf("record trigger: %w", err)
	}
	if err := s.store.StampTriggered(ctx, rule.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("rule_id", rule.ID.String()).Msg("failed to stamp last_triggered")
	}

	event := TriggeredEvent{
		TriggerID:      trigger.ID,
		RuleID:         rule.ID,
		RuleName:       rule.Name,
		Condition:      rule.Condition,
		Threshold:      rule.Threshold,
		Value:          value,
		EndpointID:     e.ID,
		OrganizationID: e.OrganizationID,
		TriggeredAt:    now,
	}

	allowed, err := s.throttle.Acquire(ctx, rule.ID, now)
	if err != nil {
		// a broken throttle must not swallow alerts
		s.logger.Warn().Err(err).Str("rule_id", rule.ID.String()).Msg("throttle lookup failed, sending anyway")
		allowed = true
	}
	if !allowed {
		s.recorder.IncThrottled()
		s.logger.Debug().Str("rule_id", rule.ID.String()).Msg("notification throttled")
		s.publish(ctx, event)
		return ruleThrottled, nil
	}

	res, err := s.dispatcher.Send(ctx, e.OrganizationID, buildPayload(rule, e, ev, now))
	if err != nil {
		s.logger.Error().Err(err).Str("rule_id", rule.ID.String()).Msg("notification dispatch failed")
	} else {
		event.Notification = &res
	}
	event.Notified = true

	s.publish(ctx, event)
	return ruleNotified, nil
}

func (s *Service) publish(ctx context.Context, ev TriggeredEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, "alert.triggered", ev); err != nil {
		s.logger.Warn().Err(err).Str("rule_id", ev.RuleID.String()).Msg("failed to publish alert event")
	}
}

func buildPayload(rule Rule, e endpoint.Endpoint, ev CheckEvent, at time.Time) notification.Payload {
	ts := ev.CheckedAt
	if ts.IsZero() {
		ts = at
	}
	return notification.Payload{
		AlertName:      rule.Name,
		Condition:      string(rule.Condition),
		Threshold:      rule.Threshold,
		EndpointID:     e.ID,
		EndpointName:   e.Name,
		EndpointURL:    e.URL,
		Outcome:        string(ev.Outcome),
		StatusCode:     ev.StatusCode,
		ErrorMessage:   ev.ErrorMessage,
		ResponseTimeMs: ev.LatencyMs,
		Timestamp:      ts,
	}
}
