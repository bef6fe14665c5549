package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"pulsewatch/internals/modules/result"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type CheckRunner interface {
	RunCheck(ctx context.Context, endpointID uuid.UUID) (result.CheckResult, error)
}

// EndpointCache drops cached endpoint definitions.
type EndpointCache interface {
	Invalidate(ctx context.Context, endpointID uuid.UUID) error
}

type EventHandler struct {
	runner CheckRunner
	cache  EndpointCache
	logger *zerolog.Logger
}

func NewEventHandler(runner CheckRunner, cache EndpointCache, logger *zerolog.Logger) *EventHandler {
	return &EventHandler{
		runner: runner,
		cache:  cache,
		logger: logger,
	}
}

// Handle runs a check for check.requested events and drops the cached
// endpoint for endpoint.changed. Unknown event types are acknowledged and
// dropped; a returned error makes the consumer nack.
func (h *EventHandler) Handle(ctx context.Context, msg amqp091.Delivery) error {
	var event EventPayload
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	switch event.Type {
	case EventCheckRequested:
		return h.checkRequested(ctx, event)
	case EventEndpointChanged:
		return h.endpointChanged(ctx, event)
	default:
		h.logger.Debug().Str("type", event.Type).Msg("ignoring unknown event")
		return nil
	}
}

func (h *EventHandler) checkRequested(ctx context.Context, event EventPayload) error {
	var payload CheckRequested
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	if payload.EndpointID == uuid.Nil {
		return fmt.Errorf("%s event %s has no endpoint_id", event.Type, event.ID)
	}

	res, err := h.runner.RunCheck(ctx, payload.EndpointID)
	if err != nil {
		return err
	}

	h.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("endpoint_id", payload.EndpointID.String()).
		Str("outcome", string(res.Outcome)).
		Msg("requested check completed")
	return nil
}

func (h *EventHandler) endpointChanged(ctx context.Context, event EventPayload) error {
	var payload EndpointChanged
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}
	if payload.EndpointID == uuid.Nil {
		return fmt.Errorf("%s event %s has no endpoint_id", event.Type, event.ID)
	}
	if h.cache == nil {
		return nil
	}

	if err := h.cache.Invalidate(ctx, payload.EndpointID); err != nil {
		return fmt.Errorf("invalidate endpoint %s: %w", payload.EndpointID, err)
	}

	h.logger.Debug().
		Str("event_id", event.ID.String()).
		Str("endpoint_id", payload.EndpointID.String()).
		Msg("endpoint cache invalidated")
	return nil
}
