package app

import (
	"context"
	"pulsewatch/pkg/rabbitmq"
)

// StartConsumer serves check.requested and endpoint.changed messages when
// messaging is enabled.
func StartConsumer(ctx context.Context, c *Container) {
	if c.consumer == nil {
		return
	}

	eventHandler := rabbitmq.NewEventHandler(c.CheckSvc, c.EndpointSvc, c.Logger)

	// Consume ranges over the delivery channel, so it gets its own goroutine
	go func() {
		if err := c.consumer.Consume(ctx, eventHandler); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
