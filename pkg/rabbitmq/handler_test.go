package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"pulsewatch/internals/modules/result"
	"testing"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeRunner) RunCheck(_ context.Context, id uuid.UUID) (result.CheckResult, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return result.CheckResult{}, f.err
	}
	return result.CheckResult{EndpointID: id, Outcome: result.OutcomeSuccess}, nil
}

func delivery(t *testing.T, eventType string, payload any) amqp091.Delivery {
	t.Helper()
	ev, err := NewEvent(eventType, payload)
	require.NoError(t, err)
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp091.Delivery{Body: body}
}

func TestEventHandler_RunsRequestedCheck(t *testing.T) {
	runner := &fakeRunner{}
	log := zerolog.Nop()
	h := NewEventHandler(runner, nil, &log)

	id := uuid.New()
	err := h.Handle(context.Background(), delivery(t, EventCheckRequested, CheckRequested{EndpointID: id}))

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, runner.calls)
}

func TestEventHandler_IgnoresUnknownEvents(t *testing.T) {
	runner := &fakeRunner{}
	log := zerolog.Nop()
	h := NewEventHandler(runner, nil, &log)

	err := h.Handle(context.Background(), delivery(t, "user.created", map[string]string{"id": "x"}))

	require.NoError(t, err)
	assert.Empty(t, runner.calls)
}

func TestEventHandler_RejectsMalformedMessages(t *testing.T) {
	runner := &fakeRunner{}
	log := zerolog.Nop()
	h := NewEventHandler(runner, nil, &log)

	assert.Error(t, h.Handle(context.Background(), amqp091.Delivery{Body: []byte("{not json")}))
	assert.Error(t, h.Handle(context.Background(), delivery(t, EventCheckRequested, map[string]string{})))
	assert.Empty(t, runner.calls)
}

func TestEventHandler_PropagatesRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("endpoint gone")}
	log := zerolog.Nop()
	h := NewEventHandler(runner, nil, &log)

	err := h.Handle(context.Background(), delivery(t, EventCheckRequested, CheckRequested{EndpointID: uuid.New()}))
	assert.EqualError(t, err, "endpoint gone")
}

type fakeCache struct {
	dropped []uuid.UUID
	err     error
}

func (f *fakeCache) Invalidate(_ context.Context, id uuid.UUID) error {
	f.dropped = append(f.dropped, id)
	return f.err
}

func TestEventHandler_EndpointChangedInvalidatesCache(t *testing.T) {
	runner := &fakeRunner{}
	cache := &fakeCache{}
	log := zerolog.Nop()
	h := NewEventHandler(runner, cache, &log)

	id := uuid.New()
	err := h.Handle(context.Background(), delivery(t, EventEndpointChanged, EndpointChanged{EndpointID: id}))

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, cache.dropped)
	assert.Empty(t, runner.calls)

	assert.Error(t, h.Handle(context.Background(), delivery(t, EventEndpointChanged, map[string]string{})))

	cache.err = errors.New("redis down")
	assert.Error(t, h.Handle(context.Background(), delivery(t, EventEndpointChanged, EndpointChanged{EndpointID: id})))
}
