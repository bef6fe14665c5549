package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultSendTimeout = 10 * time.Second

type ChannelStore interface {
	ListActive(ctx context.Context, orgID uuid.UUID) ([]Channel, error)
}

type SendRecorder interface {
	ObserveChannelSend(channelType string, ok bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveChannelSend(string, bool) {}

type Dispatcher struct {
	store       ChannelStore
	deps        senderDeps
	sendTimeout time.Duration
	recorder    SendRecorder
	logger      *zerolog.Logger
}

func NewDispatcher(store ChannelStore, httpClient *http.Client, mailer Mailer, sendTimeout time.Duration, recorder SendRecorder, logger *zerolog.Logger) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Dispatcher{
		store: store,
		deps: senderDeps{
			httpClient: httpClient,
			mailer:     mailer,
			logger:     logger,
		},
		sendTimeout: sendTimeout,
		recorder:    recorder,
		logger:      logger,
	}
}

// Send delivers p to every active channel of orgID concurrently. A channel
// that fails, panics or cannot be configured only counts as failed; the
// returned error is reserved for failing to load the channels at all.
func (d *Dispatcher) Send(ctx context.Context, orgID uuid.UUID, p Payload) (Result, error) {
	channels, err := d.store.ListActive(ctx, orgID)
	if err != nil {
		return Result{}, err
	}
	if len(channels) == 0 {
		return Result{}, nil
	}

	delivered := make([]bool, len(channels))

	var g errgroup.Group
	for i, ch := range channels {
		g.Go(func() error {
			delivered[i] = d.sendOne(ctx, ch, p)
			d.recorder.ObserveChannelSend(string(ch.Type), delivered[i])
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Total: len(channels)}
	for _, ok := range delivered {
		if ok {
			res.Success++
		}
	}
	res.Failed = res.Total - res.Success

	d.logger.Info().
		Str("org_id", orgID.String()).
		Str("alert", p.AlertName).
		Int("total", res.Total).
		Int("success", res.Success).
		Int("failed", res.Failed).
		Msg("notifications dispatched")

	return res, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, ch Channel, p Payload) (ok bool) {
	log := d.logger.With().Str("channel_id", ch.ID.String()).Str("channel_type", string(ch.Type)).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("channel sender panicked")
			ok = false
		}
	}()

	sender, err := newSender(ch, d.deps)
	if err != nil {
		log.Error().Err(err).Msg("invalid channel configuration")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	return sender.Send(sendCtx, p)
}
