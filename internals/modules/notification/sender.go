package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Sender delivers one payload to one channel. Send reports delivery and
// never returns an error; failures are logged by the sender.
type Sender interface {
	Type() ChannelType
	Send(ctx context.Context, p Payload) bool
}

type senderDeps struct {
	httpClient *http.Client
	mailer     Mailer
	logger     *zerolog.Logger
}

func newSender(ch Channel, deps senderDeps) (Sender, error) {
	log := deps.logger.With().
		Str("channel_id", ch.ID.String()).
		Str("channel_type", string(ch.Type)).
		Logger()

	// one bad address must not cost the rest of the list
	if ch.Type == ChannelEmail {
		c, skipped, err := dispatchEmailConfig(ch.Config)
		for _, addr := range skipped {
			log.Warn().Str("to", addr).Msg("skipping invalid email address")
		}
		if err != nil {
			return nil, err
		}
		return &emailSender{cfg: c, mailer: deps.mailer, logger: &log}, nil
	}

	cfg, err := ParseConfig(ch.Type, ch.Config)
	if err != nil {
		return nil, err
	}

	switch c := cfg.(type) {
	case WebhookConfig:
		return &webhookSender{cfg: c, client: deps.httpClient, logger: &log}, nil
	case SlackConfig:
		return &slackSender{cfg: c, client: deps.httpClient, logger: &log}, nil
	case DiscordConfig:
		return &discordSender{cfg: c, client: deps.httpClient, logger: &log}, nil
	default:
		return nil, fmt.Errorf("no sender for channel type %q", ch.Type)
	}
}
