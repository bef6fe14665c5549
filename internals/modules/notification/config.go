package notification

import (
	"encoding/json"
	"fmt"
	"pulsewatch/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type EmailConfig struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,required,email"`
}

type WebhookConfig struct {
	URL     string            `json:"url" validate:"required,url"`
	Headers map[string]string `json:"headers,omitempty"`
}

type SlackConfig struct {
	WebhookURL string `json:"webhookUrl" validate:"required,url"`
}

type DiscordConfig struct {
	WebhookURL string `json:"webhookUrl" validate:"required,url"`
}

var validate = validator.New()

// ParseConfig decodes and validates raw for the given channel type and
// returns one of the typed configs above.
func ParseConfig(t ChannelType, raw json.RawMessage) (any, error) {
	switch t {
	case ChannelEmail:
		return decode[EmailConfig](raw)
	case ChannelWebhook:
		return decode[WebhookConfig](raw)
	case ChannelSlack:
		return decode[SlackConfig](raw)
	case ChannelDiscord:
		return decode[DiscordConfig](raw)
	default:
		return nil, fmt.Errorf("unsupported channel type %q", t)
	}
}

// ValidateConfig is the configuration-time check for channel management.
func ValidateConfig(t ChannelType, raw json.RawMessage) error {
	const op string = "notification.validate_config"

	if _, err := ParseConfig(t, raw); err != nil {
		return apperror.Newf(apperror.InvalidInput, op, "invalid %s channel configuration: %v", t, err)
	}
	return nil
}

func decode[T any](raw json.RawMessage) (T, error) {
	var cfg T
	if len(raw) == 0 {
		return cfg, fmt.Errorf("configuration is empty")
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// dispatchEmailConfig decodes an EMAIL config for delivery. Malformed
// addresses are dropped and returned in skipped; the config is rejected only
// when no valid address remains.
func dispatchEmailConfig(raw json.RawMessage) (cfg EmailConfig, skipped []string, err error) {
	if len(raw) == 0 {
		return cfg, nil, fmt.Errorf("configuration is empty")
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, nil, fmt.Errorf("parse configuration: %w", err)
	}

	kept := make([]string, 0, len(cfg.Emails))
	for _, addr := range cfg.Emails {
		if err := validate.Var(addr, "required,email"); err != nil {
			skipped = append(skipped, addr)
			continue
		}
		kept = append(kept, addr)
	}
	if len(kept) == 0 {
		return cfg, skipped, fmt.Errorf("no valid email address configured")
	}
	cfg.Emails = kept
	return cfg, skipped, nil
}
