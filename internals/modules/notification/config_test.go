package notification

import (
	"encoding/json"
	"testing"

	"pulsewatch/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Typed(t *testing.T) {
	cfg, err := ParseConfig(ChannelEmail, json.RawMessage(`{"emails":["ops@example.com"]}`))
	require.NoError(t, err)
	assert.Equal(t, EmailConfig{Emails: []string{"ops@example.com"}}, cfg)

	cfg, err = ParseConfig(ChannelWebhook, json.RawMessage(`{"url":"https://hooks.example.com/x","headers":{"X-Key":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.(WebhookConfig).Headers["X-Key"])

	cfg, err = ParseConfig(ChannelDiscord, json.RawMessage(`{"webhookUrl":"https://discord.com/api/webhooks/1/abc"}`))
	require.NoError(t, err)
	assert.IsType(t, DiscordConfig{}, cfg)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name string
		typ  ChannelType
		raw  string
	}{
		{"malformed json", ChannelSlack, `{"webhookUrl":`},
		{"empty email list", ChannelEmail, `{"emails":[]}`},
		{"bad email", ChannelEmail, `{"emails":["not-an-email"]}`},
		{"one bad email among good", ChannelEmail, `{"emails":["ops@example.com","not-an-email"]}`},
		{"missing webhook url", ChannelWebhook, `{"headers":{}}`},
		{"slack url not a url", ChannelSlack, `{"webhookUrl":"nope"}`},
		{"unknown type", "SMS", `{}`},
		{"empty config", ChannelDiscord, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.typ, json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.True(t, apperror.IsKind(err, apperror.InvalidInput))
		})
	}

	assert.NoError(t, ValidateConfig(ChannelSlack, json.RawMessage(`{"webhookUrl":"https://hooks.slack.com/services/T/B/X"}`)))
}
