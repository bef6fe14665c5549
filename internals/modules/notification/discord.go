package notification

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	discordRed    = 0xE74C3C
	discordOrange = 0xE67E22
	discordGreen  = 0x2ECC71
)

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Timestamp   string         `json:"timestamp"`
}

type discordMessage struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordSender struct {
	cfg    DiscordConfig
	client *http.Client
	logger *zerolog.Logger
}

func (s *discordSender) Type() ChannelType { return ChannelDiscord }

func (s *discordSender) Send(ctx context.Context, p Payload) bool {
	if err := postJSON(ctx, s.client, s.cfg.WebhookURL, nil, discordPayload(p)); err != nil {
		s.logger.Warn().Err(err).Msg("discord delivery failed")
		return false
	}
	return true
}

func discordPayload(p Payload) discordMessage {
	fields := []discordField{
		{Name: "Alert", Value: p.AlertName, Inline: true},
		{Name: "Condition", Value: fmt.Sprintf("%s (threshold %s)", p.Condition, formatThreshold(p.Threshold)), Inline: true},
		{Name: "Status", Value: p.Outcome, Inline: true},
		{Name: "URL", Value: p.EndpointURL},
	}
	if p.StatusCode != nil {
		fields = append(fields, discordField{Name: "Status Code", Value: fmt.Sprintf("%d", *p.StatusCode), Inline: true})
	}
	if p.ResponseTimeMs != nil {
		fields = append(fields, discordField{Name: "Response Time", Value: fmt.Sprintf("%dms", *p.ResponseTimeMs), Inline: true})
	}

	embed := discordEmbed{
		Title:     fmt.Sprintf("%s Alert: %s", statusEmoji(p.Outcome), p.EndpointName),
		URL:       p.EndpointURL,
		Color:     discordColor(p.Outcome),
		Fields:    fields,
		Timestamp: p.Timestamp.UTC().Format(time.RFC3339),
	}
	if p.ErrorMessage != "" {
		embed.Description = fmt.Sprintf("```%s```", p.ErrorMessage)
	}

	return discordMessage{Username: "pulsewatch", Embeds: []discordEmbed{embed}}
}

func discordColor(outcome string) int {
	switch outcome {
	case "SUCCESS":
		return discordGreen
	case "TIMEOUT":
		return discordOrange
	default:
		return discordRed
	}
}
