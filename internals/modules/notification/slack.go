package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Type     string      `json:"type"`
	Text     *slackText  `json:"text,omitempty"`
	Fields   []slackText `json:"fields,omitempty"`
	Elements []slackText `json:"elements,omitempty"`
}

type slackMessage struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackSender struct {
	cfg    SlackConfig
	client *http.Client
	logger *zerolog.Logger
}

func (s *slackSender) Type() ChannelType { return ChannelSlack }

func (s *slackSender) Send(ctx context.Context, p Payload) bool {
	if err := postJSON(ctx, s.client, s.cfg.WebhookURL, nil, slackPayload(p)); err != nil {
		s.logger.Warn().Err(err).Msg("slack delivery failed")
		return false
	}
	return true
}

func slackPayload(p Payload) slackMessage {
	title := fmt.Sprintf("%s Alert: %s", statusEmoji(p.Outcome), p.EndpointName)

	fields := []slackText{
		{Type: "mrkdwn", Text: fmt.Sprintf("*Alert:*\n%s", p.AlertName)},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Condition:*\n%s (threshold %s)", p.Condition, formatThreshold(p.Threshold))},
		{Type: "mrkdwn", Text: fmt.Sprintf("*Status:*\n%s", p.Outcome)},
		{Type: "mrkdwn", Text: fmt.Sprintf("*URL:*\n%s", p.EndpointURL)},
	}
	if p.StatusCode != nil {
		fields = append(fields, slackText{Type: "mrkdwn", Text: fmt.Sprintf("*Status Code:*\n%d", *p.StatusCode)})
	}
	if p.ResponseTimeMs != nil {
		fields = append(fields, slackText{Type: "mrkdwn", Text: fmt.Sprintf("*Response Time:*\n%dms", *p.ResponseTimeMs)})
	}

	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: title}},
		{Type: "section", Fields: fields},
	}
	if p.ErrorMessage != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fmt.Sprintf("*Error:*\n```%s```", p.ErrorMessage)},
		})
	}
	blocks = append(blocks, slackBlock{
		Type:     "context",
		Elements: []slackText{
			{Type: "mrkdwn", Text: fmt.Sprintf("<!date^%d^{date_short_pretty} {time_secs}|%s>",
				p.Timestamp.Unix(), p.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))},
		},
	})

	return slackMessage{Text: title, Blocks: blocks}
}

func statusEmoji(outcome string) string {
	switch outcome {
	case "SUCCESS":
		return "✅"
	case "TIMEOUT":
		return "⏱️"
	default:
		return "🚨"
	}
}
