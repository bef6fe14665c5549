package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type webhookEndpoint struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type webhookEnvelope struct {
	Type         string          `json:"type"`
	Endpoint     webhookEndpoint `json:"endpoint"`
	Alert        webhookAlert    `json:"alert"`
	Status       string          `json:"status"`
	StatusCode   *int            `json:"statusCode"`
	ErrorMessage *string         `json:"errorMessage"`
	ResponseTime *int64          `json:"responseTime"`
	Timestamp    string          `json:"timestamp"`
}

type webhookAlert struct {
	Name      string  `json:"name"`
	Condition string  `json:"condition"`
	Threshold float64 `json:"threshold"`
}

type webhookSender struct {
	cfg    WebhookConfig
	client *http.Client
	logger *zerolog.Logger
}

func (s *webhookSender) Type() ChannelType { return ChannelWebhook }

func (s *webhookSender) Send(ctx context.Context, p Payload) bool {
	var errMsg *string
	if p.ErrorMessage != "" {
		errMsg = &p.ErrorMessage
	}

	env := webhookEnvelope{
		Type:     "endpoint_failure",
		Endpoint: webhookEndpoint{Name: p.EndpointName, URL: p.EndpointURL},
		Alert: webhookAlert{
			Name:      p.AlertName,
			Condition: p.Condition,
			Threshold: p.Threshold,
		},
		Status:       p.Outcome,
		StatusCode:   p.StatusCode,
		ErrorMessage: errMsg,
		ResponseTime: p.ResponseTimeMs,
		Timestamp:    p.Timestamp.UTC().Format(time.RFC3339),
	}

	if err := postJSON(ctx, s.client, s.cfg.URL, s.cfg.Headers, env); err != nil {
		s.logger.Warn().Err(err).Msg("webhook delivery failed")
		return false
	}
	return true
}

// postJSON treats any 2xx as delivered.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
