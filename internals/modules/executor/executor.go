package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/result"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "pulsewatch-probe/1.0"
)

// Executor issues one bounded HTTP request per call and classifies what came
// back. It keeps no state between calls.
type Executor struct {
	httpClient *http.Client
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewExecutor(httpClient *http.Client, logger *zerolog.Logger) *Executor {
	return &Executor{
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Probe never returns an error: transport failures become TIMEOUT or ERROR
// observations.
func (ex *Executor) Probe(ctx context.Context, e endpoint.Endpoint) result.Observation {
	timeout := e.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := ex.buildRequest(reqCtx, e)
	if err != nil {
		// nothing was sent
		return ex.errorObservation(describeError(err), nil, 0)
	}

	start := ex.now()
	resp, err := ex.httpClient.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) {
			return ex.timeoutObservation(timeout, nil)
		}
		return ex.errorObservation(describeError(err), nil, time.Since(start).Milliseconds())
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	// count the body without holding it
	size, err := io.Copy(io.Discard, resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if isTimeout(reqCtx, err) {
			return ex.timeoutObservation(timeout, &status)
		}
		return ex.errorObservation(describeError(err), &status, latency)
	}

	obs := result.Observation{
		StatusCode:   &status,
		LatencyMs:    latency,
		ResponseSize: &size,
		CheckedAt:    ex.now().UTC(),
	}

	if status == e.ExpectedStatus {
		obs.Outcome = result.OutcomeSuccess
		return obs
	}

	msg := fmt.Sprintf("Expected status %d, got %d", e.ExpectedStatus, status)
	obs.Outcome = result.OutcomeFailure
	obs.ErrorMessage = &msg
	return obs
}

func (ex *Executor) buildRequest(ctx context.Context, e endpoint.Endpoint) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(e.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if e.Body != "" {
		body = strings.NewReader(e.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.URL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	for k, v := range e.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Latency of a timed-out probe is the configured timeout, not the time
// actually spent.
func (ex *Executor) timeoutObservation(timeout time.Duration, status *int) result.Observation {
	msg := fmt.Sprintf("Request timed out after %dms", timeout.Milliseconds())
	return result.Observation{
		Outcome:      result.OutcomeTimeout,
		StatusCode:   status,
		LatencyMs:    timeout.Milliseconds(),
		ErrorMessage: &msg,
		CheckedAt:    ex.now().UTC(),
	}
}

func (ex *Executor) errorObservation(msg string, status *int, latencyMs int64) result.Observation {
	return result.Observation{
		Outcome:      result.OutcomeError,
		StatusCode:   status,
		LatencyMs:    latencyMs,
		ErrorMessage: &msg,
		CheckedAt:    ex.now().UTC(),
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// describeError drops the "Get \"url\":" prefix net/http adds and appends the
// innermost cause when the outer message does not already carry it.
func describeError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	msg := err.Error()

	root := err
	for {
		next := errors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}

	if rootMsg := root.Error(); root != err && rootMsg != "" && !strings.Contains(msg, rootMsg) {
		msg = fmt.Sprintf("%s (%s)", msg, rootMsg)
	}
	return msg
}
