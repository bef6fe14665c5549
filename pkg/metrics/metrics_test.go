package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndExposition(t *testing.T) {
	m := New()

	m.ObserveCheck("SUCCESS", 120*time.Millisecond)
	m.ObserveCheck("SUCCESS", 80*time.Millisecond)
	m.ObserveCheck("TIMEOUT", 5*time.Second)
	m.IncAlertTrigger("STATUS_CODE_NOT")
	m.IncThrottled()
	m.ObserveChannelSend("SLACK", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checksTotal.WithLabelValues("TIMEOUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsThrottled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.channelSends.WithLabelValues("SLACK", "false")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pulsewatch_alert_triggers_total{condition="STATUS_CODE_NOT"} 1`)
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCheck("ERROR", time.Second)
		m.IncAlertTrigger("UPTIME_BELOW")
		m.IncThrottled()
		m.ObserveChannelSend("EMAIL", true)
		m.IncJobRun("check-active", "ok")
		m.Observe("GET", "/healthz", time.Millisecond)
	})
}
