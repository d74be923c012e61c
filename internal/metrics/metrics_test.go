package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of the series name whose labels include want
func gathered(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(http.MethodGet, "/api/v1/feed", http.StatusOK, 20*time.Millisecond)
	c.RecordHTTPRequest(http.MethodGet, "/api/v1/feed", http.StatusOK, 30*time.Millisecond)
	c.RecordNotificationCreated("LIKE")
	c.RecordNotificationDropped()
	c.RecordRateLimited()
	c.SetNotificationQueueDepth(7)

	feed := map[string]string{"method": http.MethodGet, "route": "/api/v1/feed"}
	assert.Equal(t, 2.0, gathered(t, reg, "nanosocial_http_requests_total", map[string]string{"route": "/api/v1/feed", "status": "200"}))
	assert.Equal(t, 2.0, gathered(t, reg, "nanosocial_http_request_duration_seconds", feed))
	assert.Equal(t, 1.0, gathered(t, reg, "nanosocial_notifications_created_total", map[string]string{"type": "LIKE"}))
	assert.Equal(t, 1.0, gathered(t, reg, "nanosocial_notifications_dropped_total", nil))
	assert.Equal(t, 0.0, gathered(t, reg, "nanosocial_notifications_failed_total", nil))
	assert.Equal(t, 7.0, gathered(t, reg, "nanosocial_notification_queue_depth", nil))
	assert.Equal(t, 1.0, gathered(t, reg, "nanosocial_rate_limited_total", nil))
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).RecordRateLimited()

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "nanosocial_rate_limited_total 1"))
}
