package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/devices", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/devices", 200, 20*time.Millisecond)
	m.ObserveRequest("DELETE", "/api/devices/:id", 404, time.Millisecond)
	m.SetDevices(3)

	body := scrape(t, m)
	assert.Contains(t, body, `devicemap_http_requests_total{method="GET",route="/api/devices",status="200"} 2`)
	assert.Contains(t, body, `devicemap_http_requests_total{method="DELETE",route="/api/devices/:id",status="404"} 1`)
	assert.Contains(t, body, `devicemap_http_request_duration_seconds_count{method="GET",route="/api/devices"} 2`)
	assert.Contains(t, body, "devicemap_devices 3")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.SetDevices(5)

	assert.Contains(t, scrape(t, a), "devicemap_devices 5")
	assert.Contains(t, scrape(t, b), "devicemap_devices 0")
}
