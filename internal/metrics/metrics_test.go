package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Single test function: the package holds global collector state, so the
// before-Init, Init and exposition phases must run in one fixed order.
func TestMetricsLifecycle(t *testing.T) {
	// Before Init every helper is a no-op.
	require.NotPanics(t, func() {
		ObservePage("brisbane", "in_port", "ok", 1024)
		ObserveRecords("brisbane", "in_port", "table", 12)
		ObserveReport("brisbane", 3*time.Second)
		ObservePageDelay(time.Second)
		ObserveHTTPRequest(http.MethodGet, "/api/ports", http.StatusOK, 50*time.Millisecond)
	})

	Init()
	Init() // second call must be a no-op

	ObservePage("brisbane", "in_port", "ok", 2048)
	ObservePage("gladstone", "expected_arrivals", "empty", 0)
	ObserveRecords("brisbane", "in_port", "table", 7)
	ObserveReport("brisbane", 2*time.Second)
	ObservePageDelay(500 * time.Millisecond)
	ObserveHTTPRequest(http.MethodGet, "/api/scrape-{port}-vessels", http.StatusOK, time.Second)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "portwatch_scrape_pages_total")
	require.Contains(t, body, "portwatch_scrape_records_total")
	require.Contains(t, body, "portwatch_report_duration_seconds")
	require.Contains(t, body, "portwatch_page_delay_seconds")
	require.Contains(t, body, "http_requests_total")
	require.Contains(t, body, `listing="expected_arrivals"`)
}