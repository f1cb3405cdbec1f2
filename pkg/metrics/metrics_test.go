package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRegistered(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := New("test")
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return m, reg
}

func TestCollectorRecordsBusinessMetrics(t *testing.T) {
	m, _ := newRegistered(t)
	c := NewDefaultMetricsCollector(m)

	c.RecordOptionPriced("CALL", false)
	c.RecordOptionPriced("PUT", true)
	c.RecordOptionPriced("PUT", false)
	c.RecordScenarioEvaluation(time.Millisecond)
	c.RecordSweep(9, 2*time.Millisecond)

	if got := testutil.ToFloat64(m.OptionsPricedTotal.WithLabelValues("PUT")); got != 2 {
		t.Errorf("PUT pricings = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DegeneratePricesTotal); got != 1 {
		t.Errorf("degenerate = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ScenarioEvaluationsTotal); got != 1 {
		t.Errorf("evaluations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SweepPointsTotal); got != 9 {
		t.Errorf("sweep points = %v, want 9", got)
	}
}

func TestRegisterTwiceFails(t *testing.T) {
	m, reg := newRegistered(t)
	if err := m.Register(reg); err == nil {
		t.Fatal("second Register() should fail")
	}
}

func TestHTTPServerExposesMetrics(t *testing.T) {
	m, reg := newRegistered(t)
	NewDefaultMetricsCollector(m).RecordHTTPRequest("GET", "/health", 200, time.Millisecond)

	srv := NewHTTPServer(0, "/metrics", reg)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(string(body), `hedge_test_http_requests_total{method="GET",path="/health",status="200"} 1`) {
		t.Errorf("metric missing from body:\n%s", body)
	}
}
