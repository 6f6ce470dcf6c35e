package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"metricsprobe/internal/models"
	"metricsprobe/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSampleSetsGauges(t *testing.T) {
	e := NewExporter()
	e.ObserveSample(models.MetricsResponse{
		CPU:           85,
		Memory:        40,
		CPUStatus:     status.Critical,
		MemoryStatus:  status.Normal,
		CPUAverage:    70.5,
		MemoryAverage: 41.25,
	})

	if got := testutil.ToFloat64(e.cpuPercent); got != 85 {
		t.Fatalf("cpu gauge = %v, want 85", got)
	}
	if got := testutil.ToFloat64(e.memoryAverage); got != 41.25 {
		t.Fatalf("memory average gauge = %v, want 41.25", got)
	}
	if got := testutil.ToFloat64(e.samples.WithLabelValues("cpu", "CRITICAL")); got != 1 {
		t.Fatalf("cpu CRITICAL samples = %v, want 1", got)
	}
	if got := testutil.ToFloat64(e.samples.WithLabelValues("cpu", "NORMAL")); got != 0 {
		t.Fatalf("cpu NORMAL samples = %v, want 0", got)
	}

	e.ObserveSampleError()
	if got := testutil.ToFloat64(e.sampleErrors); got != 1 {
		t.Fatalf("sample errors = %v, want 1", got)
	}
}

func TestInstrumentAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := NewExporter()
	r := gin.New()
	r.Use(e.Instrument())
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	r.GET("/metrics/prometheus", e.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from exposition, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`metricsprobe_http_requests_total{method="GET",path="/health",status="200"} 1`,
		"metricsprobe_cpu_percent",
		`metricsprobe_samples_total{metric="memory",status="HIGH"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}

func TestExportersAreIndependent(t *testing.T) {
	a, b := NewExporter(), NewExporter()
	a.ObserveSampleError()
	if testutil.ToFloat64(b.sampleErrors) != 0 {
		t.Fatalf("exporters must not share state")
	}
}
