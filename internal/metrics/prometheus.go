// Package metrics exports probe readings and HTTP traffic in the
// Prometheus text format.
package metrics

import (
	"strconv"
	"time"

	"metricsprobe/internal/models"
	"metricsprobe/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "metricsprobe"

// Exporter owns a private registry so several instances can coexist in
// tests without tripping duplicate registration.
type Exporter struct {
	registry *prometheus.Registry

	cpuPercent    prometheus.Gauge
	memoryPercent prometheus.Gauge
	cpuAverage    prometheus.Gauge
	memoryAverage prometheus.Gauge
	samples       *prometheus.CounterVec
	sampleErrors  prometheus.Counter

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_percent",
			Help:      "Most recent host CPU utilization sample",
		}),
		memoryPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_percent",
			Help:      "Most recent host memory utilization sample",
		}),
		cpuAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_average_percent",
			Help:      "Rolling average of the last 10 CPU samples",
		}),
		memoryAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_average_percent",
			Help:      "Rolling average of the last 10 memory samples",
		}),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples recorded, by metric and status tier",
		}, []string{"metric", "status"}),
		sampleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_errors_total",
			Help:      "Failed reads from the host metrics source",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_active",
			Help:      "Number of in-flight HTTP requests",
		}),
	}

	e.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		e.cpuPercent,
		e.memoryPercent,
		e.cpuAverage,
		e.memoryAverage,
		e.samples,
		e.sampleErrors,
		e.requests,
		e.requestDuration,
		e.activeRequests,
	)

	// Pre-create tier series so dashboards see zeros instead of gaps.
	for _, tier := range status.AllTiers() {
		e.samples.WithLabelValues("cpu", tier.String())
		e.samples.WithLabelValues("memory", tier.String())
	}
	return e
}

// ObserveSample records a served metrics response.
func (e *Exporter) ObserveSample(resp models.MetricsResponse) {
	e.cpuPercent.Set(resp.CPU)
	e.memoryPercent.Set(resp.Memory)
	e.cpuAverage.Set(resp.CPUAverage)
	e.memoryAverage.Set(resp.MemoryAverage)
	e.samples.WithLabelValues("cpu", resp.CPUStatus.String()).Inc()
	e.samples.WithLabelValues("memory", resp.MemoryStatus.String()).Inc()
}

// ObserveSampleError counts a failed source read.
func (e *Exporter) ObserveSampleError() {
	e.sampleErrors.Inc()
}

// Instrument records request counts and latency per route.
func (e *Exporter) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		e.activeRequests.Inc()

		c.Next()

		e.activeRequests.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		e.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		e.requests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the exposition format.
func (e *Exporter) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
