package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"metricsprobe/internal/models"
	"metricsprobe/internal/status"
	"metricsprobe/internal/telemetry"
	"metricsprobe/internal/utils"
	"metricsprobe/internal/version"
	"metricsprobe/internal/window"

	"github.com/gin-gonic/gin"
)

// Broadcaster receives every served metrics payload.
type Broadcaster interface {
	Broadcast(message []byte) bool
}

// SampleObserver is notified of each sample outcome.
type SampleObserver interface {
	ObserveSample(resp models.MetricsResponse)
	ObserveSampleError()
}

type MetricsHandlers struct {
	source      telemetry.Source
	mu          sync.Mutex // orders record, observe and broadcast
	store       *window.Store
	logger      *utils.Logger
	broadcaster Broadcaster
	observer    SampleObserver
}

func NewMetricsHandlers(source telemetry.Source, store *window.Store, logger *utils.Logger) *MetricsHandlers {
	if store == nil {
		store = window.NewStore()
	}
	return &MetricsHandlers{source: source, store: store, logger: logger}
}

// SetBroadcaster attaches a live feed for metrics payloads.
func (h *MetricsHandlers) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

// SetObserver attaches a sample observer such as the Prometheus exporter.
func (h *MetricsHandlers) SetObserver(o SampleObserver) {
	h.observer = o
}

// Metrics takes one fresh sample, records it in the rolling windows and
// returns current values, tiers and averages.
func (h *MetricsHandlers) Metrics(c *gin.Context) {
	ctx := c.Request.Context()
	reading, err := telemetry.Sample(ctx, h.source)
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			// Client went away mid-sample; nothing was recorded.
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		h.logger.Writef("Metrics sample failed: %v", err)
		if h.observer != nil {
			h.observer.ObserveSampleError()
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: telemetry.ErrSourceUnavailable.Error()})
		return
	}

	h.mu.Lock()
	resp := BuildMetricsResponse(reading, h.store)
	if h.observer != nil {
		h.observer.ObserveSample(resp)
	}
	if h.broadcaster != nil {
		if payload, err := json.Marshal(resp); err == nil {
			h.broadcaster.Broadcast(payload)
		}
	}
	h.mu.Unlock()

	c.JSON(http.StatusOK, resp)
}

// BuildMetricsResponse records reading in store and assembles the payload.
// Raw values go into the windows; only the reported figures are rounded.
func BuildMetricsResponse(reading telemetry.Reading, store *window.Store) models.MetricsResponse {
	avg := store.Record(reading.CPU, reading.Memory)
	return models.MetricsResponse{
		CPU:           window.Round2(reading.CPU),
		Memory:        window.Round2(reading.Memory),
		CPUStatus:     status.ClassifyCPU(reading.CPU),
		MemoryStatus:  status.ClassifyMemory(reading.Memory),
		CPUAverage:    avg.CPU,
		MemoryAverage: avg.Memory,
	}
}

// Health is a static liveness check.
func (h *MetricsHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy", Service: models.ServiceName})
}

func (h *MetricsHandlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, models.VersionResponse{
		Version: version.String(),
		Commit:  version.Commit,
		Date:    version.Date,
	})
}
