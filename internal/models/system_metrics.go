package models

import "metricsprobe/internal/status"

// ServiceName identifies this probe in health responses.
const ServiceName = "metrics-go"

// MetricsResponse is the payload of GET /metrics.
type MetricsResponse struct {
	CPU           float64     `json:"cpu"`
	Memory        float64     `json:"memory"`
	CPUStatus     status.Tier `json:"cpuStatus"`
	MemoryStatus  status.Tier `json:"memoryStatus"`
	CPUAverage    float64     `json:"cpuAverage"`
	MemoryAverage float64     `json:"memoryAverage"`
}

// HealthResponse is the static liveness payload of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// VersionResponse reports build metadata.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// ErrorResponse is returned on any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
