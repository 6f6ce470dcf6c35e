// Package telemetry reads host CPU and memory utilization.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// DefaultCPUInterval is how long a CPU sample measures utilization.
const DefaultCPUInterval = 100 * time.Millisecond

// ErrSourceUnavailable is returned when the OS metrics cannot be read.
var ErrSourceUnavailable = errors.New("metrics source unavailable")

// Source yields current host utilization percentages.
type Source interface {
	// CPUPercent blocks for the sampling interval and returns overall CPU usage.
	CPUPercent(ctx context.Context) (float64, error)
	// MemoryPercent returns the current share of physical memory in use.
	MemoryPercent(ctx context.Context) (float64, error)
}

// Reading is one CPU/memory sample pair.
type Reading struct {
	CPU       float64
	Memory    float64
	SampledAt time.Time
}

// Sample reads CPU then memory from src. Either failure aborts the sample.
func Sample(ctx context.Context, src Source) (Reading, error) {
	cpuPct, err := src.CPUPercent(ctx)
	if err != nil {
		return Reading{}, err
	}
	memPct, err := src.MemoryPercent(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{CPU: cpuPct, Memory: memPct, SampledAt: time.Now()}, nil
}

var _ Source = (*HostSource)(nil)

// HostSource samples the local host through gopsutil.
type HostSource struct {
	interval time.Duration

	// Overridable for tests.
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewHostSource returns a HostSource measuring CPU over interval. A
// non-positive interval uses DefaultCPUInterval.
func NewHostSource(interval time.Duration) *HostSource {
	if interval <= 0 {
		interval = DefaultCPUInterval
	}
	return &HostSource{
		interval:      interval,
		cpuPercent:    cpu.PercentWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
	}
}

// Interval returns the CPU measurement interval.
func (s *HostSource) Interval() time.Duration {
	return s.interval
}

func (s *HostSource) CPUPercent(ctx context.Context) (float64, error) {
	vals, err := s.cpuPercent(ctx, s.interval, false)
	if err != nil {
		return 0, fmt.Errorf("%w: cpu: %w", ErrSourceUnavailable, err)
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("%w: cpu: no samples returned", ErrSourceUnavailable)
	}
	return vals[0], nil
}

func (s *HostSource) MemoryPercent(ctx context.Context) (float64, error) {
	vm, err := s.virtualMemory(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: memory: %w", ErrSourceUnavailable, err)
	}
	if vm == nil {
		return 0, fmt.Errorf("%w: memory: empty stat", ErrSourceUnavailable)
	}
	return vm.UsedPercent, nil
}
