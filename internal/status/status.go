// Package status classifies utilization percentages into severity tiers.
package status

// Tier is a severity classification derived from a utilization percentage.
type Tier string

const (
	Normal   Tier = "NORMAL"
	High     Tier = "HIGH"
	Critical Tier = "CRITICAL"
)

// Thresholds are fixed; a value equal to a High bound is HIGH, and only a
// value strictly above a Critical bound is CRITICAL.
const (
	CPUHighThreshold        = 60.0
	CPUCriticalThreshold    = 80.0
	MemoryHighThreshold     = 70.0
	MemoryCriticalThreshold = 85.0
)

// AllTiers returns every tier ordered from least to most severe.
func AllTiers() []Tier {
	return []Tier{Normal, High, Critical}
}

func (t Tier) String() string {
	return string(t)
}

// ClassifyCPU maps a CPU utilization percentage to a tier.
func ClassifyCPU(percent float64) Tier {
	return classify(percent, CPUHighThreshold, CPUCriticalThreshold)
}

// ClassifyMemory maps a memory utilization percentage to a tier.
func ClassifyMemory(percent float64) Tier {
	return classify(percent, MemoryHighThreshold, MemoryCriticalThreshold)
}

func classify(percent, high, critical float64) Tier {
	if percent > critical {
		return Critical
	}
	if percent >= high {
		return High
	}
	return Normal
}
