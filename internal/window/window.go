// Package window keeps bounded rolling windows of utilization samples.
package window

import (
	"math"
	"sync"
)

// DefaultCapacity is the number of samples each rolling window retains.
const DefaultCapacity = 10

// Window is a fixed-capacity FIFO ring of float samples. It is safe for
// concurrent use.
type Window struct {
	mu    sync.Mutex
	buf   []float64
	head  int // index of the oldest sample
	count int
}

// New returns an empty window holding at most capacity samples. A
// non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{buf: make([]float64, capacity)}
}

// Push records value as the most recent sample, evicting the oldest one
// when the window is full.
func (w *Window) Push(value float64) {
	w.mu.Lock()
	w.push(value)
	w.mu.Unlock()
}

// PushAverage records value and returns the rolling average including it,
// under a single lock so concurrent callers cannot interleave between the
// two steps.
func (w *Window) PushAverage(value float64) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.push(value)
	return w.average()
}

// Average returns the mean of the retained samples rounded to two decimals,
// or 0 when the window is empty.
func (w *Window) Average() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.average()
}

// Len returns the number of retained samples.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// Values returns a copy of the retained samples, oldest first.
func (w *Window) Values() []float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

func (w *Window) push(value float64) {
	if w.count < len(w.buf) {
		w.buf[(w.head+w.count)%len(w.buf)] = value
		w.count++
		return
	}
	w.buf[w.head] = value
	w.head = (w.head + 1) % len(w.buf)
}

func (w *Window) average() float64 {
	if w.count == 0 {
		return 0
	}
	var total float64
	for i := 0; i < w.count; i++ {
		total += w.buf[(w.head+i)%len(w.buf)]
	}
	return Round2(total / float64(w.count))
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
