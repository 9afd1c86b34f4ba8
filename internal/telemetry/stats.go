// Package telemetry keeps a bounded rolling window of recent altitude
// samples and reports descriptive statistics over it — a supplemental
// feature beyond the core control loop, useful for ground-station
// summaries and the status CLI.
package telemetry

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// RollingWindow holds the last N samples of a single float64 series.
type RollingWindow struct {
	capacity int
	samples  []float64
}

// NewRollingWindow constructs an empty window holding at most capacity
// samples.
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &RollingWindow{capacity: capacity}
}

// Push appends a sample, evicting the oldest one once the window is full.
func (w *RollingWindow) Push(v float64) {
	w.samples = append(w.samples, v)
	if len(w.samples) > w.capacity {
		w.samples = w.samples[len(w.samples)-w.capacity:]
	}
}

// Len reports the number of samples currently held.
func (w *RollingWindow) Len() int { return len(w.samples) }

// Summary is a snapshot of descriptive statistics over the current window.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes mean, population standard deviation, min, and max
// over the current window. Returns an error if the window is empty.
func (w *RollingWindow) Summarize() (Summary, error) {
	if len(w.samples) == 0 {
		return Summary{}, fmt.Errorf("telemetry: rolling window is empty")
	}
	mean, err := stats.Mean(w.samples)
	if err != nil {
		return Summary{}, fmt.Errorf("telemetry: compute mean: %w", err)
	}
	sd, err := stats.StandardDeviation(w.samples)
	if err != nil {
		return Summary{}, fmt.Errorf("telemetry: compute stddev: %w", err)
	}
	min, err := stats.Min(w.samples)
	if err != nil {
		return Summary{}, fmt.Errorf("telemetry: compute min: %w", err)
	}
	max, err := stats.Max(w.samples)
	if err != nil {
		return Summary{}, fmt.Errorf("telemetry: compute max: %w", err)
	}
	return Summary{Mean: mean, StdDev: sd, Min: min, Max: max}, nil
}
