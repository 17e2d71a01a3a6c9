package engine

import (
	"math"
	"time"
)

// Metric is one scored interaction turn. All score components are
// normalized to [0, 1]. Metrics are immutable once created; callers append
// them to a per-session history and feed that history back into the
// detectors.
type Metric struct {
	// Accuracy measures how close the learner's answer was to the
	// expected one.
	Accuracy float64 `json:"accuracy"`
	// Timing measures whether the answer arrived inside the expected
	// pacing window for the current difficulty.
	Timing float64 `json:"timing_score"`
	// Confidence blends accuracy with response speed and hint usage.
	Confidence float64 `json:"confidence"`
	// TakenAt is when the turn completed.
	TakenAt time.Time `json:"taken_at"`
	// HintCount is how many hints the learner used on this turn.
	HintCount int `json:"hint_count,omitempty"`
}

// lastN returns the trailing n metrics of history, or all of them if the
// history is shorter.
func lastN(history []Metric, n int) []Metric {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func mean(window []Metric, f func(Metric) float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range window {
		sum += f(m)
	}
	return sum / float64(len(window))
}

func meanAccuracy(window []Metric) float64 {
	return mean(window, func(m Metric) float64 { return m.Accuracy })
}

func meanTiming(window []Metric) float64 {
	return mean(window, func(m Metric) float64 { return m.Timing })
}

func meanConfidence(window []Metric) float64 {
	return mean(window, func(m Metric) float64 { return m.Confidence })
}

// accuracyStdDev is the population standard deviation of accuracy over the
// window.
func accuracyStdDev(window []Metric) float64 {
	if len(window) == 0 {
		return 0
	}
	avg := meanAccuracy(window)
	sum := 0.0
	for _, m := range window {
		d := m.Accuracy - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(window)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
