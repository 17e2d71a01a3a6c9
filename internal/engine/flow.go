package engine

import "math"

const (
	// flowWindow is how many trailing metrics the detector considers.
	flowWindow = 5
	// MinSamples is the minimum history length before any flow or
	// difficulty decision is attempted.
	MinSamples = 3

	flowAccuracyLow  = 0.60
	flowAccuracyHigh = 0.85
	// flowAccuracyPeak is the sweet spot: challenged but succeeding.
	flowAccuracyPeak = 0.75

	flowTimingFloor     = 0.70
	flowConfidenceFloor = 0.60
	flowStdDevCeiling   = 0.20

	consistencyStdDevScale = 0.30
)

// Verdict is the flow diagnosis for a metric history.
type Verdict struct {
	// IsFlow reports whether the learner is in a flow state.
	IsFlow bool `json:"is_flow"`
	// Quality grades the flow state in [0, 1].
	Quality float64 `json:"quality"`
	// Reasons holds one diagnostic line per dimension, in fixed order:
	// accuracy, timing, confidence, consistency.
	Reasons []string `json:"reasons"`
}

// DetectFlow diagnoses the learner's flow state from the last five metrics.
// Fewer than three samples is never flow.
func DetectFlow(history []Metric) Verdict {
	if len(history) < MinSamples {
		return Verdict{Reasons: []string{"not enough samples to judge flow"}}
	}

	w := lastN(history, flowWindow)
	acc := meanAccuracy(w)
	timing := meanTiming(w)
	conf := meanConfidence(w)
	sd := accuracyStdDev(w)

	quality := 0.4*accuracyScore(acc) +
		0.2*timing +
		0.2*conf +
		0.2*consistencyScore(sd)

	return Verdict{
		IsFlow:  inFlow(acc, timing, conf, sd),
		Quality: clamp(quality, 0, 1),
		Reasons: flowReasons(acc, timing, conf, sd),
	}
}

// FlowDuration scans the history with a sliding window of three for the
// longest contiguous run of flow-positive windows and returns the minutes
// between the run's first and last timestamp, or nil if no window ever
// reaches flow.
func FlowDuration(history []Metric) *float64 {
	if len(history) < MinSamples {
		return nil
	}

	bestStart, bestEnd := -1, -1
	runStart := -1
	for i := MinSamples - 1; i < len(history); i++ {
		w := history[i-MinSamples+1 : i+1]
		if !inFlow(meanAccuracy(w), meanTiming(w), meanConfidence(w), accuracyStdDev(w)) {
			runStart = -1
			continue
		}
		if runStart < 0 {
			runStart = i - MinSamples + 1
		}
		if bestStart < 0 || i-runStart > bestEnd-bestStart {
			bestStart, bestEnd = runStart, i
		}
	}
	if bestStart < 0 {
		return nil
	}

	minutes := history[bestEnd].TakenAt.Sub(history[bestStart].TakenAt).Minutes()
	return &minutes
}

func inFlow(acc, timing, conf, sd float64) bool {
	return acc >= flowAccuracyLow && acc <= flowAccuracyHigh &&
		timing >= flowTimingFloor &&
		conf >= flowConfidenceFloor &&
		sd < flowStdDevCeiling
}

// accuracyScore peaks at 1.0 when mean accuracy sits on the sweet spot and
// decays linearly to 0 at each band edge. Outside the band it stays 0.
func accuracyScore(acc float64) float64 {
	if acc <= flowAccuracyPeak {
		return math.Max(0, 1-(flowAccuracyPeak-acc)/(flowAccuracyPeak-flowAccuracyLow))
	}
	return math.Max(0, 1-(acc-flowAccuracyPeak)/(flowAccuracyHigh-flowAccuracyPeak))
}

func consistencyScore(sd float64) float64 {
	return math.Max(0, 1-sd/consistencyStdDevScale)
}

func flowReasons(acc, timing, conf, sd float64) []string {
	reasons := make([]string, 0, 4)

	switch {
	case acc < flowAccuracyLow:
		reasons = append(reasons, "accuracy below the flow band; material may be too hard")
	case acc > flowAccuracyHigh:
		reasons = append(reasons, "accuracy above the flow band; material may be too easy")
	default:
		reasons = append(reasons, "accuracy sits in the flow band")
	}

	if timing >= flowTimingFloor {
		reasons = append(reasons, "pacing is comfortable")
	} else {
		reasons = append(reasons, "pacing is off; answers arrive too fast or too slow")
	}

	if conf >= flowConfidenceFloor {
		reasons = append(reasons, "confidence is holding up")
	} else {
		reasons = append(reasons, "confidence is low")
	}

	if sd < flowStdDevCeiling {
		reasons = append(reasons, "performance is consistent")
	} else {
		reasons = append(reasons, "performance swings turn to turn")
	}

	return reasons
}
