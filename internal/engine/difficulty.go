package engine

// Difficulty bounds. Every adjustment clamps into this range.
const (
	MinDifficulty = 0.2
	MaxDifficulty = 1.0
)

const (
	stepMajor = 0.10
	stepMinor = 0.05

	flowQualityFloor = 0.70

	lowConfidenceFloor = 0.50
	nearFlowLow        = 0.70
	nearFlowHigh       = 0.80

	emergencyAccuracyFloor   = 0.40
	emergencyAccuracyCeiling = 0.95
	emergencyConfidenceFloor = 0.30

	sessionMinSamples        = 5
	sessionFlowTargetMinutes = 10.0
	sessionAccuracyFloor     = 0.50
)

// Adjustment is a difficulty recommendation. Change is New−Previous after
// clamping; a zero Change with a reason is a deliberate "keep", never an
// error.
type Adjustment struct {
	Previous float64 `json:"previous_difficulty"`
	New      float64 `json:"new_difficulty"`
	Change   float64 `json:"change"`
	Reason   string  `json:"reason"`
}

// AdjustDifficulty recommends the next difficulty from the current value
// and the metric history. It always returns a recommendation for
// well-formed input; with fewer than three samples it keeps the current
// difficulty with reason "insufficient data".
func AdjustDifficulty(current float64, history []Metric) Adjustment {
	if len(history) < MinSamples {
		return keep(current, "insufficient data")
	}

	w := lastN(history, flowWindow)
	acc := meanAccuracy(w)
	timing := meanTiming(w)
	conf := meanConfidence(w)
	verdict := DetectFlow(history)

	// Priority-ordered decision table; first match wins.
	switch {
	case verdict.IsFlow && verdict.Quality >= flowQualityFloor:
		return keep(current, "flow maintained")
	case acc > flowAccuracyHigh && timing > flowTimingFloor:
		return shift(current, stepMajor, "too easy")
	case acc < flowAccuracyLow:
		return shift(current, -stepMajor, "accuracy low")
	case conf < lowConfidenceFloor:
		return shift(current, -stepMajor, "confidence low")
	case acc > flowAccuracyHigh:
		// High accuracy but sluggish pacing; no clear signal.
		return keep(current, "undetermined")
	case acc < nearFlowLow:
		return shift(current, -stepMinor, "accuracy trending low")
	case acc > nearFlowHigh:
		return shift(current, stepMinor, "accuracy trending high")
	default:
		return keep(current, "near flow")
	}
}

// EmergencyAdjust checks the last three samples for extreme performance and
// returns a double-strength correction, or nil when none applies. Callers
// run it before AdjustDifficulty; when it fires, it wins.
func EmergencyAdjust(current float64, history []Metric) *Adjustment {
	if len(history) < MinSamples {
		return nil
	}

	w := lastN(history, MinSamples)
	acc := meanAccuracy(w)
	conf := meanConfidence(w)

	var adj Adjustment
	switch {
	case acc < emergencyAccuracyFloor:
		adj = shift(current, -2*stepMajor, "emergency: accuracy collapsed")
	case acc > emergencyAccuracyCeiling:
		adj = shift(current, 2*stepMajor, "emergency: accuracy saturated")
	case conf < emergencyConfidenceFloor:
		adj = shift(current, -1.5*stepMajor, "emergency: confidence collapsed")
	default:
		return nil
	}
	return &adj
}

// AdjustForNextSession recommends the opening difficulty for the next
// session from a whole session's history. It ignores the per-turn table:
// sustained flow raises difficulty, a weak session lowers it.
func AdjustForNextSession(current float64, history []Metric) Adjustment {
	if len(history) < sessionMinSamples {
		return keep(current, "insufficient data")
	}

	if d := FlowDuration(history); d != nil && *d >= sessionFlowTargetMinutes {
		return shift(current, stepMajor, "sustained flow")
	}
	if meanAccuracy(history) < sessionAccuracyFloor {
		return shift(current, -stepMajor, "session accuracy low")
	}
	return keep(current, "steady session")
}

func keep(current float64, reason string) Adjustment {
	cur := clamp(current, MinDifficulty, MaxDifficulty)
	return Adjustment{Previous: cur, New: cur, Reason: reason}
}

func shift(current, delta float64, reason string) Adjustment {
	cur := clamp(current, MinDifficulty, MaxDifficulty)
	next := clamp(cur+delta, MinDifficulty, MaxDifficulty)
	return Adjustment{Previous: cur, New: next, Change: next - cur, Reason: reason}
}
